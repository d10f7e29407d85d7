// Package barcode assembles printable label sheets for inventory items.
// Drawing the CODE128 symbology itself is delegated to an external
// renderer behind the Renderer interface: barcode string in, rendered
// artifact out. This package only guarantees that every label carries the
// item's non-empty, unique barcode.
package barcode

import (
	"bytes"
	"fmt"

	"github.com/bandstand/bandstand/internal/models"
)

// Renderer turns a barcode string into a rendered symbol.
type Renderer interface {
	Render(code string) ([]byte, error)
}

// Label is one entry on a label sheet.
type Label struct {
	Name  string
	Brand string
	Model string
	Code  string
}

// Labels maps the item list to label entries in listing order.
func Labels(items []models.InventoryItem) []Label {
	labels := make([]Label, 0, len(items))
	for _, item := range items {
		labels = append(labels, Label{
			Name:  item.Name,
			Brand: item.Brand,
			Model: item.Model,
			Code:  item.Barcode,
		})
	}
	return labels
}

// Sheet renders every item's label through r and concatenates them with
// caption lines.
func Sheet(r Renderer, items []models.InventoryItem) ([]byte, error) {
	var buf bytes.Buffer
	for _, l := range Labels(items) {
		sym, err := r.Render(l.Code)
		if err != nil {
			return nil, fmt.Errorf("rendering barcode %q: %w", l.Code, err)
		}
		fmt.Fprintf(&buf, "%s (%s %s)\n", l.Name, l.Brand, l.Model)
		buf.Write(sym)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// TextRenderer is a plain-text stand-in for a real symbology renderer,
// usable in terminals and tests.
type TextRenderer struct{}

// Render returns the code wrapped in the conventional start/stop asterisks.
func (TextRenderer) Render(code string) ([]byte, error) {
	return []byte("*" + code + "*"), nil
}
