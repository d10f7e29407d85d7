// Package export renders the current dataset as CSV for spreadsheets and
// printing. Field presence is guaranteed: optional fields come out as
// empty strings, never dropped columns.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bandstand/bandstand/internal/models"
)

// WriteItemsCSV writes the item list with a header row.
func WriteItemsCSV(w io.Writer, items []models.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Category", "Brand", "Model", "Barcode", "Condition", "Status", "Location", "Value"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, item := range items {
		row := []string{
			item.Name,
			string(item.Category),
			item.Brand,
			item.Model,
			item.Barcode,
			string(item.Condition),
			string(item.Status),
			item.Location,
			strconv.FormatFloat(item.Value, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing item row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStudentsCSV writes the student list with a header row.
func WriteStudentsCSV(w io.Writer, students []models.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Grade", "Email", "Phone"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, st := range students {
		if err := cw.Write([]string{st.Name, st.Grade, st.Email, st.Phone}); err != nil {
			return fmt.Errorf("writing student row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRentalsCSV writes the rental list with a header row, using the
// names captured at rental creation time.
func WriteRentalsCSV(w io.Writer, rentals []models.RentalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Student", "Item", "Start Date", "End Date", "Status"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rentals {
		if err := cw.Write([]string{r.StudentName, r.ItemName, r.StartDate, r.EndDate, string(r.Status)}); err != nil {
			return fmt.Errorf("writing rental row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
