package barcode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandstand/bandstand/internal/models"
)

type failingRenderer struct{}

func (failingRenderer) Render(string) ([]byte, error) {
	return nil, errors.New("printer on fire")
}

func TestLabels_PreservesOrderAndCodes(t *testing.T) {
	items := models.SampleSnapshot().Items
	labels := Labels(items)

	require.Len(t, labels, len(items))
	for i, l := range labels {
		assert.Equal(t, items[i].Barcode, l.Code)
		assert.Equal(t, items[i].Name, l.Name)
	}
}

func TestSheet_TextRenderer(t *testing.T) {
	items := []models.InventoryItem{
		{Name: "Trumpet", Brand: "Bach", Model: "TR200", Barcode: "TR001"},
	}
	sheet, err := Sheet(TextRenderer{}, items)
	require.NoError(t, err)
	assert.Equal(t, "Trumpet (Bach TR200)\n*TR001*\n", string(sheet))
}

func TestSheet_RendererFailure(t *testing.T) {
	items := []models.InventoryItem{{Name: "Trumpet", Barcode: "TR001"}}
	_, err := Sheet(failingRenderer{}, items)
	assert.ErrorContains(t, err, "TR001")
}
