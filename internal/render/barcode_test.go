package render

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func TestCheckBarcodeText(t *testing.T) {
	assert.NoError(t, checkBarcodeText("3f2a9c1e"))
	assert.NoError(t, checkBarcodeText("SATZ 01-ab"))

	err := checkBarcodeText("")
	assert.ErrorIs(t, err, types.ErrEmptyCardID)

	err = checkBarcodeText("Satzé")
	assert.ErrorIs(t, err, types.ErrBarcodeEncode)

	err = checkBarcodeText(strings.Repeat("9Z", 30))
	assert.ErrorIs(t, err, types.ErrBarcodeTooLong)
}

func TestBarcodeModules_GrowsWithText(t *testing.T) {
	short, err := BarcodeModules("ab")
	require.NoError(t, err)
	long, err := BarcodeModules("abcdefgh")
	require.NoError(t, err)
	assert.Greater(t, long, short)
	assert.LessOrEqual(t, float64(long)*minModuleSize, BarcodeW, "an 8 character id fits the barcode area")
}

func TestBarcodePNG(t *testing.T) {
	data, err := barcodePNG("3f2a9c1e")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	modules, err := BarcodeModules("3f2a9c1e")
	require.NoError(t, err)
	assert.Equal(t, modules*modulePixels, img.Bounds().Dx())
	assert.Equal(t, barcodePixels, img.Bounds().Dy())
	_, ok := img.(*image.Gray)
	assert.True(t, ok, "barcode image is 8-bit gray, got %T", img)
}
