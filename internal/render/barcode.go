package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Pixel size of one barcode module and bar height in the embedded image.
const (
	modulePixels  = 4
	barcodePixels = 120
)

// checkBarcodeText rejects identifiers Code 128 cannot carry (anything
// outside printable ASCII) and identifiers whose symbol would need modules
// thinner than minModuleSize to fit the barcode area.
func checkBarcodeText(text string) error {
	if text == "" {
		return types.ErrEmptyCardID
	}
	for _, r := range text {
		if r < 0x20 || r > 0x7e {
			return fmt.Errorf("%w: character %q", types.ErrBarcodeEncode, r)
		}
	}
	bc, err := code128.Encode(text)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrBarcodeEncode, err)
	}
	modules := bc.Bounds().Dx()
	if BarcodeW/float64(modules) < minModuleSize {
		return fmt.Errorf("%w: %d modules in %.0f mm", types.ErrBarcodeTooLong, modules, BarcodeW)
	}
	return nil
}

// BarcodeModules returns the width of the Code 128 symbol for text, in
// modules.
func BarcodeModules(text string) (int, error) {
	bc, err := code128.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrBarcodeEncode, err)
	}
	return bc.Bounds().Dx(), nil
}

// barcodePNG encodes text as a Code 128 symbol and returns it as 8-bit
// grayscale PNG bytes scaled to whole pixels per module.
func barcodePNG(text string) ([]byte, error) {
	bc, err := code128.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBarcodeEncode, err)
	}
	scaled, err := barcode.Scale(bc, bc.Bounds().Dx()*modulePixels, barcodePixels)
	if err != nil {
		return nil, fmt.Errorf("scaling barcode: %w", err)
	}
	// The symbol reports a 16-bit gray model, which PDF embedding rejects.
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encoding barcode image: %w", err)
	}
	return buf.Bytes(), nil
}
