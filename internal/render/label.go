package render

import (
	"bytes"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Label geometry: a 60×25 mm box centered on the page.
const (
	LabelW = 60.0
	LabelH = 25.0
	LabelX = (PageWidth - LabelW) / 2
	LabelY = (PageHeight - LabelH) / 2
)

// LabelLayout is the positioned content of an adhesive label.
type LabelLayout struct {
	Frame Box
	Fill  int
	Lines []Cell
}

// LayoutLabel positions the label box and its two text lines.
func LayoutLabel(setName string, stoneCount int, cardID string) (*LabelLayout, error) {
	if cardID == "" {
		return nil, &types.RenderError{Part: "label", Err: types.ErrEmptyCardID}
	}
	return &LabelLayout{
		Frame: Box{X: LabelX, Y: LabelY, W: LabelW, H: LabelH},
		Fill:  labelFill,
		Lines: []Cell{
			{X: LabelX, Y: LabelY + 4, W: LabelW, H: 8, Text: SetAnnotation(setName, stoneCount), Bold: true, Size: 12, Align: "C", Fill: noFill},
			{X: LabelX, Y: LabelY + 12, W: LabelW, H: 8, Text: cardID, Size: 10, Align: "C", Fill: noFill},
		},
	}, nil
}

// RenderLabel produces the label PDF: one shaded, bordered box with the set
// annotation and the raw card identifier. The label carries no barcode.
func (r *Renderer) RenderLabel(setName string, stoneCount int, cardID string) ([]byte, error) {
	l, err := LayoutLabel(setName, stoneCount, cardID)
	if err != nil {
		return nil, err
	}

	pdf := r.newDocument()
	pdf.SetFillColor(l.Fill, l.Fill, l.Fill)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(l.Frame.X, l.Frame.Y, l.Frame.W, l.Frame.H, "DF")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, c := range l.Lines {
		drawCell(pdf, tr, c)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &types.RenderError{Part: "label", Err: err}
	}
	return buf.Bytes(), nil
}
