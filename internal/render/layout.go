package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Page geometry in millimeters (A5 portrait).
const (
	PageWidth  = 148.0
	PageHeight = 210.0
)

// Left table geometry.
const (
	TableX      = 5.0
	TableY      = 20.0
	RowHeight   = 6.0
	TableBottom = 190.0
	tableFont   = 8.0
)

// TableColumnWidths are the widths of the code, diameter, info and type
// columns.
var TableColumnWidths = [4]float64{28, 28, 18, 18}

// TableHeaders are the left table column titles.
var TableHeaders = [4]string{"Drawing die", "Durchmesser", "Info", "Typ"}

// Right column geometry.
const (
	FieldX          = 98.0
	FieldY          = 20.0
	FieldWidth      = 45.0
	FieldLineHeight = 4.0
	FieldValueH     = 5.0
	fieldLabelFont  = 7.0
	fieldValueFont  = 8.0
)

// Barcode and footer geometry.
const (
	BarcodeX      = 110.0
	BarcodeY      = 172.0
	BarcodeW      = 35.0
	BarcodeH      = 10.0
	BarcodeTextY  = 183.0
	FooterX       = 40.0
	FooterW       = 40.0
	FooterOrgY    = 195.0
	FooterDateY   = 200.0
	LogoX         = 15.0
	LogoY         = 200.0
	LogoW         = 25.0
	minModuleSize = 0.15
)

// Gray levels used as fills.
const (
	noFill        = -1
	headerFill    = 200
	zebraEvenFill = 245
	zebraOddFill  = 255
	labelFill     = 230
)

// Cell is one positioned text box. Border uses the fpdf border letters
// ("1" full frame, or any of "LTRB").
type Cell struct {
	X, Y, W, H float64
	Text       string
	Bold       bool
	Size       float64
	Align      string
	Border     string
	Fill       int
}

// Box is a positioned rectangle without text.
type Box struct {
	X, Y, W, H float64
}

// Field is one labeled box of the right column.
type Field struct {
	Label []Cell
	Value Cell
}

// CardLayout is the complete, positioned content of a card page.
type CardLayout struct {
	Title       Cell
	Annotation  *Cell
	Header      []Cell
	Rows        [][]Cell
	Fields      []Field
	Footer      []Cell
	Barcode     Box
	BarcodeText Cell
	BarcodeData string
}

// cardField describes a right-column entry before positioning.
type cardField struct {
	label string
	value string
	bold  bool
}

// FormatDiameter renders a diameter the way the card prints it.
func FormatDiameter(d float64) string {
	return fmt.Sprintf("%.4f", d)
}

// SetAnnotation is the "{set} / {count}" text of the card corner and label.
func SetAnnotation(setName string, stoneCount int) string {
	return fmt.Sprintf("%s / %d", setName, stoneCount)
}

// LayoutCard positions every element of the card. date is the footer date
// text and organization the footer stamp.
func LayoutCard(card types.Card, lines []types.Line, organization, date string) (*CardLayout, error) {
	if err := checkBarcodeText(card.ID); err != nil {
		return nil, &types.RenderError{Part: "barcode", Err: err}
	}
	if TableY+RowHeight*float64(len(lines)+1) > TableBottom {
		return nil, &types.RenderError{
			Part: "table",
			Err:  fmt.Errorf("%w: %d rows, at most %d", types.ErrTableOverflow, len(lines), MaxRows()),
		}
	}

	stoneType := card.StoneType
	if strings.TrimSpace(stoneType) == "" {
		stoneType = types.DefaultStoneType
	}

	l := &CardLayout{
		Title: Cell{X: 10, Y: 8, W: PageWidth - 20, H: 10, Text: "SATZ-KARTE", Bold: true, Size: 14, Align: "C", Fill: noFill},
	}

	if name := card.SetName(); name != "" {
		l.Annotation = &Cell{
			X: FieldX, Y: 8, W: FieldWidth, H: 5,
			Text: SetAnnotation(name, types.StoneCount(lines)),
			Bold: true, Size: 9, Align: "R", Fill: noFill,
		}
	}

	x := TableX
	for i, h := range TableHeaders {
		l.Header = append(l.Header, Cell{
			X: x, Y: TableY, W: TableColumnWidths[i], H: RowHeight,
			Text: h, Bold: true, Size: tableFont, Align: "C", Border: "1", Fill: headerFill,
		})
		x += TableColumnWidths[i]
	}

	for i, line := range lines {
		fill := zebraEvenFill
		if i%2 == 1 {
			fill = zebraOddFill
		}
		y := TableY + RowHeight*float64(i+1)
		texts := [4]string{strings.TrimSpace(line.Code), FormatDiameter(line.Diameter), stoneType, stoneType}
		aligns := [4]string{"L", "C", "C", "C"}

		row := make([]Cell, 0, 4)
		x := TableX
		for c := range texts {
			row = append(row, Cell{
				X: x, Y: y, W: TableColumnWidths[c], H: RowHeight,
				Text: texts[c], Size: tableFont, Align: aligns[c], Border: "1", Fill: fill,
			})
			x += TableColumnWidths[c]
		}
		l.Rows = append(l.Rows, row)
	}

	y := FieldY
	for _, f := range cardFields(card, stoneType) {
		parts := strings.Split(f.label, "\n")
		field := Field{}
		for i, p := range parts {
			border := "LR"
			if i == 0 {
				border += "T"
			}
			if i == len(parts)-1 {
				border += "B"
			}
			field.Label = append(field.Label, Cell{
				X: FieldX, Y: y, W: FieldWidth, H: FieldLineHeight,
				Text: p, Size: fieldLabelFont, Align: "L", Border: border, Fill: noFill,
			})
			y += FieldLineHeight
		}
		field.Value = Cell{
			X: FieldX, Y: y, W: FieldWidth, H: FieldValueH,
			Text: f.value, Bold: f.bold, Size: fieldValueFont, Align: "L", Border: "1", Fill: noFill,
		}
		y += FieldValueH
		l.Fields = append(l.Fields, field)
	}

	l.Footer = []Cell{
		{X: FooterX, Y: FooterOrgY, W: FooterW, H: 5, Text: organization, Size: 8, Align: "C", Fill: noFill},
		{X: FooterX, Y: FooterDateY, W: FooterW, H: 5, Text: date, Size: 8, Align: "C", Fill: noFill},
	}

	l.Barcode = Box{X: BarcodeX, Y: BarcodeY, W: BarcodeW, H: BarcodeH}
	l.BarcodeData = card.ID
	l.BarcodeText = Cell{X: BarcodeX, Y: BarcodeTextY, W: BarcodeW, H: 5, Text: card.ID, Size: 7, Align: "C", Fill: noFill}

	return l, nil
}

// MaxRows is the number of line items that fit in the left table.
func MaxRows() int {
	return int(math.Floor((TableBottom-TableY)/RowHeight)) - 1
}

// cardFields lists the right column, German label over English label.
func cardFields(card types.Card, stoneType string) []cardField {
	return []cardField{
		{label: "Satzkartennummer\nSet card number", value: card.ID, bold: true},
		{label: "Satz\nSet", value: card.SetName()},
		{label: "Vorlage\nTemplate", value: "1"},
		{label: "Bearbeiter\nOperator", value: card.Operator, bold: true},
		{label: "Maschine\nMachine", value: card.Machine, bold: true},
		{label: "Steintyp\nStone type", value: stoneType},
		{label: "Laufzeit In\nRuntime In"},
		{label: "Laufzeit Out\nRuntime Out"},
		{label: "Luftroll\nAir roll"},
		{label: "Summe\nTotal"},
		{label: "Materialmenge (kg)\nMaterial weight"},
	}
}
