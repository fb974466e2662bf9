package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func scenarioCard() types.Card {
	return types.Card{ID: "3f2a9c1e", Machine: "M12", Set: types.SetMittelsatz, Operator: "Jan"}
}

func TestLayoutCard_Scenario(t *testing.T) {
	lines := []types.Line{{Code: "A1", Diameter: 2.5}, {Code: "A2", Diameter: 3.1}}
	l, err := LayoutCard(scenarioCard(), lines, "LEONI Draht GmbH", "2024-03-05")
	require.NoError(t, err)

	require.Len(t, l.Header, 4)
	require.Len(t, l.Rows, 2)
	assert.Equal(t, []string{"A1", "2.5000", "ND", "ND"}, rowTexts(l.Rows[0]))
	assert.Equal(t, []string{"A2", "3.1000", "ND", "ND"}, rowTexts(l.Rows[1]))

	operator := fieldByLabel(t, l, "Bearbeiter")
	assert.Equal(t, "Jan", operator.Value.Text)
	assert.True(t, operator.Value.Bold)

	machine := fieldByLabel(t, l, "Maschine")
	assert.Equal(t, "M12", machine.Value.Text)
	assert.True(t, machine.Value.Bold)

	number := fieldByLabel(t, l, "Satzkartennummer")
	assert.Equal(t, "3f2a9c1e", number.Value.Text)
	assert.True(t, number.Value.Bold)

	assert.False(t, fieldByLabel(t, l, "Vorlage").Value.Bold)

	assert.Equal(t, "3f2a9c1e", l.BarcodeData)
	assert.Equal(t, "3f2a9c1e", l.BarcodeText.Text)

	require.NotNil(t, l.Annotation)
	assert.Equal(t, "Mittelsatz / 2", l.Annotation.Text)
	assert.Equal(t, "R", l.Annotation.Align)
}

func TestLayoutCard_TableGeometry(t *testing.T) {
	lines := []types.Line{
		{Code: "A1", Diameter: 0.5089},
		{Code: "", Diameter: 0},
		{Code: "A3", Diameter: 0.12345678},
	}
	l, err := LayoutCard(scenarioCard(), lines, "Org", "2024-03-05")
	require.NoError(t, err)

	x := TableX
	for i, h := range l.Header {
		assert.Equal(t, TableHeaders[i], h.Text)
		assert.Equal(t, x, h.X)
		assert.Equal(t, TableY, h.Y)
		assert.Equal(t, TableColumnWidths[i], h.W)
		assert.Equal(t, headerFill, h.Fill)
		assert.True(t, h.Bold)
		x += h.W
	}

	require.Len(t, l.Rows, len(lines))
	for i, row := range l.Rows {
		wantFill := zebraEvenFill
		if i%2 == 1 {
			wantFill = zebraOddFill
		}
		for c, cell := range row {
			assert.Equal(t, TableY+RowHeight*float64(i+1), cell.Y, "row %d", i)
			assert.Equal(t, TableColumnWidths[c], cell.W)
			assert.Equal(t, wantFill, cell.Fill, "row %d zebra", i)
		}
	}

	assert.Equal(t, "", l.Rows[1][0].Text, "missing code stays blank")
	assert.Equal(t, "0.0000", l.Rows[1][1].Text)
	assert.Equal(t, "0.1235", l.Rows[2][1].Text)
}

func TestLayoutCard_RightColumn(t *testing.T) {
	card := scenarioCard()
	card.StoneType = "PKD"
	l, err := LayoutCard(card, nil, "Org", "2024-03-05")
	require.NoError(t, err)

	require.Len(t, l.Fields, 11)
	y := FieldY
	for _, f := range l.Fields {
		require.Len(t, f.Label, 2)
		assert.Equal(t, "LRT", f.Label[0].Border)
		assert.Equal(t, "LRB", f.Label[1].Border)
		for _, c := range f.Label {
			assert.Equal(t, FieldX, c.X)
			assert.Equal(t, y, c.Y)
			assert.Equal(t, FieldWidth, c.W)
			y += FieldLineHeight
		}
		assert.Equal(t, y, f.Value.Y)
		assert.Equal(t, "1", f.Value.Border)
		y += FieldValueH
	}
	assert.LessOrEqual(t, y, BarcodeY, "right column must end above the barcode")

	assert.Equal(t, "PKD", fieldByLabel(t, l, "Steintyp").Value.Text)
	assert.Equal(t, "Mittelsatz", fieldByLabel(t, l, "Satz").Value.Text)
	assert.Equal(t, "Set card number", fieldByLabel(t, l, "Satzkartennummer").Label[1].Text)
}

func TestLayoutCard_EmptyLinesRoundTrip(t *testing.T) {
	l, err := LayoutCard(scenarioCard(), nil, "Org", "2024-03-05")
	require.NoError(t, err)

	assert.Empty(t, l.Rows)
	assert.Len(t, l.Header, 4)
	assert.Equal(t, "3f2a9c1e", fieldByLabel(t, l, "Satzkartennummer").Value.Text)
	assert.Equal(t, "3f2a9c1e", l.BarcodeData)
	assert.Equal(t, "Mittelsatz / 0", l.Annotation.Text)
}

func TestLayoutCard_FooterAndAnnotation(t *testing.T) {
	card := scenarioCard()
	card.Set = 0
	l, err := LayoutCard(card, nil, "LEONI Draht GmbH", "2024-03-05")
	require.NoError(t, err)

	assert.Nil(t, l.Annotation, "no annotation without a known set")
	require.Len(t, l.Footer, 2)
	assert.Equal(t, "LEONI Draht GmbH", l.Footer[0].Text)
	assert.Equal(t, "2024-03-05", l.Footer[1].Text)
	for _, c := range l.Footer {
		assert.Equal(t, "C", c.Align)
		assert.Equal(t, FooterX, c.X)
	}
}

func TestLayoutCard_Deterministic(t *testing.T) {
	lines := []types.Line{{Code: "A1", Diameter: 2.5}}
	a, err := LayoutCard(scenarioCard(), lines, "Org", "2024-03-05")
	require.NoError(t, err)
	b, err := LayoutCard(scenarioCard(), lines, "Org", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLayoutCard_Overflow(t *testing.T) {
	assert.Equal(t, 27, MaxRows())

	lines := make([]types.Line, MaxRows())
	_, err := LayoutCard(scenarioCard(), lines, "Org", "2024-03-05")
	require.NoError(t, err)

	lines = append(lines, types.Line{Code: "one too many"})
	_, err = LayoutCard(scenarioCard(), lines, "Org", "2024-03-05")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTableOverflow)
	assert.True(t, types.IsRenderError(err))
}

func TestLayoutCard_BadIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "empty", id: "", wantErr: types.ErrEmptyCardID},
		{name: "non ascii", id: "Größe", wantErr: types.ErrBarcodeEncode},
		{name: "control character", id: "ab\tcd", wantErr: types.ErrBarcodeEncode},
		{name: "too long for the barcode area", id: strings.Repeat("X", 40), wantErr: types.ErrBarcodeTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := scenarioCard()
			card.ID = tt.id
			_, err := LayoutCard(card, nil, "Org", "2024-03-05")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, types.IsRenderError(err))
		})
	}
}

func TestLayoutLabel(t *testing.T) {
	l, err := LayoutLabel("Grundsatz", 10, "3f2a9c1e")
	require.NoError(t, err)

	assert.Equal(t, Box{X: 44, Y: 92.5, W: 60, H: 25}, l.Frame)
	assert.Equal(t, labelFill, l.Fill)
	require.Len(t, l.Lines, 2)
	assert.Equal(t, "Grundsatz / 10", l.Lines[0].Text)
	assert.True(t, l.Lines[0].Bold)
	assert.Equal(t, "3f2a9c1e", l.Lines[1].Text)
	for _, c := range l.Lines {
		assert.Equal(t, "C", c.Align)
		assert.GreaterOrEqual(t, c.Y, l.Frame.Y)
		assert.LessOrEqual(t, c.Y+c.H, l.Frame.Y+l.Frame.H)
	}

	_, err = LayoutLabel("Grundsatz", 1, "")
	assert.ErrorIs(t, err, types.ErrEmptyCardID)
}

func rowTexts(row []Cell) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, c.Text)
	}
	return out
}

func fieldByLabel(t *testing.T, l *CardLayout, first string) Field {
	t.Helper()
	for _, f := range l.Fields {
		if len(f.Label) > 0 && f.Label[0].Text == first {
			return f
		}
	}
	t.Fatalf("no field labeled %q", first)
	return Field{}
}
