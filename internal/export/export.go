// Package export writes stored cards and their stones as xlsx workbooks,
// either one row per stone or transposed so each stone becomes a column.
package export

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// SheetName is the single worksheet every export writes.
const SheetName = "Karta"

// FieldHeader heads the label column of a transposed export.
const FieldHeader = "Field"

// Columns is the flat projection, in order.
var Columns = []string{"satznummer", "machine", "zestaw", "operator", "data", "code", "diameter", "status"}

// Source is the read side of the record store the exporter needs.
type Source interface {
	ExportRows(ctx context.Context, f types.Filter) ([]types.ExportRow, error)
	ExportCardRows(ctx context.Context, cardID string) ([]types.ExportRow, error)
	GetCard(ctx context.Context, id string) (*types.Card, error)
}

// Exporter turns store rows into workbook bytes.
type Exporter struct {
	src Source
}

// New creates an Exporter reading from src.
func New(src Source) *Exporter {
	return &Exporter{src: src}
}

// ExportRows writes every (card, stone) pair matching f, one per row, with
// a header row and an auto filter over the data.
func (e *Exporter) ExportRows(ctx context.Context, f types.Filter) ([]byte, error) {
	rows, err := e.src.ExportRows(ctx, f)
	if err != nil {
		return nil, err
	}
	return Write(Table(rows))
}

// ExportTransposed writes the stones of one card with fields as rows and
// one value column per stone. Returns types.ErrNotFound when no card has
// exactly that id.
func (e *Exporter) ExportTransposed(ctx context.Context, cardID string) ([]byte, error) {
	if _, err := e.src.GetCard(ctx, cardID); err != nil {
		return nil, err
	}
	rows, err := e.src.ExportCardRows(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return Write(Transpose(Table(rows)))
}

// Grid is a header row plus data rows. Cells are string or float64.
type Grid struct {
	Header []string
	Rows   [][]any
}

// Table projects joined rows onto Columns.
func Table(rows []types.ExportRow) Grid {
	g := Grid{Header: append([]string(nil), Columns...)}
	for _, r := range rows {
		set := ""
		if r.Set.Valid() {
			set = r.Set.Selector()
		}
		g.Rows = append(g.Rows, []any{
			r.CardID, r.Machine, set, r.Operator, r.CreatedAt, r.Code, r.Diameter, r.Status,
		})
	}
	return g
}

// Transpose turns columns into rows. The result starts with a FieldHeader
// column holding the original header, followed by one column per original
// row headed "1".."n".
func Transpose(g Grid) Grid {
	out := Grid{Header: []string{FieldHeader}}
	for i := range g.Rows {
		out.Header = append(out.Header, strconv.Itoa(i+1))
	}
	for c, name := range g.Header {
		row := make([]any, 0, len(g.Rows)+1)
		row = append(row, name)
		for _, r := range g.Rows {
			row = append(row, r[c])
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Display is the text a cell renders as; column widths are measured on it.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return fmt.Sprintf("%.4f", x)
	default:
		return fmt.Sprint(x)
	}
}

// Widths returns, per column, the rune length of the longest rendered value
// (header included) plus two.
func Widths(g Grid) []float64 {
	longest := make([]int, len(g.Header))
	for c, h := range g.Header {
		longest[c] = utf8.RuneCountInString(h)
	}
	for _, row := range g.Rows {
		for c, v := range row {
			if c >= len(longest) {
				break
			}
			if n := utf8.RuneCountInString(Display(v)); n > longest[c] {
				longest[c] = n
			}
		}
	}
	widths := make([]float64, len(longest))
	for c, n := range longest {
		widths[c] = float64(n + 2)
	}
	return widths
}

// Write renders g into a single-sheet workbook.
func Write(g Grid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for c, h := range g.Header {
		if err := setCell(f, c+1, 1, h); err != nil {
			return nil, err
		}
	}
	for r, row := range g.Rows {
		for c, v := range row {
			if err := setCell(f, c+1, r+2, v); err != nil {
				return nil, err
			}
		}
	}

	for c, w := range Widths(g) {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if len(g.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(g.Header), len(g.Rows)+1)
		if err != nil {
			return nil, err
		}
		if err := f.AutoFilter(SheetName, "A1:"+last, nil); err != nil {
			return nil, fmt.Errorf("adding auto filter: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("writing %s: %w", cell, err)
	}
	return nil
}
