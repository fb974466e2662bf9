// Package render lays out and draws the printable set card and the adhesive
// label as PDF documents.
//
// Layout is computed first into plain structs (CardLayout, LabelLayout) so
// positions, widths and number formatting can be checked without parsing
// PDF; drawing then only replays the layout onto an fpdf page.
package render

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// DefaultOrganization is the footer stamp when none is configured.
const DefaultOrganization = "LEONI Draht GmbH"

// logoNames are looked up in AssetDir, first match wins.
var logoNames = []string{"logo.jpg", "logo.jpeg", "logo.png"}

// Options configures a Renderer.
type Options struct {
	// AssetDir is searched for the organization logo. Empty disables it.
	AssetDir string
	// Organization is printed in the footer.
	Organization string
	// Now supplies the footer date and document timestamps.
	Now func() time.Time
	// Uncompressed writes plain content streams, which keeps text searchable.
	Uncompressed bool
	Logger       *zap.Logger
}

// Renderer produces card and label PDFs. It holds no per-document state and
// is safe for concurrent use.
type Renderer struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Renderer, filling unset options with defaults.
func New(opts Options) *Renderer {
	if opts.Organization == "" {
		opts.Organization = DefaultOrganization
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{opts: opts, logger: logger}
}

// LayoutCard computes the card layout with the renderer's organization and
// today's date.
func (r *Renderer) LayoutCard(card types.Card, lines []types.Line) (*CardLayout, error) {
	return LayoutCard(card, lines, r.opts.Organization, r.opts.Now().Format(types.DateLayout))
}

// RenderCard produces the card PDF for card and its lines, in the given
// order. Any layout or encoding failure is returned as a *types.RenderError.
func (r *Renderer) RenderCard(card types.Card, lines []types.Line) ([]byte, error) {
	l, err := r.LayoutCard(card, lines)
	if err != nil {
		return nil, err
	}

	pdf := r.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawCell(pdf, tr, l.Title)
	if l.Annotation != nil {
		drawCell(pdf, tr, *l.Annotation)
	}
	for _, c := range l.Header {
		drawCell(pdf, tr, c)
	}
	for _, row := range l.Rows {
		for _, c := range row {
			drawCell(pdf, tr, c)
		}
	}
	for _, f := range l.Fields {
		for _, c := range f.Label {
			drawCell(pdf, tr, c)
		}
		drawCell(pdf, tr, f.Value)
	}

	if path := r.logoPath(); path != "" {
		pdf.ImageOptions(path, LogoX, LogoY, LogoW, 0, false, fpdf.ImageOptions{ReadDpi: false}, 0, "")
	}

	for _, c := range l.Footer {
		drawCell(pdf, tr, c)
	}

	png, err := barcodePNG(l.BarcodeData)
	if err != nil {
		return nil, &types.RenderError{Part: "barcode", Err: err}
	}
	pdf.RegisterImageOptionsReader("barcode", fpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(png))
	pdf.ImageOptions("barcode", l.Barcode.X, l.Barcode.Y, l.Barcode.W, l.Barcode.H, false, fpdf.ImageOptions{ImageType: "png"}, 0, "")
	drawCell(pdf, tr, l.BarcodeText)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &types.RenderError{Part: "card", Err: err}
	}

	r.logger.Debug("card rendered",
		zap.String("card_id", card.ID),
		zap.Int("rows", len(l.Rows)),
		zap.Int("bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

// newDocument starts an A5 portrait page in millimeters with automatic page
// breaks off.
func (r *Renderer) newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(!r.opts.Uncompressed)
	pdf.SetCatalogSort(true)
	now := r.opts.Now()
	pdf.SetCreationDate(now)
	pdf.SetCreator("satzkarte", true)
	pdf.AddPage()
	return pdf
}

// logoPath returns the first decodable logo file in AssetDir, or "".
// A logo that exists but cannot be decoded is skipped with a warning.
func (r *Renderer) logoPath() string {
	if r.opts.AssetDir == "" {
		return ""
	}
	for _, name := range logoNames {
		path := filepath.Join(r.opts.AssetDir, name)
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		_, _, err = image.DecodeConfig(f)
		f.Close()
		if err != nil {
			r.logger.Warn("skipping unreadable logo", zap.String("path", path), zap.Error(err))
			continue
		}
		return path
	}
	return ""
}

// drawCell replays one layout cell onto the page.
func drawCell(pdf *fpdf.Fpdf, tr func(string) string, c Cell) {
	style := ""
	if c.Bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, c.Size)
	fill := c.Fill != noFill
	if fill {
		pdf.SetFillColor(c.Fill, c.Fill, c.Fill)
	}
	pdf.SetXY(c.X, c.Y)
	pdf.CellFormat(c.W, c.H, tr(c.Text), c.Border, 0, c.Align, fill, 0, "")
}
