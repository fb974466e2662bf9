package types

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusNew is the status every line item starts with.
const StatusNew = "New"

// DefaultStoneType is printed in the info and type columns when the operator
// does not pick a stone type.
const DefaultStoneType = "ND"

// CardIDLength is the length of generated card identifiers.
const CardIDLength = 8

// TimestampLayout is how card creation times are stored and displayed.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the date granularity used by filters and the card footer.
const DateLayout = "2006-01-02"

// Card is the header of one set card. A card is written once and never
// updated; it can only be deleted together with its line items.
type Card struct {
	Seq       int64       // Internal row id, used for newest-first ordering.
	ID        string      // Satznummer, the sole link to the line items.
	Machine   string      // Machine identifier, free text.
	Set       DiameterSet // Declared diameter set.
	Operator  string      // Operator name, free text.
	StoneType string      // Stone type tag printed on the card.
	CreatedAt time.Time   // Local creation time, second precision.
}

// SetName returns the name of the declared diameter set.
func (c *Card) SetName() string {
	return c.Set.String()
}

// Line is one submitted (code, diameter) pair. Malformed diameters have
// already been coerced to 0.0 by the caller.
type Line struct {
	Code     string
	Diameter float64
}

// LineItem is one stored stone belonging to a card.
type LineItem struct {
	ID       int64
	CardID   string
	Code     string
	Diameter float64
	Status   string
}

// Line returns the (code, diameter) pair of the item.
func (li *LineItem) Line() Line {
	return Line{Code: li.Code, Diameter: li.Diameter}
}

// NormalizeDiameter maps NaN and infinities to 0 so that a diameter prints
// and stores the same way.
func NormalizeDiameter(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

// NormalizeLines returns a copy of lines with every diameter normalized.
func NormalizeLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Code: l.Code, Diameter: NormalizeDiameter(l.Diameter)}
	}
	return out
}

// StoneCount returns the number of lines carrying a non-empty code.
func StoneCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l.Code) != "" {
			n++
		}
	}
	return n
}

// NewCardID returns a short random identifier: the first eight characters of
// a v4 UUID. Uniqueness is not checked.
func NewCardID() string {
	return uuid.New().String()[:CardIDLength]
}
