package types

import "time"

// Filter holds the optional, conjunctive search predicates shared by the
// card and line-item queries and the flat export. Zero values mean "unset".
type Filter struct {
	CardID   string      // Substring match on the card identifier.
	Machine  string      // Substring match on the machine identifier.
	Set      DiameterSet // Exact match on the declared set.
	DateFrom time.Time   // Inclusive lower bound, date granularity.
	DateTo   time.Time   // Inclusive upper bound, date granularity.
	Code     string      // Substring match on the stone code (line items only).
	Diameter *float64    // Exact match on the diameter (line items only).
}

// WithDiameter returns a copy of f filtering on the exact diameter d.
func (f Filter) WithDiameter(d float64) Filter {
	f.Diameter = &d
	return f
}

// ExportRow is one joined (card, line item) row as projected for spreadsheets.
type ExportRow struct {
	CardID    string
	Machine   string
	Set       DiameterSet
	Operator  string
	CreatedAt string
	Code      string
	Diameter  float64
	Status    string
}
