package sqlite

import (
	"strings"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// predicates is an ordered list of WHERE clauses and their arguments.
// Each clause is appended together with its own arguments so placeholder
// order and argument order cannot drift apart.
type predicates struct {
	clauses []string
	args    []any
}

func (p *predicates) add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

// where renders " WHERE a AND b" or "" for an empty list.
func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// likePattern wraps s for a substring LIKE match, escaping LIKE wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// headerPredicates builds the card-header part of a filter against the
// history table aliased as alias.
func headerPredicates(alias string, f types.Filter) *predicates {
	p := &predicates{}
	col := func(name string) string { return alias + "." + name }

	if f.CardID != "" {
		p.add(col("satznummer")+` LIKE ? ESCAPE '\'`, likePattern(f.CardID))
	}
	if f.Machine != "" {
		p.add(col("machine")+` LIKE ? ESCAPE '\'`, likePattern(f.Machine))
	}
	if f.Set != 0 {
		p.add(col("zestaw")+" = ?", f.Set.Selector())
	}
	if !f.DateFrom.IsZero() {
		p.add("date("+col("data")+") >= date(?)", f.DateFrom.Format(types.DateLayout))
	}
	if !f.DateTo.IsZero() {
		p.add("date("+col("data")+") <= date(?)", f.DateTo.Format(types.DateLayout))
	}
	return p
}

// itemPredicates adds the line-item part of a filter against the details
// table aliased as alias.
func itemPredicates(p *predicates, alias string, f types.Filter) {
	if f.Code != "" {
		p.add(alias+`.code LIKE ? ESCAPE '\'`, likePattern(f.Code))
	}
	if f.Diameter != nil {
		p.add("abs("+alias+".diameter - ?) < 0.00005", *f.Diameter)
	}
}
