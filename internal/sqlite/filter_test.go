package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%abc%", likePattern("abc"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestHeaderPredicates_OrderAligned(t *testing.T) {
	f := types.Filter{
		CardID:   "ab",
		Machine:  "M1",
		Set:      types.SetMittelsatz,
		DateFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	p := headerPredicates("h", f)

	assert.Equal(t, []string{
		`h.satznummer LIKE ? ESCAPE '\'`,
		`h.machine LIKE ? ESCAPE '\'`,
		"h.zestaw = ?",
		"date(h.data) >= date(?)",
		"date(h.data) <= date(?)",
	}, p.clauses)
	assert.Equal(t, []any{"%ab%", "%M1%", "2", "2024-01-01", "2024-01-31"}, p.args)
}

func TestPredicates_Where(t *testing.T) {
	p := &predicates{}
	assert.Equal(t, "", p.where())

	itemPredicates(p, "d", types.Filter{Code: "A"}.WithDiameter(0.462))
	assert.Equal(t, ` WHERE d.code LIKE ? ESCAPE '\' AND abs(d.diameter - ?) < 0.00005`, p.where())
	assert.Equal(t, []any{"%A%", 0.462}, p.args)
}
