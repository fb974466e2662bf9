package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// filterFlags are the search options shared by list, stones and export.
type filterFlags struct {
	id       string
	machine  string
	set      string
	from     string
	to       string
	code     string
	diameter string
}

func (ff *filterFlags) register(cmd *cobra.Command, withItems bool) {
	f := cmd.Flags()
	f.StringVar(&ff.id, "id", "", "card id contains")
	f.StringVar(&ff.machine, "machine", "", "machine contains")
	f.StringVar(&ff.set, "set", "", "diameter set (1-3 or name)")
	f.StringVar(&ff.from, "from", "", "created on or after (YYYY-MM-DD)")
	f.StringVar(&ff.to, "to", "", "created on or before (YYYY-MM-DD)")
	if withItems {
		f.StringVar(&ff.code, "code", "", "stone code contains")
		f.StringVar(&ff.diameter, "diameter", "", "exact stone diameter")
	}
}

// filter converts the flags into a types.Filter. Dates are read in loc.
func (ff *filterFlags) filter(loc *time.Location) (types.Filter, error) {
	f := types.Filter{
		CardID:  strings.TrimSpace(ff.id),
		Machine: strings.TrimSpace(ff.machine),
		Code:    strings.TrimSpace(ff.code),
	}
	if ff.set != "" {
		set, err := types.ParseDiameterSet(ff.set)
		if err != nil {
			return f, usageErrorf("invalid --set %q (valid: 1, 2, 3, Untersatz, Mittelsatz, Grundsatz)", ff.set)
		}
		f.Set = set
	}
	var err error
	if f.DateFrom, err = parseDate("--from", ff.from, loc); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDate("--to", ff.to, loc); err != nil {
		return f, err
	}
	if ff.diameter != "" {
		d, err := strconv.ParseFloat(strings.TrimSpace(ff.diameter), 64)
		if err != nil {
			return f, usageErrorf("invalid --diameter %q", ff.diameter)
		}
		f = f.WithDiameter(d)
	}
	return f, nil
}

func parseDate(flag, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(types.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, usageErrorf("invalid %s %q (want YYYY-MM-DD)", flag, value)
	}
	return t, nil
}

// parseSet reads a --set value; empty means the default set.
func parseSet(value string) (types.DiameterSet, error) {
	if strings.TrimSpace(value) == "" {
		return types.DefaultDiameterSet, nil
	}
	set, err := types.ParseDiameterSet(value)
	if err != nil {
		return 0, usageErrorf("invalid set %q (valid: 1, 2, 3, Untersatz, Mittelsatz, Grundsatz)", value)
	}
	return set, nil
}

// parseStone reads CODE=DIAMETER. A missing or malformed diameter becomes
// 0.0, the same leniency the entry form applies.
func parseStone(arg string) types.Line {
	code, dia, _ := strings.Cut(arg, "=")
	line := types.Line{Code: strings.TrimSpace(code)}
	if d, err := strconv.ParseFloat(strings.TrimSpace(dia), 64); err == nil {
		line.Diameter = types.NormalizeDiameter(d)
	}
	return line
}

// parseItemID reads a stone row id argument.
func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid stone id %q", arg)
	}
	return id, nil
}

// cardView is the JSON shape of a card.
type cardView struct {
	ID        string `json:"card_id"`
	Machine   string `json:"machine"`
	Set       string `json:"set"`
	Operator  string `json:"operator"`
	StoneType string `json:"stone_type"`
	CreatedAt string `json:"created_at"`
}

func newCardView(c *types.Card) cardView {
	v := cardView{
		ID:        c.ID,
		Machine:   c.Machine,
		Set:       c.SetName(),
		Operator:  c.Operator,
		StoneType: c.StoneType,
	}
	if !c.CreatedAt.IsZero() {
		v.CreatedAt = c.CreatedAt.Format(types.TimestampLayout)
	}
	return v
}

// stoneView is the JSON shape of a line item.
type stoneView struct {
	ID       int64   `json:"id"`
	CardID   string  `json:"card_id"`
	Code     string  `json:"code"`
	Diameter float64 `json:"diameter"`
	Status   string  `json:"status"`
}

func newStoneView(li *types.LineItem) stoneView {
	return stoneView{ID: li.ID, CardID: li.CardID, Code: li.Code, Diameter: li.Diameter, Status: li.Status}
}
