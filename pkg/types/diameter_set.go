package types

import (
	"math"
	"strconv"
	"strings"
)

// DiameterSet selects one of the three named diameter catalogs.
// The numeric value is what the history table stores in its zestaw column.
type DiameterSet int

// Diameter sets, ordered from the finest to the coarsest stones.
const (
	SetUntersatz  DiameterSet = 1
	SetMittelsatz DiameterSet = 2
	SetGrundsatz  DiameterSet = 3
)

// DefaultDiameterSet is used when the caller does not pick a set.
const DefaultDiameterSet = SetGrundsatz

// diameterCatalog holds the allowed diameters (mm) per set, largest first.
var diameterCatalog = map[DiameterSet][]float64{
	SetUntersatz:  {0.2011, 0.1878, 0.1749, 0.1631, 0.1521, 0.1418, 0.1323, 0.1233, 0.1150, 0.1072},
	SetMittelsatz: {0.5089, 0.4620, 0.4200, 0.3820, 0.3470, 0.3158, 0.2870, 0.2610, 0.2373, 0.2150},
	SetGrundsatz:  {1.5830, 1.4100, 1.2560, 1.1190, 0.9970, 0.8880, 0.7910, 0.7049, 0.6280, 0.5590},
}

var diameterSetNames = map[DiameterSet]string{
	SetUntersatz:  "Untersatz",
	SetMittelsatz: "Mittelsatz",
	SetGrundsatz:  "Grundsatz",
}

// AllDiameterSets lists the sets in selector order.
var AllDiameterSets = []DiameterSet{SetUntersatz, SetMittelsatz, SetGrundsatz}

// Valid reports whether s is one of the three known sets.
func (s DiameterSet) Valid() bool {
	_, ok := diameterCatalog[s]
	return ok
}

// String returns the set name, or an empty string for an unknown selector.
func (s DiameterSet) String() string {
	return diameterSetNames[s]
}

// Selector returns the value persisted in the zestaw column ("1".."3").
func (s DiameterSet) Selector() string {
	return strconv.Itoa(int(s))
}

// Diameters returns a copy of the catalog for s. Unknown sets yield nil.
func (s DiameterSet) Diameters() []float64 {
	values, ok := diameterCatalog[s]
	if !ok {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// Contains reports whether d belongs to the catalog of s. Values are compared
// at the 4-decimal precision the catalog is printed with.
func (s DiameterSet) Contains(d float64) bool {
	for _, v := range diameterCatalog[s] {
		if math.Abs(v-d) < 0.00005 {
			return true
		}
	}
	return false
}

// ParseDiameterSet accepts a selector ("1", "2", "3") or a set name in any
// case. Returns ErrInvalidSet for anything else.
func ParseDiameterSet(s string) (DiameterSet, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		set := DiameterSet(n)
		if set.Valid() {
			return set, nil
		}
		return 0, ErrInvalidSet
	}
	for set, name := range diameterSetNames {
		if strings.EqualFold(name, s) {
			return set, nil
		}
	}
	return 0, ErrInvalidSet
}
