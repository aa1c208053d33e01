package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Tier is the strength of a header match. Lower non-zero tiers are stronger.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierFold
	TierNormalized
)

// Tiers lists the matching tiers from strongest to weakest.
var Tiers = []Tier{TierExact, TierFold, TierNormalized}

// String returns a human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierFold:
		return "case-folded"
	case TierNormalized:
		return "normalized"
	default:
		return "none"
	}
}

// Fold returns the Unicode case folding of s with surrounding space removed.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Compare classifies how header matches name. Blank strings never match.
func Compare(header, name string) Tier {
	if strings.TrimSpace(header) == "" || strings.TrimSpace(name) == "" {
		return TierNone
	}

	switch {
	case header == name:
		return TierExact
	case Fold(header) == Fold(name):
		return TierFold
	case normalizedEqual(header, name):
		return TierNormalized
	default:
		return TierNone
	}
}

func normalizedEqual(header, name string) bool {
	n := Normalize(name)

	return n != "" && Normalize(header) == n
}
