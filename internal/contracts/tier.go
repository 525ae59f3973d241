package contracts

import "fmt"

// Tier is the ordinal classification label, A best and G worst
type Tier string

const (
	TierA    Tier = "A"
	TierB    Tier = "B"
	TierC    Tier = "C"
	TierD    Tier = "D"
	TierE    Tier = "E"
	TierF    Tier = "F"
	TierG    Tier = "G"
	TierNone Tier = "" // not classified yet
)

// AllTiers returns the tiers in ascending order (G first)
func AllTiers() []Tier {
	return []Tier{TierG, TierF, TierE, TierD, TierC, TierB, TierA}
}

// Rank returns the numeric rank: A=7 ... G=1, 0 for TierNone
func (t Tier) Rank() int {
	for i, tier := range AllTiers() {
		if tier == t {
			return i + 1
		}
	}
	return 0
}

// String returns the tier letter
func (t Tier) String() string {
	return string(t)
}

// Less reports whether t ranks below other
func (t Tier) Less(other Tier) bool {
	return t.Rank() < other.Rank()
}

// ParseTier converts a letter into a Tier
func ParseTier(s string) (Tier, error) {
	if s == "" {
		return TierNone, nil
	}
	t := Tier(s)
	if t.Rank() == 0 {
		return TierNone, fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}
