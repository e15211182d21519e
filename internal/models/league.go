package models

import "errors"

// Default exchange rates substituted when the upstream omits a field.
// poe2scout occasionally ships a league entry with no rate data at all;
// rather than failing the whole request, the documented defaults apply.
const (
	DefaultDivinePrice      = 100.0 // Exalted Orbs per 1 Divine Orb
	DefaultChaosDivinePrice = 20.0  // Chaos Orbs per 1 Divine Orb
)

// LeagueRate carries the exchange rates for one league.
// DivinePrice is the number of base units (Exalted) equal to one Divine Orb;
// ChaosDivinePrice is the number of Chaos Orbs equal to one Divine Orb, so
// Exalted-per-Chaos is DivinePrice / ChaosDivinePrice.
type LeagueRate struct {
	League           string  `json:"league"`
	DivinePrice      float64 `json:"divine_price"`
	ChaosDivinePrice float64 `json:"chaos_divine_price"`
}

// ExaltedPerChaos returns the number of base units equal to one Chaos Orb.
func (r LeagueRate) ExaltedPerChaos() float64 {
	return r.DivinePrice / r.ChaosDivinePrice
}

// Validate checks that the league rate fields are valid.
func (r *LeagueRate) Validate() error {
	if r.League == "" {
		return errors.New("league must not be empty")
	}
	if r.DivinePrice <= 0 {
		return errors.New("divine price must be positive")
	}
	if r.ChaosDivinePrice <= 0 {
		return errors.New("chaos-divine price must be positive")
	}
	return nil
}

// DefaultRate returns a LeagueRate with documented default rates for
// a league the upstream knows nothing about.
func DefaultRate(league string) LeagueRate {
	return LeagueRate{
		League:           league,
		DivinePrice:      DefaultDivinePrice,
		ChaosDivinePrice: DefaultChaosDivinePrice,
	}
}
