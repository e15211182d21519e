// Package pricing converts raw Exalted-denominated prices into the cheapest
// human-meaningful currency tier. The mapping is deterministic and monotonic:
// the highest tier whose threshold the price reaches wins, so the displayed
// quantity is always at least 1 (except the zero price, which is always
// "0 Exalted Orb").
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// Tier is a display currency denomination, ordered cheapest to most valuable.
type Tier int

const (
	TierExalted Tier = iota
	TierChaos
	TierDivine
)

// Embed accent colors per tier, carried over from the original bot.
const (
	colorExalted = 0xe91e63
	colorChaos   = 0x964B00
	colorDivine  = 0x00ffff
)

// Name returns the tier's display unit.
func (t Tier) Name() string {
	switch t {
	case TierDivine:
		return "Divine Orb"
	case TierChaos:
		return "Chaos Orb"
	default:
		return "Exalted Orb"
	}
}

// Color returns the embed accent color for the tier.
func (t Tier) Color() int {
	switch t {
	case TierDivine:
		return colorDivine
	case TierChaos:
		return colorChaos
	default:
		return colorExalted
	}
}

// Price is a normalized display price: a quantity of one tier's unit.
type Price struct {
	Tier     Tier
	Quantity decimal.Decimal
}

// Normalize picks the display tier for a base-unit price under the league's
// rates. Thresholds: one Divine costs rate.DivinePrice Exalted, one Chaos
// costs rate.DivinePrice/rate.ChaosDivinePrice Exalted. The highest tier
// whose threshold is at or below basePrice is chosen; below the Chaos
// threshold the price stays in Exalted.
func Normalize(basePrice float64, rate models.LeagueRate) Price {
	exPerDivine := rate.DivinePrice
	if exPerDivine <= 0 {
		exPerDivine = models.DefaultDivinePrice
	}
	chaosPerDivine := rate.ChaosDivinePrice
	if chaosPerDivine <= 0 {
		chaosPerDivine = models.DefaultChaosDivinePrice
	}
	exPerChaos := exPerDivine / chaosPerDivine

	price := decimal.NewFromFloat(basePrice)

	switch {
	case basePrice >= exPerDivine:
		return Price{Tier: TierDivine, Quantity: price.Div(decimal.NewFromFloat(exPerDivine))}
	case basePrice >= exPerChaos:
		return Price{Tier: TierChaos, Quantity: price.Div(decimal.NewFromFloat(exPerChaos))}
	default:
		return Price{Tier: TierExalted, Quantity: price}
	}
}

// String renders the price for display: whole Exalted counts, two decimals
// for Chaos and Divine quantities, thousands-separated.
func (p Price) String() string {
	places := int32(2)
	if p.Tier == TierExalted {
		places = 0
	}
	return fmt.Sprintf("%s %s", groupThousands(p.Quantity.StringFixed(places)), p.Tier.Name())
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string. Quantities are never negative.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	if hasFrac {
		return intPart + "." + fracPart
	}
	return intPart
}

// RateFooter renders the exchange-rate line shown under every price reply.
func RateFooter(rate models.LeagueRate) string {
	return fmt.Sprintf("Rate: 1 Chaos = %.1f Ex | 1 Div = %.0f Ex", rate.ExaltedPerChaos(), rate.DivinePrice)
}
