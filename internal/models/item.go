// Package models defines the core domain entities for the poe2 price-check bot.
// These models represent market catalog items, league exchange rates, name
// resolution results, and price-history points. All models include built-in
// validation to ensure data integrity throughout the application.
//
// Terminology (matching poe2scout's own naming):
//   - League: an economy instance partitioning all market data from other economies.
//   - Exalted Orb: the base currency unit in which raw prices arrive upstream.
//   - Chaos / Divine Orb: successively larger denominations used for display.
package models

import (
	"errors"
	"time"
)

// ItemRecord represents a single tradeable item from the poe2scout catalog.
// The display name is taken from the upstream "text" field, falling back to
// "name"; records exposing neither are dropped at the decode boundary, so an
// ItemRecord always carries a non-empty Name. Prices are denominated in
// Exalted Orbs (the base unit).
type ItemRecord struct {
	ID           int64   `json:"id"`            // Upstream numeric identifier, 0 when absent
	Name         string  `json:"name"`          // Canonical display name
	CurrentPrice float64 `json:"current_price"` // Current price in Exalted Orbs
	IconURL      string  `json:"icon_url,omitempty"`
}

// Validate checks that all item fields are valid.
func (r *ItemRecord) Validate() error {
	if r.Name == "" {
		return errors.New("item name must not be empty")
	}
	if r.CurrentPrice < 0 {
		return errors.New("item price must not be negative")
	}
	return nil
}

// HistoryPoint is one reading of an item's price at a moment in time.
// The upstream history endpoint delivers these newest-first; trend.ToSeries
// reverses them to oldest-first before charting.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"` // Exalted Orbs, 0 when the upstream omits the nested value
}

// Validate checks that the history point fields are valid.
func (p *HistoryPoint) Validate() error {
	if p.Timestamp.IsZero() {
		return errors.New("history timestamp must not be zero")
	}
	if p.Price < 0 {
		return errors.New("history price must not be negative")
	}
	return nil
}
