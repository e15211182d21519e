// Package trend reshapes raw price history into a chartable series.
// The upstream delivers readings newest-first; charts read oldest-first,
// so the series is reversed before labels and values are extracted.
// An empty input stays empty so callers can render a "no history" state.
package trend

import (
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// labelLayout is the short time-of-day format used for chart axis labels.
const labelLayout = "15:04"

// ToSeries reverses a newest-first history into oldest-first order.
// The input slice is not modified. Output is non-nil even for empty input.
func ToSeries(raw []models.HistoryPoint) []models.HistoryPoint {
	series := make([]models.HistoryPoint, len(raw))
	for i, p := range raw {
		series[len(raw)-1-i] = p
	}
	return series
}

// Labels renders one short time-of-day label per point, in series order.
func Labels(series []models.HistoryPoint) []string {
	labels := make([]string, len(series))
	for i, p := range series {
		labels[i] = p.Timestamp.UTC().Format(labelLayout)
	}
	return labels
}

// Values extracts the numeric series in series order.
func Values(series []models.HistoryPoint) []float64 {
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Price
	}
	return values
}
