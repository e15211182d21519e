// Package chart builds QuickChart image URLs for price-trend lines.
// QuickChart renders a Chart.js config passed in the query string, so the
// Discord embed only needs a URL. No image bytes flow through the bot.
package chart

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Builder constructs chart URLs against one QuickChart-compatible host.
type Builder struct {
	baseURL string
}

// NewBuilder creates a Builder. baseURL is typically https://quickchart.io.
func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: baseURL}
}

// chartConfig is the subset of Chart.js configuration QuickChart needs for
// a single-series line chart.
type chartConfig struct {
	Type string    `json:"type"`
	Data chartData `json:"data"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Fill  bool      `json:"fill"`
}

// TrendURL returns an image URL plotting values over labels, titled with the
// item name. Labels and values must be equal-length and non-empty; the
// caller renders an explicit "no history" state instead of an empty chart.
func (b *Builder) TrendURL(itemName string, labels []string, values []float64) (string, error) {
	if len(labels) == 0 {
		return "", fmt.Errorf("empty series for %s", itemName)
	}
	if len(labels) != len(values) {
		return "", fmt.Errorf("labels/values length mismatch: %d vs %d", len(labels), len(values))
	}

	cfg := chartConfig{
		Type: "line",
		Data: chartData{
			Labels: labels,
			Datasets: []chartDataset{
				{Label: itemName, Data: values, Fill: false},
			},
		},
	}

	encoded, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart config: %w", err)
	}

	return b.baseURL + "/chart?c=" + url.QueryEscape(string(encoded)), nil
}
