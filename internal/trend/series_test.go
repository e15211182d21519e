package trend

import (
	"testing"
	"time"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

func TestToSeriesReversesNewestFirst(t *testing.T) {
	raw := []models.HistoryPoint{
		{Timestamp: time.Unix(1700000200, 0), Price: 12},
		{Timestamp: time.Unix(1700000100, 0), Price: 11},
		{Timestamp: time.Unix(1700000000, 0), Price: 10},
	}

	series := ToSeries(raw)

	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp.Before(series[i-1].Timestamp) {
			t.Fatalf("timestamps not non-decreasing at index %d", i)
		}
	}
	if series[0].Price != 10 || series[2].Price != 12 {
		t.Errorf("unexpected order: %+v", series)
	}

	// Input must be left untouched.
	if raw[0].Price != 12 {
		t.Error("ToSeries mutated its input")
	}
}

func TestToSeriesEmpty(t *testing.T) {
	series := ToSeries(nil)
	if series == nil {
		t.Fatal("empty input must yield a non-nil empty series")
	}
	if len(series) != 0 {
		t.Fatalf("len = %d, want 0", len(series))
	}
}

func TestLabelsAndValues(t *testing.T) {
	series := []models.HistoryPoint{
		{Timestamp: time.Date(2026, 8, 30, 9, 5, 0, 0, time.UTC), Price: 10},
		{Timestamp: time.Date(2026, 8, 30, 21, 45, 0, 0, time.UTC), Price: 12.5},
	}

	labels := Labels(series)
	values := Values(series)

	if len(labels) != len(values) {
		t.Fatalf("labels and values length mismatch: %d vs %d", len(labels), len(values))
	}
	if labels[0] != "09:05" || labels[1] != "21:45" {
		t.Errorf("unexpected labels: %v", labels)
	}
	if values[0] != 10 || values[1] != 12.5 {
		t.Errorf("unexpected values: %v", values)
	}
}
