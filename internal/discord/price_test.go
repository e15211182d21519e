package discord

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/chart"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

type fakeMarket struct {
	rates      []models.LeagueRate
	ratesErr   error
	history    []models.HistoryPoint
	historyErr error
}

func (f *fakeMarket) FetchLeagues(ctx context.Context) ([]models.LeagueRate, error) {
	return f.rates, f.ratesErr
}

func (f *fakeMarket) FetchPriceHistory(ctx context.Context, league string, fromID, toID int64, limit int) ([]models.HistoryPoint, error) {
	return f.history, f.historyErr
}

type fakeCatalog struct {
	names   []string
	records map[string]models.ItemRecord
	err     error
}

func (f *fakeCatalog) Names(ctx context.Context, league string) ([]string, error) {
	return f.names, f.err
}

func (f *fakeCatalog) Record(ctx context.Context, league, name string) (models.ItemRecord, bool, error) {
	if f.err != nil {
		return models.ItemRecord{}, false, f.err
	}
	rec, ok := f.records[name]
	return rec, ok, nil
}

func testDeps(market *fakeMarket, cat *fakeCatalog) Deps {
	return Deps{
		Market:       market,
		Catalog:      cat,
		Charts:       chart.NewBuilder("https://quickchart.io"),
		Threshold:    60,
		HistoryLimit: 24,
	}
}

func standardMarket() *fakeMarket {
	return &fakeMarket{
		rates: []models.LeagueRate{
			{League: "Standard", DivinePrice: 100, ChaosDivinePrice: 20},
		},
	}
}

func standardCatalog() *fakeCatalog {
	return &fakeCatalog{
		names: []string{"Divine Orb", "Chaos Orb"},
		records: map[string]models.ItemRecord{
			"Divine Orb": {ID: 7, Name: "Divine Orb", CurrentPrice: 250, IconURL: "https://cdn.example/div.png"},
			"Chaos Orb":  {ID: 8, Name: "Chaos Orb", CurrentPrice: 5},
		},
	}
}

func TestPriceCheck(t *testing.T) {
	deps := testDeps(standardMarket(), standardCatalog())

	embed, err := deps.priceCheck(context.Background(), "Standard", "divine orb", false)
	if err != nil {
		t.Fatalf("priceCheck failed: %v", err)
	}

	if !strings.Contains(embed.Title, "Standard") {
		t.Errorf("title must name the league: %q", embed.Title)
	}
	if embed.Fields[0].Value != "Divine Orb" {
		t.Errorf("item field = %q, want Divine Orb", embed.Fields[0].Value)
	}
	// 250 Ex at 100 Ex/Div lands in the Divine tier.
	if embed.Fields[1].Value != "**2.50 Divine Orb**" {
		t.Errorf("price field = %q, want **2.50 Divine Orb**", embed.Fields[1].Value)
	}
	if embed.Color != 0x00ffff {
		t.Errorf("color = %#x, want Divine accent", embed.Color)
	}
	if embed.Footer.Text != "Rate: 1 Chaos = 5.0 Ex | 1 Div = 100 Ex" {
		t.Errorf("footer = %q", embed.Footer.Text)
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL == "" {
		t.Error("icon thumbnail missing")
	}
	if embed.Image != nil {
		t.Error("no trend requested but image attached")
	}
}

func TestPriceCheckNoMatch(t *testing.T) {
	deps := testDeps(standardMarket(), standardCatalog())

	_, err := deps.priceCheck(context.Background(), "Standard", "xyzzynotreal", false)
	var noMatch *models.NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %v", err)
	}
	if noMatch.Query != "xyzzynotreal" {
		t.Errorf("error must carry the literal query, got %q", noMatch.Query)
	}
}

func TestPriceCheckMarketDown(t *testing.T) {
	market := standardMarket()
	market.ratesErr = models.ErrMarketUnavailable
	deps := testDeps(market, standardCatalog())

	_, err := deps.priceCheck(context.Background(), "Standard", "divine orb", false)
	if !errors.Is(err, models.ErrMarketUnavailable) {
		t.Fatalf("expected ErrMarketUnavailable, got %v", err)
	}
}

func TestPriceCheckUnknownLeagueUsesDefaults(t *testing.T) {
	deps := testDeps(standardMarket(), standardCatalog())

	embed, err := deps.priceCheck(context.Background(), "Fresh League", "chaos orb", false)
	if err != nil {
		t.Fatalf("priceCheck failed: %v", err)
	}
	// Default rates: 100 Ex/Div, 20 Chaos/Div, so 5 Ex = 1.00 Chaos.
	if embed.Fields[1].Value != "**1.00 Chaos Orb**" {
		t.Errorf("price field = %q, want **1.00 Chaos Orb**", embed.Fields[1].Value)
	}
}

func TestPriceCheckWithTrend(t *testing.T) {
	market := standardMarket()
	market.history = []models.HistoryPoint{
		{Timestamp: time.Unix(1700000200, 0), Price: 252},
		{Timestamp: time.Unix(1700000100, 0), Price: 251},
		{Timestamp: time.Unix(1700000000, 0), Price: 250},
	}
	deps := testDeps(market, standardCatalog())

	embed, err := deps.priceCheck(context.Background(), "Standard", "divine orb", true)
	if err != nil {
		t.Fatalf("priceCheck failed: %v", err)
	}
	if embed.Image == nil || !strings.Contains(embed.Image.URL, "quickchart.io/chart") {
		t.Fatalf("trend chart not attached: %+v", embed.Image)
	}
}

func TestPriceCheckTrendEmptyHistory(t *testing.T) {
	deps := testDeps(standardMarket(), standardCatalog())

	embed, err := deps.priceCheck(context.Background(), "Standard", "divine orb", true)
	if err != nil {
		t.Fatalf("priceCheck failed: %v", err)
	}
	if embed.Image != nil {
		t.Error("empty history must not produce a chart")
	}
	last := embed.Fields[len(embed.Fields)-1]
	if last.Name != "Trend" {
		t.Fatal("empty history must add an explicit Trend notice")
	}
}

func TestPriceCheckTrendFailureDoesNotFailReply(t *testing.T) {
	market := standardMarket()
	market.historyErr = models.ErrMarketUnavailable
	deps := testDeps(market, standardCatalog())

	embed, err := deps.priceCheck(context.Background(), "Standard", "divine orb", true)
	if err != nil {
		t.Fatalf("a trend failure must not fail the priced reply: %v", err)
	}
	last := embed.Fields[len(embed.Fields)-1]
	if last.Name != "Trend" {
		t.Error("trend failure must degrade to a notice field")
	}
}

func TestRateCheck(t *testing.T) {
	deps := testDeps(standardMarket(), standardCatalog())

	embed, err := deps.rateCheck(context.Background(), "Standard")
	if err != nil {
		t.Fatalf("rateCheck failed: %v", err)
	}
	if !strings.Contains(embed.Title, "Standard") {
		t.Errorf("title = %q", embed.Title)
	}
	if embed.Fields[0].Value != "`100`" || embed.Fields[1].Value != "`20`" {
		t.Errorf("unexpected rate fields: %q, %q", embed.Fields[0].Value, embed.Fields[1].Value)
	}
	if embed.Footer != nil {
		t.Error("known league must not carry the defaults footer")
	}

	unknown, err := deps.rateCheck(context.Background(), "Nope")
	if err != nil {
		t.Fatalf("rateCheck for unknown league failed: %v", err)
	}
	if unknown.Footer == nil {
		t.Error("unknown league must flag default substitution")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
		wantSub  string
	}{
		{"rate limited", &models.RateLimitedError{Wait: 3 * time.Second}, "rate_limited", "3 more second"},
		{"no match", &models.NoMatchError{Query: "divin"}, "no_match", "'divin'"},
		{"market down", models.ErrMarketUnavailable, "market_unavailable", "try again"},
		{"wrapped market down", errors.Join(errors.New("ctx"), models.ErrMarketUnavailable), "market_unavailable", "try again"},
		{"unknown", errors.New("boom"), "internal", "went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg := userMessage(tt.err)
			if kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
			if !strings.Contains(msg, tt.wantSub) {
				t.Errorf("msg %q missing %q", msg, tt.wantSub)
			}
		})
	}
}

func TestFilterContains(t *testing.T) {
	names := []string{"Divine Orb", "Chaos Orb", "Orb of Alchemy"}

	got := filterContains(names, "orb")
	if len(got) != 3 {
		t.Errorf("case-insensitive substring filter failed: %v", got)
	}

	got = filterContains(names, "divine")
	if len(got) != 1 || got[0] != "Divine Orb" {
		t.Errorf("unexpected filter result: %v", got)
	}

	if got := filterContains(names, ""); len(got) != 3 {
		t.Errorf("empty fragment must pass everything: %v", got)
	}

	many := make([]string, 50)
	for i := range many {
		many[i] = "Orb"
	}
	if got := filterContains(many, ""); len(got) != maxChoices {
		t.Errorf("filter must cap at %d, got %d", maxChoices, len(got))
	}
}
