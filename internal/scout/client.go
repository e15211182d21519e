// Package scout provides a client for the poe2scout market API.
//
// The upstream schema is loose: item names arrive under either "text" or
// "name", the items response is either a bare array or an object wrapping
// one, rate fields go missing for young leagues, and history prices are
// nested one level down. Decoding is therefore defensive with documented
// defaults; only records missing a required identifier are dropped.
package scout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/logger"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/metrics"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

// Client provides access to the poe2scout API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Manager
}

// NewClient creates a poe2scout client. Every request carries the given
// timeout; a timeout surfaces as ErrMarketUnavailable, never a silent retry.
// mets may be nil.
func NewClient(baseURL string, timeout time.Duration, mets *metrics.Manager) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: mets,
	}
}

// leagueRecord mirrors one entry of the upstream /api/leagues response.
// Rate fields are pointers so absence is distinguishable from zero.
type leagueRecord struct {
	Value            string   `json:"value"`
	DivinePrice      *float64 `json:"divinePrice"`
	ChaosDivinePrice *float64 `json:"chaosDivinePrice"`
}

// itemRecord mirrors one entry of the upstream /api/items response.
type itemRecord struct {
	ID           int64   `json:"id"`
	ItemID       int64   `json:"itemId"`
	Text         string  `json:"text"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"currentPrice"`
	IconURL      string  `json:"iconUrl"`
	Icon         string  `json:"icon"`
}

// historyEntry mirrors one entry of the upstream history response.
// Price is either a bare number or an object carrying "amount".
type historyEntry struct {
	Time  int64           `json:"time"`
	Price json.RawMessage `json:"price"`
}

// FetchLeagues retrieves all known leagues with their exchange rates.
// Records without a league identifier are dropped; missing rate fields get
// the documented defaults (100 Exalted per Divine, 20 Chaos per Divine).
func (c *Client) FetchLeagues(ctx context.Context) ([]models.LeagueRate, error) {
	body, err := c.get(ctx, "leagues", "/api/leagues", nil)
	if err != nil {
		return nil, err
	}

	var records []leagueRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode leagues: %w", err)
	}

	rates := make([]models.LeagueRate, 0, len(records))
	for _, rec := range records {
		if rec.Value == "" {
			continue
		}
		rate := models.LeagueRate{
			League:           rec.Value,
			DivinePrice:      models.DefaultDivinePrice,
			ChaosDivinePrice: models.DefaultChaosDivinePrice,
		}
		if rec.DivinePrice != nil && *rec.DivinePrice > 0 {
			rate.DivinePrice = *rec.DivinePrice
		} else {
			logger.Debug("league %s has no divinePrice, using default %v", rec.Value, models.DefaultDivinePrice)
		}
		if rec.ChaosDivinePrice != nil && *rec.ChaosDivinePrice > 0 {
			rate.ChaosDivinePrice = *rec.ChaosDivinePrice
		} else {
			logger.Debug("league %s has no chaosDivinePrice, using default %v", rec.Value, models.DefaultChaosDivinePrice)
		}
		rates = append(rates, rate)
	}

	return rates, nil
}

// FetchItems retrieves the item catalog for a league. The response is either
// a bare array or an object wrapping the array under "items"; both decode to
// the same records. An item's name comes from "text" falling back to "name";
// records exposing neither are dropped rather than aborting the fetch.
func (c *Client) FetchItems(ctx context.Context, league string) ([]models.ItemRecord, error) {
	body, err := c.get(ctx, "items", "/api/items", url.Values{"league": {league}})
	if err != nil {
		return nil, err
	}

	var records []itemRecord
	if err := json.Unmarshal(body, &records); err != nil {
		var wrapped struct {
			Items []itemRecord `json:"items"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
		records = wrapped.Items
	}

	items := make([]models.ItemRecord, 0, len(records))
	dropped := 0
	for _, rec := range records {
		name := rec.Text
		if name == "" {
			name = rec.Name
		}
		if name == "" {
			dropped++
			continue
		}
		id := rec.ItemID
		if id == 0 {
			id = rec.ID
		}
		icon := rec.IconURL
		if icon == "" {
			icon = rec.Icon
		}
		price := rec.CurrentPrice
		if price < 0 {
			price = 0
		}
		items = append(items, models.ItemRecord{
			ID:           id,
			Name:         name,
			CurrentPrice: price,
			IconURL:      icon,
		})
	}
	if dropped > 0 {
		logger.Warn("dropped %d nameless item records for league %s", dropped, league)
	}

	return items, nil
}

// FetchPriceHistory retrieves up to limit price readings for the item pair
// (fromID, toID), newest-first. toID 0 is omitted and prices arrive in
// Exalted Orbs. Entries without a timestamp are dropped; a missing or
// malformed price value becomes 0 rather than an error.
func (c *Client) FetchPriceHistory(ctx context.Context, league string, fromID, toID int64, limit int) ([]models.HistoryPoint, error) {
	params := url.Values{
		"league": {league},
		"from":   {strconv.FormatInt(fromID, 10)},
		"limit":  {strconv.Itoa(limit)},
	}
	if toID != 0 {
		params.Set("to", strconv.FormatInt(toID, 10))
	}

	body, err := c.get(ctx, "history", "/api/history", params)
	if err != nil {
		return nil, err
	}

	var entries []historyEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	points := make([]models.HistoryPoint, 0, len(entries))
	for _, entry := range entries {
		if entry.Time == 0 {
			continue
		}
		points = append(points, models.HistoryPoint{
			Timestamp: time.Unix(entry.Time, 0).UTC(),
			Price:     coercePrice(entry.Price),
		})
	}

	return points, nil
}

// coercePrice reads a history price that is either {"amount": n} or a bare
// number, returning 0 when the value is absent or unreadable.
func coercePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var nested struct {
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Amount > 0 {
		return nested.Amount
	}

	var flat float64
	if err := json.Unmarshal(raw, &flat); err == nil && flat > 0 {
		return flat
	}

	return 0
}

// get performs a single GET request and returns the response body.
// Transport failures, timeouts, and non-2xx statuses all wrap
// models.ErrMarketUnavailable; there is no automatic retry.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream(endpoint, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %v", path, models.ErrMarketUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %w: status %d", path, models.ErrMarketUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %v", path, models.ErrMarketUnavailable, err)
	}

	return body, nil
}
