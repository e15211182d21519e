package scout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestFetchLeagues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/leagues" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"value": "Fate of the Vaal", "divinePrice": 180, "chaosDivinePrice": 15},
			{"value": "Standard"},
			{"value": "", "divinePrice": 50}
		]`))
	})

	rates, err := client.FetchLeagues(context.Background())
	if err != nil {
		t.Fatalf("FetchLeagues failed: %v", err)
	}

	if len(rates) != 2 {
		t.Fatalf("expected 2 leagues (record without value dropped), got %d", len(rates))
	}

	if rates[0].League != "Fate of the Vaal" || rates[0].DivinePrice != 180 || rates[0].ChaosDivinePrice != 15 {
		t.Errorf("unexpected first rate: %+v", rates[0])
	}

	// Missing rate fields fall back to documented defaults, not errors.
	if rates[1].DivinePrice != models.DefaultDivinePrice {
		t.Errorf("divinePrice default = %v, want %v", rates[1].DivinePrice, models.DefaultDivinePrice)
	}
	if rates[1].ChaosDivinePrice != models.DefaultChaosDivinePrice {
		t.Errorf("chaosDivinePrice default = %v, want %v", rates[1].ChaosDivinePrice, models.DefaultChaosDivinePrice)
	}
}

func TestFetchItemsBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("league"); got != "Standard" {
			t.Errorf("league param = %q, want Standard", got)
		}
		w.Write([]byte(`[
			{"itemId": 7, "text": "Divine Orb", "currentPrice": 180, "iconUrl": "https://cdn.example/div.png"},
			{"id": 8, "name": "Chaos Orb", "currentPrice": 9},
			{"currentPrice": 3}
		]`))
	})

	items, err := client.FetchItems(context.Background(), "Standard")
	if err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items (nameless record dropped), got %d", len(items))
	}
	if items[0].Name != "Divine Orb" || items[0].ID != 7 || items[0].IconURL == "" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	// "name" is the fallback when "text" is absent; "id" when "itemId" is.
	if items[1].Name != "Chaos Orb" || items[1].ID != 8 {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}

func TestFetchItemsWrappedObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"text": "Exalted Orb", "currentPrice": 1}], "total": 1}`))
	})

	items, err := client.FetchItems(context.Background(), "Standard")
	if err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Exalted Orb" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestFetchPriceHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != "7" || q.Get("limit") != "3" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Has("to") {
			t.Error("to param must be omitted when toID is 0")
		}
		// Newest-first, mixed price shapes, one entry without a timestamp.
		w.Write([]byte(`[
			{"time": 1700000200, "price": {"amount": 12.5}},
			{"time": 1700000100, "price": 11},
			{"time": 1700000000},
			{"price": {"amount": 99}}
		]`))
	})

	points, err := client.FetchPriceHistory(context.Background(), "Standard", 7, 0, 3)
	if err != nil {
		t.Fatalf("FetchPriceHistory failed: %v", err)
	}

	if len(points) != 3 {
		t.Fatalf("expected 3 points (timestampless entry dropped), got %d", len(points))
	}
	if points[0].Price != 12.5 {
		t.Errorf("nested price = %v, want 12.5", points[0].Price)
	}
	if points[1].Price != 11 {
		t.Errorf("flat price = %v, want 11", points[1].Price)
	}
	if points[2].Price != 0 {
		t.Errorf("absent price = %v, want 0", points[2].Price)
	}
	if !points[0].Timestamp.After(points[1].Timestamp) {
		t.Error("upstream order (newest-first) must be preserved by the client")
	}
}

func TestServerErrorIsMarketUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.FetchLeagues(context.Background())
	if !errors.Is(err, models.ErrMarketUnavailable) {
		t.Errorf("expected ErrMarketUnavailable, got %v", err)
	}
}

func TestTimeoutIsMarketUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, 20*time.Millisecond, nil)
	_, err := client.FetchItems(context.Background(), "Standard")
	if !errors.Is(err, models.ErrMarketUnavailable) {
		t.Errorf("expected ErrMarketUnavailable, got %v", err)
	}
}
