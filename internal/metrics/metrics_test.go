package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	m.RecordCommand("poe2")
	m.RecordCommandError("poe2", "no_match")
	m.RecordCatalogRefresh("ok")
	m.RecordCatalogHit()
	m.RecordRateLimited()
	m.ObserveUpstream("items", 50*time.Millisecond)
	m.SetCatalogLeagues(3)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordCommand("poe2")
	m.RecordCatalogRefresh("ok")
	m.ObserveUpstream("leagues", 20*time.Millisecond)
	m.SetCatalogLeagues(2)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`poe2bot_commands_total{command="poe2"} 1`,
		`poe2bot_catalog_refreshes_total{result="ok"} 1`,
		`poe2bot_catalog_leagues 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
