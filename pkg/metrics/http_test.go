package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveThenScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe("GET", "/players", 200, 12*time.Millisecond)
	m.Observe("GET", "/players", 200, 7*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/players",status="200"} 2`) {
		t.Fatalf("counter missing from scrape:\n%s", body)
	}
	if !strings.Contains(body, `route="unmatched"`) {
		t.Fatalf("empty route should fall back to unmatched:\n%s", body)
	}
}

func TestObserveNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/players", 200, time.Millisecond)
}
