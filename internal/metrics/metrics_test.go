package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesBuildMetrics(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveCollection("reviews", 3, 1)
	m.ObserveBuild("failed", 15*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		`decksite_documents_total{collection="reviews",status="invalid"} 1`,
		`decksite_documents_total{collection="reviews",status="valid"} 3`,
		`decksite_builds_total{status="failed"} 1`,
		`decksite_collection_entries{collection="reviews"} 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveCollection("decks", 1, 0)
	m.ObserveBuild("success", time.Second)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
