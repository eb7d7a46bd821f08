package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTFetcher_SortsAndAuthenticates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Query().Get("symbol") != "XYZ" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"timestamp":200,"open":2,"high":2,"low":2,"close":2,"volume":5},
			{"timestamp":100,"open":1,"high":1,"low":1,"close":1,"volume":5}]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "k", "")
	bars, err := f.FetchRecentBars(context.Background(), "XYZ", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 1 || bars[1].Close != 2 {
		t.Fatalf("expected chronological bars, got %+v", bars)
	}
}

func TestRESTFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchDailyBars(context.Background(), "XYZ", 365)
	if !IsNoData(err) {
		t.Fatalf("expected no-data error, got %v", err)
	}
}
