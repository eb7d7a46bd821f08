package universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

func TestParseCSV(t *testing.T) {
	doc := "Symbol,Company Name\nAAPL,Apple Inc.\n,blank\nMSFT,Microsoft\n"
	got, err := ParseCSV(strings.NewReader(doc), "Symbol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Fatalf("unexpected symbols %v", got)
	}
}

func TestParseCSV_MissingColumn(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("Ticker\nAAPL\n"), "Symbol"); err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestCSVListing_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Symbol,Company Name\nAAA,A\nBBB,B\n"))
	}))
	defer srv.Close()

	got, err := NewCSVListing(srv.URL).Symbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 symbols, got %v", got)
	}
}

func TestCSVListing_DownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewCSVListing(srv.URL).Symbols(context.Background()); err == nil {
		t.Fatal("expected error on bad status")
	}
}

func TestStatic(t *testing.T) {
	s := Static{"A", "B"}
	got, _ := s.Symbols(context.Background())
	got[0] = "Z"
	if s[0] != "A" {
		t.Error("Symbols must return a copy")
	}
	if _, err := (Static{}).Symbols(context.Background()); err == nil {
		t.Error("expected error for empty static universe")
	}
}

type stubAssets []alpaca.Asset

func (s stubAssets) GetAssets(alpaca.GetAssetsRequest) ([]alpaca.Asset, error) { return s, nil }

func TestAlpacaAssets_FiltersUntradable(t *testing.T) {
	p := &AlpacaAssets{Client: stubAssets{
		{Symbol: "AAA", Tradable: true},
		{Symbol: "BBB", Tradable: false},
	}}
	got, err := p.Symbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "AAA" {
		t.Fatalf("unexpected symbols %v", got)
	}
}
