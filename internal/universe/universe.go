package universe

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/pkg/errors"
)

// DefaultListingURL is the NASDAQ listed-symbols CSV.
const DefaultListingURL = "https://datahub.io/core/nasdaq-listings/r/nasdaq-listed-symbols.csv"

// Provider returns the tradable symbols a scan iterates over.
type Provider interface {
	Symbols(ctx context.Context) ([]string, error)
	Name() string
}

// Static is a fixed list of symbols.
type Static []string

func (s Static) Name() string { return "static" }

func (s Static) Symbols(_ context.Context) ([]string, error) {
	if len(s) == 0 {
		return nil, errors.New("static universe is empty")
	}
	return append([]string(nil), s...), nil
}

// CSVListing downloads a CSV listing and reads one column of symbols.
type CSVListing struct {
	URL    string
	Column string
	Client *http.Client
}

// NewCSVListing creates a CSV-backed provider reading the "Symbol" column.
func NewCSVListing(url string) *CSVListing {
	if url == "" {
		url = DefaultListingURL
	}
	return &CSVListing{
		URL:    url,
		Column: "Symbol",
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *CSVListing) Name() string { return "csv" }

func (c *CSVListing) Symbols(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "download listing")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("download listing: status %d", resp.StatusCode)
	}
	return ParseCSV(resp.Body, c.Column)
}

// ParseCSV reads the named column from a CSV document with a header row.
// Blank cells are skipped.
func ParseCSV(r io.Reader, column string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read listing header")
	}
	idx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Errorf("listing has no %q column", column)
	}

	var symbols []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read listing row")
		}
		if idx >= len(rec) {
			continue
		}
		if s := strings.TrimSpace(rec[idx]); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return nil, errors.New("listing contains no symbols")
	}
	return symbols, nil
}

// assetLister is the subset of the Alpaca trading client used here.
type assetLister interface {
	GetAssets(req alpaca.GetAssetsRequest) ([]alpaca.Asset, error)
}

// AlpacaAssets lists active, tradable US equities from Alpaca.
type AlpacaAssets struct {
	Client   assetLister
	Exchange string
}

// NewAlpacaAssets creates a provider backed by the Alpaca trading API.
func NewAlpacaAssets(apiKey, apiSecret, baseURL, exchange string) *AlpacaAssets {
	return &AlpacaAssets{
		Client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		Exchange: exchange,
	}
}

func (a *AlpacaAssets) Name() string { return "alpaca" }

func (a *AlpacaAssets) Symbols(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assets, err := a.Client.GetAssets(alpaca.GetAssetsRequest{
		Status:     "active",
		AssetClass: "us_equity",
		Exchange:   a.Exchange,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list alpaca assets")
	}
	symbols := make([]string, 0, len(assets))
	for _, as := range assets {
		if as.Tradable {
			symbols = append(symbols, as.Symbol)
		}
	}
	if len(symbols) == 0 {
		return nil, errors.New("alpaca returned no tradable assets")
	}
	return symbols, nil
}
