package fxsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// providerResponse is the JSON shape returned by frankfurter-compatible
// rate providers.
type providerResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// ProviderRate is a single quote fetched from the upstream provider.
type ProviderRate struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	RateDate     time.Time
}

// Provider fetches daily reference rates over HTTP.
type Provider struct {
	baseURL string
	client  *http.Client
}

func NewProvider(baseURL string) *Provider {
	return &Provider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the latest rate for the from/to currency pair.
func (p *Provider) Fetch(ctx context.Context, from, to string) (*ProviderRate, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fxsync: parse provider url: %w", err)
	}
	q := u.Query()
	q.Set("base", from)
	q.Set("symbols", to)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fxsync: build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fxsync: fetch rates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fxsync: provider returned %d: %s", resp.StatusCode, body)
	}

	var decoded providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("fxsync: decode provider response: %w", err)
	}
	return parseProviderRate(decoded, from, to)
}

func parseProviderRate(decoded providerResponse, from, to string) (*ProviderRate, error) {
	rate, ok := decoded.Rates[to]
	if !ok {
		return nil, fmt.Errorf("fxsync: provider response missing %s rate", to)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("fxsync: provider returned non-positive %s/%s rate", from, to)
	}
	rateDate, err := time.Parse("2006-01-02", decoded.Date)
	if err != nil {
		return nil, fmt.Errorf("fxsync: parse rate date %q: %w", decoded.Date, err)
	}
	return &ProviderRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		RateDate:     rateDate,
	}, nil
}
