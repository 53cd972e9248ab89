package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/calcerr"
	"go.uber.org/zap"
)

// fetchTimeout bounds every rate-fetch HTTP call (§5: "≤ 5 s").
const fetchTimeout = 5 * time.Second

// Fetcher retrieves a full rate table keyed by baseCurrency, or fails
// with a *calcerr.FetchError (§4.8).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, baseCurrency string) (domain.ExchangeRateTable, error)
}

// httpFetcher is the shared shape for the two HTTP-backed fetchers
// below: a bounded-timeout client, a base URL template, and a
// decoder for that provider's response envelope.
type httpFetcher struct {
	name     string
	client   *http.Client
	urlForm  string // fmt string taking baseCurrency
	logger   *zap.Logger
	decodeFn func([]byte) (map[string]float64, error)
}

func newHTTPFetcher(name, urlForm string, decodeFn func([]byte) (map[string]float64, error), logger *zap.Logger) *httpFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpFetcher{
		name:     name,
		client:   &http.Client{Timeout: fetchTimeout},
		urlForm:  urlForm,
		logger:   logger.With(zap.String("fetcher", name)),
		decodeFn: decodeFn,
	}
}

func (f *httpFetcher) Name() string { return f.name }

func (f *httpFetcher) Fetch(ctx context.Context, baseCurrency string) (domain.ExchangeRateTable, error) {
	url := fmt.Sprintf(f.urlForm, baseCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ExchangeRateTable{}, &calcerr.FetchError{Source: f.name, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("fetch request failed", zap.String("op", "fetch"), zap.Error(err))
		return domain.ExchangeRateTable{}, &calcerr.FetchError{Source: f.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ExchangeRateTable{}, &calcerr.FetchError{
			Source: f.name,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body := make([]byte, 0, 4096)
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		body = append(body, buf[:n]...)
		if readErr != nil {
			break
		}
	}

	rates, err := f.decodeFn(body)
	if err != nil {
		return domain.ExchangeRateTable{}, &calcerr.FetchError{Source: f.name, Err: err}
	}

	f.logger.Info("fetched rate table", zap.String("op", "fetch"), zap.Int("currencies", len(rates)))

	return domain.ExchangeRateTable{
		Source:       f.name,
		BaseCurrency: baseCurrency,
		Rates:        rates,
	}, nil
}

// NewExchangeRateAPIFetcher mirrors exchangerate-api.com's
// `{"rates": {...}}` envelope.
func NewExchangeRateAPIFetcher(logger *zap.Logger) Fetcher {
	return newHTTPFetcher(
		"exchangerate-api",
		"https://api.exchangerate-api.com/v4/latest/%s",
		func(body []byte) (map[string]float64, error) {
			var payload struct {
				Rates map[string]float64 `json:"rates"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, err
			}
			if len(payload.Rates) == 0 {
				return nil, fmt.Errorf("empty rate map in response")
			}
			return payload.Rates, nil
		},
		logger,
	)
}

// NewExchangeRatesAPIFetcher mirrors exchangeratesapi.io's
// `{"rates": {...}, "base": "..."}` envelope — a distinct provider
// used as the second link in the fallback chain (§4.8).
func NewExchangeRatesAPIFetcher(logger *zap.Logger) Fetcher {
	return newHTTPFetcher(
		"exchangeratesapi",
		"https://api.exchangeratesapi.io/latest?base=%s",
		func(body []byte) (map[string]float64, error) {
			var payload struct {
				Rates map[string]float64 `json:"rates"`
				Base  string             `json:"base"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, err
			}
			if len(payload.Rates) == 0 {
				return nil, fmt.Errorf("empty rate map in response")
			}
			return payload.Rates, nil
		},
		logger,
	)
}

// MockFetcher always returns a fixed table, used by tests and as a
// local offline stand-in for the fallback chain's last HTTP link.
type MockFetcher struct {
	TableOut domain.ExchangeRateTable
	Err      error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, baseCurrency string) (domain.ExchangeRateTable, error) {
	if m.Err != nil {
		return domain.ExchangeRateTable{}, &calcerr.FetchError{Source: "mock", Err: m.Err}
	}
	table := m.TableOut
	table.BaseCurrency = baseCurrency
	table.Source = "mock"
	return table, nil
}
