package currency

import (
	"context"
	"time"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/calcerr"
	"go.uber.org/zap"
)

// Converter resolves a RateTable (cache, then fetcher chain, then
// defaults) and converts amounts through it (§4.8).
type Converter struct {
	cache        *Cache
	fetchers     []Fetcher
	baseCurrency string
	logger       *zap.Logger
}

// NewConverter builds a Converter. fetchers are tried in order on a
// cache miss; baseCurrency is the currency the rate table (and the
// default table) is keyed relative to.
func NewConverter(cache *Cache, fetchers []Fetcher, baseCurrency string, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{cache: cache, fetchers: fetchers, baseCurrency: baseCurrency, logger: logger}
}

// Resolve returns today's rate table: cache hit, else the first
// successful fetcher (persisted to cache), else the baked-in default
// table tagged source=default (§4.8).
func (c *Converter) Resolve(ctx context.Context) domain.ExchangeRateTable {
	today := time.Now().Format("2006-01-02")

	if table, ok := c.cache.Load(today); ok {
		c.logger.Debug("using cached rate table", zap.String("op", "resolve"))
		return *table
	}

	for _, f := range c.fetchers {
		table, err := f.Fetch(ctx, c.baseCurrency)
		if err != nil {
			c.logger.Warn("fetcher failed, trying next", zap.String("op", "resolve"), zap.String("fetcher", f.Name()), zap.Error(err))
			continue
		}
		table.Date = today
		table.Timestamp = time.Now().UTC().Format(time.RFC3339)
		table.ExpiresAt = today

		if err := c.cache.Store(table); err != nil {
			c.logger.Warn("failed to persist rate table", zap.String("op", "resolve"), zap.Error(err))
		}
		return table
	}

	c.logger.Warn("all fetchers failed, using baked-in default rates", zap.String("op", "resolve"))
	return domain.ExchangeRateTable{
		Date:         DefaultDate,
		Timestamp:    DefaultDate + "T00:00:00Z",
		Source:       "default",
		BaseCurrency: c.baseCurrency,
		Version:      cacheVersion,
		ExpiresAt:    DefaultDate,
		Rates:        defaultRates,
	}
}

// Convert converts amount from fromCcy to toCcy using table:
// amount * rate(to) / rate(from) (§4.8). Same-currency is identity.
func Convert(table domain.ExchangeRateTable, amount float64, fromCcy, toCcy string) (float64, error) {
	if fromCcy == toCcy {
		return amount, nil
	}
	rateFrom, ok := table.Rate(fromCcy)
	if !ok {
		return 0, &calcerr.UnknownCurrencyError{Code: fromCcy, Suggested: suggestCurrency(fromCcy)}
	}
	rateTo, ok := table.Rate(toCcy)
	if !ok {
		return 0, &calcerr.UnknownCurrencyError{Code: toCcy, Suggested: suggestCurrency(toCcy)}
	}
	return amount * rateTo / rateFrom, nil
}
