// Package currency implements the rate-cache/fetch/parse/convert core
// described in §4.8 and §6: a daily-valid exchange-rate table backed
// by a fallback chain of fetchers, a baked-in default table, and the
// amount-string parser/formatter the CLI and calculators share.
package currency

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/finledger/pension-sim/pkg/datetime"
	"go.uber.org/zap"
)

const cacheVersion = "1.0"

// CacheFile is the default rate-cache path (§6).
const CacheFile = "cache/exchange_rates.json"

// Cache reads and atomically writes the rate-cache file.
type Cache struct {
	path   string
	logger *zap.Logger
}

// NewCache creates a Cache rooted at path. An empty path defaults to CacheFile.
func NewCache(path string, logger *zap.Logger) *Cache {
	if path == "" {
		path = CacheFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{path: path, logger: logger}
}

// Load reads the cache file and returns its table, iff its date
// equals today's ISO date (§6 validity rule). Returns (nil, false)
// on a miss (absent, malformed, or stale file) without treating it as
// an error: a cache miss is routine and falls through to the fetcher
// chain.
func (c *Cache) Load(today string) (*domain.ExchangeRateTable, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		c.logger.Debug("rate cache miss", zap.String("op", "cache_load"), zap.Error(err))
		return nil, false
	}

	var table domain.ExchangeRateTable
	if err := json.Unmarshal(data, &table); err != nil {
		c.logger.Warn("rate cache file is malformed, ignoring", zap.String("op", "cache_load"), zap.Error(err))
		return nil, false
	}

	same, err := datetime.IsSameCalendarDay(table.Date, today)
	if err != nil || !same {
		c.logger.Debug("rate cache is stale", zap.String("op", "cache_load"), zap.String("cached_date", table.Date), zap.String("today", today))
		return nil, false
	}
	return &table, true
}

// Store atomically writes table to the cache file: write to a
// sibling temp file, then rename over the target (§5 shared-resource
// policy — readers must never observe a partial file).
func (c *Cache) Store(table domain.ExchangeRateTable) error {
	table.Version = cacheVersion

	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rate table: %w", err)
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("atomic rename of cache file: %w", err)
	}

	c.logger.Info("rate cache written", zap.String("op", "cache_store"), zap.String("date", table.Date), zap.String("source", table.Source))
	return nil
}
