package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/spacesedan/mood2emoji/internal/metrics"
	"github.com/spacesedan/mood2emoji/internal/mood"
)

// Store persists polarity scores by key for a limited time.
type Store interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, score float64) error
}

// CachedOracle memoizes another oracle's answers in a Store. Store failures
// are logged and skipped; only the wrapped oracle's errors are returned.
type CachedOracle struct {
	name   string
	oracle mood.Oracle
	store  Store
}

func NewCachedOracle(name string, oracle mood.Oracle, store Store) *CachedOracle {
	return &CachedOracle{name: name, oracle: oracle, store: store}
}

func (c *CachedOracle) Polarity(ctx context.Context, text string) (float64, error) {
	key := Key(c.name, text)

	score, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("[CachedOracle] Cache read failed, falling through to oracle",
			slog.String("oracle", c.name),
			slog.String("error", err.Error()))
	}
	if ok {
		metrics.OracleCache.WithLabelValues("hit").Inc()
		return score, nil
	}
	metrics.OracleCache.WithLabelValues("miss").Inc()

	score, err = c.oracle.Polarity(ctx, text)
	if err != nil {
		return 0, err
	}

	if err := c.store.Set(ctx, key, score); err != nil {
		slog.Warn("[CachedOracle] Cache write failed",
			slog.String("oracle", c.name),
			slog.String("error", err.Error()))
	}
	return score, nil
}

// Key namespaces the text hash by oracle so different analyzers never share
// entries.
func Key(oracle, text string) string {
	sum := sha256.Sum256([]byte(oracle + "\x00" + text))
	return oracle + ":" + hex.EncodeToString(sum[:])
}
