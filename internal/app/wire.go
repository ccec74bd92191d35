// Package app assembles the classifier and its oracle stack from config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/mood2emoji/config"
	"github.com/spacesedan/mood2emoji/internal/cache"
	"github.com/spacesedan/mood2emoji/internal/clients"
	"github.com/spacesedan/mood2emoji/internal/mood"
	"github.com/spacesedan/mood2emoji/internal/sentiment"
)

const evictionInterval = time.Minute

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type namedOracle interface {
	mood.Oracle
	HealthChecker
	Name() string
}

type Components struct {
	Classifier *mood.Classifier
	Checks     map[string]HealthChecker

	closers []func()
}

// Close releases cache connections and background timers.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func Build(cfg *config.Config) (*Components, error) {
	comps := &Components{Checks: make(map[string]HealthChecker)}

	var base namedOracle
	switch cfg.Oracle {
	case config.OracleRemote:
		base = clients.NewHuggingFaceClient(cfg.HFSentimentURL)
	case config.OracleHugot:
		h, err := sentiment.NewHugotOracle(cfg.HugotModel, cfg.HugotModelDir)
		if err != nil {
			return nil, fmt.Errorf("failed to init hugot oracle: %w", err)
		}
		comps.closers = append(comps.closers, h.Close)
		base = h
	default:
		base = sentiment.NewVaderOracle()
	}
	comps.Checks["oracle"] = base

	var oracle mood.Oracle = base
	switch cfg.Cache {
	case config.CacheMemory:
		store := cache.NewMemoryStore(cfg.CacheTTL, cfg.CacheMaxEntries, nil)
		comps.closers = append(comps.closers, store.StartEvictionTimer(evictionInterval))
		oracle = cache.NewCachedOracle(base.Name(), base, store)
	case config.CacheValkey:
		store, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			comps.Close()
			return nil, fmt.Errorf("failed to init valkey cache: %w", err)
		}
		comps.closers = append(comps.closers, store.Close)
		comps.Checks["cache"] = store
		oracle = cache.NewCachedOracle(base.Name(), base, store)
	}

	lexicon := mood.DefaultLexicon().WithBadWords(cfg.ExtraBadWords...)
	comps.Classifier = mood.NewClassifier(sentiment.Instrument(base.Name(), oracle), lexicon)

	slog.Info("[App] Classifier ready",
		slog.String("oracle", base.Name()),
		slog.String("cache", cfg.Cache),
		slog.Int("extra_bad_words", len(cfg.ExtraBadWords)))

	return comps, nil
}
