package sentiment

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/mood2emoji/internal/metrics"
	"github.com/spacesedan/mood2emoji/internal/mood"
)

// InstrumentedOracle records latency and failures of the wrapped oracle.
type InstrumentedOracle struct {
	name   string
	oracle mood.Oracle
}

func Instrument(name string, oracle mood.Oracle) *InstrumentedOracle {
	return &InstrumentedOracle{name: name, oracle: oracle}
}

func (o *InstrumentedOracle) Polarity(ctx context.Context, text string) (float64, error) {
	start := time.Now()
	score, err := o.oracle.Polarity(ctx, text)
	metrics.OracleDuration.WithLabelValues(o.name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.OracleErrors.WithLabelValues(o.name).Inc()
		slog.Error("[Oracle] Polarity lookup failed",
			slog.String("oracle", o.name),
			slog.String("error", err.Error()))
		return 0, err
	}
	return score, nil
}
