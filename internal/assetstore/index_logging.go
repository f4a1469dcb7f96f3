package assetstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/metrics"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/pkg/logging/logging"
)

// LoggingIndex wraps an Index with structured logging and metrics.
type LoggingIndex struct {
	inner Index
}

func NewLoggingIndex(inner Index) Index {
	return &LoggingIndex{inner: inner}
}

func (i *LoggingIndex) Get(ctx context.Context, key string) (Record, bool, error) {
	start := time.Now()
	rec, ok, err := i.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
		metrics.PrimitiveCacheHitsTotal.Inc()
	}

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}
	if ok {
		fields = append(fields,
			zap.String("asset_id", rec.AssetID),
			zap.String("primitive_id", rec.PrimitiveID),
		)
	}

	if err != nil {
		logger.Error("primitive_index_get", append(fields, zap.Error(err))...)
	} else {
		logger.Info("primitive_index_get", fields...)
	}

	return rec, ok, err
}

func (i *LoggingIndex) Put(ctx context.Context, key string, rec Record) error {
	start := time.Now()
	err := i.inner.Put(ctx, key, rec)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.String("asset_id", rec.AssetID),
		zap.String("primitive_id", rec.PrimitiveID),
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("primitive_index_put", append(fields, zap.Error(err))...)
	} else {
		logger.Info("primitive_index_put", fields...)
	}

	return err
}
