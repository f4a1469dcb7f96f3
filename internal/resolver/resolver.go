// Package resolver drives the primitive asset pipeline: cache check, remote
// generation, validation, parametric fallback, persistence. Every stage
// failure short-circuits into the next stage; the parametric tier is total,
// so resolution only fails when the asset store itself cannot persist.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/assetstore"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/metrics"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/primitive"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/starvector"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/svg"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/synth"
)

type Config struct {
	// Version invalidates cached assets when generation changes.
	Version string

	// Confidence constants per generation path. The reference behavior
	// treats these as fixed scores, not measured quality; they are
	// configurable rather than inferred.
	RemoteConfidence     float64 // default 0.8
	ParametricConfidence float64 // default 0.5
}

func (c Config) withDefaults() Config {
	if c.Version == "" {
		c.Version = "v1"
	}
	if c.RemoteConfidence <= 0 {
		c.RemoteConfidence = 0.8
	}
	if c.ParametricConfidence <= 0 {
		c.ParametricConfidence = 0.5
	}
	return c
}

type Resolver struct {
	store  *assetstore.Store
	remote starvector.Client // nil disables the remote tier
	cfg    Config
	logger *zap.Logger

	// Misses for the same key are collapsed: one caller runs the
	// generation path, concurrent callers for that key await its result.
	group singleflight.Group
}

func New(store *assetstore.Store, remote starvector.Client, cfg Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  store,
		remote: remote,
		cfg:    cfg.withDefaults(),
		logger: logger.Named("resolver"),
	}
}

// Resolve returns the asset for a primitive request, generating and
// persisting it on a cache miss. The returned error is non-nil only when
// persistence fails; every generation failure recovers locally.
func (r *Resolver) Resolve(ctx context.Context, tag string, params map[string]any) (*assetstore.Asset, error) {
	start := time.Now()
	defer func() {
		metrics.ResolveLatencySeconds.Observe(time.Since(start).Seconds())
	}()

	key, err := assetstore.DeriveKey(tag, params, r.cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("resolver: derive key for %q: %w", tag, err)
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		return r.resolveKey(ctx, key, tag, params)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.Debug("resolve coalesced with in-flight request",
			zap.String("cache_key", key),
			zap.String("primitive_id", tag),
		)
	}
	return v.(*assetstore.Asset), nil
}

func (r *Resolver) resolveKey(ctx context.Context, key, tag string, params map[string]any) (*assetstore.Asset, error) {
	if asset, ok, err := r.store.Lookup(ctx, key); err == nil && ok {
		return asset, nil
	}

	content, fromRemote := r.generate(ctx, tag, params)

	meta := assetstore.RenderMeta{Confidence: r.cfg.ParametricConfidence}
	if fromRemote {
		meta.Confidence = r.cfg.RemoteConfidence
	}
	meta.Width, meta.Height = svg.ExtractDimensions(content)

	asset, err := r.store.Put(ctx, key, tag, params, content, meta)
	if err != nil {
		return nil, fmt.Errorf("resolver: persist %q: %w", tag, err)
	}

	r.logger.Info("primitive resolved",
		zap.String("cache_key", key),
		zap.String("primitive_id", tag),
		zap.String("asset_id", asset.AssetID),
		zap.Bool("from_remote", fromRemote),
		zap.Float64("confidence", meta.Confidence),
	)
	return asset, nil
}

// generate runs the remote tier and falls through to parametric synthesis.
// Always returns sanitized, non-empty content.
func (r *Resolver) generate(ctx context.Context, tag string, params map[string]any) (content string, fromRemote bool) {
	if r.remote != nil {
		raw, err := r.remote.Generate(ctx, describePrimitive(tag, params))
		switch {
		case err != nil:
			metrics.RemoteFailuresTotal.Inc()
			r.logger.Warn("remote generation failed, falling back",
				zap.String("primitive_id", tag),
				zap.Error(err),
			)
		default:
			clean := svg.Sanitize(raw)
			if svg.IsValid(clean) {
				return clean, true
			}
			metrics.RemoteFailuresTotal.Inc()
			r.logger.Warn("remote content failed validation, falling back",
				zap.String("primitive_id", tag),
				zap.Int("raw_bytes", len(raw)),
			)
		}
	}

	metrics.ParametricFallbacksTotal.Inc()
	return synth.Generate(primitive.ParseKind(tag), params), false
}

// describePrimitive derives the natural-language prompt for the remote model.
func describePrimitive(tag string, params map[string]any) string {
	prompt := "Generate an SVG illustration of " + tag
	if len(params) > 0 {
		if encoded, err := json.Marshal(params); err == nil {
			prompt += " with parameters: " + string(encoded)
		}
	}
	return prompt
}
