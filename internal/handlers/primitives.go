package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/assetstore"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/primitive"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/resolver"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/pkg/logging/logging"
)

// PrimitiveHandler exposes the resolve operation and serves stored blobs.
type PrimitiveHandler struct {
	Resolver *resolver.Resolver
	Store    *assetstore.Store
}

func NewPrimitiveHandler(r *resolver.Resolver, store *assetstore.Store) *PrimitiveHandler {
	return &PrimitiveHandler{Resolver: r, Store: store}
}

// Resolve handles POST /api/primitives/resolve.
func (h *PrimitiveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	var req primitive.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid request", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Tag == "" {
		writeError(w, http.StatusBadRequest, "primitive_id is required")
		return
	}

	asset, err := h.Resolver.Resolve(ctx, req.Tag, req.Params)
	if err != nil {
		logger.Error("resolve failed",
			zap.String("primitive_id", req.Tag),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "asset generation failed")
		return
	}

	logger.Info("primitive request served",
		zap.String("primitive_id", req.Tag),
		zap.String("asset_id", asset.AssetID),
		zap.Duration("total_latency_ms", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, asset)
}

// Asset handles GET /assets/{name}, serving a stored SVG blob.
func (h *PrimitiveHandler) Asset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	path, err := h.Store.BlobPath(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset name")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
