package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/assetstore"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/lesson"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/internal/resolver"
	"github.com/Kabilkirithik/kydy-nxtwave-openai/pkg/logging/logging"
)

var lessonIDRe = regexp.MustCompile(`^[0-9a-f]{8}$`)

// LessonHandler orchestrates lesson generation: extraction, primitive
// resolution, persistence. Extraction failures fall back to the heuristic
// extractor; only asset persistence failures surface to the client.
type LessonHandler struct {
	Extractor lesson.Extractor
	Fallback  lesson.Extractor
	Resolver  *resolver.Resolver
	DataDir   string
}

func NewLessonHandler(extractor lesson.Extractor, res *resolver.Resolver, dataDir string) *LessonHandler {
	return &LessonHandler{
		Extractor: extractor,
		Fallback:  lesson.NewHeuristicExtractor(),
		Resolver:  res,
		DataDir:   dataDir,
	}
}

type generateLessonRequest struct {
	Prompt string `json:"prompt"`
}

type generateLessonResponse struct {
	Status   string             `json:"status"`
	LessonID string             `json:"lesson_id"`
	Lesson   *lesson.Lesson     `json:"lesson"`
	Assets   []*assetstore.Asset `json:"assets"`
}

// Generate handles POST /api/generate_lesson.
func (h *LessonHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)

	var req generateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	lsn, err := h.Extractor.Extract(ctx, req.Prompt)
	if err != nil {
		logger.Warn("lesson extraction failed, using heuristic fallback", zap.Error(err))
		lsn, _ = h.Fallback.Extract(ctx, req.Prompt)
	}

	assets := make([]*assetstore.Asset, 0, len(lsn.Primitives))
	for _, p := range lsn.Primitives {
		asset, err := h.Resolver.Resolve(ctx, p.Tag, p.Params)
		if err != nil {
			logger.Error("primitive resolution failed",
				zap.String("primitive_id", p.Tag),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "asset generation failed")
			return
		}
		assets = append(assets, asset)
	}

	resp := generateLessonResponse{
		Status:   "success",
		LessonID: uuid.NewString()[:8],
		Lesson:   lsn,
		Assets:   assets,
	}

	if err := h.persist(resp); err != nil {
		logger.Error("lesson persistence failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lesson persistence failed")
		return
	}

	logger.Info("lesson generated",
		zap.String("lesson_id", resp.LessonID),
		zap.String("topic", lsn.Topic),
		zap.Int("steps", len(lsn.Steps)),
		zap.Int("assets", len(assets)),
	)
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/lesson/{id}.
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !lessonIDRe.MatchString(id) {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}

	data, err := os.ReadFile(h.lessonPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}
	if err != nil {
		logging.L(r.Context()).Error("lesson read failed", zap.String("lesson_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lesson read failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (h *LessonHandler) persist(resp generateLessonResponse) error {
	dir := filepath.Join(h.DataDir, "lessons")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create lessons dir: %w", err)
	}
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lesson: %w", err)
	}
	return os.WriteFile(h.lessonPath(resp.LessonID), data, 0o644)
}

func (h *LessonHandler) lessonPath(id string) string {
	return filepath.Join(h.DataDir, "lessons", "lesson_"+id+".json")
}
