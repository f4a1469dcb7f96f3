package assetstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InlineThreshold is the content size (bytes) under which SVG is returned
// inline alongside the asset URL, sparing the caller a second fetch.
const InlineThreshold = 5000

var tagCleanRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Store is the content-addressed asset store: immutable SVG blobs in a
// directory, referenced by an Index keyed on cache fingerprints.
//
// Blob filenames derive from a fresh random short id scoped to the primitive
// tag ({tag}_{id}.svg), not from the fingerprint, so asset URLs stay
// human-readable and never expose the hash.
type Store struct {
	assetsDir string
	index     Index
	logger    *zap.Logger
}

func New(assetsDir string, index Index, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("assetstore: create assets dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		assetsDir: assetsDir,
		index:     index,
		logger:    logger.Named("assetstore"),
	}, nil
}

// Lookup returns the asset recorded for key, or absent on a miss.
//
// An index hit whose blob is missing or unreadable is reported as a miss so
// the caller regenerates; the stale entry is overwritten by the next Put for
// the same key. Index errors are best-effort: logged and treated as a miss.
func (s *Store) Lookup(ctx context.Context, key string) (*Asset, bool, error) {
	rec, ok, err := s.index.Get(ctx, key)
	if err != nil {
		s.logger.Warn("index get failed, treating as miss",
			zap.String("cache_key", key),
			zap.Error(err),
		)
		return nil, false, nil
	}
	if !ok {
		return nil, false, nil
	}

	data, err := os.ReadFile(filepath.Join(s.assetsDir, rec.AssetFile))
	if err != nil {
		s.logger.Warn("cached blob unreadable, treating as miss",
			zap.String("cache_key", key),
			zap.String("asset_file", rec.AssetFile),
			zap.Error(err),
		)
		return nil, false, nil
	}

	return s.asset(rec, string(data)), true, nil
}

// Put persists svg as a new blob and points the index entry for key at it.
//
// The blob is fully written and fsynced before the index update, so a crash
// mid-put can leave an orphan blob but never an index entry referencing
// unreadable content. Concurrent puts for the same key are last-writer-wins
// at the index; the losing blob stays on disk as a harmless orphan.
func (s *Store) Put(ctx context.Context, key, tag string, params map[string]any, svg string, meta RenderMeta) (*Asset, error) {
	assetID := uuid.NewString()[:8]
	assetFile := fmt.Sprintf("%s_%s.svg", cleanTag(tag), assetID)

	if err := s.writeBlob(assetFile, svg); err != nil {
		return nil, err
	}

	rec := Record{
		AssetID:     assetID,
		AssetFile:   assetFile,
		PrimitiveID: tag,
		Params:      params,
		RenderMeta:  meta,
	}
	if err := s.index.Put(ctx, key, rec); err != nil {
		return nil, fmt.Errorf("assetstore: index update for %s: %w", assetFile, err)
	}

	return s.asset(rec, svg), nil
}

// BlobPath resolves an asset filename inside the store directory, rejecting
// names that could escape it.
func (s *Store) BlobPath(name string) (string, error) {
	if name != filepath.Base(name) || strings.Contains(name, "..") || !strings.HasSuffix(name, ".svg") {
		return "", fmt.Errorf("assetstore: invalid asset name %q", name)
	}
	return filepath.Join(s.assetsDir, name), nil
}

func (s *Store) writeBlob(name, svg string) error {
	tmp, err := os.CreateTemp(s.assetsDir, ".blob-*.tmp")
	if err != nil {
		return fmt.Errorf("assetstore: create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(svg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: close blob: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.assetsDir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("assetstore: place blob: %w", err)
	}
	return nil
}

func (s *Store) asset(rec Record, svg string) *Asset {
	a := &Asset{
		AssetID:     rec.AssetID,
		PrimitiveID: rec.PrimitiveID,
		URL:         "/assets/" + rec.AssetFile,
		RenderMeta:  rec.RenderMeta,
	}
	if len(svg) < InlineThreshold {
		a.SVG = svg
	}
	return a
}

func cleanTag(tag string) string {
	tag = tagCleanRe.ReplaceAllString(strings.TrimSpace(tag), "-")
	if tag == "" {
		return "primitive"
	}
	return tag
}
