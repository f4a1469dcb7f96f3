package assetstore

// RenderMeta describes how an asset should be presented.
type RenderMeta struct {
	Confidence float64 `json:"confidence"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// Record is the persisted unit the index maps a fingerprint to.
// Immutable once written; stale records are overwritten wholesale by
// regeneration, never patched.
type Record struct {
	AssetID     string         `json:"asset_id"`
	AssetFile   string         `json:"asset_file"`
	PrimitiveID string         `json:"primitive_id"`
	Params      map[string]any `json:"params,omitempty"`
	RenderMeta  RenderMeta     `json:"render_meta"`
}

// Asset is what a lookup or put hands back to the caller. SVG is inlined
// only for small content; larger assets are fetched through URL.
type Asset struct {
	AssetID     string     `json:"asset_id"`
	PrimitiveID string     `json:"primitive_id"`
	URL         string     `json:"url"`
	SVG         string     `json:"svg,omitempty"`
	RenderMeta  RenderMeta `json:"render_meta"`
}
