package models

// MatchResult is a single ranked hit for a product query.
// Score is either a cosine similarity or a keyword hit count depending on
// which strategy produced it; scores from different strategies are never
// compared against each other.
type MatchResult struct {
	Item  *CatalogItem `json:"item"`
	Score float64      `json:"score"`
	// IsApproximate marks results returned because the requested exact
	// device model had no catalog entry. When true, ExactModelRequested
	// carries the model the caller asked for.
	IsApproximate       bool   `json:"is_approximate"`
	ExactModelRequested string `json:"exact_model_requested,omitempty"`
}

// QualityOption is one quality tier with its validated price within a group.
type QualityOption struct {
	QualityTier string   `json:"quality_tier"`
	Price       *float64 `json:"price,omitempty"`
	RawName     string   `json:"raw_name"`
}

// QualityGroup collects every quality variant of one device+service pair.
// Options are sorted ascending by price with unpriced entries last.
// Recomputed per request from the current index, never cached.
type QualityGroup struct {
	Brand       string          `json:"brand"`
	DeviceModel string          `json:"device_model"`
	ServiceType string          `json:"service_type"`
	Options     []QualityOption `json:"options"`
}
