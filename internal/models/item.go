// Package models defines core data structures for catalog items, query
// analysis, and match results.
package models

// Sentinel labels used when the rule tables cannot classify a field.
const (
	BrandUnknown    = "unknown"
	DeviceUnknown   = "unknown"
	ServiceGeneral  = "general"
	QualityStandard = "standard"
)

// CatalogItem is one purchasable repair line from the price list.
// Items are immutable once created; reclassification requires a new load pass.
type CatalogItem struct {
	ID          string `json:"id"`
	RawName     string `json:"raw_name"`
	Brand       string `json:"brand"`
	DeviceModel string `json:"device_model"`
	ServiceType string `json:"service_type"`
	QualityTier string `json:"quality_tier"`
	// Price is the validated price, nil when the source value is missing,
	// zero, or unparseable. Callers render nil as "price to confirm".
	Price *float64 `json:"price,omitempty"`
	// Columns holds the source row values keyed by lowercased header name,
	// for price-column alias scanning.
	Columns map[string]string `json:"-"`
}

// SearchableText returns the normalized string that is embedded for this item.
func (it *CatalogItem) SearchableText() string {
	return it.Brand + " " + it.DeviceModel + " " + it.ServiceType + " " + it.QualityTier + " " + it.RawName
}
