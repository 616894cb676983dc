package models

// QueryAnalysis is the rule-table extraction for one free-text query.
// Produced fresh per query, never persisted.
type QueryAnalysis struct {
	RawQuery         string `json:"raw_query"`
	ExactDeviceModel string `json:"exact_device_model,omitempty"`
	ServiceType      string `json:"service_type,omitempty"`
	QualityHint      string `json:"quality_hint,omitempty"`
}
