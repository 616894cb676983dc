// Package keyword provides a Bleve full-text index over raw catalog lines,
// used by the ops API for free-form price-list lookups. The matching
// engine's availability fallback does not depend on this package.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/tallerlink/pricebot/internal/models"
)

// Result is one catalog line hit.
type Result struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// catalogDoc is the indexed shape of a catalog item.
type catalogDoc struct {
	RawName     string `json:"raw_name"`
	Brand       string `json:"brand"`
	DeviceModel string `json:"device_model"`
	ServiceType string `json:"service_type"`
}

// CatalogIndex is a Bleve index over catalog lines.
type CatalogIndex struct {
	index bleve.Index
}

// NewCatalogIndex creates or opens a Bleve index at path. An empty path
// builds an in-memory index.
func NewCatalogIndex(path string) (*CatalogIndex, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so part names
	// and model numbers match exactly as written.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("raw_name", textFieldMapping)
	docMapping.AddFieldMappingsAt("brand", textFieldMapping)
	docMapping.AddFieldMappingsAt("device_model", textFieldMapping)
	docMapping.AddFieldMappingsAt("service_type", textFieldMapping)
	im.DefaultMapping = docMapping

	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory index: %w", err)
		}
		return &CatalogIndex{index: index}, nil
	}
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open catalog index: %w", openErr)
		}
		return &CatalogIndex{index: index}, nil
	}
	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog index: %w", err)
	}
	return &CatalogIndex{index: index}, nil
}

// Rebuild replaces the indexed set with items. Ids indexed by a previous
// build that are no longer in items are deleted, so a shrinking price list
// does not leave stale hits behind.
func (c *CatalogIndex) Rebuild(ctx context.Context, items []*models.CatalogItem) error {
	keep := make(map[string]struct{}, len(items))
	for _, it := range items {
		keep[it.ID] = struct{}{}
	}
	batch := c.index.NewBatch()
	if stale, err := c.staleIDs(ctx, keep); err == nil {
		for _, id := range stale {
			batch.Delete(id)
		}
	}
	for _, it := range items {
		if err := batch.Index(it.ID, catalogDoc{
			RawName:     it.RawName,
			Brand:       it.Brand,
			DeviceModel: it.DeviceModel,
			ServiceType: it.ServiceType,
		}); err != nil {
			return fmt.Errorf("failed to batch item %s: %w", it.ID, err)
		}
	}
	return c.index.Batch(batch)
}

// staleIDs returns indexed doc ids absent from keep.
func (c *CatalogIndex) staleIDs(ctx context.Context, keep map[string]struct{}) ([]string, error) {
	count, err := c.index.DocCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	res, err := c.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, hit := range res.Hits {
		if _, ok := keep[hit.ID]; !ok {
			stale = append(stale, hit.ID)
		}
	}
	return stale, nil
}

// Search runs a match query and returns up to limit item ids.
func (c *CatalogIndex) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := c.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	out := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		out = append(out, &Result{ItemID: hit.ID, Score: hit.Score})
	}
	return out, nil
}

// Close closes the underlying index.
func (c *CatalogIndex) Close() error {
	return c.index.Close()
}
