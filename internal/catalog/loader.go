// Package catalog loads the raw price list into structured catalog items and
// validates their prices. The loader owns item identity: ids are derived from
// the raw product name so they stay stable across reloads as long as the name
// is unchanged.
package catalog

import (
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/internal/rules"
)

// Load parses delimited price-list text. The first row is headers, the first
// column is the product name, and the second column is treated as a price
// candidate. Returns a *models.ParseError when the table has no data rows or
// the first column is empty for every row.
func Load(sourceText string) ([]*models.CatalogItem, error) {
	reader := csv.NewReader(strings.NewReader(sourceText))
	reader.Comma = detectDelimiter(sourceText)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &models.ParseError{Reason: fmt.Sprintf("malformed table: %v", err)}
	}
	return FromRows(rows)
}

// FromRows builds catalog items from already-split table rows (shared by the
// text and xlsx loaders).
func FromRows(rows [][]string) ([]*models.CatalogItem, error) {
	if len(rows) < 2 {
		return nil, &models.ParseError{Reason: "need at least one header row and one data row"}
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	items := make([]*models.CatalogItem, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		rawName := strings.TrimSpace(row[0])
		if rawName == "" {
			continue
		}
		cols := make(map[string]string, len(row))
		for i, v := range row {
			if i < len(headers) && headers[i] != "" {
				cols[headers[i]] = strings.TrimSpace(v)
			}
		}
		brand, deviceModel, serviceType, qualityTier := rules.Classify(rawName)
		item := &models.CatalogItem{
			ID:          itemID(rawName),
			RawName:     rawName,
			Brand:       brand,
			DeviceModel: deviceModel,
			ServiceType: serviceType,
			QualityTier: qualityTier,
			Columns:     cols,
		}
		item.Price = ExtractPrice(item)
		if item.Price == nil && len(row) > 1 {
			// Second column is the price candidate when no alias column hit.
			item.Price = parsePrice(row[1])
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, &models.ParseError{Reason: "first column is empty for every data row"}
	}
	return items, nil
}

// itemID returns a stable id for a raw product name.
func itemID(rawName string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(rules.Normalize(rawName)))
	return fmt.Sprintf("%016x", h.Sum64())
}

// detectDelimiter picks the delimiter that appears most in the header row,
// preferring tab, then semicolon, then comma.
func detectDelimiter(sourceText string) rune {
	header := sourceText
	if idx := strings.IndexByte(sourceText, '\n'); idx >= 0 {
		header = sourceText[:idx]
	}
	best := ','
	bestCount := strings.Count(header, ",")
	if n := strings.Count(header, ";"); n > bestCount {
		best, bestCount = ';', n
	}
	if n := strings.Count(header, "\t"); n > bestCount {
		best = '\t'
	}
	return best
}
