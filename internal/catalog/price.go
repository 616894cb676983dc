package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/tallerlink/pricebot/internal/models"
)

// priceColumnAliases are scanned in order; the first column present on the
// item decides the price.
var priceColumnAliases = []string{
	"precio",
	"price",
	"precio cliente",
	"precio publico",
	"precio venta",
	"pvp",
	"costo",
	"cost",
	"importe",
}

// ExtractPrice returns the validated price for an item, or nil. Zero, blank,
// or non-numeric source values never surface as a price; callers render nil
// as "price to confirm", not 0.
func ExtractPrice(item *models.CatalogItem) *float64 {
	for _, alias := range priceColumnAliases {
		v, ok := item.Columns[alias]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		return parsePrice(v)
	}
	return nil
}

// parsePrice strips everything but digits and dots, then parses. Only finite
// values greater than zero are returned.
func parsePrice(raw string) *float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return nil
	}
	return &v
}
