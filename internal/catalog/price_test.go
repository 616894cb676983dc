package catalog

import (
	"testing"

	"github.com/tallerlink/pricebot/internal/models"
)

func itemWithPrecio(v string) *models.CatalogItem {
	return &models.CatalogItem{
		RawName: "Pantalla iPhone 12",
		Columns: map[string]string{"producto": "Pantalla iPhone 12", "precio": v},
	}
}

func TestExtractPrice_Invalid(t *testing.T) {
	for _, v := range []string{"0", "", "N/A", "abc", "0.00"} {
		if got := ExtractPrice(itemWithPrecio(v)); got != nil {
			t.Errorf("ExtractPrice(precio=%q) = %v, want nil", v, *got)
		}
	}
}

func TestExtractPrice_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{"1500.50", 1500.50},
		{"$2,300", 2300},
		{" 950 MXN", 950},
	}
	for _, tt := range tests {
		got := ExtractPrice(itemWithPrecio(tt.in))
		if got == nil || *got != tt.want {
			t.Errorf("ExtractPrice(precio=%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractPrice_AliasOrder(t *testing.T) {
	item := &models.CatalogItem{
		RawName: "Bateria iPhone 13",
		Columns: map[string]string{"costo": "700", "precio": "950"},
	}
	got := ExtractPrice(item)
	if got == nil || *got != 950 {
		t.Errorf("ExtractPrice = %v, want 950 (precio outranks costo)", got)
	}
}

func TestExtractPrice_NoAlias(t *testing.T) {
	item := &models.CatalogItem{
		RawName: "Bateria iPhone 13",
		Columns: map[string]string{"nota": "agotado"},
	}
	if got := ExtractPrice(item); got != nil {
		t.Errorf("ExtractPrice = %v, want nil", *got)
	}
}
