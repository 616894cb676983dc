package keyword

import (
	"context"
	"testing"

	"github.com/tallerlink/pricebot/internal/models"
)

func testItems() []*models.CatalogItem {
	return []*models.CatalogItem{
		{ID: "1", RawName: "Pantalla iPhone 14 Original", Brand: "apple", DeviceModel: "iphone 14", ServiceType: "pantalla"},
		{ID: "2", RawName: "Bateria Galaxy S23", Brand: "samsung", DeviceModel: "galaxy s23", ServiceType: "bateria"},
	}
}

func TestCatalogIndex_Search(t *testing.T) {
	ctx := context.Background()
	idx, err := NewCatalogIndex("")
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	if err := idx.Rebuild(ctx, testItems()); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, "pantalla iphone", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].ItemID != "1" {
		t.Errorf("top hit = %s, want item 1", results[0].ItemID)
	}
}

func TestCatalogIndex_RebuildDropsRemovedItems(t *testing.T) {
	ctx := context.Background()
	idx, err := NewCatalogIndex("")
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	if err := idx.Rebuild(ctx, testItems()); err != nil {
		t.Fatal(err)
	}
	// Second build without the galaxy row.
	if err := idx.Rebuild(ctx, testItems()[:1]); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search(ctx, "galaxy", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("removed item still indexed: %v", results)
	}
}

func TestCatalogIndex_Persistent(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/bleve"
	idx, err := NewCatalogIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Rebuild(ctx, testItems()); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewCatalogIndex(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	results, err := reopened.Search(ctx, "galaxy", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ItemID != "2" {
		t.Errorf("reopened index: results = %v", results)
	}
}
