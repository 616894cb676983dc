package embedding

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	entries := []Entry{
		{ItemID: "a", TextHash: TextHash("apple iphone 14 pantalla"), Vector: []float32{0.1, 0.2, 0.3}},
		{ItemID: "b", TextHash: TextHash("apple iphone 13 bateria"), Vector: []float32{-1, 0, 1}},
	}
	if err := store.SaveAll(ctx, entries); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("len(loaded) = %d, want 2", len(loaded))
	}
	got := loaded["a"]
	if got.TextHash != entries[0].TextHash {
		t.Errorf("TextHash = %q, want %q", got.TextHash, entries[0].TextHash)
	}
	for i, v := range entries[0].Vector {
		if got.Vector[i] != v {
			t.Errorf("Vector[%d] = %v, want %v", i, got.Vector[i], v)
		}
	}
}

func TestStore_SaveAllIsSnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.SaveAll(ctx, []Entry{{ItemID: "old", TextHash: "h", Vector: []float32{1}}}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveAll(ctx, []Entry{{ItemID: "new", TextHash: "h2", Vector: []float32{2}}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded["old"]; ok {
		t.Error("removed entry survived a snapshot save")
	}
	if _, ok := loaded["new"]; !ok {
		t.Error("new entry missing after snapshot save")
	}
}

func TestStore_DimensionFilter(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.SaveAll(ctx, []Entry{{ItemID: "a", TextHash: "h", Vector: []float32{1, 2}}}); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Errorf("entries with wrong dimensionality must be skipped, got %d", len(loaded))
	}
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	emb := NewMockEmbedder(32)
	a, err := emb.Embed(ctx, "pantalla iphone 14")
	if err != nil {
		t.Fatal(err)
	}
	b, err := emb.Embed(ctx, "pantalla iphone 14")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d", i)
		}
	}
	if emb.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", emb.Calls())
	}
}

func TestMockEmbedder_FailAll(t *testing.T) {
	emb := NewMockEmbedder(8)
	emb.FailAll = true
	if _, err := emb.Embed(context.Background(), "x"); err == nil {
		t.Error("expected forced failure")
	}
}
