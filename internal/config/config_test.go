package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9090
catalog:
  path: ./precios.csv
  watch: true
matching:
  primary_min_similarity: 0.15
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Host default = %q, want localhost", cfg.Server.Host)
	}
	if cfg.Catalog.Path != filepath.Join(dir, "precios.csv") {
		t.Errorf("Catalog.Path = %q, want it expanded under %q", cfg.Catalog.Path, dir)
	}
	if cfg.Matching.PrimaryMinSimilarity != 0.15 {
		t.Errorf("PrimaryMinSimilarity = %v, want 0.15", cfg.Matching.PrimaryMinSimilarity)
	}
	if cfg.Matching.SecondaryMinSimilarity != 0.25 {
		t.Errorf("SecondaryMinSimilarity default = %v, want 0.25", cfg.Matching.SecondaryMinSimilarity)
	}
	if cfg.Embedding.BatchSize != 16 {
		t.Errorf("BatchSize default = %d, want 16", cfg.Embedding.BatchSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Matching.PrimaryMinSimilarity != 0.12 {
		t.Errorf("PrimaryMinSimilarity = %v, want 0.12", cfg.Matching.PrimaryMinSimilarity)
	}
	if cfg.Embedding.RequestTimeout().Seconds() != 40 {
		t.Errorf("RequestTimeout = %v, want 40s", cfg.Embedding.RequestTimeout())
	}
	if cfg.Matching.QualityTopK != 100 {
		t.Errorf("QualityTopK = %d, want 100", cfg.Matching.QualityTopK)
	}
}
