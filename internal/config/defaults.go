package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.VectorCachePath == "" {
		cfg.Storage.VectorCachePath = "/usr/local/var/pricebot/data/vectors.db"
	}
	if cfg.Storage.KeywordIndexPath == "" {
		cfg.Storage.KeywordIndexPath = "/usr/local/var/pricebot/data/indices/bleve"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "https://api.openai.com"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1536
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 16
	}
	if cfg.Embedding.BatchDelayMs == 0 {
		cfg.Embedding.BatchDelayMs = 500
	}
	if cfg.Embedding.RequestTimeoutS == 0 {
		cfg.Embedding.RequestTimeoutS = 40
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 3
	}
	if cfg.Embedding.RetryBackoffMs == 0 {
		cfg.Embedding.RetryBackoffMs = 750
	}
	if cfg.Matching.PrimaryMinSimilarity == 0 {
		cfg.Matching.PrimaryMinSimilarity = 0.12
	}
	if cfg.Matching.SecondaryMinSimilarity == 0 {
		cfg.Matching.SecondaryMinSimilarity = 0.25
	}
	if cfg.Matching.DefaultLimit == 0 {
		cfg.Matching.DefaultLimit = 5
	}
	if cfg.Matching.MaxLimit == 0 {
		cfg.Matching.MaxLimit = 100
	}
	if cfg.Matching.QualityTopK == 0 {
		cfg.Matching.QualityTopK = 100
	}
	if cfg.Matching.MinTokenLength == 0 {
		cfg.Matching.MinTokenLength = 3
	}
}
