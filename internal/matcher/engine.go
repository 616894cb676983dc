// Package matcher implements the product matching engine: semantic ranking
// over the catalog with deterministic exact-model disambiguation, a keyword
// fallback floor, and quality-variant grouping.
package matcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tallerlink/pricebot/internal/config"
	"github.com/tallerlink/pricebot/internal/embedding"
	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/internal/vector"
)

// Engine state labels reported by State.
const (
	StateUninitialized = "uninitialized"
	StateLoading       = "loading"
	StateReady         = "ready"
	// StateDegraded means a catalog is loaded but no vectors are available,
	// so every query runs on the keyword fallback until a rebuild succeeds.
	StateDegraded = "degraded"
)

// snapshot is one immutable build of the index. Queries read whichever
// snapshot is current; Build swaps in a complete replacement, so readers are
// never blocked by a rebuild.
type snapshot struct {
	items []*models.CatalogItem
	byID  map[string]*models.CatalogItem
	index *vector.Index
}

// BuildStats summarizes the last index build.
type BuildStats struct {
	Items     int `json:"items"`
	Cached    int `json:"cached"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// Engine owns the in-memory index and serves concurrent read queries
// against it.
type Engine struct {
	embedder embedding.Embedder
	store    *embedding.Store // nil disables persistence
	cfg      *config.MatchingConfig
	embCfg   *config.EmbeddingConfig
	logger   *zap.Logger // optional; when set, logs build and fallback events

	snap    atomic.Pointer[snapshot]
	loading atomic.Bool
	buildMu sync.Mutex // single-flight guard: one load/refresh at a time
	stats   atomic.Pointer[BuildStats]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a logger for build progress and fallback events.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStore sets the persistent vector cache.
func WithStore(s *embedding.Store) Option {
	return func(e *Engine) { e.store = s }
}

// NewEngine creates a matching engine with the given dependencies.
func NewEngine(embedder embedding.Embedder, matchCfg *config.MatchingConfig, embCfg *config.EmbeddingConfig, opts ...Option) *Engine {
	e := &Engine{
		embedder: embedder,
		cfg:      matchCfg,
		embCfg:   embCfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() string {
	if e.loading.Load() {
		return StateLoading
	}
	snap := e.snap.Load()
	if snap == nil {
		return StateUninitialized
	}
	if snap.index.Size() == 0 && len(snap.items) > 0 {
		return StateDegraded
	}
	return StateReady
}

// Stats returns the stats of the last completed build, or nil.
func (e *Engine) Stats() *BuildStats {
	return e.stats.Load()
}

// ItemCount returns the number of catalog items in the current snapshot.
func (e *Engine) ItemCount() int {
	snap := e.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.items)
}

// IndexSize returns the number of vectors in the current snapshot's index.
func (e *Engine) IndexSize() int {
	snap := e.snap.Load()
	if snap == nil {
		return 0
	}
	return snap.index.Size()
}

// Item looks up a catalog item by id in the current snapshot.
func (e *Engine) Item(id string) (*models.CatalogItem, bool) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, false
	}
	it, ok := snap.byID[id]
	return it, ok
}

// Build constructs a fresh snapshot from items and swaps it in. Vectors are
// taken from the persistent cache when the item's searchable text is
// unchanged; everything else is requested from the provider in fixed-size
// batches with an inter-batch delay. A failed batch leaves its items without
// vectors (they degrade to keyword matching) rather than aborting the build.
// Build is idempotent: rebuilding an unchanged catalog issues no provider
// calls.
func (e *Engine) Build(ctx context.Context, items []*models.CatalogItem) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	e.loading.Store(true)
	defer e.loading.Store(false)

	stats := &BuildStats{Items: len(items)}

	cached := make(map[string]embedding.Entry)
	if e.store != nil {
		loaded, err := e.store.Load(ctx, e.embedder.Dimensions())
		if err != nil {
			if e.logger != nil {
				e.logger.Warn("vector cache load failed, regenerating all", zap.Error(err))
			}
		} else {
			cached = loaded
		}
	}

	vectors := make(map[string][]float32, len(items))
	var missing []*models.CatalogItem
	for _, it := range items {
		hash := embedding.TextHash(it.SearchableText())
		if entry, ok := cached[it.ID]; ok && entry.TextHash == hash {
			vectors[it.ID] = entry.Vector
			stats.Cached++
			continue
		}
		missing = append(missing, it)
	}

	e.embedMissing(ctx, missing, vectors, stats)

	// Index insertion follows catalog order so tied similarity scores keep
	// the catalog's ordering.
	index := vector.New()
	entries := make([]embedding.Entry, 0, len(vectors))
	for _, it := range items {
		vec, ok := vectors[it.ID]
		if !ok {
			continue
		}
		index.Add(it.ID, vec)
		entries = append(entries, embedding.Entry{
			ItemID:   it.ID,
			TextHash: embedding.TextHash(it.SearchableText()),
			Vector:   vec,
		})
	}

	if e.store != nil {
		if err := e.store.SaveAll(ctx, entries); err != nil && e.logger != nil {
			e.logger.Warn("vector cache persist failed", zap.Error(err))
		}
	}

	byID := make(map[string]*models.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	e.snap.Store(&snapshot{items: items, byID: byID, index: index})
	e.stats.Store(stats)

	if e.logger != nil {
		e.logger.Info("index built",
			zap.Int("items", stats.Items),
			zap.Int("cached", stats.Cached),
			zap.Int("generated", stats.Generated),
			zap.Int("failed", stats.Failed),
		)
	}
	return nil
}

// embedMissing requests vectors for items in batches, tolerating per-batch
// failures.
func (e *Engine) embedMissing(ctx context.Context, missing []*models.CatalogItem, vectors map[string][]float32, stats *BuildStats) {
	batchSize := e.embCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 16
	}
	for start := 0; start < len(missing); start += batchSize {
		end := start + batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]
		texts := make([]string, len(batch))
		for i, it := range batch {
			texts[i] = it.SearchableText()
		}
		vecs, err := e.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			stats.Failed += len(batch)
			if e.logger != nil {
				e.logger.Warn("embedding batch failed, items degrade to keyword matching",
					zap.Int("batch_start", start),
					zap.Int("batch_len", len(batch)),
					zap.Error(err),
				)
			}
		} else {
			for i, it := range batch {
				vectors[it.ID] = vecs[i]
				stats.Generated++
			}
		}
		if end < len(missing) && e.embCfg.BatchDelay() > 0 {
			select {
			case <-ctx.Done():
				stats.Failed += len(missing) - end
				return
			case <-time.After(e.embCfg.BatchDelay()):
			}
		}
	}
}

// queryVector embeds the query text, returning nil on any provider failure:
// nil signals downstream code to use the keyword fallback.
func (e *Engine) queryVector(ctx context.Context, query string) []float32 {
	timeout := e.embCfg.RequestTimeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("query embedding failed, using keyword fallback", zap.Error(err))
		}
		return nil
	}
	return vec
}

// current returns the serving snapshot, or nil when no catalog has ever
// loaded.
func (e *Engine) current() *snapshot {
	snap := e.snap.Load()
	if snap == nil || len(snap.items) == 0 {
		return nil
	}
	return snap
}

// clampLimit normalizes a caller-supplied limit.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}
	return limit
}
