package matcher

import (
	"context"

	"github.com/tallerlink/pricebot/internal/models"
	"github.com/tallerlink/pricebot/internal/rules"
)

// strategy produces ranked candidates for a query, or an empty slice when it
// has nothing. Strategies are tried in order until one yields results: an
// explicit chain instead of nested error recovery, so each link is testable
// on its own.
type strategy func(ctx context.Context, snap *snapshot, query string, topK int) []*models.MatchResult

// namedStrategy tags each chain link so callers know which kind of score the
// results carry (cosine or keyword count, never compared to each other).
type namedStrategy struct {
	name string
	run  strategy
}

func (e *Engine) strategies() []namedStrategy {
	return []namedStrategy{
		{name: "semantic", run: e.semanticStrategy},
		{name: "keyword", run: e.keywordStrategy},
	}
}

// semanticStrategy ranks by cosine similarity over the vector index. It
// returns nothing when the provider is unavailable or every score falls
// under the primary threshold; the chain then moves on to keyword matching.
func (e *Engine) semanticStrategy(ctx context.Context, snap *snapshot, query string, topK int) []*models.MatchResult {
	if snap.index.Size() == 0 {
		return nil
	}
	vec := e.queryVector(ctx, query)
	if vec == nil {
		return nil
	}
	hits := snap.index.Search(vec, e.cfg.PrimaryMinSimilarity)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	results := make([]*models.MatchResult, 0, len(hits))
	for _, h := range hits {
		item, ok := snap.byID[h.ID]
		if !ok {
			continue
		}
		results = append(results, &models.MatchResult{Item: item, Score: h.Score})
	}
	return results
}

// keywordStrategy wraps the dependency-free keyword scorer. It is the
// guaranteed floor of availability: it never fails, though it may return
// empty when no token matches anything.
func (e *Engine) keywordStrategy(ctx context.Context, snap *snapshot, query string, topK int) []*models.MatchResult {
	return keywordSearch(snap.items, query, topK, e.cfg.MinTokenLength)
}

// runChain evaluates the strategies in order and returns the first non-empty
// candidate set along with the name of the strategy that produced it.
func (e *Engine) runChain(ctx context.Context, snap *snapshot, query string, topK int) ([]*models.MatchResult, string) {
	for _, s := range e.strategies() {
		if results := s.run(ctx, snap, query, topK); len(results) > 0 {
			return results, s.name
		}
	}
	return nil, ""
}

// SearchProducts runs the full matching pipeline: strategy chain, exact-model
// refinement, truncation. It returns models.ErrIndexNotReady only when no
// catalog has ever loaded; otherwise it always returns a best-effort ranked
// set for a non-empty catalog.
func (e *Engine) SearchProducts(ctx context.Context, query string, limit int) ([]*models.MatchResult, error) {
	snap := e.current()
	if snap == nil {
		return nil, models.ErrIndexNotReady
	}
	limit = e.clampLimit(limit)

	qa := rules.AnalyzeQuery(query)
	candidates, producer := e.runChain(ctx, snap, query, e.cfg.MaxLimit)
	refined := e.refine(candidates, qa, producer == "semantic")
	if len(refined) > limit {
		refined = refined[:limit]
	}
	return refined, nil
}

// FindRelevantProducts is the semantic-only variant: no exact-model
// refinement, same availability contract (the keyword floor still applies
// when the provider is down).
func (e *Engine) FindRelevantProducts(ctx context.Context, query string, limit int) ([]*models.MatchResult, error) {
	snap := e.current()
	if snap == nil {
		return nil, models.ErrIndexNotReady
	}
	limit = e.clampLimit(limit)
	results, _ := e.runChain(ctx, snap, query, limit)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// refine applies exact-model disambiguation. With no exact model requested,
// candidates pass through unchanged. When the exact partition is non-empty
// the off-target models are dropped entirely; otherwise alternatives are
// selected (same brand, requested service type, or a similarity above the
// secondary threshold when the scores are semantic) and every one is
// flagged approximate.
func (e *Engine) refine(candidates []*models.MatchResult, qa *models.QueryAnalysis, semanticScores bool) []*models.MatchResult {
	target := qa.ExactDeviceModel
	if target == "" {
		return candidates
	}

	exact := make([]*models.MatchResult, 0, len(candidates))
	for _, r := range candidates {
		if r.Item.DeviceModel == target {
			exact = append(exact, r)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	targetBrand := rules.Brand(target)
	alternatives := make([]*models.MatchResult, 0, len(candidates))
	for _, r := range candidates {
		sameBrand := targetBrand != models.BrandUnknown && r.Item.Brand == targetBrand
		sameService := qa.ServiceType != "" && r.Item.ServiceType == qa.ServiceType
		strongScore := semanticScores && r.Score >= e.cfg.SecondaryMinSimilarity
		if sameBrand || sameService || strongScore {
			alternatives = append(alternatives, r)
		}
	}
	if len(alternatives) == 0 {
		// Best effort: a non-empty catalog never yields an empty answer.
		alternatives = candidates
	}
	for _, r := range alternatives {
		r.IsApproximate = true
		r.ExactModelRequested = target
	}
	return alternatives
}
