package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tallerlink/pricebot/internal/models"
	"go.uber.org/zap"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Query   string                `json:"query"`
	Results []*models.MatchResult `json:"results"`
	Count   int                   `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("search request",
		zap.String("request_id", reqID(r)),
		zap.String("query", req.Query),
		zap.Int("limit", req.Limit))
	results, err := s.engine.SearchProducts(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, searchResponse{Query: req.Query, Results: results, Count: len(results)})
}

func (s *Server) handleRelevant(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("relevant request",
		zap.String("request_id", reqID(r)),
		zap.String("query", req.Query),
		zap.Int("limit", req.Limit))
	results, err := s.engine.FindRelevantProducts(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, searchResponse{Query: req.Query, Results: results, Count: len(results)})
}

func (s *Server) handleQualities(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	service := r.URL.Query().Get("service")
	if model == "" || service == "" {
		s.respondError(w, http.StatusBadRequest, "model and service are required")
		return
	}
	s.logger.Debug("qualities request",
		zap.String("request_id", reqID(r)),
		zap.String("model", model),
		zap.String("service", service))
	groups, err := s.engine.FindAllQualityOptions(r.Context(), model, service)
	if err != nil {
		s.respondEngineError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"model":   model,
		"service": service,
		"groups":  groups,
	})
}

func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		s.respondError(w, http.StatusNotImplemented, "catalog index not enabled")
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := s.config.Matching.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > s.config.Matching.MaxLimit {
		limit = s.config.Matching.MaxLimit
	}
	hits, err := s.catalog.Search(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("catalog search failed", zap.String("request_id", reqID(r)), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type catalogHit struct {
		Item  *models.CatalogItem `json:"item"`
		Score float64             `json:"score"`
	}
	out := make([]catalogHit, 0, len(hits))
	for _, h := range hits {
		item, ok := s.engine.Item(h.ItemID)
		if !ok {
			continue
		}
		out = append(out, catalogHit{Item: item, Score: h.Score})
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": q, "results": out, "count": len(out)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"state":             s.engine.State(),
		"items":             s.engine.ItemCount(),
		"vector_index_size": s.engine.IndexSize(),
	}
	if stats := s.engine.Stats(); stats != nil {
		resp["last_build"] = stats
	}
	resp["config"] = map[string]interface{}{
		"catalog_path":             s.config.Catalog.Path,
		"embedding_model":          s.config.Embedding.Model,
		"embedding_dimensions":     s.config.Embedding.Dimensions,
		"primary_min_similarity":   s.config.Matching.PrimaryMinSimilarity,
		"secondary_min_similarity": s.config.Matching.SecondaryMinSimilarity,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondEngineError maps engine errors to HTTP statuses. A not-ready engine
// is a 503 so callers can retry after the initial build.
func (s *Server) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrIndexNotReady) {
		s.respondError(w, http.StatusServiceUnavailable, "index not ready")
		return
	}
	s.logger.Error("request failed", zap.String("request_id", reqID(r)), zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
