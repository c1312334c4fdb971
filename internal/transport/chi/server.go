// Package chi exposes the search engine over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/domain/search/order"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/facetdex/internal/usecase/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server holds the HTTP handlers.
type Server struct {
	search        *searchuc.Service
	sessions      *sessionuc.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	sessions *sessionuc.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:        search,
		sessions:      sessions,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/taxonomy", s.GetTaxonomy)
		r.Post("/search", s.Search)

		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/search", s.SetSessionSearch)
			r.Put("/filters", s.SetSessionFilters)
			r.Put("/sort", s.SetSessionSort)
			r.Post("/tags/toggle", s.ToggleSessionTag)
			r.Post("/tags/cycle", s.CycleSessionTag)
			r.Post("/tags/remove", s.RemoveSessionTag)
			r.Post("/filters/clear", s.ClearSessionFilters)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// GetTaxonomy handles GET /api/v1/taxonomy.
func (s *Server) GetTaxonomy(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, taxonomyToDTO(s.search.Taxonomy()))
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := searchRequestFromDTO(body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	v, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewToDTO(v, s.search.Taxonomy()))
}

// CreateSession handles POST /api/v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSession(w, r, http.StatusCreated, sess)
}

// GetSession handles GET /api/v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, CodeSessionNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetSessionSearch handles PUT /api/v1/sessions/{id}/search.
func (s *Server) SetSessionSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body SearchQueryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := sess.SetSearch(body.Query); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

// SetSessionFilters handles PUT /api/v1/sessions/{id}/filters.
func (s *Server) SetSessionFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body FiltersRequest
	if !decodeBody(w, r, &body) {
		return
	}
	fs, err := filtersFromDTO(body.Filters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := sess.SetFilters(fs); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

// SetSessionSort handles PUT /api/v1/sessions/{id}/sort.
func (s *Server) SetSessionSort(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body SortRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.SortBy != nil {
		if err := sess.SetSortBy(order.SortBy(*body.SortBy)); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}
	if body.SortDirection != nil {
		if err := sess.SetSortDirection(order.Direction(*body.SortDirection)); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

// ToggleSessionTag handles POST /api/v1/sessions/{id}/tags/toggle.
func (s *Server) ToggleSessionTag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body ToggleTagRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if err := sess.ToggleTag(body.Category, body.Tag); err != nil {
		s.handleDomainError(w, err)
		return
	}
	s.writeSession(w, r, http.StatusOK, sess)
}

// CycleSessionTag handles POST /api/v1/sessions/{id}/tags/cycle.
func (s *Server) CycleSessionTag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body TagRequest
	if !decodeBody(w, r, &body) {
		return
	}
	sess.CycleModifier(body.Tag)
	s.writeSession(w, r, http.StatusOK, sess)
}

// RemoveSessionTag handles POST /api/v1/sessions/{id}/tags/remove.
func (s *Server) RemoveSessionTag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body TagRequest
	if !decodeBody(w, r, &body) {
		return
	}
	sess.RemoveFilter(body.Tag)
	s.writeSession(w, r, http.StatusOK, sess)
}

// ClearSessionFilters handles POST /api/v1/sessions/{id}/filters/clear.
func (s *Server) ClearSessionFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClearFilters()
	s.writeSession(w, r, http.StatusOK, sess)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*sessionuc.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, sess *sessionuc.Session) {
	v, err := sess.View(r.Context(), s.search)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, status, sessionToDTO(sess.State(), v, s.search.Taxonomy()))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
