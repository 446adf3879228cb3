// Package api implements the HTTP handlers for the directory search
// service. The admission middleware gates the versioned routes before any
// handler here runs; denied requests never reach this package.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rosterhq/rosterd/cache"
	"github.com/rosterhq/rosterd/directory"
	"github.com/rosterhq/rosterd/ratelimit"
)

const serviceVersion = "1.0.0"

// Directory is the roster persistence surface the handlers depend on.
// Satisfied by *directory.Repository.
type Directory interface {
	GetOrganization(ctx context.Context, id int64) (*directory.Organization, error)
	Search(ctx context.Context, req directory.SearchRequest) (*directory.SearchResult, error)
	AvailableFilters(ctx context.Context, orgID int64) (*directory.FilterOptions, error)
	VisibleColumns(ctx context.Context, orgID int64) ([]directory.ColumnConfig, error)
}

// SearchRecorder counts search requests by response status. Implemented by
// the metrics package; nil disables recording.
type SearchRecorder interface {
	RecordSearch(status int)
}

// Handler serves the versioned API plus the unversioned service endpoints.
type Handler struct {
	dir     Directory
	filters cache.FilterCache
	gate    *ratelimit.AdmissionGate
	metrics SearchRecorder
	log     *slog.Logger
}

// NewHandler wires the handler's collaborators. A nil filter cache falls
// back to a no-op; a nil logger falls back to slog's default.
func NewHandler(dir Directory, filters cache.FilterCache, gate *ratelimit.AdmissionGate, metrics SearchRecorder, log *slog.Logger) *Handler {
	if filters == nil {
		filters = cache.NoopFilterCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{dir: dir, filters: filters, gate: gate, metrics: metrics, log: log}
}

// Routes registers the versioned API routes. The caller wraps this group in
// the admission middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/employees/search", h.SearchEmployees)
	r.Get("/organizations/{organizationID}/filters", h.OrganizationFilters)
	r.Get("/rate-limit/info", h.RateLimitInfo)
}

// errorResponse is the JSON shape of every non-2xx answer.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// searchResponse is one page of matches plus the organization's visible
// columns, so clients can render the configured column set.
type searchResponse struct {
	directory.SearchResult
	Columns []string `json:"columns,omitempty"`
}

// SearchEmployees handles POST /api/v1/employees/search.
func (h *Handler) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req directory.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.searchError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := req.Normalize(); err != nil {
		h.searchError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if _, err := h.dir.GetOrganization(ctx, req.OrganizationID); err != nil {
		if errors.Is(err, directory.ErrOrganizationNotFound) {
			h.searchError(w, http.StatusNotFound, "organization_not_found", "organization not found")
			return
		}
		h.log.Error("organization lookup failed", "organization_id", req.OrganizationID, "err", err)
		h.searchError(w, http.StatusInternalServerError, "internal_error", "failed to search employees")
		return
	}

	result, err := h.dir.Search(ctx, req)
	if err != nil {
		h.log.Error("employee search failed", "organization_id", req.OrganizationID, "err", err)
		h.searchError(w, http.StatusInternalServerError, "internal_error", "failed to search employees")
		return
	}

	resp := searchResponse{SearchResult: *result}
	configs, err := h.dir.VisibleColumns(ctx, req.OrganizationID)
	if err != nil {
		// Column config is presentational; a lookup failure degrades to the
		// full result without a column list rather than failing the search.
		h.log.Warn("visible columns lookup failed", "organization_id", req.OrganizationID, "err", err)
	}
	for _, c := range configs {
		resp.Columns = append(resp.Columns, c.ColumnName)
	}

	h.recordSearch(http.StatusOK)
	h.writeJSON(w, http.StatusOK, resp)
}

// OrganizationFilters handles GET /api/v1/organizations/{organizationID}/filters.
func (h *Handler) OrganizationFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID, err := strconv.ParseInt(chi.URLParam(r, "organizationID"), 10, 64)
	if err != nil || orgID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "organization id must be a positive integer")
		return
	}

	if _, err := h.dir.GetOrganization(ctx, orgID); err != nil {
		if errors.Is(err, directory.ErrOrganizationNotFound) {
			h.writeError(w, http.StatusNotFound, "organization_not_found", "organization not found")
			return
		}
		h.log.Error("organization lookup failed", "organization_id", orgID, "err", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to get available filters")
		return
	}

	opts, err := h.filters.GetFilters(ctx, orgID)
	if err != nil {
		h.log.Warn("filter cache read failed", "organization_id", orgID, "err", err)
	}
	if opts == nil {
		opts, err = h.dir.AvailableFilters(ctx, orgID)
		if err != nil {
			h.log.Error("filter options query failed", "organization_id", orgID, "err", err)
			h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to get available filters")
			return
		}
		if err := h.filters.SetFilters(ctx, orgID, opts); err != nil {
			h.log.Warn("filter cache write failed", "organization_id", orgID, "err", err)
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"organization_id": orgID,
		"filters":         opts,
	})
}

// RateLimitInfo handles GET /api/v1/rate-limit/info. It reads the calling
// client's standing without consuming quota.
func (h *Handler) RateLimitInfo(w http.ResponseWriter, r *http.Request) {
	verdict := h.gate.Peek(r)
	cfg := h.gate.Config()

	h.writeJSON(w, http.StatusOK, map[string]any{
		"client_id": verdict.Key,
		"rate_limit": map[string]any{
			"limit":          cfg.Limit,
			"window_seconds": int(cfg.Window / time.Second),
			"remaining":      verdict.Remaining,
			"reset_time":     verdict.ResetAt.Unix(),
		},
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "rosterd",
		"version": serviceVersion,
	})
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Employee Search Directory API",
		"status":  "healthy",
	})
}

// Favicon handles GET /favicon.ico with an empty 204.
func (h *Handler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response failed", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (h *Handler) searchError(w http.ResponseWriter, status int, code, message string) {
	h.recordSearch(status)
	h.writeError(w, status, code, message)
}

func (h *Handler) recordSearch(status int) {
	if h.metrics != nil {
		h.metrics.RecordSearch(status)
	}
}
