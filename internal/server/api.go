package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackielii/viewroutes/internal/countries"
)

// CountryService is the part of countries.Service the JSON API uses.
type CountryService interface {
	Lookup(ctx context.Context, code string) (*countries.Country, error)
	Search(ctx context.Context, name string) ([]countries.Country, error)
}

// CountryHandler serves the JSON country API.
type CountryHandler struct {
	service CountryService
	logger  *slog.Logger
}

// NewCountryHandler creates a handler backed by s.
func NewCountryHandler(s CountryService, logger *slog.Logger) *CountryHandler {
	return &CountryHandler{service: s, logger: logger}
}

// Routes registers the API endpoints on r.
func (h *CountryHandler) Routes(r chi.Router) {
	r.Get("/search", h.SearchCountry)
	r.Get("/{code}", h.GetCountry)
}

// SearchCountry handles GET /api/countries/search?name=.
func (h *CountryHandler) SearchCountry(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.respondError(w, http.StatusBadRequest, errors.New("query parameter 'name' is required"))
		return
	}
	list, err := h.service.Search(r.Context(), name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// GetCountry handles GET /api/countries/{code}.
func (h *CountryHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CountryHandler) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, countries.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, errors.New("country not found"))
		return
	}
	h.logger.Error("country api", "error", err)
	h.respondError(w, http.StatusInternalServerError, errors.New("internal server error"))
}

func (h *CountryHandler) respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
