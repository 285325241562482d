// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const defaultFeaturedLimit = 4

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/products", h.HandleSearch)
	r.Get("/products/{id}", h.HandleGetProduct)
	r.Get("/facets", h.HandleFacets)
	r.Get("/featured", h.HandleFeatured)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := ParseQuery(r.URL.Query())

	results, err := h.service.Search(r.Context(), query)
	if err != nil {
		log.WithError(err).Error("catalog search failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.WithError(err).WithField("product_id", id).Error("get product failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		log.WithError(err).Error("facet derivation failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, facets)
}

func (h *Handler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeaturedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	products, err := h.service.Featured(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("featured lookup failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}
