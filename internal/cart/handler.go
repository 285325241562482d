// internal/cart/handler.go
package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/product"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the cart endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/carts", h.HandleNewSession)
	r.Route("/carts/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGetCart)
		r.Post("/items", h.HandleAddItem)
		r.Patch("/items/{productID}", h.HandleUpdateQuantity)
		r.Delete("/items/{productID}", h.HandleRemoveItem)
		r.Post("/checkout", h.HandleCheckout)
		r.Post("/wishlist/{productID}", h.HandleToggleWishlist)
	})
}

func (h *Handler) HandleNewSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.NewSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetCart(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string           `json:"product_id"`
		Variant   *product.Variant `json:"variant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "missing product_id", http.StatusBadRequest)
		return
	}

	view, err := h.service.AddItem(r.Context(), id, req.ProductID, req.Variant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		http.Error(w, "missing quantity", http.StatusBadRequest)
		return
	}

	view, err := h.service.UpdateQuantity(r.Context(), id, chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.RemoveItem(r.Context(), id, chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	handoff, err := h.service.Checkout(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, handoff)
}

func (h *Handler) HandleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.ToggleWishlist(r.Context(), id, chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid cart ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrUnknownVariant):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.WithError(err).Error("cart request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}
