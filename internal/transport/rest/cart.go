package rest

import (
	"net/http"

	"github.com/abgdnv/mangahaven/pkg/web"
)

// ViewCart returns the session cart with catalog details and the pricing summary.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.GetSessionID(w, r, mLogger)
	if !ok {
		return
	}

	view, err := h.carts.View(r.Context(), sessionID)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to load cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toCartDto(view))
}

// AddToCart adds an item to the session cart, merging with an existing line.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.GetSessionID(w, r, mLogger)
	if !ok {
		return
	}
	var req AddItemRequest
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &req) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to add item to cart", "itemID", req.ItemID, "quantity", req.Quantity)
	line, err := h.carts.AddItem(r.Context(), sessionID, req.ItemID, req.Quantity)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to add item to cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Item added to cart", "itemID", line.ItemID, "quantity", line.Quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartLineDto(*line))
}

// UpdateCartItem sets the quantity of an item in the session cart.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.GetSessionID(w, r, mLogger)
	if !ok {
		return
	}
	itemID, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &req) {
		return
	}

	line, err := h.carts.UpdateQuantity(r.Context(), sessionID, itemID, req.Quantity)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to update cart item")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart item updated", "itemID", line.ItemID, "quantity", line.Quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartLineDto(*line))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.GetSessionID(w, r, mLogger)
	if !ok {
		return
	}
	itemID, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}

	if _, err := h.carts.RemoveItem(r.Context(), sessionID, itemID); err != nil {
		h.respondError(w, r, mLogger, err, "Failed to remove cart item")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart item removed", "itemID", itemID)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the session cart and returns the removed lines.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.GetSessionID(w, r, mLogger)
	if !ok {
		return
	}

	removed, err := h.carts.Clear(r.Context(), sessionID)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to clear cart")
		return
	}
	mLogger.InfoContext(r.Context(), "Cart cleared", "removed", len(removed))
	web.RespondJSON(w, mLogger, http.StatusOK, ClearedCartDto{Removed: toCartLineDtos(removed)})
}
