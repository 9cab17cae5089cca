package rest

import (
	"encoding/json"
	"net/http"

	"github.com/abgdnv/mangahaven/internal/checkout"
	"github.com/abgdnv/mangahaven/pkg/web"
)

// Checkout places an order from the session cart. Form validation happens in the service so
// the field keys match the checkout form.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sessionID, ok := web.GetSessionID(w, r, mLogger)
	if !ok {
		return
	}
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	placed, err := h.checkout.PlaceOrder(r.Context(), sessionID, form)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to place order")
		return
	}
	mLogger.InfoContext(r.Context(), "Order placed successfully", "ID", placed.ID, "number", placed.Number)
	web.RespondJSON(w, mLogger, http.StatusCreated, toOrderDto(placed))
}
