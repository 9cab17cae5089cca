package rest

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/abgdnv/mangahaven/pkg/web"
)

// ListOrders returns the recorded orders, optionally narrowed by ?status= and ?email=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	q := r.URL.Query()
	rawStatus := strings.TrimSpace(q.Get("status"))
	email := strings.TrimSpace(q.Get("email"))

	var status order.Status
	if rawStatus != "" {
		s, err := order.ParseStatus(rawStatus)
		if err != nil {
			h.respondError(w, r, mLogger, err, "Failed to fetch orders")
			return
		}
		status = s
	}

	var (
		list []order.Order
		err  error
	)
	switch {
	case email != "":
		list, err = h.orders.FindByEmail(r.Context(), email)
		if err == nil && status != "" {
			list = slices.DeleteFunc(list, func(o order.Order) bool { return o.Status != status })
		}
	case status != "":
		list, err = h.orders.FindByStatus(r.Context(), status)
	default:
		list, err = h.orders.FindAll(r.Context())
	}
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to fetch orders")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved order list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, toOrderDtos(list))
}

// FindOrder retrieves an order by its ID.
func (h *Handler) FindOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}

	found, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to retrieve order with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toOrderDto(found))
}

// UpdateOrder changes the status or the shipping address of an order.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if !web.DecodeAndValidate(w, r, mLogger, h.validate, &req) {
		return
	}

	var patch order.Patch
	if req.Status != nil {
		s, err := order.ParseStatus(*req.Status)
		if err != nil {
			h.respondError(w, r, mLogger, err, "Failed to update order")
			return
		}
		patch.Status = &s
	}
	if req.ShippingAddress != nil {
		addr := req.ShippingAddress.toAddress()
		patch.ShippingAddress = &addr
	}

	updated, err := h.orders.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to update order with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Order updated successfully", "ID", updated.ID, "status", updated.Status)
	web.RespondJSON(w, mLogger, http.StatusOK, toOrderDto(updated))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}

	if _, err := h.orders.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to delete order with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Order deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}
