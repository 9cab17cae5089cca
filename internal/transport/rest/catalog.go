package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/abgdnv/mangahaven/pkg/web"
	"github.com/shopspring/decimal"
)

const (
	defaultRelatedLimit     = catalog.DefaultRelatedLimit
	defaultFeaturedLimit    = catalog.DefaultFeaturedLimit
	defaultNewReleasesLimit = catalog.DefaultNewReleaseLimit
)

// Browse filters and sorts the catalog from the query string.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	inStock, ok := web.ParseOptionalBool(r, w, mLogger, "inStock")
	if !ok {
		return
	}
	q := r.URL.Query()
	criteria := catalog.Criteria{
		Search:      q.Get("search"),
		Genre:       q.Get("genre"),
		Author:      q.Get("author"),
		Publisher:   q.Get("publisher"),
		InStockOnly: inStock,
		Sort:        catalog.ParseSortKey(q.Get("sort")),
	}
	if raw := strings.TrimSpace(q.Get("priceMax")); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil || maxPrice.IsNegative() {
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid priceMax value: %s", raw))
			return
		}
		criteria.MaxPrice = &maxPrice
	}

	mLogger.DebugContext(r.Context(), "Received request to browse catalog", "criteria", criteria)
	result, err := h.catalog.Browse(r.Context(), criteria)
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to browse catalog")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully browsed catalog", "count", len(result.Items), "total", result.Total)
	web.RespondJSON(w, mLogger, http.StatusOK, MangaListDto{
		Items: toMangaDtos(result.Items),
		Count: len(result.Items),
		Total: result.Total,
	})
}

// FindManga retrieves a catalog item by its ID.
func (h *Handler) FindManga(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find manga by ID", "ID", id)
	item, err := h.catalog.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to retrieve manga with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toMangaDto(*item))
}

func (h *Handler) Facets(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	facets, err := h.catalog.Facets(r.Context())
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to collect catalog facets")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toFacetsDto(facets))
}

// Related lists items sharing the series or a genre with the given item.
func (h *Handler) Related(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger, "id")
	if !ok {
		return
	}
	limit, ok := web.ParseOptionalGt(r, w, mLogger, "limit", 0, defaultRelatedLimit)
	if !ok {
		return
	}

	items, err := h.catalog.Related(r.Context(), id, int(limit))
	if err != nil {
		h.respondError(w, r, mLogger, err, fmt.Sprintf("Failed to find manga related to %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toMangaDtos(items))
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseOptionalGt(r, w, mLogger, "limit", 0, defaultFeaturedLimit)
	if !ok {
		return
	}

	items, err := h.catalog.Featured(r.Context(), int(limit))
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to fetch featured manga")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toMangaDtos(items))
}

func (h *Handler) NewReleases(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseOptionalGt(r, w, mLogger, "limit", 0, defaultNewReleasesLimit)
	if !ok {
		return
	}

	items, err := h.catalog.NewReleases(r.Context(), int(limit))
	if err != nil {
		h.respondError(w, r, mLogger, err, "Failed to fetch new releases")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toMangaDtos(items))
}
