package rest

import (
	"time"

	"github.com/abgdnv/mangahaven/internal/cart"
	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// MangaDto is a catalog item as served to clients. Prices are decimal strings with two places.
type MangaDto struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Series      string   `json:"series,omitempty"`
	Publisher   string   `json:"publisher"`
	Genres      []string `json:"genres"`
	Volume      int      `json:"volume"`
	Price       string   `json:"price"`
	ReleaseDate string   `json:"releaseDate"`
	InStock     bool     `json:"inStock"`
	Synopsis    string   `json:"synopsis,omitempty"`
	CoverImage  string   `json:"coverImage"`
}

type MangaListDto struct {
	Items []MangaDto `json:"items"`
	Count int        `json:"count"`
	Total int        `json:"total"`
}

type FacetsDto struct {
	Genres     []string `json:"genres"`
	Authors    []string `json:"authors"`
	Publishers []string `json:"publishers"`
	InStock    int      `json:"inStock"`
	OutOfStock int      `json:"outOfStock"`
	MinPrice   string   `json:"minPrice"`
	MaxPrice   string   `json:"maxPrice"`
}

type CartLineDto struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	AddedAt   time.Time `json:"addedAt"`
}

type CartViewLineDto struct {
	CartLineDto
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverImage string `json:"coverImage"`
	InStock    bool   `json:"inStock"`
	LineTotal  string `json:"lineTotal"`
}

type CartDto struct {
	Lines     []CartViewLineDto `json:"lines"`
	ItemCount int               `json:"itemCount"`
	Subtotal  string            `json:"subtotal"`
	Tax       string            `json:"tax"`
	Shipping  string            `json:"shipping"`
	Total     string            `json:"total"`
}

type ClearedCartDto struct {
	Removed []CartLineDto `json:"removed"`
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

// UpdateQuantityRequest is the body of PUT /cart/items/{id}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type AddressDto struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country,omitempty"`
}

type OrderItemDto struct {
	ItemID    string `json:"itemId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type OrderDto struct {
	ID              string         `json:"id"`
	Number          string         `json:"number"`
	Status          string         `json:"status"`
	Items           []OrderItemDto `json:"items"`
	Subtotal        string         `json:"subtotal"`
	Tax             string         `json:"tax"`
	Shipping        string         `json:"shipping"`
	Total           string         `json:"total"`
	Billing         AddressDto     `json:"billing"`
	ShippingAddress AddressDto     `json:"shippingAddress"`
	CardLast4       string         `json:"cardLast4,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`
}

// UpdateOrderRequest is the body of PUT /orders/{id}. Absent fields are left unchanged.
type UpdateOrderRequest struct {
	Status          *string     `json:"status"`
	ShippingAddress *AddressDto `json:"shippingAddress"`
}

func toMangaDto(it catalog.Item) MangaDto {
	genres := it.Genres
	if genres == nil {
		genres = []string{}
	}
	return MangaDto{
		ID:          it.ID,
		Title:       it.Title,
		Author:      it.Author,
		Series:      it.Series,
		Publisher:   it.Publisher,
		Genres:      genres,
		Volume:      it.Volume,
		Price:       pricing.Format(it.Price),
		ReleaseDate: it.ReleaseDate.Format(dateLayout),
		InStock:     it.InStock,
		Synopsis:    it.Synopsis,
		CoverImage:  it.CoverImage,
	}
}

func toMangaDtos(items []catalog.Item) []MangaDto {
	out := make([]MangaDto, len(items))
	for i, it := range items {
		out[i] = toMangaDto(it)
	}
	return out
}

func toFacetsDto(f *catalog.Facets) FacetsDto {
	return FacetsDto{
		Genres:     f.Genres,
		Authors:    f.Authors,
		Publishers: f.Publishers,
		InStock:    f.InStock,
		OutOfStock: f.OutOfStock,
		MinPrice:   pricing.Format(f.MinPrice),
		MaxPrice:   pricing.Format(f.MaxPrice),
	}
}

func toCartLineDto(l cart.Line) CartLineDto {
	return CartLineDto{
		ID:        l.ID.String(),
		ItemID:    l.ItemID,
		Quantity:  l.Quantity,
		UnitPrice: pricing.Format(l.UnitPrice),
		AddedAt:   l.AddedAt,
	}
}

func toCartLineDtos(lines []cart.Line) []CartLineDto {
	out := make([]CartLineDto, len(lines))
	for i, l := range lines {
		out[i] = toCartLineDto(l)
	}
	return out
}

func toCartDto(v *cart.View) CartDto {
	lines := make([]CartViewLineDto, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = CartViewLineDto{
			CartLineDto: toCartLineDto(l.Line),
			Title:       l.Title,
			Author:      l.Author,
			CoverImage:  l.CoverImage,
			InStock:     l.InStock,
			LineTotal:   pricing.Format(lineTotal(l.UnitPrice, l.Quantity)),
		}
	}
	s := v.Summary
	return CartDto{
		Lines:     lines,
		ItemCount: s.ItemCount,
		Subtotal:  pricing.Format(s.Subtotal),
		Tax:       pricing.Format(s.Tax),
		Shipping:  pricing.Format(s.Shipping),
		Total:     pricing.Format(s.Total),
	}
}

func toAddressDto(a order.Address) AddressDto {
	return AddressDto(a)
}

func (a AddressDto) toAddress() order.Address {
	return order.Address(a)
}

func toOrderDto(o *order.Order) OrderDto {
	items := make([]OrderItemDto, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDto{
			ItemID:    it.ItemID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: pricing.Format(it.UnitPrice),
			LineTotal: pricing.Format(lineTotal(it.UnitPrice, it.Quantity)),
		}
	}
	return OrderDto{
		ID:              o.ID,
		Number:          o.Number,
		Status:          string(o.Status),
		Items:           items,
		Subtotal:        pricing.Format(o.Subtotal),
		Tax:             pricing.Format(o.Tax),
		Shipping:        pricing.Format(o.Shipping),
		Total:           pricing.Format(o.Total),
		Billing:         toAddressDto(o.Billing),
		ShippingAddress: toAddressDto(o.ShippingAddress),
		CardLast4:       o.CardLast4,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderDtos(orders []order.Order) []OrderDto {
	out := make([]OrderDto, len(orders))
	for i := range orders {
		out[i] = toOrderDto(&orders[i])
	}
	return out
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
