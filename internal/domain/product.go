package domain

type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price"`
	OldPrice    float64  `json:"oldprice,omitempty"`
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
	Stock       int      `json:"quantity"`
	Status      string   `json:"status"`
}

func (p *Product) CartProduct() CartProduct {
	return CartProduct{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		OldPrice: p.OldPrice,
		Images:   append([]string(nil), p.Images...),
		Status:   p.Status,
	}
}

func (p *Product) ChatProduct() ChatProduct {
	return ChatProduct{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Images:      append([]string(nil), p.Images...),
		Description: p.Description,
	}
}

// Pagination mirrors the backend's paging block on list endpoints.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// NewPagination clamps page into range and returns the slice bounds of
// that page within total items.
func NewPagination(total, page, limit int) (Pagination, int, int) {
	if limit < 1 {
		limit = 1
	}
	pages := (total + limit - 1) / limit
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Pagination{TotalItems: total, TotalPages: pages, CurrentPage: page, Limit: limit}, start, end
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// InStock reports whether the product can be added to a cart at all.
func (p *Product) InStock() bool {
	return p.Status == "active" && p.Stock > 0
}
