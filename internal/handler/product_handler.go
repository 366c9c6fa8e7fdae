package handler

import (
	"net/http"

	"storefront-client/internal/service"
	"storefront-client/pkg/response"

	"github.com/gorilla/mux"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List serves GET /products?q=&page=&limit=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.productService.List(r.URL.Query().Get("q"), queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, product)
}
