package adaptor

import (
	"net/http"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/dto/request"
	"chess-shop/internal/rbac"
	"chess-shop/internal/usecase"
	"chess-shop/pkg/utils"

	"go.uber.org/zap"
)

type ProductHandler struct {
	service usecase.ProductService
	log     *zap.Logger
}

func NewProductHandler(service usecase.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log.With(zap.String("handler", "product")),
	}
}

// GetCategories handles GET /api/categories (public)
func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list categories")
		return
	}

	utils.ResponseSuccess(w, "Categories retrieved successfully", categories)
}

// GetProducts handles GET /api/products?category=&page=&per_page= (public, optional auth)
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ProductListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Category: query.Get("category"),
	}

	products, err := h.service.ListProducts(r.Context(), rbac.FromContext(r.Context()), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list products")
		return
	}

	utils.ResponseSuccess(w, "Products retrieved successfully", products)
}

// GetProduct handles GET /api/products/{id} (public, optional auth)
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), rbac.FromContext(r.Context()), productID)
	if err != nil {
		handleServiceError(w, h.log, err, "get product")
		return
	}

	utils.ResponseSuccess(w, "Product retrieved successfully", product)
}

// CreateProduct handles POST /api/products (MODERATOR of the category or ADMIN)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), rbac.FromContext(r.Context()), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create product")
		return
	}

	utils.ResponseCreated(w, "Product created and awaiting approval", product)
}

// SetStatus handles PUT /api/products/{id}/status
func (h *ProductHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.ModerationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.service.SetProductStatus(r.Context(), rbac.FromContext(r.Context()), productID, entity.ModerationStatus(req.Status))
	if err != nil {
		handleServiceError(w, h.log, err, "set product status")
		return
	}

	utils.ResponseSuccess(w, "Product status updated", product)
}

// GetPending handles GET /api/moderation/products/pending
func (h *ProductHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListPendingProducts(r.Context(), rbac.FromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "list pending products")
		return
	}

	utils.ResponseSuccess(w, "Pending products retrieved successfully", products)
}
