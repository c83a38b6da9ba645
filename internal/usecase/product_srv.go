package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/dto/request"
	"chess-shop/internal/dto/response"
	"chess-shop/internal/rbac"
	"chess-shop/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	CreateProduct(ctx context.Context, principal rbac.Principal, req *request.CreateProductRequest) (*response.ProductResponse, error)
	ListProducts(ctx context.Context, principal rbac.Principal, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	GetProduct(ctx context.Context, principal rbac.Principal, productID uuid.UUID) (*response.ProductResponse, error)
	SetProductStatus(ctx context.Context, principal rbac.Principal, productID uuid.UUID, status entity.ModerationStatus) (*response.ProductResponse, error)
	ListPendingProducts(ctx context.Context, principal rbac.Principal) ([]response.ProductResponse, error)
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
}

type productService struct {
	repo    *repository.Repository // product + category
	catalog RoleCatalog
	log     *zap.Logger
}

func NewProductService(repo *repository.Repository, catalog RoleCatalog, log *zap.Logger) ProductService {
	return &productService{
		repo:    repo,
		catalog: catalog,
		log:     log.With(zap.String("service", "product")),
	}
}

// CreateProduct stores a new PENDING product under the named category,
// creating the category on first reference. The permission check runs
// before the category upsert, so a denied caller never creates a category.
func (s *productService) CreateProduct(ctx context.Context, principal rbac.Principal, req *request.CreateProductRequest) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create product validation failed", zap.Error(err))
		return nil, err
	}

	// The scope lookup and the upsert must see the same name.
	req.CategoryName = strings.TrimSpace(req.CategoryName)

	// A category that does not exist yet has no moderators, so only a
	// global grant can cover it.
	scope := uuid.Nil
	existing, err := s.repo.Category.FindByName(ctx, req.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if existing != nil {
		scope = existing.ID
	}

	if err := authorize(principal, rbac.ActionCreateProduct, scope); err != nil {
		s.log.Warn("Create product denied",
			zap.String("user_id", principal.UserID.String()),
			zap.String("category", req.CategoryName),
		)
		return nil, err
	}

	category, err := s.catalog.ResolveCategory(ctx, req.CategoryName)
	if err != nil {
		s.log.Error("Failed to resolve category", zap.Error(err), zap.String("category", req.CategoryName))
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	// The category may have been created concurrently; re-check against the
	// row actually used.
	if category.ID != scope {
		if err := authorize(principal, rbac.ActionCreateProduct, category.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &entity.Product{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		ImageURL:       req.ImageURL,
		CategoryID:     category.ID,
		AuthorID:       principal.UserID,
		Status:         entity.StatusPending,
		CategoryName:   category.Name,
		AuthorUsername: principal.Username,
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		s.log.Error("Failed to create product", zap.Error(err))
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category_id", category.ID.String()),
		zap.String("author_id", principal.UserID.String()),
	)

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) ListProducts(ctx context.Context, principal rbac.Principal, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	scopes := rbac.ScopesFor(principal.Bindings)
	filter := repository.ProductFilter{
		AllVisible:        scopes.All(),
		VisibleCategories: scopes.Categories(),
	}

	if name := strings.TrimSpace(req.Category); name != "" {
		category, err := s.repo.Category.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find category: %w", err)
		}
		if category == nil {
			return response.NewPaginatedResponse([]response.ProductResponse{}, req.Page, req.PerPage, 0), nil
		}
		filter.CategoryID = &category.ID
	}

	products, err := s.repo.Product.FindVisible(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}

	total, err := s.repo.Product.CountVisible(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count products", zap.Error(err))
		return nil, fmt.Errorf("count products: %w", err)
	}

	visible := rbac.Visible(principal, products)
	return response.NewPaginatedResponse(response.ProductsToResponse(visible), req.Page, req.PerPage, total), nil
}

// GetProduct reports ErrNotFound for products the principal may not see, so
// pending products do not leak their existence.
func (s *productService) GetProduct(ctx context.Context, principal rbac.Principal, productID uuid.UUID) (*response.ProductResponse, error) {
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil || !rbac.ScopesFor(principal.Bindings).CanSee(product) {
		return nil, fmt.Errorf("product %s: %w", productID, entity.ErrNotFound)
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) SetProductStatus(ctx context.Context, principal rbac.Principal, productID uuid.UUID, status entity.ModerationStatus) (*response.ProductResponse, error) {
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, entity.ErrNotFound)
	}

	if err := authorize(principal, rbac.ActionModerateProduct, product.CategoryID); err != nil {
		s.log.Warn("Product moderation denied",
			zap.String("user_id", principal.UserID.String()),
			zap.String("product_id", productID.String()),
		)
		return nil, err
	}

	next, err := product.Status.Transition(status)
	if err != nil {
		return nil, err
	}
	if next == product.Status {
		return s.productResponse(product), nil
	}

	updated, err := s.repo.Product.UpdateStatusIfPending(ctx, productID, next)
	if err != nil {
		s.log.Error("Failed to update product status", zap.Error(err), zap.String("product_id", productID.String()))
		return nil, fmt.Errorf("update product status: %w", err)
	}

	if !updated {
		// Lost a race with another moderator; judge the request against the
		// state that won.
		current, err := s.repo.Product.FindByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		if current == nil {
			return nil, fmt.Errorf("product %s: %w", productID, entity.ErrNotFound)
		}
		if _, err := current.Status.Transition(status); err != nil {
			return nil, err
		}
		return s.productResponse(current), nil
	}

	metrics.RecordModerationTransition("product", string(next))
	s.log.Info("Product moderated",
		zap.String("product_id", productID.String()),
		zap.String("status", string(next)),
		zap.String("moderator_id", principal.UserID.String()),
	)

	product.Status = next
	product.UpdatedAt = time.Now()
	return s.productResponse(product), nil
}

// ListPendingProducts returns the PENDING products of every category the
// principal moderates. It is empty for principals without MODERATOR bindings.
func (s *productService) ListPendingProducts(ctx context.Context, principal rbac.Principal) ([]response.ProductResponse, error) {
	categories := pendingScopes(principal)
	if len(categories) == 0 {
		return []response.ProductResponse{}, nil
	}

	products, err := s.repo.Product.FindByCategoriesAndStatus(ctx, categories, entity.StatusPending)
	if err != nil {
		s.log.Error("Failed to list pending products", zap.Error(err))
		return nil, fmt.Errorf("list pending products: %w", err)
	}

	return response.ProductsToResponse(products), nil
}

func (s *productService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}

	resp := make([]response.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, response.CategoryToResponse(c))
	}
	return resp, nil
}

func (s *productService) productResponse(product *entity.Product) *response.ProductResponse {
	resp := response.ProductToResponse(product)
	return &resp
}

// pendingScopes returns the moderated categories in which the principal may
// view pending content.
func pendingScopes(principal rbac.Principal) []uuid.UUID {
	var categories []uuid.UUID
	for _, id := range principal.ModeratedCategories() {
		if rbac.Permits(principal.Bindings, rbac.ActionViewPending, id) {
			categories = append(categories, id)
		}
	}
	return categories
}
