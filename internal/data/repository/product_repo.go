package repository

import (
	"context"
	"errors"
	"fmt"

	"chess-shop/internal/data/entity"
	"chess-shop/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ProductFilter narrows product listings. Products outside the visible
// categories are returned only when accepted.
type ProductFilter struct {
	CategoryID        *uuid.UUID
	AllVisible        bool
	VisibleCategories []uuid.UUID
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindVisible(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	CountVisible(ctx context.Context, filter ProductFilter) (int64, error)
	FindByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) ([]*entity.Product, error)

	// UpdateStatusIfPending moves a PENDING product to status. It reports false
	// when the product was no longer pending (or does not exist).
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ModerationStatus) (bool, error)
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.image_url, p.category_id,
	       p.author_id, p.status, p.created_at, p.updated_at,
	       c.name, COALESCE(u.username, '')
	FROM products p
	INNER JOIN categories c ON c.id = p.category_id
	LEFT JOIN users u ON u.id = p.author_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var product entity.Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.CategoryID,
		&product.AuthorID,
		&product.Status,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.CategoryName,
		&product.AuthorUsername,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, image_url, category_id,
		                      author_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.ImageURL,
		product.CategoryID,
		product.AuthorID,
		product.Status,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create product",
			zap.Error(err),
			zap.String("name", product.Name),
			zap.String("category_id", product.CategoryID.String()),
		)
		return fmt.Errorf("create product %s: %w", product.Name, err)
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := productSelect + ` WHERE p.id = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	return product, nil
}

const productVisibleWhere = `
	WHERE ($1::uuid IS NULL OR p.category_id = $1)
	  AND (p.status = 'ACCEPTED' OR $2 OR p.category_id = ANY($3))`

func (r *productRepository) FindVisible(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error) {
	query := productSelect + productVisibleWhere + `
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.Query(ctx, query,
		filter.CategoryID,
		filter.AllVisible,
		nonNilIDs(filter.VisibleCategories),
		limit,
		offset,
	)
	if err != nil {
		r.log.Error("Failed to list products",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list products: %w", err)
	}

	return r.collect(rows)
}

func (r *productRepository) CountVisible(ctx context.Context, filter ProductFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM products p` + productVisibleWhere

	var count int64
	err := r.db.QueryRow(ctx, query,
		filter.CategoryID,
		filter.AllVisible,
		nonNilIDs(filter.VisibleCategories),
	).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count products", zap.Error(err))
		return 0, fmt.Errorf("count products: %w", err)
	}

	return count, nil
}

func (r *productRepository) FindByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) ([]*entity.Product, error) {
	query := productSelect + `
		WHERE p.category_id = ANY($1) AND p.status = $2
		ORDER BY p.created_at
	`

	rows, err := r.db.Query(ctx, query, nonNilIDs(categoryIDs), status)
	if err != nil {
		r.log.Error("Failed to find products by categories",
			zap.Error(err),
			zap.Int("categories", len(categoryIDs)),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find products by categories: %w", err)
	}

	return r.collect(rows)
}

func (r *productRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ModerationStatus) (bool, error) {
	query := `
		UPDATE products
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update product status",
			zap.Error(err),
			zap.String("product_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update product %s status: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *productRepository) collect(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Error("Failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// nonNilIDs keeps ANY($n) from comparing against NULL.
func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
