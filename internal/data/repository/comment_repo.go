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

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Comment, error)
	FindByProductAndStatus(ctx context.Context, productID uuid.UUID, status entity.ModerationStatus) ([]*entity.Comment, error)
	FindByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) ([]*entity.Comment, error)
	CountByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) (int64, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ModerationStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

// The category always comes from the product as it is now, not as it was
// when the comment was written.
const commentSelect = `
	SELECT cm.id, cm.content, cm.product_id, cm.author_id, cm.status, cm.created_at,
	       p.category_id, COALESCE(u.username, '')
	FROM comments cm
	INNER JOIN products p ON p.id = cm.product_id
	LEFT JOIN users u ON u.id = cm.author_id`

func scanComment(row pgx.Row) (*entity.Comment, error) {
	var comment entity.Comment
	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.ProductID,
		&comment.AuthorID,
		&comment.Status,
		&comment.CreatedAt,
		&comment.CategoryID,
		&comment.AuthorUsername,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, content, product_id, author_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.Content,
		comment.ProductID,
		comment.AuthorID,
		comment.Status,
		comment.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("author_id", comment.AuthorID.String()),
			zap.String("product_id", comment.ProductID.String()),
		)
		return fmt.Errorf("create comment for product %s by user %s: %w",
			comment.ProductID.String(), comment.AuthorID.String(), err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := commentSelect + ` WHERE cm.id = $1`

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment by ID",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return nil, fmt.Errorf("find comment by ID %s: %w", id.String(), err)
	}

	return comment, nil
}

func (r *commentRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Comment, error) {
	query := commentSelect + `
		WHERE cm.product_id = $1
		ORDER BY cm.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		r.log.Error("Failed to find comments by product",
			zap.Error(err),
			zap.String("product_id", productID.String()),
		)
		return nil, fmt.Errorf("find comments by product %s: %w", productID.String(), err)
	}

	return r.collect(rows)
}

func (r *commentRepository) FindByProductAndStatus(ctx context.Context, productID uuid.UUID, status entity.ModerationStatus) ([]*entity.Comment, error) {
	query := commentSelect + `
		WHERE cm.product_id = $1 AND cm.status = $2
		ORDER BY cm.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, productID, status)
	if err != nil {
		r.log.Error("Failed to find comments by product and status",
			zap.Error(err),
			zap.String("product_id", productID.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find %s comments by product %s: %w", status, productID.String(), err)
	}

	return r.collect(rows)
}

func (r *commentRepository) FindByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) ([]*entity.Comment, error) {
	query := commentSelect + `
		WHERE p.category_id = ANY($1) AND cm.status = $2
		ORDER BY cm.created_at
	`

	rows, err := r.db.Query(ctx, query, nonNilIDs(categoryIDs), status)
	if err != nil {
		r.log.Error("Failed to find comments by categories",
			zap.Error(err),
			zap.Int("categories", len(categoryIDs)),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("find %s comments by categories: %w", status, err)
	}

	return r.collect(rows)
}

func (r *commentRepository) CountByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM comments cm
		INNER JOIN products p ON p.id = cm.product_id
		WHERE p.category_id = ANY($1) AND cm.status = $2
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, nonNilIDs(categoryIDs), status).Scan(&count); err != nil {
		r.log.Error("Failed to count comments by categories",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count %s comments by categories: %w", status, err)
	}

	return count, nil
}

func (r *commentRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ModerationStatus) (bool, error) {
	query := `UPDATE comments SET status = $2 WHERE id = $1 AND status = 'PENDING'`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update comment status",
			zap.Error(err),
			zap.String("comment_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update comment %s status: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return fmt.Errorf("delete comment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id.String(), entity.ErrNotFound)
	}

	r.log.Info("Comment deleted", zap.String("comment_id", id.String()))
	return nil
}

func (r *commentRepository) collect(rows pgx.Rows) ([]*entity.Comment, error) {
	defer rows.Close()

	var comments []*entity.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}
