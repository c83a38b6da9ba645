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

type RoleRepository interface {
	FindByKindAndCategory(ctx context.Context, kind entity.RoleKind, categoryID *uuid.UUID) (*entity.Role, error)
	// Insert stores the role unless a row for the same (kind, category) exists.
	// It reports whether this call created the row.
	Insert(ctx context.Context, role *entity.Role) (bool, error)
}

type roleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoleRepository(db database.PgxIface, log *zap.Logger) RoleRepository {
	return &roleRepository{
		db:  db,
		log: log.With(zap.String("repository", "role")),
	}
}

func scanRole(row pgx.Row) (*entity.Role, error) {
	var role entity.Role
	if err := row.Scan(&role.ID, &role.Kind, &role.CategoryID, &role.CreatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByKindAndCategory(ctx context.Context, kind entity.RoleKind, categoryID *uuid.UUID) (*entity.Role, error) {
	query := `
		SELECT id, kind, category_id, created_at
		FROM roles
		WHERE kind = $1 AND category_id IS NOT DISTINCT FROM $2
	`

	role, err := scanRole(r.db.QueryRow(ctx, query, kind, categoryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find role",
			zap.Error(err),
			zap.String("kind", string(kind)),
		)
		return nil, fmt.Errorf("find role %s: %w", kind, err)
	}

	return role, nil
}

func (r *roleRepository) Insert(ctx context.Context, role *entity.Role) (bool, error) {
	// The unique index on (kind, COALESCE(category_id, nil uuid)) turns a
	// concurrent duplicate into a no-op instead of a second row.
	query := `
		INSERT INTO roles (id, kind, category_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, role.ID, role.Kind, role.CategoryID, role.CreatedAt)
	if err != nil {
		r.log.Error("Failed to insert role",
			zap.Error(err),
			zap.String("kind", string(role.Kind)),
		)
		return false, fmt.Errorf("insert role %s: %w", role.Kind, err)
	}

	return result.RowsAffected() == 1, nil
}
