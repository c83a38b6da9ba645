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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Role bindings
	FindRoles(ctx context.Context, userID uuid.UUID) ([]*entity.Role, error)
	ReplaceRoles(ctx context.Context, userID uuid.UUID, roles []*entity.Role) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `
	id, username, email, password, is_active,
	shipping_name, shipping_address, shipping_city, shipping_postal_code, shipping_country,
	created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.Shipping.Name,
		&user.Shipping.Address,
		&user.Shipping.City,
		&user.Shipping.PostalCode,
		&user.Shipping.Country,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the user together with its initial role bindings in one transaction,
// so a stored user never exists without a role.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, is_active,
		                   shipping_name, shipping_address, shipping_city,
		                   shipping_postal_code, shipping_country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	return database.WithTx(ctx, ur.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.IsActive,
			user.Shipping.Name,
			user.Shipping.Address,
			user.Shipping.City,
			user.Shipping.PostalCode,
			user.Shipping.Country,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("create user %s: %w", user.Username, entity.ErrConflict)
			}
			ur.log.Error("Failed to create user",
				zap.Error(err),
				zap.String("email", user.Email),
				zap.String("username", user.Username),
			)
			return fmt.Errorf("create user %s: %w", user.Email, err)
		}

		if err := insertUserRoles(ctx, tx, user.ID, user.Roles); err != nil {
			ur.log.Error("Failed to assign initial roles",
				zap.Error(err),
				zap.String("user_id", user.ID.String()),
			)
			return err
		}
		return nil
	})
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

// FindAll retrieves paginated list of users
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := ur.db.Query(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password = $4, is_active = $5,
		    shipping_name = $6, shipping_address = $7, shipping_city = $8,
		    shipping_postal_code = $9, shipping_country = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.Shipping.Name,
		user.Shipping.Address,
		user.Shipping.City,
		user.Shipping.PostalCode,
		user.Shipping.Country,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user %s: %w", user.ID.String(), entity.ErrConflict)
		}
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID.String(), entity.ErrNotFound)
	}

	return nil
}

// Delete soft-deletes the user. Products and comments keep referencing it.
func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id.String(), entity.ErrNotFound)
	}

	ur.log.Info("User deleted", zap.String("id", id.String()))
	return nil
}

// FindRoles loads the full binding set of a user in a single statement.
func (ur *userRepository) FindRoles(ctx context.Context, userID uuid.UUID) ([]*entity.Role, error) {
	query := `
		SELECT r.id, r.kind, r.category_id, r.created_at
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.kind, r.category_id
	`

	rows, err := ur.db.Query(ctx, query, userID)
	if err != nil {
		ur.log.Error("Failed to find user roles",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find roles of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var roles []*entity.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			ur.log.Error("Failed to scan role row", zap.Error(err))
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role rows: %w", err)
	}

	return roles, nil
}

// ReplaceRoles swaps the whole binding set atomically.
func (ur *userRepository) ReplaceRoles(ctx context.Context, userID uuid.UUID, roles []*entity.Role) error {
	if len(roles) == 0 {
		return fmt.Errorf("%w: user must keep at least one role", entity.ErrInvalidArgument)
	}

	return database.WithTx(ctx, ur.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			ur.log.Error("Failed to clear user roles",
				zap.Error(err),
				zap.String("user_id", userID.String()),
			)
			return fmt.Errorf("clear roles of user %s: %w", userID.String(), err)
		}

		if err := insertUserRoles(ctx, tx, userID, roles); err != nil {
			ur.log.Error("Failed to insert user roles",
				zap.Error(err),
				zap.String("user_id", userID.String()),
			)
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE users SET updated_at = NOW() WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("touch user %s: %w", userID.String(), err)
		}
		return nil
	})
}

func insertUserRoles(ctx context.Context, tx pgx.Tx, userID uuid.UUID, roles []*entity.Role) error {
	batch := &pgx.Batch{}
	for _, role := range roles {
		batch.Queue(
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, role.ID,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert roles of user %s: %w", userID.String(), err)
	}
	return nil
}
