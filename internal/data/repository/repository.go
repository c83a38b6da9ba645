package repository

import (
	"errors"

	"chess-shop/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Role     RoleRepository
	Category CategoryRepository
	Product  ProductRepository
	Comment  CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Role:     NewRoleRepository(db, log),
		Category: NewCategoryRepository(db, log),
		Product:  NewProductRepository(db, log),
		Comment:  NewCommentRepository(db, log),
	}
}

// uniqueViolation is the Postgres SQLSTATE for a broken unique constraint.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
