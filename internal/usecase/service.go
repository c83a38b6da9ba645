package usecase

import (
	"chess-shop/internal/data/repository"
	"chess-shop/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Catalog RoleCatalog
	Product ProductService
	Comment CommentService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	catalog := NewRoleCatalog(repo.Role, repo.Category, log)

	return &Service{
		Auth:    NewAuthService(repo, catalog, config, log),
		User:    NewUserService(repo, catalog, log),
		Catalog: catalog,
		Product: NewProductService(repo, catalog, log),
		Comment: NewCommentService(repo, log),
	}
}
