package usecase

import (
	"context"
	"fmt"
	"time"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/dto/request"
	"chess-shop/internal/dto/response"
	"chess-shop/internal/rbac"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (rbac.Principal, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateShippingDetails(ctx context.Context, userID uuid.UUID, req *request.ShippingRequest) (*response.UserResponse, error)

	// Admin
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetUser(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error)
	UpdateRoles(ctx context.Context, userID uuid.UUID, bindings []entity.RoleBinding) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	repo    *repository.Repository // user + session + category
	catalog RoleCatalog
	log     *zap.Logger
}

func NewUserService(repo *repository.Repository, catalog RoleCatalog, log *zap.Logger) UserService {
	return &userService{
		repo:    repo,
		catalog: catalog,
		log:     log.With(zap.String("service", "user")),
	}
}

// loadUser returns the user with its roles, or ErrNotFound.
func (us *userService) loadUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, entity.ErrNotFound)
	}

	roles, err := us.repo.User.FindRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	user.Roles = roles

	return user, nil
}

// ResolvePrincipal loads the current bindings of an active user. Bindings are
// never cached, so role changes apply on the next request.
func (us *userService) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (rbac.Principal, error) {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return rbac.Anonymous, err
	}
	if !user.IsActive {
		return rbac.Anonymous, fmt.Errorf("user %s is deactivated: %w", userID, entity.ErrNotFound)
	}
	return rbac.NewPrincipal(user), nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetUser(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	return us.GetProfile(ctx, userID)
}

func (us *userService) UpdateShippingDetails(ctx context.Context, userID uuid.UUID, req *request.ShippingRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Shipping = entity.Shipping{
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	user.UpdatedAt = time.Now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update shipping details", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update shipping details: %w", err)
	}

	us.log.Info("Shipping details updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	// Set defaults
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 10
	}
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		roles, err := us.repo.User.FindRoles(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("load roles of %s: %w", user.ID, err)
		}
		user.Roles = roles
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Info("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", req.PerPage),
	)

	return response.NewPaginatedResponse(userResponses, req.Page, req.PerPage, total), nil
}

func (us *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update user: %w", err)
	}

	if !user.IsActive {
		revoked, err := us.repo.Session.RevokeAllUserSessions(ctx, userID)
		if err != nil {
			us.log.Warn("Failed to revoke sessions of deactivated user", zap.Error(err))
		} else if revoked > 0 {
			us.log.Info("Sessions of deactivated user revoked",
				zap.String("user_id", userID.String()),
				zap.Int64("sessions", revoked),
			)
		}
	}

	us.log.Info("User updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateRoles replaces the whole binding set of a user. The caller must
// already be authorized as ADMIN. Every binding is checked before anything
// is written, so a rejected request leaves the old set untouched.
func (us *userService) UpdateRoles(ctx context.Context, userID uuid.UUID, bindings []entity.RoleBinding) (*response.UserResponse, error) {
	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", entity.ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(bindings))
	unique := make([]entity.RoleBinding, 0, len(bindings))
	for _, binding := range bindings {
		if err := binding.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[binding.Key()]; dup {
			continue
		}
		seen[binding.Key()] = struct{}{}

		if binding.Kind.Scoped() {
			category, err := us.repo.Category.FindByID(ctx, *binding.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("find category: %w", err)
			}
			if category == nil {
				return nil, fmt.Errorf("%w: category %s does not exist", entity.ErrInvalidArgument, binding.CategoryID)
			}
		}
		unique = append(unique, binding)
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, entity.ErrNotFound)
	}

	roles := make([]*entity.Role, 0, len(unique))
	for _, binding := range unique {
		role, err := us.catalog.Resolve(ctx, binding)
		if err != nil {
			us.log.Error("Failed to resolve role",
				zap.Error(err),
				zap.String("binding", binding.String()),
			)
			return nil, fmt.Errorf("resolve role %s: %w", binding, err)
		}
		roles = append(roles, role)
	}

	if err := us.repo.User.ReplaceRoles(ctx, userID, roles); err != nil {
		us.log.Error("Failed to replace roles", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("replace roles: %w", err)
	}
	user.Roles = roles

	us.log.Info("User roles updated",
		zap.String("user_id", userID.String()),
		zap.Int("roles", len(roles)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

// DeleteUser soft-deletes the account and ends its sessions. Content the
// user authored stays in place.
func (us *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := us.repo.User.Delete(ctx, userID); err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("id", userID.String()))
		return fmt.Errorf("delete user: %w", err)
	}

	revoked, err := us.repo.Session.RevokeAllUserSessions(ctx, userID)
	if err != nil {
		us.log.Warn("Failed to revoke sessions of deleted user", zap.Error(err), zap.String("id", userID.String()))
	}

	us.log.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.Int64("sessions_revoked", revoked),
	)
	return nil
}
