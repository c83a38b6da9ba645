package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/data/repository"
	"chess-shop/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RoleCatalog hands out the canonical role and category rows, creating them
// on first use. Repeated and concurrent calls for the same binding or name
// always return the same row.
type RoleCatalog interface {
	Resolve(ctx context.Context, binding entity.RoleBinding) (*entity.Role, error)
	ResolveCategory(ctx context.Context, name string) (*entity.Category, error)
}

type roleCatalog struct {
	roles      repository.RoleRepository
	categories repository.CategoryRepository
	group      singleflight.Group
	log        *zap.Logger
}

func NewRoleCatalog(roles repository.RoleRepository, categories repository.CategoryRepository, log *zap.Logger) RoleCatalog {
	return &roleCatalog{
		roles:      roles,
		categories: categories,
		log:        log.With(zap.String("service", "role_catalog")),
	}
}

func (c *roleCatalog) Resolve(ctx context.Context, binding entity.RoleBinding) (*entity.Role, error) {
	if err := binding.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRoleNotResolvable, err)
	}

	if binding.Kind.Scoped() {
		category, err := c.categories.FindByID(ctx, *binding.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", binding, err)
		}
		if category == nil {
			return nil, fmt.Errorf("%w: category %s does not exist", entity.ErrRoleNotResolvable, binding.CategoryID)
		}
	}

	// The flight is shared, so one caller's cancellation must not fail the others.
	v, err, _ := c.group.Do("role:"+binding.Key(), func() (any, error) {
		return c.findOrCreateRole(context.WithoutCancel(ctx), binding)
	})
	if err != nil {
		return nil, err
	}

	role := *v.(*entity.Role)
	return &role, nil
}

func (c *roleCatalog) findOrCreateRole(ctx context.Context, binding entity.RoleBinding) (*entity.Role, error) {
	role, err := c.roles.FindByKindAndCategory(ctx, binding.Kind, binding.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find role %s: %w", binding, err)
	}
	if role != nil {
		return role, nil
	}

	candidate := &entity.Role{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Kind:       binding.Kind,
		CategoryID: binding.CategoryID,
	}

	created, err := c.roles.Insert(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("create role %s: %w", binding, err)
	}
	if created {
		metrics.RecordRoleCreated(string(binding.Kind))
		c.log.Info("Role created",
			zap.String("role_id", candidate.ID.String()),
			zap.String("binding", binding.String()),
		)
		return candidate, nil
	}

	// Another writer inserted the row first; read back the winner.
	role, err = c.roles.FindByKindAndCategory(ctx, binding.Kind, binding.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find role %s: %w", binding, err)
	}
	if role == nil {
		return nil, fmt.Errorf("%w: %s vanished after conflicting insert", entity.ErrRoleNotResolvable, binding)
	}
	return role, nil
}

func (c *roleCatalog) ResolveCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", entity.ErrInvalidArgument)
	}

	v, err, _ := c.group.Do("category:"+name, func() (any, error) {
		return c.findOrCreateCategory(context.WithoutCancel(ctx), name)
	})
	if err != nil {
		return nil, err
	}

	category := *v.(*entity.Category)
	return &category, nil
}

func (c *roleCatalog) findOrCreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	category, err := c.categories.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	if category != nil {
		return category, nil
	}

	candidate := &entity.Category{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name: name,
	}

	created, err := c.categories.Insert(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}
	if created {
		metrics.RecordCategoryCreated()
		c.log.Info("Category created",
			zap.String("category_id", candidate.ID.String()),
			zap.String("name", name),
		)
		return candidate, nil
	}

	category, err = c.categories.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	if category == nil {
		return nil, fmt.Errorf("category %q vanished after conflicting insert", name)
	}
	return category, nil
}
