package rbac

import (
	"errors"
	"testing"

	"chess-shop/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminPermitsEverything(t *testing.T) {
	bindings := []entity.RoleBinding{entity.AdminBinding()}
	for _, action := range Actions {
		for _, scope := range []uuid.UUID{uuid.New(), uuid.New(), uuid.Nil} {
			assert.NoError(t, Authorize(bindings, action, scope), "%s in %s", action, scope)
		}
	}
}

func TestModeratorScopedToCategory(t *testing.T) {
	own, other := uuid.New(), uuid.New()
	bindings := []entity.RoleBinding{entity.ModeratorBinding(own)}

	for _, action := range Actions {
		assert.NoError(t, Authorize(bindings, action, own), "%s in own category", action)
		if action == ActionCreateComment {
			continue
		}

		err := Authorize(bindings, action, other)
		require.Error(t, err, "%s in other category", action)
		assert.True(t, errors.Is(err, entity.ErrForbidden))

		var denial *Denial
		require.True(t, errors.As(err, &denial))
		assert.Equal(t, action, denial.Action)
		assert.Equal(t, other, denial.Scope)
	}
}

func TestUserMayOnlyComment(t *testing.T) {
	bindings := []entity.RoleBinding{entity.UserBinding()}
	scope := uuid.New()

	assert.NoError(t, Authorize(bindings, ActionCreateComment, scope))
	assert.NoError(t, Authorize(bindings, ActionCreateComment, uuid.New()))

	for _, action := range []Action{ActionCreateProduct, ActionModerateProduct, ActionModerateComment, ActionViewPending} {
		assert.ErrorIs(t, Authorize(bindings, action, scope), entity.ErrForbidden, "%s", action)
	}
}

func TestAnonymousDeniedEverything(t *testing.T) {
	for _, action := range Actions {
		assert.ErrorIs(t, Authorize(Anonymous.Bindings, action, uuid.New()), entity.ErrForbidden)
	}
}

func TestBindingsUnion(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	bindings := []entity.RoleBinding{
		entity.UserBinding(),
		entity.ModeratorBinding(a),
		entity.ModeratorBinding(b),
	}

	assert.True(t, Permits(bindings, ActionModerateComment, a))
	assert.True(t, Permits(bindings, ActionModerateComment, b))
	assert.False(t, Permits(bindings, ActionModerateComment, c))
	assert.True(t, Permits(bindings, ActionCreateComment, c))
}

func TestModeratorMayCommentAnywhere(t *testing.T) {
	bindings := []entity.RoleBinding{entity.ModeratorBinding(uuid.New())}

	assert.NoError(t, Authorize(bindings, ActionCreateComment, uuid.New()))
	assert.NoError(t, Authorize(bindings, ActionCreateComment, uuid.Nil))
}

func TestMalformedModeratorGrantsNothing(t *testing.T) {
	bindings := []entity.RoleBinding{{Kind: entity.RoleModerator}}
	for _, action := range Actions {
		assert.False(t, Permits(bindings, action, uuid.Nil))
	}
}

func TestPrincipal(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	p := Principal{
		UserID: uuid.New(),
		Bindings: []entity.RoleBinding{
			entity.UserBinding(),
			entity.ModeratorBinding(a),
			entity.ModeratorBinding(b),
			entity.ModeratorBinding(a),
		},
	}

	assert.False(t, p.IsAnonymous())
	assert.False(t, p.IsAdmin())
	assert.ElementsMatch(t, []uuid.UUID{a, b}, p.ModeratedCategories())

	assert.True(t, Anonymous.IsAnonymous())
	assert.Empty(t, Anonymous.ModeratedCategories())
}
