package request

import (
	"testing"

	"chess-shop/internal/data/entity"
	"chess-shop/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateRolesRequestValidation(t *testing.T) {
	category := uuid.NewString()
	req := UpdateRolesRequest{Roles: []RoleBindingRequest{
		{Kind: "OWNER"},
		{Kind: "MODERATOR", CategoryID: &category},
		{Kind: "SUPERUSER"},
	}}

	errs := utils.ValidateStruct(&req)
	assert.Equal(t, map[string]string{
		"Roles[0].Kind": "Must be one of: USER, MODERATOR, ADMIN",
		"Roles[2].Kind": "Must be one of: USER, MODERATOR, ADMIN",
	}, errs)

	assert.Empty(t, utils.ValidateStruct(&UpdateRolesRequest{Roles: []RoleBindingRequest{{Kind: "ADMIN"}}}))
}

func TestUpdateRolesRequestBindings(t *testing.T) {
	category := uuid.New()
	id := category.String()

	bindings, err := UpdateRolesRequest{Roles: []RoleBindingRequest{
		{Kind: "USER"},
		{Kind: "MODERATOR", CategoryID: &id},
	}}.Bindings()
	require.NoError(t, err)
	assert.Equal(t, []entity.RoleBinding{entity.UserBinding(), entity.ModeratorBinding(category)}, bindings)

	bad := "not-a-uuid"
	_, err = UpdateRolesRequest{Roles: []RoleBindingRequest{{Kind: "MODERATOR", CategoryID: &bad}}}.Bindings()
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
}
