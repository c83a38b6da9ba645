package database

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreOrderedAndUnique(t *testing.T) {
	require.NotEmpty(t, migrations)

	names := make([]string, 0, len(migrations))
	seen := make(map[string]bool)
	for _, m := range migrations {
		assert.False(t, seen[m.name], "duplicate migration %s", m.name)
		seen[m.name] = true
		assert.NotEmpty(t, m.statements, m.name)
		names = append(names, m.name)
	}

	assert.True(t, sort.StringsAreSorted(names), "migrations must be listed in name order")
}

func TestMigrationsCreateRoleConstraints(t *testing.T) {
	var all strings.Builder
	for _, m := range migrations {
		for _, stmt := range m.statements {
			all.WriteString(stmt)
			all.WriteString("\n")
		}
	}
	schema := all.String()

	assert.Contains(t, schema, "roles_kind_category_key")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS user_roles")
	assert.Contains(t, schema, "status IN ('PENDING', 'ACCEPTED', 'REJECTED')")
}
