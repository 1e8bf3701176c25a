package gormdb

import (
	"context"
	"testing"

	"nutrifit/backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSeedsRoles(t *testing.T) {
	db, err := Open(InMemoryDSN, false)
	require.NoError(t, err)

	var roles []domain.RoleRecord
	require.NoError(t, db.Find(&roles).Error)

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	assert.ElementsMatch(t, []string{"user", "professional", "gym", "admin"}, names)
}

func TestEnsureRoleIsIdempotent(t *testing.T) {
	db, err := Open(InMemoryDSN, false)
	require.NoError(t, err)
	users := &userRepository{db: db}

	first, err := users.EnsureRole(context.Background(), string(domain.RoleUser), "Default role")
	require.NoError(t, err)

	// A second call finds the existing row, the new description is ignored.
	second, err := users.EnsureRole(context.Background(), string(domain.RoleUser), "something else")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Description, second.Description)

	var count int64
	require.NoError(t, db.Model(&domain.RoleRecord{}).Where("name = ?", string(domain.RoleUser)).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
