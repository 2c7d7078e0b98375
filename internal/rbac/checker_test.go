package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas_admin/internal/db/dbtest"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

func TestCheckerCan(t *testing.T) {
	ctx := context.Background()
	r := repos.NewRepos(repos.Deps{DB: dbtest.Open(t)})
	chk := Checker{Users: r.Users, Roles: r.Roles}

	editor, err := models.NewRole("role-ed", "acc-1", "Editor", "", []string{"content:read", "content:write"})
	require.NoError(t, err)
	require.NoError(t, r.Roles.Add(ctx, editor))
	foreign, err := models.NewRole("role-x", "acc-2", "Admin", "", []string{"users:write"})
	require.NoError(t, err)
	require.NoError(t, r.Roles.Add(ctx, foreign))

	u, err := models.NewUser("u-1", "ed@example.com", "Ed", "acc-1", "h")
	require.NoError(t, err)
	require.NoError(t, u.AssignRoles([]string{"role-ed", "role-x"}, "admin"))
	require.NoError(t, r.Users.Add(ctx, u))

	ok, err := chk.Can(ctx, "u-1", "content:write")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = chk.Can(ctx, "u-1", "users:write")
	require.NoError(t, err)
	assert.False(t, ok, "roles of another account grant nothing")

	ok, err = chk.Can(ctx, "missing", "content:read")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := chk.Permissions(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"content:read", "content:write"}, keys)
}
