package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvitationAccept(t *testing.T) {
	exp := time.Now().Add(48 * time.Hour)
	inv, err := NewUserInvitation("inv-1", "New@Example.com", "acc-1", "admin", "hash-1", []string{"r1"}, exp)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", inv.Email)
	assert.Equal(t, InvitationPending, inv.Status)
	inv.ClearEvents()

	require.NoError(t, inv.Accept("user-9", time.Now()))
	assert.Equal(t, InvitationAccepted, inv.Status)
	assert.Equal(t, "user-9", inv.AcceptedUserID)
	singleEvent[InvitationAcceptedEvent](t, inv)

	require.ErrorIs(t, inv.Accept("user-9", time.Now()), ErrInvalidOperation)
	require.ErrorIs(t, inv.Revoke("admin"), ErrInvalidOperation)
}

func TestInvitationExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	inv, err := NewUserInvitation("inv-1", "a@b.c", "acc-1", "admin", "hash-1", nil, exp)
	require.NoError(t, err)

	assert.False(t, inv.IsExpired(time.Now()))
	assert.True(t, inv.IsExpired(exp.Add(time.Second)))
	require.ErrorIs(t, inv.Accept("u", exp.Add(time.Second)), ErrInvalidOperation)

	require.NoError(t, inv.Resend("hash-2", time.Now().Add(72*time.Hour), "admin"))
	assert.Equal(t, "hash-2", inv.TokenHash)
	require.NoError(t, inv.Accept("u", exp.Add(time.Second)))

	_, err = NewUserInvitation("inv-2", "a@b.c", "acc-1", "admin", "hash-3", nil, time.Now().Add(-time.Minute))
	requireParam(t, err, "expiresAt")
}

func TestInvitationRevoke(t *testing.T) {
	inv, err := NewUserInvitation("inv-1", "a@b.c", "acc-1", "admin", "hash-1", nil, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, inv.Revoke("admin"))
	require.ErrorIs(t, inv.Accept("u", time.Now()), ErrInvalidOperation)
	require.ErrorIs(t, inv.Resend("hash-2", time.Now().Add(time.Hour), "admin"), ErrInvalidOperation)
}

func TestRolePermissions(t *testing.T) {
	r, err := NewRole("r-1", "acc-1", "Content Editors", "", []string{"content:write", "CONTENT:READ", "content:write"})
	require.NoError(t, err)
	assert.Equal(t, "content-editors", r.Slug)
	assert.Equal(t, []string{"content:read", "content:write"}, []string(r.Permissions))
	assert.True(t, r.Grants("content:read"))

	requireParam(t, r.SetPermissions([]string{"rockets:launch"}, "admin"), "permissions")

	r.IsSystem = true
	require.ErrorIs(t, r.MarkDeleted("admin"), ErrInvalidOperation)
	require.ErrorIs(t, r.Update("x", "", "admin"), ErrInvalidOperation)
}

func TestMediaAssetLifecycle(t *testing.T) {
	_, err := NewMediaAsset("m-1", "acc-1", "u-1", "logo.png", "image/png", 0, "acc-1/m-1/logo.png", "")
	requireParam(t, err, "size")

	m, err := NewMediaAsset("m-1", "acc-1", "u-1", "logo.png", "", 42, "acc-1/m-1/logo.png", "")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", m.ContentType)
	m.ClearEvents()

	require.NoError(t, m.UpdateMetadata("Company logo", []string{"brand", " ", "logo"}, "u-1"))
	assert.Equal(t, []string{"brand", "logo"}, []string(m.Tags))
	require.NoError(t, m.Delete("u-1"))
	require.ErrorIs(t, m.UpdateMetadata("x", nil, "u-1"), ErrInvalidOperation)
	assert.Len(t, m.Events(), 2)
}
