package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser("user-1", " Jane@Example.com ", "Jane", "acc-1", "hash")
	require.NoError(t, err)
	u.ClearEvents()
	return u
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("user-1", " Jane@Example.com ", "Jane", "acc-1", "hash")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, UserActive, u.Status)
	assert.NotNil(t, u.ActivatedAt)
	singleEvent[UserCreatedEvent](t, u)

	invited, err := NewUser("user-2", "bob@example.com", "Bob", "acc-1", "")
	require.NoError(t, err)
	assert.Equal(t, UserInvited, invited.Status)
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("id", "not-an-email", "Jane", "acc", "")
	requireParam(t, err, "email")
	_, err = NewUser("id", "a@b.c", "", "acc", "")
	requireParam(t, err, "name")
	_, err = NewUser("id", "a@b.c", "Jane", "", "")
	requireParam(t, err, "accountId")
}

func TestUserLockUnlock(t *testing.T) {
	u := newActiveUser(t)
	d := 30 * time.Minute

	require.NoError(t, u.Lock("Security review", &d, "admin"))
	assert.Equal(t, UserLocked, u.Status)
	ev := singleEvent[UserLockedEvent](t, u)
	assert.Equal(t, "Security review", ev.Reason)
	require.NotNil(t, ev.LockDuration)
	assert.Equal(t, d, *ev.LockDuration)
	u.ClearEvents()

	require.ErrorIs(t, u.Lock("again", nil, "admin"), ErrInvalidOperation)

	require.NoError(t, u.Unlock("admin"))
	assert.Equal(t, UserActive, u.Status)
	assert.Empty(t, u.LockReason)
	assert.Nil(t, u.LockDuration)
	assert.Nil(t, u.LockedAt)
	assert.Zero(t, u.FailedLoginCount)
	singleEvent[UserUnlockedEvent](t, u)
}

func TestUserLockRejectsNonPositiveDuration(t *testing.T) {
	u := newActiveUser(t)
	d := time.Duration(0)
	requireParam(t, u.Lock("x", &d, "admin"), "lockDuration")
}

func TestUserLockExpired(t *testing.T) {
	u := newActiveUser(t)
	d := time.Minute
	require.NoError(t, u.Lock("x", &d, "admin"))
	assert.False(t, u.LockExpired(u.LockedAt.Add(30*time.Second)))
	assert.True(t, u.LockExpired(u.LockedAt.Add(2*time.Minute)))

	v := newActiveUser(t)
	require.NoError(t, v.Lock("x", nil, "admin"))
	assert.False(t, v.LockExpired(time.Now().Add(24*time.Hour)))
}

func TestUserActivateDeactivate(t *testing.T) {
	u := newActiveUser(t)
	require.ErrorIs(t, u.Activate("admin"), ErrInvalidOperation)

	require.NoError(t, u.Deactivate("left the company", "admin"))
	assert.Equal(t, UserInactive, u.Status)
	ev := singleEvent[UserDeactivatedEvent](t, u)
	assert.Equal(t, "left the company", ev.Reason)
	u.ClearEvents()

	require.NoError(t, u.Activate("admin"))
	act := singleEvent[UserActivatedEvent](t, u)
	assert.Equal(t, UserInactive, act.PreviousStatus)
}

func TestUserRecordFailedLoginLocksAtLimit(t *testing.T) {
	u := newActiveUser(t)
	require.NoError(t, u.RecordFailedLogin(3, 15*time.Minute))
	require.NoError(t, u.RecordFailedLogin(3, 15*time.Minute))
	assert.Equal(t, UserActive, u.Status)
	assert.Equal(t, 2, u.FailedLoginCount)
	require.Len(t, u.Events(), 2)
	u.ClearEvents()

	require.NoError(t, u.RecordFailedLogin(3, 15*time.Minute))
	assert.Equal(t, UserLocked, u.Status)
	ev := singleEvent[UserLockedEvent](t, u)
	assert.Equal(t, FailedLoginLockReason, ev.Reason)
	require.NotNil(t, u.LockDuration)
	assert.Equal(t, 15*time.Minute, *u.LockDuration)
}

func TestUserRecordLoginResetsFailures(t *testing.T) {
	u := newActiveUser(t)
	require.NoError(t, u.RecordFailedLogin(5, 0))
	u.ClearEvents()
	require.NoError(t, u.RecordLogin("10.0.0.1", "curl"))
	assert.Zero(t, u.FailedLoginCount)
	assert.Equal(t, "10.0.0.1", u.LastLoginIP)
	ev := singleEvent[UserLoggedInEvent](t, u)
	assert.Equal(t, "curl", ev.UserAgent)
}

func TestUserAssignRolesAndAccount(t *testing.T) {
	u := newActiveUser(t)
	require.NoError(t, u.AssignRoles([]string{"r2", "r1", "r2"}, "admin"))
	assert.Equal(t, []string{"r1", "r2"}, []string(u.RoleIDs))
	assert.True(t, u.HasRole("r1"))
	requireParam(t, u.AssignRoles([]string{""}, "admin"), "roleIds")

	require.ErrorIs(t, u.ChangeAccount("acc-1", "admin"), ErrInvalidOperation)
	u.ClearEvents()
	require.NoError(t, u.ChangeAccount("acc-2", "admin"))
	ev := singleEvent[UserAccountChangedEvent](t, u)
	assert.Equal(t, "acc-1", ev.OldAccountID)
	assert.Equal(t, "acc-2", ev.NewAccountID)
}

func TestUserDeleteBlocksFurtherChanges(t *testing.T) {
	u := newActiveUser(t)
	require.NoError(t, u.Delete("admin"))
	assert.Equal(t, UserDeleted, u.Status)
	require.ErrorIs(t, u.Update("X", "x@y.z", "admin"), ErrInvalidOperation)
	require.ErrorIs(t, u.ChangePassword("h"), ErrInvalidOperation)
	require.ErrorIs(t, u.Delete("admin"), ErrInvalidOperation)
}
