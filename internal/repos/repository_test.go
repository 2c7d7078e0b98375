package repos

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"saas_admin/internal/db/dbtest"
	"saas_admin/internal/events"
	"saas_admin/internal/models"
	"saas_admin/internal/platform/ctxutil"
)

func newTestRepos(t *testing.T) (*Repos, *gorm.DB, *events.Recorder) {
	t.Helper()
	gdb := dbtest.Open(t)
	rec := &events.Recorder{}
	return NewRepos(Deps{DB: gdb, Publisher: rec}), gdb, rec
}

func TestAddRecordsAuditAndPublishes(t *testing.T) {
	r, gdb, rec := newTestRepos(t)
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: "admin-1", IP: "127.0.0.1"})

	acc, err := models.NewAccount("acc-1", "Test Company", models.AccountBusiness, "owner-123", "Premium")
	require.NoError(t, err)
	require.NoError(t, r.Accounts.Add(ctx, acc))
	assert.Empty(t, acc.Events())
	assert.Equal(t, []string{"account.created"}, rec.Names())

	var logs []models.AuditLog
	require.NoError(t, gdb.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "account.created", logs[0].Action)
	assert.Equal(t, "acc-1", logs[0].AccountID)
	assert.Equal(t, "admin-1", logs[0].ActorID)

	got, err := r.Accounts.FindByID(ctx, "acc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Test Company", got.Name)
	assert.Empty(t, got.Events())
}

func TestFindByIDMissReturnsNil(t *testing.T) {
	r, _, _ := newTestRepos(t)
	got, err := r.Users.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDuplicateEmailIsConflict(t *testing.T) {
	r, _, rec := newTestRepos(t)
	ctx := context.Background()
	u1, err := models.NewUser("u-1", "dup@example.com", "A", "acc-1", "h")
	require.NoError(t, err)
	require.NoError(t, r.Users.Add(ctx, u1))

	u2, err := models.NewUser("u-2", "dup@example.com", "B", "acc-1", "h")
	require.NoError(t, err)
	err = r.Users.Add(ctx, u2)
	require.ErrorIs(t, err, ErrConflict)
	assert.Len(t, u2.Events(), 1, "events stay pending when the write fails")
	assert.Equal(t, []string{"user.created"}, rec.Names())
}

func TestSaveClearsNullableColumns(t *testing.T) {
	r, _, _ := newTestRepos(t)
	ctx := context.Background()
	u, err := models.NewUser("u-1", "a@example.com", "A", "acc-1", "h")
	require.NoError(t, err)
	require.NoError(t, r.Users.Add(ctx, u))

	require.NoError(t, u.Lock("review", nil, "admin"))
	require.NoError(t, r.Users.Save(ctx, u))
	require.NoError(t, u.Unlock("admin"))
	require.NoError(t, r.Users.Save(ctx, u))

	got, err := r.Users.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.UserActive, got.Status)
	assert.Empty(t, got.LockReason)
	assert.Nil(t, got.LockedAt)
}

func TestContentVersionsPersist(t *testing.T) {
	r, _, _ := newTestRepos(t)
	ctx := context.Background()
	n := 0
	next := func() string { n++; return fmt.Sprintf("ver-%d", n) }

	c, err := models.NewContent("c-1", models.ContentPage, "About", "v1", "author", "acc-1", "", next)
	require.NoError(t, err)
	require.NoError(t, r.Content.Add(ctx, c))
	require.NoError(t, c.Update(next(), "About us", "v2", "author"))
	require.NoError(t, r.Content.Save(ctx, c))

	got, err := r.Content.FindByID(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, got.Versions, 2)
	assert.Equal(t, 1, got.Versions[0].Version)
	assert.Equal(t, "v2", got.Versions[1].Body)

	require.NoError(t, got.RestoreVersion(next(), 1, "author"))
	require.NoError(t, r.Content.Save(ctx, got))
	again, err := r.Content.FindByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Len(t, again.Versions, 3)
	assert.Equal(t, "v1", again.Body)
}

func TestDashboardChildrenSyncAndCascade(t *testing.T) {
	r, gdb, _ := newTestRepos(t)
	ctx := context.Background()

	d, err := models.NewDashboard("d-1", "Ops", "", "", "acc-1", "owner", models.LayoutGrid)
	require.NoError(t, err)
	spec := models.CardSpec{Title: "A", Type: "chart", Width: 1, Height: 1}
	require.NoError(t, d.AddCard("card-1", spec, "owner"))
	require.NoError(t, d.AddCard("card-2", spec, "owner"))
	require.NoError(t, d.Share("share-1", "u-2", models.ShareView, "owner"))
	require.NoError(t, r.Dashboards.Add(ctx, d))

	require.NoError(t, d.RemoveCard("card-1", "owner"))
	require.NoError(t, d.Share("share-2", "u-2", models.ShareAdmin, "owner"))
	require.NoError(t, r.Dashboards.Save(ctx, d))

	got, err := r.Dashboards.FindByID(ctx, "d-1")
	require.NoError(t, err)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "card-2", got.Cards[0].ID)
	require.Len(t, got.Shares, 1)
	assert.Equal(t, models.ShareAdmin, got.Shares[0].Permission)

	require.NoError(t, got.MarkDeleted("owner"))
	require.NoError(t, r.Dashboards.Remove(ctx, got))
	var cards int64
	require.NoError(t, gdb.Model(&models.DashboardCard{}).Count(&cards).Error)
	assert.Zero(t, cards)
	gone, err := r.Dashboards.FindByID(ctx, "d-1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestListFiltersAndPages(t *testing.T) {
	r, _, _ := newTestRepos(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		acc := "acc-1"
		if i == 4 {
			acc = "acc-2"
		}
		u, err := models.NewUser(fmt.Sprintf("u-%d", i), fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("User %d", i), acc, "h")
		require.NoError(t, err)
		require.NoError(t, r.Users.Add(ctx, u))
	}

	page, total, err := r.Users.List(ctx, Page{Page: 1, PageSize: 3}, Eq("account_id", "acc-1"))
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, page, 3)

	page2, _, err := r.Users.List(ctx, Page{Page: 2, PageSize: 3}, Eq("account_id", "acc-1"))
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	found, total, err := r.Users.List(ctx, Page{}, Search("USER 2", "name", "email"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "u-2", found[0].ID)
}

func TestCanceledContextSkipsWrite(t *testing.T) {
	r, _, rec := newTestRepos(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	acc, err := models.NewAccount("acc-1", "X", models.AccountPersonal, "o", "Free")
	require.NoError(t, err)
	require.ErrorIs(t, r.Accounts.Add(ctx, acc), context.Canceled)
	assert.Empty(t, rec.Published)
}

func TestAuditLogCursor(t *testing.T) {
	r, _, _ := newTestRepos(t)
	ctx := context.Background()
	acc, err := models.NewAccount("acc-1", "X", models.AccountPersonal, "o", "Free")
	require.NoError(t, err)
	require.NoError(t, r.Accounts.Add(ctx, acc))
	for i := 0; i < 4; i++ {
		require.NoError(t, acc.ChangeSubscription(fmt.Sprintf("tier-%d", i), "admin"))
		require.NoError(t, r.Accounts.Save(ctx, acc))
	}

	first, next, err := r.AuditLogs.List(ctx, AuditQuery{AccountID: "acc-1", Limit: 3})
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, next)
	assert.Equal(t, "account.subscription_changed", first[0].Action)

	rest, next2, err := r.AuditLogs.List(ctx, AuditQuery{AccountID: "acc-1", Limit: 3, AfterID: *next})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
	assert.Nil(t, next2)
	assert.Equal(t, "account.created", rest[1].Action)

	filtered, _, err := r.AuditLogs.List(ctx, AuditQuery{AccountID: "acc-1", Action: "account.created"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	got, err := r.AuditLogs.FindByID(ctx, filtered[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	missing, err := r.AuditLogs.FindByID(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPermissionCatalogIsIdempotent(t *testing.T) {
	r, _, _ := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, r.Permissions.EnsureCatalog(ctx))
	require.NoError(t, r.Permissions.EnsureCatalog(ctx))
	perms, err := r.Permissions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, len(models.PermissionCatalog))
}

func TestWebhookEventTypesPersist(t *testing.T) {
	r, gdb, rec := newTestRepos(t)
	ctx := context.Background()

	w, err := models.NewWebhook("wh-1", "acc-1", "CRM sync", "https://crm.example.com/hook", []string{"user.created", "content.published"}, "s3cret", "admin")
	require.NoError(t, err)
	require.NoError(t, r.Webhooks.Add(ctx, w))
	assert.Equal(t, []string{"webhook.created"}, rec.Names())

	var stored string
	require.NoError(t, gdb.Table("webhooks").Select("events").Where("id = ?", "wh-1").Scan(&stored).Error)
	assert.JSONEq(t, `["content.published","user.created"]`, stored)

	got, err := r.Webhooks.FindByID(ctx, "wh-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Subscribes("content.published"))
	assert.Empty(t, got.Events())
}
