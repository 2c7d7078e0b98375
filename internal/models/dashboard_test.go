package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	d, err := NewDashboard("d-1", "Ops", "", "", "acc-1", "owner-1", "")
	require.NoError(t, err)
	d.ClearEvents()
	return d
}

func TestNewDashboardDefaultsToGrid(t *testing.T) {
	d, err := NewDashboard("d-1", "Ops", "", "", "acc-1", "owner-1", "")
	require.NoError(t, err)
	assert.Equal(t, LayoutGrid, d.LayoutType)
	singleEvent[DashboardCreatedEvent](t, d)

	_, err = NewDashboard("d-2", "Ops", "", "", "acc-1", "owner-1", LayoutType("Mosaic"))
	requireParam(t, err, "layoutType")
}

func TestDashboardCards(t *testing.T) {
	d := newTestDashboard(t)
	spec := CardSpec{Title: "Signups", Type: "chart", Width: 2, Height: 1, Config: datatypes.JSON(`{"metric":"signups"}`)}

	require.NoError(t, d.AddCard("card-1", spec, "owner-1"))
	require.Len(t, d.Cards, 1)
	assert.Equal(t, "d-1", d.Cards[0].DashboardID)
	require.ErrorIs(t, d.AddCard("card-1", spec, "owner-1"), ErrInvalidOperation)

	requireParam(t, d.AddCard("card-2", CardSpec{Title: "x", Type: "chart"}, "owner-1"), "size")

	spec.Title = "Daily signups"
	spec.PositionX = 3
	require.NoError(t, d.UpdateCard("card-1", spec, "owner-1"))
	assert.Equal(t, "Daily signups", d.Cards[0].Title)
	assert.Equal(t, 3, d.Cards[0].PositionX)

	require.NoError(t, d.RemoveCard("card-1", "owner-1"))
	assert.Empty(t, d.Cards)
	require.ErrorIs(t, d.RemoveCard("card-1", "owner-1"), ErrInvalidOperation)
	assert.Len(t, d.Events(), 3)
}

func TestDashboardShareReplacesPermission(t *testing.T) {
	d := newTestDashboard(t)
	require.NoError(t, d.Share("s-1", "user-2", ShareView, "owner-1"))
	require.NoError(t, d.Share("s-2", "user-2", ShareEdit, "owner-1"))
	require.Len(t, d.Shares, 1)
	assert.Equal(t, "s-1", d.Shares[0].ID)
	p, ok := d.SharedWith("user-2")
	assert.True(t, ok)
	assert.Equal(t, ShareEdit, p)

	requireParam(t, d.Share("s-3", "user-3", SharePermission("Owner"), "owner-1"), "permission")
	require.ErrorIs(t, d.Share("s-3", "owner-1", ShareView, "owner-1"), ErrInvalidOperation)

	require.NoError(t, d.Unshare("user-2", "owner-1"))
	require.ErrorIs(t, d.Unshare("user-2", "owner-1"), ErrInvalidOperation)
}
