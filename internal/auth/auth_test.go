package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas_admin/internal/models"
	"saas_admin/internal/platform/ctxutil"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewTokenIssuer("test-secret", time.Hour)
	raw, claims, err := iss.Issue("u-1", "acc-1", "a@b.c", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, claims.TokenID())

	got, err := iss.Parse("Bearer " + raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "acc-1", got.AccountID)
	assert.Equal(t, claims.TokenID(), got.TokenID())

	_, err = NewTokenIssuer("other-secret", time.Hour).Parse(raw)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := iss.Issue("u-1", "acc-1", "a@b.c", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = iss.Parse(expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHelpers(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(h, "correct horse"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword("", "anything"))

	tok, err := RandomToken(32)
	require.NoError(t, err)
	assert.Len(t, HashToken(tok), 64)
	assert.NotEqual(t, HashToken(tok), HashToken(tok+"x"))
}

func TestMemoryDenylist(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()
	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.NoError(t, d.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))

	ok, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = d.IsRevoked(ctx, "jti-old")
	assert.False(t, ok)
	ok, _ = d.IsRevoked(ctx, "jti-2")
	assert.False(t, ok)
}

type fakeUsers map[string]*models.User

func (f fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return f[id], nil
}

func newProtected(t *testing.T, users fakeUsers, deny Denylist) (*gin.Engine, *TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	iss := NewTokenIssuer("s", time.Hour)
	r := gin.New()
	r.GET("/me", JWT(iss, users, deny), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"uid": ClaimsFrom(c).UserID, "actor": rd.UserID})
	})
	return r, iss
}

func TestJWTMiddleware(t *testing.T) {
	active, err := models.NewUser("u-1", "a@b.c", "A", "acc-1", "h")
	require.NoError(t, err)
	locked, err := models.NewUser("u-2", "l@b.c", "L", "acc-1", "h")
	require.NoError(t, err)
	require.NoError(t, locked.Lock("x", nil, "admin"))

	deny := NewMemoryDenylist()
	r, iss := newProtected(t, fakeUsers{"u-1": active, "u-2": locked}, deny)

	do := func(header, cookie string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do("", ""))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage", ""))

	tok, claims, err := iss.Issue("u-1", "acc-1", "a@b.c", time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do("Bearer "+tok, ""))
	assert.Equal(t, http.StatusOK, do("", tok))

	lockedTok, _, err := iss.Issue("u-2", "acc-1", "l@b.c", time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do("Bearer "+lockedTok, ""))

	ghost, _, err := iss.Issue("u-404", "acc-1", "g@b.c", time.Now())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+ghost, ""))

	require.NoError(t, deny.Revoke(context.Background(), claims.TokenID(), claims.Expiry()))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+tok, ""))
}
