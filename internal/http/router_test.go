package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas_admin/internal/app"
	"saas_admin/internal/auth"
	"saas_admin/internal/db/dbtest"
	"saas_admin/internal/events"
	"saas_admin/internal/mediator"
	"saas_admin/internal/repos"
	"saas_admin/internal/seed"
	"saas_admin/internal/storage"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	seeded *seed.Result
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := repos.NewRepos(repos.Deps{DB: dbtest.Open(t), Publisher: &events.Recorder{}})
	mediaDir := t.TempDir()
	store, err := storage.NewLocalStore(mediaDir, "/media")
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer("router-test-secret", time.Hour)
	denylist := auth.NewMemoryDenylist()

	m := mediator.New(mediator.Cancellation())
	app.Register(m, app.Deps{Repos: r, Tokens: tokens, Denylist: denylist, Store: store})

	res, err := seed.FirstSetup(context.Background(), r, seed.Options{}, nil)
	require.NoError(t, err)

	router := NewRouter(Deps{
		Mediator: m,
		Repos:    r,
		Tokens:   tokens,
		Denylist: denylist,
		MediaDir: mediaDir,
		MediaURL: "/media",
	})
	return &testServer{t: t, router: router, seeded: res}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &out)
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Param   string `json:"param"`
	} `json:"error"`
}

func TestHealthAndAuthGate(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/accounts", "", nil).Code)

	rec := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var eb errorBody
	decode(t, rec, &eb)
	assert.Equal(t, "unauthorized", eb.Error.Code)
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@example.com", "admin123")

	rec := s.do(http.MethodPost, "/api/accounts", token, gin.H{
		"name": "Test Company", "type": "Business", "ownerUserId": "owner-123", "subscriptionTier": "Premium",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var acc app.AccountDTO
	decode(t, rec, &acc)
	assert.Equal(t, "Active", acc.Status)
	assert.Equal(t, "/api/accounts/"+acc.ID, rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, rec.Header().Get("Location"), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/accounts/does-not-exist", token, nil).Code)

	rec = s.do(http.MethodPost, "/api/accounts/"+acc.ID+"/suspend", token, gin.H{"reason": "unpaid"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &acc)
	assert.Equal(t, "Suspended", acc.Status)
	assert.Equal(t, "unpaid", acc.SuspensionReason)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/accounts/"+acc.ID+"/reactivate", token, nil).Code)
	rec = s.do(http.MethodPost, "/api/accounts/"+acc.ID+"/reactivate", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/accounts/"+acc.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/accounts/does-not-exist", token, nil).Code)
}

func TestValidationErrorNamesParam(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@example.com", "admin123")

	rec := s.do(http.MethodPost, "/api/accounts", token, gin.H{
		"name": "", "type": "Business", "ownerUserId": "owner-123", "subscriptionTier": "Premium",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var eb errorBody
	decode(t, rec, &eb)
	assert.Equal(t, "name", eb.Error.Param)
	assert.Equal(t, "validation_error", eb.Error.Code)
}

func TestPermissionsAreEnforced(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@example.com", "admin123")

	rec := s.do(http.MethodPost, "/api/users", admin, gin.H{
		"email": "viewer@example.com", "name": "Viewer", "password": "viewer-pass",
		"roleIds": []string{s.seeded.RoleIDs["viewer"]},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var u app.UserDTO
	decode(t, rec, &u)
	assert.Equal(t, s.seeded.AccountID, u.AccountID)

	viewer := s.login("viewer@example.com", "viewer-pass")
	rec = s.do(http.MethodPost, "/api/accounts", viewer, gin.H{"name": "X"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts:write")

	rec = s.do(http.MethodGet, "/api/content", viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page app.PageResult[app.ContentDTO]
	decode(t, rec, &page)
	assert.Equal(t, 20, page.PageSize)

	rec = s.do(http.MethodGet, "/api/auth/me", viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me app.MeResult
	decode(t, rec, &me)
	assert.Contains(t, me.Permissions, "content:read")
	assert.NotContains(t, me.Permissions, "content:write")
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@example.com", "admin123")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", token, nil).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", token, nil).Code)
}

func TestContentPublishFlowAndAudit(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@example.com", "admin123")

	rec := s.do(http.MethodPost, "/api/content", token, gin.H{"type": "Article", "title": "Launch", "body": "draft"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item app.ContentDTO
	decode(t, rec, &item)

	rec = s.do(http.MethodPost, "/api/content/"+item.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &item)
	assert.Equal(t, "Published", item.Status)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/content/"+item.ID+"/publish", token, nil).Code)

	rec = s.do(http.MethodGet, "/api/audit-logs?action=content.published", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var audit app.AuditPage
	decode(t, rec, &audit)
	require.Len(t, audit.Items, 1)
	assert.Equal(t, item.ID, audit.Items[0].ResourceID)
	assert.Equal(t, s.seeded.AdminID, audit.Items[0].ActorID)
}

func TestMediaUploadAndStream(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@example.com", "admin123")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello media"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var asset app.MediaDTO
	decode(t, rec, &asset)
	assert.EqualValues(t, len("hello media"), asset.SizeBytes)

	rec = s.do(http.MethodGet, "/api/media/"+asset.ID+"/content", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello media", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, asset.URL, "", nil).Code)
	rec = s.do(http.MethodGet, asset.URL, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "hello"))

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/media/"+asset.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/media/"+asset.ID+"/content", token, nil).Code)
}
