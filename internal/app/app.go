// Package app holds one command or query handler per use case. Handlers are registered
// on a mediator and invoked by the HTTP layer and the scheduler.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"saas_admin/internal/auth"
	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/platform/ctxutil"
	"saas_admin/internal/platform/logger"
	"saas_admin/internal/repos"
	"saas_admin/internal/storage"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Settings are the tunables handlers read from configuration.
type Settings struct {
	MaxFailedLogins int
	LockoutDuration time.Duration
	InvitationTTL   time.Duration
	MediaMaxBytes   int64
}

func (s Settings) withDefaults() Settings {
	if s.MaxFailedLogins <= 0 {
		s.MaxFailedLogins = 5
	}
	if s.InvitationTTL <= 0 {
		s.InvitationTTL = 7 * 24 * time.Hour
	}
	if s.MediaMaxBytes <= 0 {
		s.MediaMaxBytes = 25 << 20
	}
	return s
}

type Deps struct {
	Repos    *repos.Repos
	Tokens   *auth.TokenIssuer
	Denylist auth.Denylist
	Store    storage.Store
	Settings Settings
	Log      *logger.Logger

	// NewID and Now are replaceable in tests.
	NewID func() string
	Now   func() time.Time
}

type handlers struct {
	Deps
	r   *repos.Repos
	log *logger.Logger
}

// Register binds every use case handler to m.
func Register(m *mediator.Mediator, deps Deps) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Denylist == nil {
		deps.Denylist = auth.NewMemoryDenylist()
	}
	deps.Settings = deps.Settings.withDefaults()
	h := &handlers{Deps: deps, r: deps.Repos, log: deps.Log.With("component", "App")}

	h.registerAccounts(m)
	h.registerUsers(m)
	h.registerRoles(m)
	h.registerInvitations(m)
	h.registerContent(m)
	h.registerDashboards(m)
	h.registerMedia(m)
	h.registerWebhooks(m)
	h.registerWorkflows(m)
	h.registerMaintenance(m)
	h.registerAudit(m)
	h.registerAuth(m)
}

func handle[Req any, Res any](m *mediator.Mediator, fn func(ctx context.Context, req Req) (Res, error)) {
	mediator.Register[Req, Res](m, mediator.HandlerFunc[Req, Res](fn))
}

// actor is the user id recorded on events, "system" outside a request.
func actor(ctx context.Context) string {
	return ctxutil.ActorID(ctx)
}

// PageQuery is embedded by list queries.
type PageQuery struct {
	Page     int
	PageSize int
	Search   string
}

func (q PageQuery) page() repos.Page {
	return repos.Page{Page: q.Page, PageSize: q.PageSize}.Normalize()
}

// PageResult is one page of DTOs.
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

func listPage[M any, D any](ctx context.Context, list func(context.Context, repos.Page, ...repos.Filter) ([]M, int64, error),
	q PageQuery, toDTO func(M) D, filters ...repos.Filter) (*PageResult[D], error) {
	p := q.page()
	rows, total, err := list(ctx, p, filters...)
	if err != nil {
		return nil, err
	}
	items := make([]D, len(rows))
	for i, row := range rows {
		items[i] = toDTO(row)
	}
	return &PageResult[D]{Items: items, Page: p.Page, PageSize: p.PageSize, Total: total}, nil
}

// mutate loads the aggregate id, applies fn and saves it. It returns nil, nil when id is unknown.
// Errors from fn are returned unchanged.
func mutate[T any, P interface {
	*T
	models.Aggregate
}, D any](ctx context.Context, repo *repos.Repository[T, P], id string, fn func(P) error, toDTO func(P) D) (*D, error) {
	root, err := repo.FindByID(ctx, id)
	if err != nil || root == nil {
		return nil, err
	}
	if err := fn(root); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, root); err != nil {
		return nil, err
	}
	out := toDTO(root)
	return &out, nil
}

// get loads id and maps it, nil when unknown.
func get[T any, P interface {
	*T
	models.Aggregate
}, D any](ctx context.Context, repo *repos.Repository[T, P], id string, toDTO func(P) D) (*D, error) {
	root, err := repo.FindByID(ctx, id)
	if err != nil || root == nil {
		return nil, err
	}
	out := toDTO(root)
	return &out, nil
}

// remove loads id, lets mark record the deletion event and hard-deletes the row.
func remove[T any, P interface {
	*T
	models.Aggregate
}](ctx context.Context, repo *repos.Repository[T, P], id string, mark func(P) error) (bool, error) {
	root, err := repo.FindByID(ctx, id)
	if err != nil || root == nil {
		return false, err
	}
	if err := mark(root); err != nil {
		return false, err
	}
	if err := repo.Remove(ctx, root); err != nil {
		return false, err
	}
	return true, nil
}
