package repos

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"saas_admin/internal/events"
	"saas_admin/internal/models"
	"saas_admin/internal/platform/logger"
)

// aggregate constrains P to a pointer to T that is also an aggregate root.
type aggregate[T any] interface {
	*T
	models.Aggregate
}

// Deps are the collaborators every repository shares.
type Deps struct {
	DB        *gorm.DB
	Log       *logger.Logger
	Audit     *events.AuditRecorder
	Publisher events.Publisher
}

type preload struct {
	field string
	order string
}

// Repository persists one aggregate type. Writes run in a single transaction that also
// records the aggregate's pending events in the audit log; events are published after commit.
type Repository[T any, P aggregate[T]] struct {
	deps     Deps
	log      *logger.Logger
	preloads []preload
	sync     func(ctx context.Context, tx *gorm.DB, root P) error
	order    string
}

type Option[T any, P aggregate[T]] func(*Repository[T, P])

// WithPreload loads a has-many field on every read, sorted by order.
func WithPreload[T any, P aggregate[T]](field, order string) Option[T, P] {
	return func(r *Repository[T, P]) { r.preloads = append(r.preloads, preload{field: field, order: order}) }
}

// WithChildren writes owned child rows after the root on Add and Save.
func WithChildren[T any, P aggregate[T]](sync func(ctx context.Context, tx *gorm.DB, root P) error) Option[T, P] {
	return func(r *Repository[T, P]) { r.sync = sync }
}

// WithOrder sets the List ordering. The default is newest first.
func WithOrder[T any, P aggregate[T]](order string) Option[T, P] {
	return func(r *Repository[T, P]) { r.order = order }
}

func New[T any, P aggregate[T]](deps Deps, opts ...Option[T, P]) *Repository[T, P] {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Audit == nil {
		deps.Audit = events.NewAuditRecorder()
	}
	name := reflect.TypeOf((*T)(nil)).Elem().Name()
	r := &Repository[T, P]{
		deps:  deps,
		log:   deps.Log.With("repo", name+"Repo"),
		order: "created_at DESC, id",
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Repository[T, P]) withPreloads(q *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		if p.order == "" {
			q = q.Preload(p.field)
			continue
		}
		order := p.order
		q = q.Preload(p.field, func(db *gorm.DB) *gorm.DB { return db.Order(order) })
	}
	return q
}

func (r *Repository[T, P]) Add(ctx context.Context, root P) error {
	return r.write(ctx, root, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(root).Error; err != nil {
			return err
		}
		return r.syncChildren(ctx, tx, root)
	})
}

func (r *Repository[T, P]) Save(ctx context.Context, root P) error {
	return r.write(ctx, root, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(root).Error; err != nil {
			return err
		}
		return r.syncChildren(ctx, tx, root)
	})
}

// Remove hard-deletes the root and its owned children.
func (r *Repository[T, P]) Remove(ctx context.Context, root P) error {
	return r.write(ctx, root, func(tx *gorm.DB) error {
		return tx.Select(clause.Associations).Delete(root).Error
	})
}

func (r *Repository[T, P]) syncChildren(ctx context.Context, tx *gorm.DB, root P) error {
	if r.sync == nil {
		return nil
	}
	return r.sync(ctx, tx, root)
}

func (r *Repository[T, P]) write(ctx context.Context, root P, op func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pending := root.Events()
	var accountID string
	if t, ok := any(root).(models.Tenanted); ok {
		accountID = t.TenantID()
	}
	err := r.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := op(tx); err != nil {
			return err
		}
		return r.deps.Audit.Record(ctx, tx, accountID, pending)
	})
	if err != nil {
		return mapErr(err)
	}
	if r.deps.Publisher != nil && len(pending) > 0 {
		// committed already; a broker outage must not fail the request
		if err := r.deps.Publisher.Publish(context.WithoutCancel(ctx), pending); err != nil {
			r.log.Warn("publish events failed", "aggregate_id", root.AggregateID(), "count", len(pending), "error", err)
		}
	}
	root.ClearEvents()
	return nil
}

// FindByID returns nil, nil when no row matches.
func (r *Repository[T, P]) FindByID(ctx context.Context, id string) (P, error) {
	return r.FindOne(ctx, Where("id = ?", id))
}

// FindOne returns the first row matching every filter, or nil, nil.
func (r *Repository[T, P]) FindOne(ctx context.Context, filters ...Filter) (P, error) {
	var out T
	q := r.withPreloads(r.deps.DB.WithContext(ctx))
	err := applyFilters(q, filters).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %T: %w", out, err)
	}
	return P(&out), nil
}

// List returns one page of matches plus the total match count.
func (r *Repository[T, P]) List(ctx context.Context, page Page, filters ...Filter) ([]P, int64, error) {
	page = page.Normalize()
	var total int64
	base := applyFilters(r.deps.DB.WithContext(ctx).Model(new(T)), filters)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}
	var rows []T
	q := applyFilters(r.withPreloads(r.deps.DB.WithContext(ctx)), filters)
	if err := q.Order(r.order).Limit(page.PageSize).Offset(page.offset()).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	out := make([]P, len(rows))
	for i := range rows {
		out[i] = P(&rows[i])
	}
	return out, total, nil
}

// All returns every match without paging, in list order.
func (r *Repository[T, P]) All(ctx context.Context, filters ...Filter) ([]P, error) {
	var rows []T
	q := applyFilters(r.withPreloads(r.deps.DB.WithContext(ctx)), filters)
	if err := q.Order(r.order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	out := make([]P, len(rows))
	for i := range rows {
		out[i] = P(&rows[i])
	}
	return out, nil
}

func (r *Repository[T, P]) Count(ctx context.Context, filters ...Filter) (int64, error) {
	var n int64
	err := applyFilters(r.deps.DB.WithContext(ctx).Model(new(T)), filters).Count(&n).Error
	return n, err
}

// Exists reports whether any row matches.
func (r *Repository[T, P]) Exists(ctx context.Context, filters ...Filter) (bool, error) {
	n, err := r.Count(ctx, filters...)
	return n > 0, err
}
