package repos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"saas_admin/internal/models"
)

// AuditQuery is a keyset page over audit logs, newest first.
type AuditQuery struct {
	AccountID    string
	Limit        int
	AfterID      int64
	Search       string
	Action       string
	ResourceType string
	ResourceID   string
	ActorID      string
}

type AuditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// List returns at most Limit rows with ids below AfterID, and the cursor for the next page
// (nil on the last page).
func (r *AuditLogRepo) List(ctx context.Context, q AuditQuery) ([]models.AuditLog, *int64, error) {
	limit := q.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	query := r.db.WithContext(ctx).Model(&models.AuditLog{}).Order("id DESC")
	query = applyFilters(query, []Filter{
		Eq("account_id", q.AccountID),
		Eq("action", q.Action),
		Eq("resource_type", q.ResourceType),
		Eq("resource_id", q.ResourceID),
		Eq("actor_id", q.ActorID),
	})
	if q.AfterID > 0 {
		query = query.Where("id < ?", q.AfterID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(initiator_name LIKE ? OR action LIKE ? OR resource_type LIKE ? OR ip LIKE ?)",
			like, like, like, like)
	}

	var logs []models.AuditLog
	if err := query.Limit(limit + 1).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	var next *int64
	if len(logs) > limit {
		logs = logs[:limit]
		cursor := logs[limit-1].ID
		next = &cursor
	}
	return logs, next, nil
}

func (r *AuditLogRepo) FindByID(ctx context.Context, id int64) (*models.AuditLog, error) {
	var row models.AuditLog
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// PermissionRepo reads the permission catalog table.
type PermissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) *PermissionRepo {
	return &PermissionRepo{db: db}
}

func (r *PermissionRepo) List(ctx context.Context) ([]models.Permission, error) {
	var out []models.Permission
	err := r.db.WithContext(ctx).Order("resource, action").Find(&out).Error
	return out, err
}

// EnsureCatalog inserts catalog entries that are not stored yet.
func (r *PermissionRepo) EnsureCatalog(ctx context.Context) error {
	for _, p := range models.PermissionCatalog {
		row := p
		if err := r.db.WithContext(ctx).
			Where(models.Permission{Key: row.Key}).
			Attrs(models.Permission{Description: row.Description, Resource: row.Resource, Action: row.Action}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
