package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"saas_admin/internal/models"
)

// syncHasMany makes the stored children of parentID match rows: rows missing from the
// slice are deleted, the rest are upserted by primary key.
func syncHasMany[C any](ctx context.Context, tx *gorm.DB, fk, parentID string, rows []C, ids []string, onConflict clause.OnConflict) error {
	del := tx.WithContext(ctx).Where(fk+" = ?", parentID)
	if len(ids) > 0 {
		del = del.Where("id NOT IN ?", ids)
	}
	if err := del.Delete(new(C)).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(onConflict).Create(&rows).Error
}

var (
	upsertAll = clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}
	keepFirst = clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}
)

func syncContentVersions(ctx context.Context, tx *gorm.DB, c *models.Content) error {
	ids := make([]string, len(c.Versions))
	for i, v := range c.Versions {
		ids[i] = v.ID
	}
	// snapshots never change once written
	return syncHasMany(ctx, tx, "content_id", c.ID, c.Versions, ids, keepFirst)
}

func syncDashboardChildren(ctx context.Context, tx *gorm.DB, d *models.Dashboard) error {
	cardIDs := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		cardIDs[i] = c.ID
	}
	if err := syncHasMany(ctx, tx, "dashboard_id", d.ID, d.Cards, cardIDs, upsertAll); err != nil {
		return err
	}
	shareIDs := make([]string, len(d.Shares))
	for i, s := range d.Shares {
		shareIDs[i] = s.ID
	}
	return syncHasMany(ctx, tx, "dashboard_id", d.ID, d.Shares, shareIDs, upsertAll)
}

func syncWorkflowStages(ctx context.Context, tx *gorm.DB, w *models.Workflow) error {
	ids := make([]string, len(w.Stages))
	for i, s := range w.Stages {
		ids[i] = s.ID
	}
	return syncHasMany(ctx, tx, "workflow_id", w.ID, w.Stages, ids, upsertAll)
}
