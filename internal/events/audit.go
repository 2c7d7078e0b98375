package events

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"saas_admin/internal/models"
	"saas_admin/internal/platform/ctxutil"
)

// AuditRecorder turns domain events into audit_logs rows inside the caller's transaction.
type AuditRecorder struct{}

func NewAuditRecorder() *AuditRecorder { return &AuditRecorder{} }

// Entries builds the rows without writing them.
func (r *AuditRecorder) Entries(ctx context.Context, accountID string, evs []models.Event) ([]models.AuditLog, error) {
	rd := ctxutil.GetRequestData(ctx)
	out := make([]models.AuditLog, 0, len(evs))
	for _, e := range evs {
		meta, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.EventName(), err)
		}
		row := models.AuditLog{
			AccountID:    accountID,
			ActorID:      actorFor(ctx, e),
			Action:       e.EventName(),
			ResourceType: models.ResourceType(e),
			ResourceID:   e.AggregateID(),
			Metadata:     datatypes.JSON(meta),
			CreatedAt:    e.OccurredAt(),
		}
		if rd != nil {
			row.IP = rd.IP
			row.UserAgent = truncate(rd.UserAgent, 255)
			row.InitiatorName = rd.Email
			row.RequestID = rd.RequestID
			if row.AccountID == "" {
				row.AccountID = rd.AccountID
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *AuditRecorder) Record(ctx context.Context, tx *gorm.DB, accountID string, evs []models.Event) error {
	if len(evs) == 0 {
		return nil
	}
	rows, err := r.Entries(ctx, accountID, evs)
	if err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// actorFor prefers the authenticated caller, then the actor the aggregate method recorded.
func actorFor(ctx context.Context, e models.Event) string {
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID != "" {
		return rd.UserID
	}
	if a, ok := e.(interface{ ActorID() string }); ok && a.ActorID() != "" {
		return a.ActorID()
	}
	return ctxutil.ActorID(ctx)
}

// truncate keeps at most n characters.
func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
