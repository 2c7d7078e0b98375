package app

import (
	"context"
	"time"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type ScheduleMaintenanceCommand struct {
	Title          string
	Description    string
	AccountID      string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

type RescheduleMaintenanceCommand struct {
	ID             string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

type StartMaintenanceCommand struct{ ID string }

type CompleteMaintenanceCommand struct {
	ID    string
	Notes string
}

type CancelMaintenanceCommand struct {
	ID     string
	Reason string
}

type GetMaintenanceQuery struct{ ID string }

type ListMaintenanceQuery struct {
	PageQuery
	AccountID string
	Status    string
}

func (h *handlers) registerMaintenance(m *mediator.Mediator) {
	handle(m, func(ctx context.Context, c ScheduleMaintenanceCommand) (*MaintenanceDTO, error) {
		w, err := models.NewMaintenanceWindow(h.NewID(), c.Title, c.Description, c.AccountID,
			c.ScheduledStart, c.ScheduledEnd, actor(ctx))
		if err != nil {
			return nil, err
		}
		if err := h.r.Maintenance.Add(ctx, w); err != nil {
			return nil, err
		}
		dto := toMaintenanceDTO(w)
		return &dto, nil
	})
	edit := func(ctx context.Context, id string, fn func(*models.MaintenanceWindow) error) (*MaintenanceDTO, error) {
		return mutate(ctx, h.r.Maintenance, id, fn, toMaintenanceDTO)
	}
	handle(m, func(ctx context.Context, c RescheduleMaintenanceCommand) (*MaintenanceDTO, error) {
		return edit(ctx, c.ID, func(w *models.MaintenanceWindow) error {
			return w.Reschedule(c.ScheduledStart, c.ScheduledEnd, actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, c StartMaintenanceCommand) (*MaintenanceDTO, error) {
		return edit(ctx, c.ID, func(w *models.MaintenanceWindow) error { return w.Start(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c CompleteMaintenanceCommand) (*MaintenanceDTO, error) {
		return edit(ctx, c.ID, func(w *models.MaintenanceWindow) error { return w.Complete(c.Notes, actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c CancelMaintenanceCommand) (*MaintenanceDTO, error) {
		return edit(ctx, c.ID, func(w *models.MaintenanceWindow) error { return w.Cancel(c.Reason, actor(ctx)) })
	})
	handle(m, func(ctx context.Context, q GetMaintenanceQuery) (*MaintenanceDTO, error) {
		return get(ctx, h.r.Maintenance, q.ID, toMaintenanceDTO)
	})
	handle(m, func(ctx context.Context, q ListMaintenanceQuery) (*PageResult[MaintenanceDTO], error) {
		filters := []repos.Filter{
			repos.Eq("status", q.Status),
			repos.Search(q.Search, "title", "description"),
		}
		// platform-wide windows (no account) are visible to every tenant
		if q.AccountID != "" {
			filters = append(filters, repos.Where("(account_id = ? OR account_id = '' OR account_id IS NULL)", q.AccountID))
		}
		return listPage(ctx, h.r.Maintenance.List, q.PageQuery, toMaintenanceDTO, filters...)
	})
}
