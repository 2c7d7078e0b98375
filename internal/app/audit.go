package app

import (
	"context"

	"saas_admin/internal/mediator"
	"saas_admin/internal/repos"
)

// ListAuditLogsQuery pages newest first. AfterID is the NextCursor of the previous page.
type ListAuditLogsQuery struct {
	AccountID    string
	Limit        int
	AfterID      int64
	Search       string
	Action       string
	ResourceType string
	ResourceID   string
	ActorID      string
}

type AuditPage struct {
	Items      []AuditLogDTO `json:"items"`
	NextCursor *int64        `json:"nextCursor"`
}

type GetAuditLogQuery struct{ ID int64 }

func (h *handlers) registerAudit(m *mediator.Mediator) {
	handle(m, func(ctx context.Context, q ListAuditLogsQuery) (*AuditPage, error) {
		logs, next, err := h.r.AuditLogs.List(ctx, repos.AuditQuery{
			AccountID:    q.AccountID,
			Limit:        q.Limit,
			AfterID:      q.AfterID,
			Search:       q.Search,
			Action:       q.Action,
			ResourceType: q.ResourceType,
			ResourceID:   q.ResourceID,
			ActorID:      q.ActorID,
		})
		if err != nil {
			return nil, err
		}
		page := &AuditPage{Items: make([]AuditLogDTO, len(logs)), NextCursor: next}
		for i, l := range logs {
			page.Items[i] = toAuditLogDTO(l)
		}
		return page, nil
	})
	handle(m, func(ctx context.Context, q GetAuditLogQuery) (*AuditLogDTO, error) {
		row, err := h.r.AuditLogs.FindByID(ctx, q.ID)
		if err != nil || row == nil {
			return nil, err
		}
		dto := toAuditLogDTO(*row)
		return &dto, nil
	})
}
