package app

import (
	"context"
	"errors"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type CreateWorkflowCommand struct {
	AccountID   string
	Name        string
	Description string
}

type UpdateWorkflowCommand struct {
	ID          string
	Name        string
	Description string
}

type AddWorkflowStageCommand struct {
	WorkflowID     string
	Name           string
	ApproverRoleID string
}

type RemoveWorkflowStageCommand struct {
	WorkflowID string
	StageID    string
}

type ActivateWorkflowCommand struct{ ID string }

type DeactivateWorkflowCommand struct{ ID string }

type ArchiveWorkflowCommand struct{ ID string }

type DeleteWorkflowCommand struct{ ID string }

type GetWorkflowQuery struct{ ID string }

type ListWorkflowsQuery struct {
	PageQuery
	AccountID string
	Status    string
}

func (h *handlers) registerWorkflows(m *mediator.Mediator) {
	handle(m, func(ctx context.Context, c CreateWorkflowCommand) (*WorkflowDTO, error) {
		w, err := models.NewWorkflow(h.NewID(), c.AccountID, c.Name, c.Description, actor(ctx))
		if err != nil {
			return nil, err
		}
		if err := h.r.Workflows.Add(ctx, w); err != nil {
			return nil, err
		}
		dto := toWorkflowDTO(w)
		return &dto, nil
	})
	edit := func(ctx context.Context, id string, fn func(*models.Workflow) error) (*WorkflowDTO, error) {
		return mutate(ctx, h.r.Workflows, id, fn, toWorkflowDTO)
	}
	handle(m, func(ctx context.Context, c UpdateWorkflowCommand) (*WorkflowDTO, error) {
		return edit(ctx, c.ID, func(w *models.Workflow) error { return w.Update(c.Name, c.Description, actor(ctx)) })
	})
	handle(m, h.addWorkflowStage)
	handle(m, func(ctx context.Context, c RemoveWorkflowStageCommand) (*WorkflowDTO, error) {
		return edit(ctx, c.WorkflowID, func(w *models.Workflow) error { return w.RemoveStage(c.StageID, actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c ActivateWorkflowCommand) (*WorkflowDTO, error) {
		return edit(ctx, c.ID, func(w *models.Workflow) error { return w.Activate(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c DeactivateWorkflowCommand) (*WorkflowDTO, error) {
		return edit(ctx, c.ID, func(w *models.Workflow) error { return w.Deactivate(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c ArchiveWorkflowCommand) (*WorkflowDTO, error) {
		return edit(ctx, c.ID, func(w *models.Workflow) error { return w.Archive(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c DeleteWorkflowCommand) (bool, error) {
		return remove(ctx, h.r.Workflows, c.ID, func(w *models.Workflow) error { return w.MarkDeleted(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, q GetWorkflowQuery) (*WorkflowDTO, error) {
		return get(ctx, h.r.Workflows, q.ID, toWorkflowDTO)
	})
	handle(m, func(ctx context.Context, q ListWorkflowsQuery) (*PageResult[WorkflowDTO], error) {
		return listPage(ctx, h.r.Workflows.List, q.PageQuery, toWorkflowDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("status", q.Status),
			repos.Search(q.Search, "name", "description"),
		)
	})
}

// addWorkflowStage requires the approver role, when given, to belong to the workflow's account.
func (h *handlers) addWorkflowStage(ctx context.Context, c AddWorkflowStageCommand) (*WorkflowDTO, error) {
	w, err := h.r.Workflows.FindByID(ctx, c.WorkflowID)
	if err != nil || w == nil {
		return nil, err
	}
	if c.ApproverRoleID != "" {
		err := h.checkRoles(ctx, w.AccountID, []string{c.ApproverRoleID})
		if errors.Is(err, models.ErrValidation) {
			return nil, validation("approverRoleId", "unknown role "+c.ApproverRoleID)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := w.AddStage(h.NewID(), c.Name, c.ApproverRoleID, actor(ctx)); err != nil {
		return nil, err
	}
	if err := h.r.Workflows.Save(ctx, w); err != nil {
		return nil, err
	}
	dto := toWorkflowDTO(w)
	return &dto, nil
}
