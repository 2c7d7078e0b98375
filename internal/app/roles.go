package app

import (
	"context"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type CreateRoleCommand struct {
	AccountID   string
	Name        string
	Description string
	Permissions []string
}

type UpdateRoleCommand struct {
	ID          string
	Name        string
	Description string
}

type SetRolePermissionsCommand struct {
	ID          string
	Permissions []string
}

type DeleteRoleCommand struct{ ID string }

type GetRoleQuery struct{ ID string }

type ListRolesQuery struct {
	PageQuery
	AccountID string
}

type ListPermissionsQuery struct{}

func (h *handlers) registerRoles(m *mediator.Mediator) {
	handle(m, func(ctx context.Context, c CreateRoleCommand) (*RoleDTO, error) {
		r, err := models.NewRole(h.NewID(), c.AccountID, c.Name, c.Description, c.Permissions)
		if err != nil {
			return nil, err
		}
		if err := h.r.Roles.Add(ctx, r); err != nil {
			return nil, err
		}
		dto := toRoleDTO(r)
		return &dto, nil
	})
	handle(m, func(ctx context.Context, c UpdateRoleCommand) (*RoleDTO, error) {
		return mutate(ctx, h.r.Roles, c.ID, func(r *models.Role) error {
			return r.Update(c.Name, c.Description, actor(ctx))
		}, toRoleDTO)
	})
	handle(m, func(ctx context.Context, c SetRolePermissionsCommand) (*RoleDTO, error) {
		return mutate(ctx, h.r.Roles, c.ID, func(r *models.Role) error {
			return r.SetPermissions(c.Permissions, actor(ctx))
		}, toRoleDTO)
	})
	handle(m, func(ctx context.Context, c DeleteRoleCommand) (bool, error) {
		return remove(ctx, h.r.Roles, c.ID, func(r *models.Role) error {
			return r.MarkDeleted(actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, q GetRoleQuery) (*RoleDTO, error) {
		return get(ctx, h.r.Roles, q.ID, toRoleDTO)
	})
	handle(m, func(ctx context.Context, q ListRolesQuery) (*PageResult[RoleDTO], error) {
		return listPage(ctx, h.r.Roles.List, q.PageQuery, toRoleDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Search(q.Search, "name", "slug"),
		)
	})
	handle(m, func(ctx context.Context, _ ListPermissionsQuery) ([]PermissionDTO, error) {
		rows, err := h.r.Permissions.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]PermissionDTO, len(rows))
		for i, p := range rows {
			out[i] = PermissionDTO{Key: p.Key, Description: p.Description, Resource: p.Resource, Action: p.Action}
		}
		return out, nil
	})
}
