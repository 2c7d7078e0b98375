package app

import (
	"context"
	"time"

	"saas_admin/internal/auth"
	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

// CreateUserCommand creates an Active user when Password is set, otherwise an Invited one.
type CreateUserCommand struct {
	Email     string
	Name      string
	AccountID string
	Password  string
	RoleIDs   []string
}

type UpdateUserCommand struct {
	ID    string
	Name  string
	Email string
}

type ActivateUserCommand struct{ ID string }

type DeactivateUserCommand struct {
	ID     string
	Reason string
}

// LockUserCommand locks until Unlock when Duration is zero.
type LockUserCommand struct {
	ID       string
	Reason   string
	Duration time.Duration
}

type UnlockUserCommand struct{ ID string }

type ChangeUserAccountCommand struct {
	ID        string
	AccountID string
}

type AssignRolesCommand struct {
	ID      string
	RoleIDs []string
}

type DeleteUserCommand struct{ ID string }

type GetUserQuery struct{ ID string }

type ListUsersQuery struct {
	PageQuery
	AccountID string
	Status    string
}

func validation(param, reason string) error {
	return &models.ArgumentError{Param: param, Reason: reason}
}

func (h *handlers) registerUsers(m *mediator.Mediator) {
	handle(m, h.createUser)
	handle(m, func(ctx context.Context, c UpdateUserCommand) (*UserDTO, error) {
		return mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
			return u.Update(c.Name, c.Email, actor(ctx))
		}, toUserDTO)
	})
	handle(m, func(ctx context.Context, c ActivateUserCommand) (*UserDTO, error) {
		return mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
			return u.Activate(actor(ctx))
		}, toUserDTO)
	})
	handle(m, func(ctx context.Context, c DeactivateUserCommand) (*UserDTO, error) {
		return mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
			return u.Deactivate(c.Reason, actor(ctx))
		}, toUserDTO)
	})
	handle(m, func(ctx context.Context, c LockUserCommand) (*UserDTO, error) {
		var d *time.Duration
		if c.Duration != 0 {
			d = &c.Duration
		}
		return mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
			return u.Lock(c.Reason, d, actor(ctx))
		}, toUserDTO)
	})
	handle(m, func(ctx context.Context, c UnlockUserCommand) (*UserDTO, error) {
		return mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
			return u.Unlock(actor(ctx))
		}, toUserDTO)
	})
	handle(m, h.changeUserAccount)
	handle(m, h.assignRoles)
	handle(m, func(ctx context.Context, c DeleteUserCommand) (bool, error) {
		dto, err := mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
			return u.Delete(actor(ctx))
		}, toUserDTO)
		return dto != nil, err
	})
	handle(m, func(ctx context.Context, q GetUserQuery) (*UserDTO, error) {
		return get(ctx, h.r.Users, q.ID, toUserDTO)
	})
	handle(m, func(ctx context.Context, q ListUsersQuery) (*PageResult[UserDTO], error) {
		return listPage(ctx, h.r.Users.List, q.PageQuery, toUserDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("status", q.Status),
			repos.Search(q.Search, "email", "name"),
		)
	})
}

func (h *handlers) createUser(ctx context.Context, c CreateUserCommand) (*UserDTO, error) {
	var hash string
	if c.Password != "" {
		if len(c.Password) < auth.MinPasswordLength {
			return nil, validation("password", "must be at least 8 characters")
		}
		var err error
		if hash, err = auth.HashPassword(c.Password); err != nil {
			return nil, err
		}
	}
	u, err := models.NewUser(h.NewID(), c.Email, c.Name, c.AccountID, hash)
	if err != nil {
		return nil, err
	}
	if len(c.RoleIDs) > 0 {
		if err := h.checkRoles(ctx, c.AccountID, c.RoleIDs); err != nil {
			return nil, err
		}
		if err := u.AssignRoles(c.RoleIDs, actor(ctx)); err != nil {
			return nil, err
		}
	}
	if err := h.r.Users.Add(ctx, u); err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (h *handlers) changeUserAccount(ctx context.Context, c ChangeUserAccountCommand) (*UserDTO, error) {
	if c.AccountID != "" {
		ok, err := h.r.Accounts.Exists(ctx, repos.Where("id = ?", c.AccountID))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, validation("accountId", "account does not exist")
		}
	}
	return mutate(ctx, h.r.Users, c.ID, func(u *models.User) error {
		return u.ChangeAccount(c.AccountID, actor(ctx))
	}, toUserDTO)
}

func (h *handlers) assignRoles(ctx context.Context, c AssignRolesCommand) (*UserDTO, error) {
	u, err := h.r.Users.FindByID(ctx, c.ID)
	if err != nil || u == nil {
		return nil, err
	}
	if err := h.checkRoles(ctx, u.AccountID, c.RoleIDs); err != nil {
		return nil, err
	}
	if err := u.AssignRoles(c.RoleIDs, actor(ctx)); err != nil {
		return nil, err
	}
	if err := h.r.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// checkRoles verifies every id names a role of accountID.
func (h *handlers) checkRoles(ctx context.Context, accountID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return nil
	}
	for _, id := range roleIDs {
		ok, err := h.r.Roles.Exists(ctx, repos.Where("id = ? AND account_id = ?", id, accountID))
		if err != nil {
			return err
		}
		if !ok {
			return validation("roleIds", "unknown role "+id)
		}
	}
	return nil
}
