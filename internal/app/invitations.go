package app

import (
	"context"

	"saas_admin/internal/auth"
	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type CreateInvitationCommand struct {
	Email     string
	AccountID string
	RoleIDs   []string
}

type ResendInvitationCommand struct{ ID string }

type RevokeInvitationCommand struct{ ID string }

// AcceptInvitationCommand is the public sign-up step. It returns nil when Token matches no invitation.
type AcceptInvitationCommand struct {
	Token    string
	Name     string
	Password string
}

type GetInvitationQuery struct{ ID string }

type ListInvitationsQuery struct {
	PageQuery
	AccountID string
	Status    string
}

func (h *handlers) registerInvitations(m *mediator.Mediator) {
	handle(m, h.createInvitation)
	handle(m, func(ctx context.Context, c ResendInvitationCommand) (*InvitationDTO, error) {
		token, hash, err := newInvitationToken()
		if err != nil {
			return nil, err
		}
		dto, err := mutate(ctx, h.r.Invitations, c.ID, func(i *models.UserInvitation) error {
			return i.Resend(hash, h.Now().Add(h.Settings.InvitationTTL), actor(ctx))
		}, toInvitationDTO)
		if dto != nil {
			dto.Token = token
		}
		return dto, err
	})
	handle(m, func(ctx context.Context, c RevokeInvitationCommand) (*InvitationDTO, error) {
		return mutate(ctx, h.r.Invitations, c.ID, func(i *models.UserInvitation) error {
			return i.Revoke(actor(ctx))
		}, toInvitationDTO)
	})
	handle(m, h.acceptInvitation)
	handle(m, func(ctx context.Context, q GetInvitationQuery) (*InvitationDTO, error) {
		return get(ctx, h.r.Invitations, q.ID, toInvitationDTO)
	})
	handle(m, func(ctx context.Context, q ListInvitationsQuery) (*PageResult[InvitationDTO], error) {
		return listPage(ctx, h.r.Invitations.List, q.PageQuery, toInvitationDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("status", q.Status),
			repos.Search(q.Search, "email"),
		)
	})
}

func newInvitationToken() (token, hash string, err error) {
	token, err = auth.RandomToken(32)
	if err != nil {
		return "", "", err
	}
	return token, auth.HashToken(token), nil
}

func (h *handlers) createInvitation(ctx context.Context, c CreateInvitationCommand) (*InvitationDTO, error) {
	taken, err := h.r.Users.Exists(ctx, repos.Where("email = ?", models.NormalizeEmail(c.Email)))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repos.ErrConflict
	}
	if err := h.checkRoles(ctx, c.AccountID, c.RoleIDs); err != nil {
		return nil, err
	}
	token, hash, err := newInvitationToken()
	if err != nil {
		return nil, err
	}
	inv, err := models.NewUserInvitation(h.NewID(), c.Email, c.AccountID, actor(ctx), hash, c.RoleIDs,
		h.Now().Add(h.Settings.InvitationTTL))
	if err != nil {
		return nil, err
	}
	if err := h.r.Invitations.Add(ctx, inv); err != nil {
		return nil, err
	}
	dto := toInvitationDTO(inv)
	dto.Token = token
	return &dto, nil
}

// acceptInvitation creates the invited user as Active with the invitation's roles,
// then marks the invitation accepted.
func (h *handlers) acceptInvitation(ctx context.Context, c AcceptInvitationCommand) (*UserDTO, error) {
	if c.Token == "" {
		return nil, validation("token", "is required")
	}
	if len(c.Password) < auth.MinPasswordLength {
		return nil, validation("password", "must be at least 8 characters")
	}
	inv, err := h.r.Invitations.FindOne(ctx, repos.Where("token_hash = ?", auth.HashToken(c.Token)))
	if err != nil || inv == nil {
		return nil, err
	}
	userID := h.NewID()
	// accept in memory first so an expired or used invitation never creates a user
	if err := inv.Accept(userID, h.Now()); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(c.Password)
	if err != nil {
		return nil, err
	}
	u, err := models.NewUser(userID, inv.Email, c.Name, inv.AccountID, hash)
	if err != nil {
		return nil, err
	}
	if len(inv.RoleIDs) > 0 {
		if err := u.AssignRoles(inv.RoleIDs, inv.InvitedBy); err != nil {
			return nil, err
		}
	}
	if err := h.r.Users.Add(ctx, u); err != nil {
		return nil, err
	}
	if err := h.r.Invitations.Save(ctx, inv); err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}
