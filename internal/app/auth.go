package app

import (
	"context"
	"time"

	"saas_admin/internal/auth"
	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/rbac"
	"saas_admin/internal/repos"
)

type LoginCommand struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

// LogoutCommand revokes one token until it would have expired.
type LogoutCommand struct {
	TokenID   string
	ExpiresAt time.Time
}

type MeQuery struct{ UserID string }

type MeResult struct {
	User        UserDTO  `json:"user"`
	Permissions []string `json:"permissions"`
}

type ChangePasswordCommand struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

func (h *handlers) registerAuth(m *mediator.Mediator) {
	handle(m, h.login)
	handle(m, func(ctx context.Context, c LogoutCommand) (bool, error) {
		if c.TokenID == "" {
			return false, nil
		}
		if err := h.Denylist.Revoke(ctx, c.TokenID, c.ExpiresAt); err != nil {
			return false, err
		}
		return true, nil
	})
	handle(m, h.me)
	handle(m, h.changePassword)
}

// login answers unknown emails and wrong passwords alike. A wrong password counts towards the
// lockout; a timed lock that has run out is lifted before the password is checked.
func (h *handlers) login(ctx context.Context, c LoginCommand) (*LoginResult, error) {
	u, err := h.r.Users.FindOne(ctx, repos.Where("email = ?", models.NormalizeEmail(c.Email)))
	if err != nil {
		return nil, err
	}
	if u == nil || c.Password == "" {
		return nil, ErrUnauthorized
	}
	if u.LockExpired(h.Now()) {
		if err := u.Unlock("system"); err != nil {
			return nil, err
		}
		if err := h.r.Users.Save(ctx, u); err != nil {
			return nil, err
		}
	}

	if !auth.CheckPassword(u.PasswordHash, c.Password) {
		if u.Status == models.UserActive {
			if err := u.RecordFailedLogin(h.Settings.MaxFailedLogins, h.Settings.LockoutDuration); err != nil {
				return nil, err
			}
			if err := h.r.Users.Save(ctx, u); err != nil {
				return nil, err
			}
			if u.Status == models.UserLocked {
				h.log.Warn("user locked after failed sign-ins", "user_id", u.ID, "ip", c.IP)
			}
		}
		return nil, ErrUnauthorized
	}
	if u.Status != models.UserActive {
		return nil, ErrForbidden
	}

	if err := u.RecordLogin(c.IP, c.UserAgent); err != nil {
		return nil, err
	}
	if err := h.r.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	token, claims, err := h.Tokens.Issue(u.ID, u.AccountID, u.Email, h.Now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: claims.Expiry(), User: toUserDTO(u)}, nil
}

func (h *handlers) me(ctx context.Context, q MeQuery) (*MeResult, error) {
	u, err := h.r.Users.FindByID(ctx, q.UserID)
	if err != nil || u == nil {
		return nil, err
	}
	perms, err := rbac.Checker{Users: h.r.Users, Roles: h.r.Roles}.Permissions(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []string{}
	}
	return &MeResult{User: toUserDTO(u), Permissions: perms}, nil
}

func (h *handlers) changePassword(ctx context.Context, c ChangePasswordCommand) (bool, error) {
	if len(c.NewPassword) < auth.MinPasswordLength {
		return false, validation("newPassword", "must be at least 8 characters")
	}
	u, err := h.r.Users.FindByID(ctx, c.UserID)
	if err != nil || u == nil {
		return false, err
	}
	if !auth.CheckPassword(u.PasswordHash, c.CurrentPassword) {
		return false, validation("currentPassword", "is incorrect")
	}
	hash, err := auth.HashPassword(c.NewPassword)
	if err != nil {
		return false, err
	}
	if err := u.ChangePassword(hash); err != nil {
		return false, err
	}
	if err := h.r.Users.Save(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
