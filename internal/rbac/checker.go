package rbac

import (
	"context"
	"fmt"
	"slices"

	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

// Checker resolves permission keys through the roles assigned to a user.
type Checker struct {
	Users *repos.UserRepo
	Roles *repos.RoleRepo
}

// Can reports whether any of the user's roles grants permKey.
func (c Checker) Can(ctx context.Context, userID, permKey string) (bool, error) {
	keys, err := c.Permissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(keys, permKey), nil
}

// Permissions returns the sorted union of keys granted by the user's roles.
// Roles from another account than the user's never count.
func (c Checker) Permissions(ctx context.Context, userID string) ([]string, error) {
	user, err := c.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || user.Status != models.UserActive || len(user.RoleIDs) == 0 {
		return nil, nil
	}
	roles, err := c.Roles.All(ctx,
		repos.Where("id IN ?", []string(user.RoleIDs)),
		repos.Eq("account_id", user.AccountID),
	)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	var out []string
	for _, r := range roles {
		out = append(out, r.Permissions...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
