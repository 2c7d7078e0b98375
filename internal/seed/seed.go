package seed

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"saas_admin/internal/auth"
	"saas_admin/internal/models"
	"saas_admin/internal/platform/ctxutil"
	"saas_admin/internal/platform/logger"
	"saas_admin/internal/repos"
)

const DefaultAccountName = "Default Organization"

type Options struct {
	AdminEmail    string
	AdminPassword string
}

// Result names what FirstSetup found or created.
type Result struct {
	AccountID string
	AdminID   string
	RoleIDs   map[string]string // slug -> id
}

type roleSpec struct {
	name        string
	description string
	perms       func() []string
}

var systemRoles = []roleSpec{
	{"Administrator", "Full access", models.PermissionKeys},
	{"Editor", "Manage content, media and dashboards", func() []string {
		return keysWhere(func(k string) bool {
			for _, p := range []string{"content:", "media:", "dashboards:", "workflows:read"} {
				if strings.HasPrefix(k, p) {
					return true
				}
			}
			return false
		})
	}},
	{"Viewer", "Read-only access", func() []string {
		return keysWhere(func(k string) bool { return strings.HasSuffix(k, ":read") })
	}},
}

func keysWhere(keep func(string) bool) []string {
	var out []string
	for _, k := range models.PermissionKeys() {
		if keep(k) {
			out = append(out, k)
		}
	}
	return out
}

// FirstSetup makes sure the permission catalog, a default account, the system roles and an admin user
// exist. Running it again changes nothing.
func FirstSetup(ctx context.Context, r *repos.Repos, opts Options, log *logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: "system"})
	if opts.AdminEmail == "" {
		opts.AdminEmail = "admin@example.com"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin123"
	}

	// 1) permission catalog
	if err := r.Permissions.EnsureCatalog(ctx); err != nil {
		return nil, err
	}

	// 2) admin user id first, the account owner points at it
	admin, err := r.Users.FindOne(ctx, repos.Where("email = ?", models.NormalizeEmail(opts.AdminEmail)))
	if err != nil {
		return nil, err
	}
	adminID := uuid.NewString()
	if admin != nil {
		adminID = admin.ID
	}

	// 3) default account
	acc, err := r.Accounts.FindOne(ctx, repos.Where("name = ?", DefaultAccountName))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc, err = models.NewAccount(uuid.NewString(), DefaultAccountName, models.AccountBusiness, adminID, "Enterprise")
		if err != nil {
			return nil, err
		}
		if err := r.Accounts.Add(ctx, acc); err != nil {
			return nil, err
		}
	}

	// 4) system roles
	res := &Result{AccountID: acc.ID, AdminID: adminID, RoleIDs: map[string]string{}}
	for _, spec := range systemRoles {
		slug := models.Slugify(spec.name)
		role, err := r.Roles.FindOne(ctx, repos.Where("account_id = ? AND slug = ?", acc.ID, slug))
		if err != nil {
			return nil, err
		}
		if role == nil {
			role, err = models.NewRole(uuid.NewString(), acc.ID, spec.name, spec.description, spec.perms())
			if err != nil {
				return nil, err
			}
			role.IsSystem = true
			if err := r.Roles.Add(ctx, role); err != nil {
				return nil, err
			}
		}
		res.RoleIDs[slug] = role.ID
	}

	// 5) admin user bound to Administrator
	if admin == nil {
		hash, err := auth.HashPassword(opts.AdminPassword)
		if err != nil {
			return nil, err
		}
		admin, err = models.NewUser(adminID, opts.AdminEmail, "Admin User", acc.ID, hash)
		if err != nil {
			return nil, err
		}
		if err := admin.AssignRoles([]string{res.RoleIDs[models.Slugify("Administrator")]}, "system"); err != nil {
			return nil, err
		}
		if err := r.Users.Add(ctx, admin); err != nil {
			return nil, err
		}
		log.Warn("seeded admin user, change the password after first login", "email", admin.Email)
	}

	log.Info("seed ok", "account_id", acc.ID, "roles", len(res.RoleIDs), "perms", len(models.PermissionCatalog))
	return res, nil
}
