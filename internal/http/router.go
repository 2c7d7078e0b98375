package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/auth"
	"saas_admin/internal/http/handlers"
	"saas_admin/internal/http/middleware"
	"saas_admin/internal/http/response"
	"saas_admin/internal/mediator"
	"saas_admin/internal/platform/logger"
	"saas_admin/internal/rbac"
	"saas_admin/internal/repos"
)

type Deps struct {
	Mediator *mediator.Mediator
	Repos    *repos.Repos
	Tokens   *auth.TokenIssuer
	Denylist auth.Denylist
	Log      *logger.Logger

	CORSOrigins   []string
	SecureCookies bool

	// MediaDir, when set, serves locally stored media under MediaURL to signed-in users.
	MediaDir string
	MediaURL string

	// Health reports whether dependencies are reachable; nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.AttachRequestContext(),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.CORSOrigins),
	)

	e := &handlers.Env{M: d.Mediator, Log: d.Log, SecureCookies: d.SecureCookies}
	chk := rbac.Checker{Users: d.Repos.Users, Roles: d.Repos.Roles}
	authMW := auth.JWT(d.Tokens, d.Repos.Users, d.Denylist)

	r.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				response.RespondError(c, http.StatusServiceUnavailable, "unavailable", err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Secure static route for uploaded media
	if d.MediaDir != "" && d.MediaURL != "" {
		media := r.Group(d.MediaURL)
		media.Use(authMW)
		{
			media.Static("/", d.MediaDir)
		}
	}

	// Public routes
	r.POST("/api/auth/login", handlers.LoginHandler(e))
	r.POST("/api/invitations/accept", handlers.AcceptInvitation(e))

	api := r.Group("/api", authMW)
	{
		// Current user
		api.GET("/auth/me", handlers.MeHandler(e))
		api.POST("/auth/logout", handlers.LogoutHandler(e))
		api.POST("/auth/password", handlers.ChangePassword(e))

		// Accounts
		api.GET("/accounts", requirePerm(chk, "accounts:read"), handlers.ListAccounts(e))
		api.POST("/accounts", requirePerm(chk, "accounts:write"), handlers.CreateAccount(e))
		api.GET("/accounts/:id", requirePerm(chk, "accounts:read"), handlers.GetAccount(e))
		api.PUT("/accounts/:id", requirePerm(chk, "accounts:write"), handlers.UpdateAccount(e))
		api.POST("/accounts/:id/subscription", requirePerm(chk, "accounts:write"), handlers.ChangeSubscription(e))
		api.POST("/accounts/:id/suspend", requirePerm(chk, "accounts:write"), handlers.SuspendAccount(e))
		api.POST("/accounts/:id/reactivate", requirePerm(chk, "accounts:write"), handlers.ReactivateAccount(e))
		api.DELETE("/accounts/:id", requirePerm(chk, "accounts:write"), handlers.DeleteAccount(e))

		// Users
		api.GET("/users", requirePerm(chk, "users:read"), handlers.ListUsers(e))
		api.POST("/users", requirePerm(chk, "users:write"), handlers.CreateUser(e))
		api.GET("/users/:id", requirePerm(chk, "users:read"), handlers.GetUser(e))
		api.PUT("/users/:id", requirePerm(chk, "users:write"), handlers.UpdateUser(e))
		api.POST("/users/:id/activate", requirePerm(chk, "users:write"), handlers.ActivateUser(e))
		api.POST("/users/:id/deactivate", requirePerm(chk, "users:write"), handlers.DeactivateUser(e))
		api.POST("/users/:id/lock", requirePerm(chk, "users:write"), handlers.LockUser(e))
		api.POST("/users/:id/unlock", requirePerm(chk, "users:write"), handlers.UnlockUser(e))
		api.POST("/users/:id/account", requirePerm(chk, "users:write"), handlers.ChangeUserAccount(e))
		api.POST("/users/:id/roles", requirePerm(chk, "users:assign-role"), handlers.AssignRoles(e))
		api.DELETE("/users/:id", requirePerm(chk, "users:write"), handlers.DeleteUser(e))

		// Roles
		api.GET("/permissions", requirePerm(chk, "roles:read"), handlers.ListPermissions(e))
		api.GET("/roles", requirePerm(chk, "roles:read"), handlers.ListRoles(e))
		api.POST("/roles", requirePerm(chk, "roles:write"), handlers.CreateRole(e))
		api.GET("/roles/:id", requirePerm(chk, "roles:read"), handlers.GetRole(e))
		api.PUT("/roles/:id", requirePerm(chk, "roles:write"), handlers.UpdateRole(e))
		api.PUT("/roles/:id/permissions", requirePerm(chk, "roles:write"), handlers.SetRolePermissions(e))
		api.DELETE("/roles/:id", requirePerm(chk, "roles:write"), handlers.DeleteRole(e))

		// Invitations
		api.GET("/invitations", requirePerm(chk, "invitations:write"), handlers.ListInvitations(e))
		api.POST("/invitations", requirePerm(chk, "invitations:write"), handlers.CreateInvitation(e))
		api.GET("/invitations/:id", requirePerm(chk, "invitations:write"), handlers.GetInvitation(e))
		api.POST("/invitations/:id/resend", requirePerm(chk, "invitations:write"), handlers.ResendInvitation(e))
		api.POST("/invitations/:id/revoke", requirePerm(chk, "invitations:write"), handlers.RevokeInvitation(e))

		// Content
		api.GET("/content", requirePerm(chk, "content:read"), handlers.ListContent(e))
		api.POST("/content", requirePerm(chk, "content:write"), handlers.CreateContent(e))
		api.GET("/content/:id", requirePerm(chk, "content:read"), handlers.GetContent(e))
		api.PUT("/content/:id", requirePerm(chk, "content:write"), handlers.UpdateContent(e))
		api.GET("/content/:id/versions", requirePerm(chk, "content:read"), handlers.ListContentVersions(e))
		api.POST("/content/:id/versions", requirePerm(chk, "content:write"), handlers.CreateContentVersion(e))
		api.POST("/content/:id/versions/:version/restore", requirePerm(chk, "content:write"), handlers.RestoreContentVersion(e))
		api.POST("/content/:id/submit", requirePerm(chk, "content:write"), handlers.SubmitContentForReview(e))
		api.POST("/content/:id/publish", requirePerm(chk, "content:publish"), handlers.PublishContent(e))
		api.POST("/content/:id/unpublish", requirePerm(chk, "content:publish"), handlers.UnpublishContent(e))
		api.POST("/content/:id/archive", requirePerm(chk, "content:write"), handlers.ArchiveContent(e))
		api.POST("/content/:id/schedule", requirePerm(chk, "content:publish"), handlers.ScheduleContentPublish(e))
		api.DELETE("/content/:id/schedule", requirePerm(chk, "content:publish"), handlers.CancelContentSchedule(e))
		api.DELETE("/content/:id", requirePerm(chk, "content:write"), handlers.DeleteContent(e))

		// Dashboards
		api.GET("/dashboards", requirePerm(chk, "dashboards:read"), handlers.ListDashboards(e))
		api.POST("/dashboards", requirePerm(chk, "dashboards:write"), handlers.CreateDashboard(e))
		api.GET("/dashboards/:id", requirePerm(chk, "dashboards:read"), handlers.GetDashboard(e))
		api.PUT("/dashboards/:id", requirePerm(chk, "dashboards:write"), handlers.UpdateDashboard(e))
		api.POST("/dashboards/:id/cards", requirePerm(chk, "dashboards:write"), handlers.AddDashboardCard(e))
		api.PUT("/dashboards/:id/cards/:cardId", requirePerm(chk, "dashboards:write"), handlers.UpdateDashboardCard(e))
		api.DELETE("/dashboards/:id/cards/:cardId", requirePerm(chk, "dashboards:write"), handlers.RemoveDashboardCard(e))
		api.POST("/dashboards/:id/shares", requirePerm(chk, "dashboards:write"), handlers.ShareDashboard(e))
		api.DELETE("/dashboards/:id/shares/:userId", requirePerm(chk, "dashboards:write"), handlers.UnshareDashboard(e))
		api.DELETE("/dashboards/:id", requirePerm(chk, "dashboards:write"), handlers.DeleteDashboard(e))

		// Media
		api.GET("/media", requirePerm(chk, "media:read"), handlers.ListMedia(e))
		api.POST("/media", requirePerm(chk, "media:write"), handlers.UploadMedia(e))
		api.GET("/media/:id", requirePerm(chk, "media:read"), handlers.GetMedia(e))
		api.GET("/media/:id/content", requirePerm(chk, "media:read"), handlers.MediaContent(e))
		api.PUT("/media/:id", requirePerm(chk, "media:write"), handlers.UpdateMedia(e))
		api.DELETE("/media/:id", requirePerm(chk, "media:write"), handlers.DeleteMedia(e))

		// Webhooks
		api.GET("/webhooks", requirePerm(chk, "webhooks:read"), handlers.ListWebhooks(e))
		api.POST("/webhooks", requirePerm(chk, "webhooks:write"), handlers.CreateWebhook(e))
		api.GET("/webhooks/:id", requirePerm(chk, "webhooks:read"), handlers.GetWebhook(e))
		api.PUT("/webhooks/:id", requirePerm(chk, "webhooks:write"), handlers.UpdateWebhook(e))
		api.POST("/webhooks/:id/activate", requirePerm(chk, "webhooks:write"), handlers.ActivateWebhook(e))
		api.POST("/webhooks/:id/deactivate", requirePerm(chk, "webhooks:write"), handlers.DeactivateWebhook(e))
		api.POST("/webhooks/:id/rotate-secret", requirePerm(chk, "webhooks:write"), handlers.RotateWebhookSecret(e))
		api.DELETE("/webhooks/:id", requirePerm(chk, "webhooks:write"), handlers.DeleteWebhook(e))
		api.GET("/webhooks/:id/deliveries", requirePerm(chk, "webhooks:read"), handlers.ListDeliveries(e))
		api.POST("/webhooks/:id/deliveries", requirePerm(chk, "webhooks:write"), handlers.CreateDelivery(e))
		api.GET("/webhook-deliveries", requirePerm(chk, "webhooks:read"), handlers.ListDeliveries(e))
		api.GET("/webhook-deliveries/:id", requirePerm(chk, "webhooks:read"), handlers.GetDelivery(e))
		api.POST("/webhook-deliveries/:id/result", requirePerm(chk, "webhooks:write"), handlers.RecordDeliveryResult(e))
		api.POST("/webhook-deliveries/:id/retry", requirePerm(chk, "webhooks:write"), handlers.RetryDelivery(e))

		// Workflows
		api.GET("/workflows", requirePerm(chk, "workflows:read"), handlers.ListWorkflows(e))
		api.POST("/workflows", requirePerm(chk, "workflows:write"), handlers.CreateWorkflow(e))
		api.GET("/workflows/:id", requirePerm(chk, "workflows:read"), handlers.GetWorkflow(e))
		api.PUT("/workflows/:id", requirePerm(chk, "workflows:write"), handlers.UpdateWorkflow(e))
		api.POST("/workflows/:id/stages", requirePerm(chk, "workflows:write"), handlers.AddWorkflowStage(e))
		api.DELETE("/workflows/:id/stages/:stageId", requirePerm(chk, "workflows:write"), handlers.RemoveWorkflowStage(e))
		api.POST("/workflows/:id/activate", requirePerm(chk, "workflows:write"), handlers.ActivateWorkflow(e))
		api.POST("/workflows/:id/deactivate", requirePerm(chk, "workflows:write"), handlers.DeactivateWorkflow(e))
		api.POST("/workflows/:id/archive", requirePerm(chk, "workflows:write"), handlers.ArchiveWorkflow(e))
		api.DELETE("/workflows/:id", requirePerm(chk, "workflows:write"), handlers.DeleteWorkflow(e))

		// Maintenance windows
		api.GET("/maintenance", requirePerm(chk, "maintenance:read"), handlers.ListMaintenance(e))
		api.POST("/maintenance", requirePerm(chk, "maintenance:write"), handlers.ScheduleMaintenance(e))
		api.GET("/maintenance/:id", requirePerm(chk, "maintenance:read"), handlers.GetMaintenance(e))
		api.PUT("/maintenance/:id", requirePerm(chk, "maintenance:write"), handlers.RescheduleMaintenance(e))
		api.POST("/maintenance/:id/start", requirePerm(chk, "maintenance:write"), handlers.StartMaintenance(e))
		api.POST("/maintenance/:id/complete", requirePerm(chk, "maintenance:write"), handlers.CompleteMaintenance(e))
		api.POST("/maintenance/:id/cancel", requirePerm(chk, "maintenance:write"), handlers.CancelMaintenance(e))

		// Audit trail
		api.GET("/audit-logs", requirePerm(chk, "audit:read"), handlers.ListAudit(e))
		api.GET("/audit-logs/:id", requirePerm(chk, "audit:read"), handlers.GetAudit(e))
	}

	return r
}

func requirePerm(chk rbac.Checker, permKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl := auth.ClaimsFrom(c)
		if cl == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "missing": permKey})
			return
		}
		ok, err := chk.Can(c.Request.Context(), cl.UserID, permKey)
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "missing": permKey})
			return
		}
		c.Next()
	}
}
