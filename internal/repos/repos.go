package repos

import "saas_admin/internal/models"

type AccountRepo = Repository[models.Account, *models.Account]
type UserRepo = Repository[models.User, *models.User]
type RoleRepo = Repository[models.Role, *models.Role]
type InvitationRepo = Repository[models.UserInvitation, *models.UserInvitation]
type ContentRepo = Repository[models.Content, *models.Content]
type DashboardRepo = Repository[models.Dashboard, *models.Dashboard]
type MediaRepo = Repository[models.MediaAsset, *models.MediaAsset]
type WebhookRepo = Repository[models.Webhook, *models.Webhook]
type DeliveryRepo = Repository[models.WebhookDelivery, *models.WebhookDelivery]
type WorkflowRepo = Repository[models.Workflow, *models.Workflow]
type MaintenanceRepo = Repository[models.MaintenanceWindow, *models.MaintenanceWindow]

// Repos is the persistence context handed to the application layer.
type Repos struct {
	Accounts    *AccountRepo
	Users       *UserRepo
	Roles       *RoleRepo
	Invitations *InvitationRepo
	Content     *ContentRepo
	Dashboards  *DashboardRepo
	Media       *MediaRepo
	Webhooks    *WebhookRepo
	Deliveries  *DeliveryRepo
	Workflows   *WorkflowRepo
	Maintenance *MaintenanceRepo
	AuditLogs   *AuditLogRepo
	Permissions *PermissionRepo
}

func NewRepos(deps Deps) *Repos {
	return &Repos{
		Accounts:    New[models.Account](deps),
		Users:       New[models.User](deps),
		Roles:       New[models.Role](deps, WithOrder[models.Role]("name, id")),
		Invitations: New[models.UserInvitation](deps),
		Content: New(deps,
			WithPreload[models.Content]("Versions", "version"),
			WithChildren[models.Content](syncContentVersions),
		),
		Dashboards: New(deps,
			WithPreload[models.Dashboard]("Cards", "position_y, position_x, id"),
			WithPreload[models.Dashboard]("Shares", "shared_at, id"),
			WithChildren[models.Dashboard](syncDashboardChildren),
		),
		Media:      New[models.MediaAsset](deps),
		Webhooks:   New[models.Webhook](deps),
		Deliveries: New[models.WebhookDelivery](deps),
		Workflows: New(deps,
			WithPreload[models.Workflow]("Stages", "position"),
			WithChildren[models.Workflow](syncWorkflowStages),
		),
		Maintenance: New[models.MaintenanceWindow](deps, WithOrder[models.MaintenanceWindow]("scheduled_start DESC, id")),
		AuditLogs:   NewAuditLogRepo(deps.DB),
		Permissions: NewPermissionRepo(deps.DB),
	}
}
