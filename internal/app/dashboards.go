package app

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type CreateDashboardCommand struct {
	Name        string
	Description string
	ProfileID   string
	AccountID   string
	LayoutType  string
}

type UpdateDashboardCommand struct {
	ID          string
	Name        string
	Description string
	LayoutType  string
}

// CardInput describes a card's content and placement.
type CardInput struct {
	Title     string          `json:"title"`
	Type      string          `json:"type"`
	PositionX int             `json:"positionX"`
	PositionY int             `json:"positionY"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Config    json.RawMessage `json:"config"`
}

func (in CardInput) spec() models.CardSpec {
	return models.CardSpec{
		Title:     in.Title,
		Type:      in.Type,
		PositionX: in.PositionX,
		PositionY: in.PositionY,
		Width:     in.Width,
		Height:    in.Height,
		Config:    datatypes.JSON(in.Config),
	}
}

type AddDashboardCardCommand struct {
	DashboardID string
	Card        CardInput
}

type UpdateDashboardCardCommand struct {
	DashboardID string
	CardID      string
	Card        CardInput
}

type RemoveDashboardCardCommand struct {
	DashboardID string
	CardID      string
}

type ShareDashboardCommand struct {
	DashboardID string
	UserID      string
	Permission  string
}

type UnshareDashboardCommand struct {
	DashboardID string
	UserID      string
}

type DeleteDashboardCommand struct{ ID string }

type GetDashboardQuery struct{ ID string }

type ListDashboardsQuery struct {
	PageQuery
	AccountID string
	OwnerID   string
	ProfileID string
}

func (h *handlers) registerDashboards(m *mediator.Mediator) {
	handle(m, h.createDashboard)
	edit := func(ctx context.Context, id string, fn func(*models.Dashboard) error) (*DashboardDTO, error) {
		return mutate(ctx, h.r.Dashboards, id, fn, toDashboardDTO)
	}
	handle(m, func(ctx context.Context, c UpdateDashboardCommand) (*DashboardDTO, error) {
		return edit(ctx, c.ID, func(d *models.Dashboard) error {
			return d.Update(c.Name, c.Description, models.LayoutType(c.LayoutType), actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, c AddDashboardCardCommand) (*DashboardDTO, error) {
		return edit(ctx, c.DashboardID, func(d *models.Dashboard) error {
			return d.AddCard(h.NewID(), c.Card.spec(), actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, c UpdateDashboardCardCommand) (*DashboardDTO, error) {
		return edit(ctx, c.DashboardID, func(d *models.Dashboard) error {
			return d.UpdateCard(c.CardID, c.Card.spec(), actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, c RemoveDashboardCardCommand) (*DashboardDTO, error) {
		return edit(ctx, c.DashboardID, func(d *models.Dashboard) error {
			return d.RemoveCard(c.CardID, actor(ctx))
		})
	})
	handle(m, h.shareDashboard)
	handle(m, func(ctx context.Context, c UnshareDashboardCommand) (*DashboardDTO, error) {
		return edit(ctx, c.DashboardID, func(d *models.Dashboard) error {
			return d.Unshare(c.UserID, actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, c DeleteDashboardCommand) (bool, error) {
		return remove(ctx, h.r.Dashboards, c.ID, func(d *models.Dashboard) error {
			return d.MarkDeleted(actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, q GetDashboardQuery) (*DashboardDTO, error) {
		return get(ctx, h.r.Dashboards, q.ID, toDashboardDTO)
	})
	handle(m, func(ctx context.Context, q ListDashboardsQuery) (*PageResult[DashboardDTO], error) {
		return listPage(ctx, h.r.Dashboards.List, q.PageQuery, toDashboardDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("owner_id", q.OwnerID),
			repos.Eq("profile_id", q.ProfileID),
			repos.Search(q.Search, "name", "description"),
		)
	})
}

func (h *handlers) createDashboard(ctx context.Context, c CreateDashboardCommand) (*DashboardDTO, error) {
	d, err := models.NewDashboard(h.NewID(), c.Name, c.Description, c.ProfileID, c.AccountID, actor(ctx),
		models.LayoutType(c.LayoutType))
	if err != nil {
		return nil, err
	}
	if err := h.r.Dashboards.Add(ctx, d); err != nil {
		return nil, err
	}
	dto := toDashboardDTO(d)
	return &dto, nil
}

// shareDashboard only shares with users of the dashboard's own account.
func (h *handlers) shareDashboard(ctx context.Context, c ShareDashboardCommand) (*DashboardDTO, error) {
	d, err := h.r.Dashboards.FindByID(ctx, c.DashboardID)
	if err != nil || d == nil {
		return nil, err
	}
	if c.UserID != "" {
		ok, err := h.r.Users.Exists(ctx, repos.Where("id = ? AND account_id = ?", c.UserID, d.AccountID))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, validation("userId", "user does not exist in this account")
		}
	}
	if err := d.Share(h.NewID(), c.UserID, models.SharePermission(c.Permission), actor(ctx)); err != nil {
		return nil, err
	}
	if err := h.r.Dashboards.Save(ctx, d); err != nil {
		return nil, err
	}
	dto := toDashboardDTO(d)
	return &dto, nil
}
