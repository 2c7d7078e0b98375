package handlers

import (
	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListDashboards(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.DashboardDTO]](c, e, app.ListDashboardsQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			OwnerID:   c.Query("ownerId"),
			ProfileID: c.Query("profileId"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

func CreateDashboard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			ProfileID   string `json:"profileId"`
			AccountID   string `json:"accountId"`
			LayoutType  string `json:"layoutType"`
		}
		if !bind(c, &in) {
			return
		}
		d, ok := send[*app.DashboardDTO](c, e, app.CreateDashboardCommand{
			Name:        in.Name,
			Description: in.Description,
			ProfileID:   in.ProfileID,
			AccountID:   accountScope(c, in.AccountID),
			LayoutType:  in.LayoutType,
		})
		if ok {
			response.Created(c, location("/api/dashboards", d.ID), d)
		}
	}
}

func GetDashboard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.DashboardDTO](c, e, app.GetDashboardQuery{ID: c.Param("id")})
	}
}

func UpdateDashboard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			LayoutType  string `json:"layoutType"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.DashboardDTO](c, e, app.UpdateDashboardCommand{
			ID: c.Param("id"), Name: in.Name, Description: in.Description, LayoutType: in.LayoutType,
		})
	}
}

func AddDashboardCard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var card app.CardInput
		if !bind(c, &card) {
			return
		}
		reply[app.DashboardDTO](c, e, app.AddDashboardCardCommand{DashboardID: c.Param("id"), Card: card})
	}
}

func UpdateDashboardCard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var card app.CardInput
		if !bind(c, &card) {
			return
		}
		reply[app.DashboardDTO](c, e, app.UpdateDashboardCardCommand{
			DashboardID: c.Param("id"), CardID: c.Param("cardId"), Card: card,
		})
	}
}

func RemoveDashboardCard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.DashboardDTO](c, e, app.RemoveDashboardCardCommand{DashboardID: c.Param("id"), CardID: c.Param("cardId")})
	}
}

// ShareDashboard grants View, Edit or Admin; sharing again replaces the permission.
func ShareDashboard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			UserID     string `json:"userId" binding:"required"`
			Permission string `json:"permission"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.DashboardDTO](c, e, app.ShareDashboardCommand{
			DashboardID: c.Param("id"), UserID: in.UserID, Permission: in.Permission,
		})
	}
}

func UnshareDashboard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.DashboardDTO](c, e, app.UnshareDashboardCommand{DashboardID: c.Param("id"), UserID: c.Param("userId")})
	}
}

func DeleteDashboard(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteDashboardCommand{ID: c.Param("id")})
	}
}
