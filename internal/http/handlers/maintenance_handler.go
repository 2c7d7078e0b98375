package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

// ListMaintenance includes platform-wide windows alongside the account's own.
func ListMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.MaintenanceDTO]](c, e, app.ListMaintenanceQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			Status:    c.Query("status"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

// ScheduleMaintenance leaves accountId empty for a platform-wide window.
func ScheduleMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Title          string    `json:"title"`
			Description    string    `json:"description"`
			AccountID      string    `json:"accountId"`
			ScheduledStart time.Time `json:"scheduledStart"`
			ScheduledEnd   time.Time `json:"scheduledEnd"`
		}
		if !bind(c, &in) {
			return
		}
		w, ok := send[*app.MaintenanceDTO](c, e, app.ScheduleMaintenanceCommand{
			Title:          in.Title,
			Description:    in.Description,
			AccountID:      in.AccountID,
			ScheduledStart: in.ScheduledStart,
			ScheduledEnd:   in.ScheduledEnd,
		})
		if ok {
			response.Created(c, location("/api/maintenance", w.ID), w)
		}
	}
}

func GetMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.MaintenanceDTO](c, e, app.GetMaintenanceQuery{ID: c.Param("id")})
	}
}

func RescheduleMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			ScheduledStart time.Time `json:"scheduledStart"`
			ScheduledEnd   time.Time `json:"scheduledEnd"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.MaintenanceDTO](c, e, app.RescheduleMaintenanceCommand{
			ID: c.Param("id"), ScheduledStart: in.ScheduledStart, ScheduledEnd: in.ScheduledEnd,
		})
	}
}

func StartMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.MaintenanceDTO](c, e, app.StartMaintenanceCommand{ID: c.Param("id")})
	}
}

func CompleteMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Notes string `json:"notes"`
		}
		if c.Request.ContentLength != 0 && !bind(c, &in) {
			return
		}
		reply[app.MaintenanceDTO](c, e, app.CompleteMaintenanceCommand{ID: c.Param("id"), Notes: in.Notes})
	}
}

func CancelMaintenance(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Reason string `json:"reason"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.MaintenanceDTO](c, e, app.CancelMaintenanceCommand{ID: c.Param("id"), Reason: in.Reason})
	}
}
