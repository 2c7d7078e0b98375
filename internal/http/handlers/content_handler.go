package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.ContentDTO]](c, e, app.ListContentQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			Status:    c.Query("status"),
			Type:      c.Query("type"),
			AuthorID:  c.Query("authorId"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

// CreateContent starts a Draft authored by the caller.
func CreateContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Type      string `json:"type"`
			Title     string `json:"title"`
			Body      string `json:"body"`
			AccountID string `json:"accountId"`
			ProfileID string `json:"profileId"`
		}
		if !bind(c, &in) {
			return
		}
		item, ok := send[*app.ContentDTO](c, e, app.CreateContentCommand{
			Type:      in.Type,
			Title:     in.Title,
			Body:      in.Body,
			AccountID: accountScope(c, in.AccountID),
			ProfileID: in.ProfileID,
		})
		if ok {
			response.Created(c, location("/api/content", item.ID), item)
		}
	}
}

func GetContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.ContentDTO](c, e, app.GetContentQuery{ID: c.Param("id")})
	}
}

func UpdateContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.ContentDTO](c, e, app.UpdateContentCommand{ID: c.Param("id"), Title: in.Title, Body: in.Body})
	}
}

func ListContentVersions(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		versions, ok := send[[]app.ContentVersionDTO](c, e, app.ListContentVersionsQuery{ID: c.Param("id")})
		if !ok {
			return
		}
		if versions == nil {
			response.NotFound(c)
			return
		}
		response.OK(c, gin.H{"items": versions})
	}
}

func CreateContentVersion(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Note string `json:"note"`
		}
		if c.Request.ContentLength != 0 && !bind(c, &in) {
			return
		}
		reply[app.ContentDTO](c, e, app.CreateContentVersionCommand{ID: c.Param("id"), Note: in.Note})
	}
}

func RestoreContentVersion(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		version, err := strconv.Atoi(c.Param("version"))
		if err != nil {
			response.BadRequest(c, "version", "version must be a number")
			return
		}
		reply[app.ContentDTO](c, e, app.RestoreContentVersionCommand{ID: c.Param("id"), Version: version})
	}
}

func SubmitContentForReview(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.ContentDTO](c, e, app.SubmitContentForReviewCommand{ID: c.Param("id")})
	}
}

func PublishContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.ContentDTO](c, e, app.PublishContentCommand{ID: c.Param("id")})
	}
}

func UnpublishContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.ContentDTO](c, e, app.UnpublishContentCommand{ID: c.Param("id")})
	}
}

func ArchiveContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.ContentDTO](c, e, app.ArchiveContentCommand{ID: c.Param("id")})
	}
}

func ScheduleContentPublish(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			PublishAt time.Time `json:"publishAt" binding:"required"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.ContentDTO](c, e, app.ScheduleContentPublishCommand{ID: c.Param("id"), PublishAt: in.PublishAt})
	}
}

func CancelContentSchedule(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.ContentDTO](c, e, app.CancelContentScheduleCommand{ID: c.Param("id")})
	}
}

func DeleteContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteContentCommand{ID: c.Param("id")})
	}
}
