package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListMedia(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.MediaDTO]](c, e, app.ListMediaQuery{
			PageQuery:   pageQuery(c),
			AccountID:   accountScope(c, c.Query("accountId")),
			ContentType: c.Query("contentType"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

// UploadMedia takes a multipart form with a "file" part and an optional "accountId" field.
func UploadMedia(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			response.BadRequest(c, "file", "multipart field \"file\" is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, "file", err.Error())
			return
		}
		defer f.Close()

		asset, ok := send[*app.MediaDTO](c, e, app.UploadMediaCommand{
			AccountID:   accountScope(c, c.PostForm("accountId")),
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
		if ok {
			response.Created(c, location("/api/media", asset.ID), asset)
		}
	}
}

func GetMedia(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.MediaDTO](c, e, app.GetMediaQuery{ID: c.Param("id")})
	}
}

func UpdateMedia(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			AltText string   `json:"altText"`
			Tags    []string `json:"tags"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.MediaDTO](c, e, app.UpdateMediaCommand{ID: c.Param("id"), AltText: in.AltText, Tags: in.Tags})
	}
}

// MediaContent streams the stored bytes.
func MediaContent(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		mc, ok := send[*app.MediaContent](c, e, app.OpenMediaQuery{ID: c.Param("id")})
		if !ok {
			return
		}
		if mc == nil {
			response.NotFound(c)
			return
		}
		defer mc.Body.Close()

		c.Header("Content-Disposition", "inline; filename="+strconv.Quote(mc.Asset.FileName))
		c.DataFromReader(http.StatusOK, mc.Asset.SizeBytes, mc.Asset.ContentType, mc.Body, nil)
	}
}

func DeleteMedia(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteMediaCommand{ID: c.Param("id")})
	}
}
