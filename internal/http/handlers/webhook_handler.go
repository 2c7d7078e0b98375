package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"saas_admin/internal/app"
	"saas_admin/internal/http/response"
)

func ListWebhooks(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := send[*app.PageResult[app.WebhookDTO]](c, e, app.ListWebhooksQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			Status:    c.Query("status"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

// CreateWebhook returns the signing secret once.
func CreateWebhook(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			AccountID string   `json:"accountId"`
			Name      string   `json:"name"`
			URL       string   `json:"url"`
			Events    []string `json:"events"`
		}
		if !bind(c, &in) {
			return
		}
		hook, ok := send[*app.WebhookDTO](c, e, app.CreateWebhookCommand{
			AccountID: accountScope(c, in.AccountID),
			Name:      in.Name,
			URL:       in.URL,
			Events:    in.Events,
		})
		if ok {
			response.Created(c, location("/api/webhooks", hook.ID), hook)
		}
	}
}

func GetWebhook(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WebhookDTO](c, e, app.GetWebhookQuery{ID: c.Param("id")})
	}
}

func UpdateWebhook(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name   string   `json:"name"`
			URL    string   `json:"url"`
			Events []string `json:"events"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.WebhookDTO](c, e, app.UpdateWebhookCommand{ID: c.Param("id"), Name: in.Name, URL: in.URL, Events: in.Events})
	}
}

func ActivateWebhook(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WebhookDTO](c, e, app.ActivateWebhookCommand{ID: c.Param("id")})
	}
}

func DeactivateWebhook(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WebhookDTO](c, e, app.DeactivateWebhookCommand{ID: c.Param("id")})
	}
}

func RotateWebhookSecret(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.WebhookDTO](c, e, app.RotateWebhookSecretCommand{ID: c.Param("id")})
	}
}

func DeleteWebhook(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		replyDone(c, e, app.DeleteWebhookCommand{ID: c.Param("id")})
	}
}

// CreateDelivery queues a delivery record for the external sender.
func CreateDelivery(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			EventType string          `json:"eventType" binding:"required"`
			Payload   json.RawMessage `json:"payload"`
		}
		if !bind(c, &in) {
			return
		}
		d, ok := send[*app.DeliveryDTO](c, e, app.CreateDeliveryCommand{
			WebhookID: c.Param("id"), EventType: in.EventType, Payload: in.Payload,
		})
		if !ok {
			return
		}
		if d == nil {
			response.NotFound(c)
			return
		}
		response.Created(c, location("/api/webhook-deliveries", d.ID), d)
	}
}

func ListDeliveries(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		webhookID := c.Param("id")
		if webhookID == "" {
			webhookID = c.Query("webhookId")
		}
		page, ok := send[*app.PageResult[app.DeliveryDTO]](c, e, app.ListDeliveriesQuery{
			PageQuery: pageQuery(c),
			AccountID: accountScope(c, c.Query("accountId")),
			WebhookID: webhookID,
			Status:    c.Query("status"),
		})
		if ok {
			response.OK(c, page)
		}
	}
}

func GetDelivery(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.DeliveryDTO](c, e, app.GetDeliveryQuery{ID: c.Param("id")})
	}
}

// RecordDeliveryResult is called by the sender after each attempt.
func RecordDeliveryResult(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			ResponseCode int    `json:"responseCode"`
			Error        string `json:"error"`
		}
		if !bind(c, &in) {
			return
		}
		reply[app.DeliveryDTO](c, e, app.RecordDeliveryResultCommand{ID: c.Param("id"), ResponseCode: in.ResponseCode, Error: in.Error})
	}
}

func RetryDelivery(e *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply[app.DeliveryDTO](c, e, app.RetryDeliveryCommand{ID: c.Param("id")})
	}
}
