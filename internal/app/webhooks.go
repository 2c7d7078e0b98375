package app

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"saas_admin/internal/auth"
	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

// CreateWebhookCommand generates the signing secret; it is returned once in the DTO.
type CreateWebhookCommand struct {
	AccountID string
	Name      string
	URL       string
	Events    []string
}

type UpdateWebhookCommand struct {
	ID     string
	Name   string
	URL    string
	Events []string
}

type ActivateWebhookCommand struct{ ID string }

type DeactivateWebhookCommand struct{ ID string }

type RotateWebhookSecretCommand struct{ ID string }

type DeleteWebhookCommand struct{ ID string }

type GetWebhookQuery struct{ ID string }

type ListWebhooksQuery struct {
	PageQuery
	AccountID string
	Status    string
}

// CreateDeliveryCommand records an outbound delivery for an external sender to execute.
// It returns nil when the webhook does not exist.
type CreateDeliveryCommand struct {
	WebhookID string
	EventType string
	Payload   json.RawMessage
}

type RecordDeliveryResultCommand struct {
	ID           string
	ResponseCode int
	Error        string
}

type RetryDeliveryCommand struct{ ID string }

type GetDeliveryQuery struct{ ID string }

type ListDeliveriesQuery struct {
	PageQuery
	AccountID string
	WebhookID string
	Status    string
}

func newWebhookSecret() (string, error) {
	s, err := auth.RandomToken(32)
	if err != nil {
		return "", err
	}
	return "whsec_" + s, nil
}

func (h *handlers) registerWebhooks(m *mediator.Mediator) {
	handle(m, func(ctx context.Context, c CreateWebhookCommand) (*WebhookDTO, error) {
		secret, err := newWebhookSecret()
		if err != nil {
			return nil, err
		}
		w, err := models.NewWebhook(h.NewID(), c.AccountID, c.Name, c.URL, c.Events, secret, actor(ctx))
		if err != nil {
			return nil, err
		}
		if err := h.r.Webhooks.Add(ctx, w); err != nil {
			return nil, err
		}
		dto := withSecret(w)
		return &dto, nil
	})
	handle(m, func(ctx context.Context, c UpdateWebhookCommand) (*WebhookDTO, error) {
		return mutate(ctx, h.r.Webhooks, c.ID, func(w *models.Webhook) error {
			return w.Update(c.Name, c.URL, c.Events, actor(ctx))
		}, toWebhookDTO)
	})
	handle(m, func(ctx context.Context, c ActivateWebhookCommand) (*WebhookDTO, error) {
		return mutate(ctx, h.r.Webhooks, c.ID, func(w *models.Webhook) error {
			return w.Activate(actor(ctx))
		}, toWebhookDTO)
	})
	handle(m, func(ctx context.Context, c DeactivateWebhookCommand) (*WebhookDTO, error) {
		return mutate(ctx, h.r.Webhooks, c.ID, func(w *models.Webhook) error {
			return w.Deactivate(actor(ctx))
		}, toWebhookDTO)
	})
	handle(m, func(ctx context.Context, c RotateWebhookSecretCommand) (*WebhookDTO, error) {
		secret, err := newWebhookSecret()
		if err != nil {
			return nil, err
		}
		return mutate(ctx, h.r.Webhooks, c.ID, func(w *models.Webhook) error {
			return w.RotateSecret(secret, actor(ctx))
		}, withSecret)
	})
	handle(m, func(ctx context.Context, c DeleteWebhookCommand) (bool, error) {
		return remove(ctx, h.r.Webhooks, c.ID, func(w *models.Webhook) error {
			return w.MarkDeleted(actor(ctx))
		})
	})
	handle(m, func(ctx context.Context, q GetWebhookQuery) (*WebhookDTO, error) {
		return get(ctx, h.r.Webhooks, q.ID, toWebhookDTO)
	})
	handle(m, func(ctx context.Context, q ListWebhooksQuery) (*PageResult[WebhookDTO], error) {
		return listPage(ctx, h.r.Webhooks.List, q.PageQuery, toWebhookDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("status", q.Status),
			repos.Search(q.Search, "name", "url"),
		)
	})

	handle(m, h.createDelivery)
	handle(m, func(ctx context.Context, c RecordDeliveryResultCommand) (*DeliveryDTO, error) {
		return mutate(ctx, h.r.Deliveries, c.ID, func(d *models.WebhookDelivery) error {
			return d.RecordResult(c.ResponseCode, c.Error, h.Now())
		}, toDeliveryDTO)
	})
	handle(m, func(ctx context.Context, c RetryDeliveryCommand) (*DeliveryDTO, error) {
		return mutate(ctx, h.r.Deliveries, c.ID, func(d *models.WebhookDelivery) error {
			return d.Retry(actor(ctx))
		}, toDeliveryDTO)
	})
	handle(m, func(ctx context.Context, q GetDeliveryQuery) (*DeliveryDTO, error) {
		return get(ctx, h.r.Deliveries, q.ID, toDeliveryDTO)
	})
	handle(m, func(ctx context.Context, q ListDeliveriesQuery) (*PageResult[DeliveryDTO], error) {
		return listPage(ctx, h.r.Deliveries.List, q.PageQuery, toDeliveryDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("webhook_id", q.WebhookID),
			repos.Eq("status", q.Status),
			repos.Search(q.Search, "event_type"),
		)
	})
}

func (h *handlers) createDelivery(ctx context.Context, c CreateDeliveryCommand) (*DeliveryDTO, error) {
	hook, err := h.r.Webhooks.FindByID(ctx, c.WebhookID)
	if err != nil || hook == nil {
		return nil, err
	}
	if len(c.Payload) > 0 && !json.Valid(c.Payload) {
		return nil, validation("payload", "must be valid JSON")
	}
	d, err := models.NewWebhookDelivery(h.NewID(), hook, c.EventType, datatypes.JSON(c.Payload))
	if err != nil {
		return nil, err
	}
	if err := h.r.Deliveries.Add(ctx, d); err != nil {
		return nil, err
	}
	dto := toDeliveryDTO(d)
	return &dto, nil
}
