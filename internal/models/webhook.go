package models

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type WebhookStatus string

const (
	WebhookActive   WebhookStatus = "Active"
	WebhookInactive WebhookStatus = "Inactive"
)

func (s WebhookStatus) String() string { return string(s) }

// WildcardEvent subscribes a webhook to every event type.
const WildcardEvent = "*"

type Webhook struct {
	eventLog

	ID         string                      `gorm:"primaryKey;size:36"`
	AccountID  string                      `gorm:"size:36;index;not null"`
	Name       string                      `gorm:"size:200;not null"`
	URL        string                      `gorm:"size:1000;not null"`
	EventTypes datatypes.JSONSlice[string] `gorm:"column:events;type:json"`
	Secret     string                      `gorm:"size:128;not null"`
	Status     WebhookStatus               `gorm:"size:16;index;not null"`
	CreatedBy  string                      `gorm:"size:36"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (w *Webhook) AggregateID() string { return w.ID }
func (w *Webhook) TenantID() string    { return w.AccountID }

func validateWebhookURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return argErr("url", "must be an absolute http or https URL")
	}
	return maxLen("url", raw, 1000)
}

func normalizeEvents(events []string) (datatypes.JSONSlice[string], error) {
	out := make([]string, 0, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, argErr("events", "at least one event type is required")
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func NewWebhook(id, accountID, name, rawURL string, events []string, secret, createdBy string) (*Webhook, error) {
	if err := requiredAll("id", id, "accountId", accountID, "name", name, "url", rawURL, "secret", secret); err != nil {
		return nil, err
	}
	if err := maxLen("name", name, 200); err != nil {
		return nil, err
	}
	if err := validateWebhookURL(rawURL); err != nil {
		return nil, err
	}
	evs, err := normalizeEvents(events)
	if err != nil {
		return nil, err
	}
	ts := now()
	w := &Webhook{
		ID:         id,
		AccountID:  accountID,
		Name:       strings.TrimSpace(name),
		URL:        strings.TrimSpace(rawURL),
		EventTypes: evs,
		Secret:     secret,
		Status:     WebhookActive,
		CreatedBy:  createdBy,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	w.raise(WebhookCreatedEvent{EventBase: newEventBase(id, createdBy, ts), Name: w.Name, URL: w.URL, Events: evs})
	return w, nil
}

func (w *Webhook) Update(name, rawURL string, events []string, by string) error {
	if err := requiredAll("name", name, "url", rawURL); err != nil {
		return err
	}
	if err := maxLen("name", name, 200); err != nil {
		return err
	}
	if err := validateWebhookURL(rawURL); err != nil {
		return err
	}
	evs, err := normalizeEvents(events)
	if err != nil {
		return err
	}
	w.Name = strings.TrimSpace(name)
	w.URL = strings.TrimSpace(rawURL)
	w.EventTypes = evs
	w.UpdatedAt = now()
	w.raise(WebhookUpdatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt), Name: w.Name, URL: w.URL, Events: evs})
	return nil
}

func (w *Webhook) Activate(by string) error {
	if w.Status != WebhookInactive {
		return invalidOp("activate webhook", w.Status)
	}
	w.Status = WebhookActive
	w.UpdatedAt = now()
	w.raise(WebhookActivatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt)})
	return nil
}

func (w *Webhook) Deactivate(by string) error {
	if w.Status != WebhookActive {
		return invalidOp("deactivate webhook", w.Status)
	}
	w.Status = WebhookInactive
	w.UpdatedAt = now()
	w.raise(WebhookDeactivatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt)})
	return nil
}

// RotateSecret replaces the signing secret. The event never carries the secret itself.
func (w *Webhook) RotateSecret(secret, by string) error {
	if err := required("secret", secret); err != nil {
		return err
	}
	if secret == w.Secret {
		return argErr("secret", "must differ from the current secret")
	}
	w.Secret = secret
	w.UpdatedAt = now()
	w.raise(WebhookSecretRotatedEvent{EventBase: newEventBase(w.ID, by, w.UpdatedAt)})
	return nil
}

func (w *Webhook) Subscribes(eventType string) bool {
	return slices.Contains(w.EventTypes, eventType) || slices.Contains(w.EventTypes, WildcardEvent)
}

func (w *Webhook) MarkDeleted(by string) error {
	if err := required("deletedBy", by); err != nil {
		return err
	}
	w.raise(WebhookDeletedEvent{EventBase: newEventBase(w.ID, by, now()), Name: w.Name})
	return nil
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "Pending"
	DeliverySucceeded DeliveryStatus = "Succeeded"
	DeliveryFailed    DeliveryStatus = "Failed"
)

func (s DeliveryStatus) String() string { return string(s) }

// WebhookDelivery records one attempt series to deliver an event to a webhook.
// Sending happens outside this service; results are reported back through RecordResult.
type WebhookDelivery struct {
	eventLog

	ID            string         `gorm:"primaryKey;size:36"`
	WebhookID     string         `gorm:"size:36;index;not null"`
	AccountID     string         `gorm:"size:36;index;not null"`
	EventType     string         `gorm:"size:100;not null"`
	Payload       datatypes.JSON `gorm:"type:json"`
	Status        DeliveryStatus `gorm:"size:16;index;not null"`
	Attempts      int            `gorm:"not null;default:0"`
	ResponseCode  int
	LastError     string `gorm:"size:1000"`
	LastAttemptAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (d *WebhookDelivery) AggregateID() string { return d.ID }
func (d *WebhookDelivery) TenantID() string    { return d.AccountID }

func NewWebhookDelivery(id string, hook *Webhook, eventType string, payload datatypes.JSON) (*WebhookDelivery, error) {
	if err := requiredAll("id", id, "eventType", eventType); err != nil {
		return nil, err
	}
	if hook == nil {
		return nil, argErr("webhookId", "webhook is required")
	}
	if hook.Status != WebhookActive {
		return nil, invalidOp("create delivery", hook.Status)
	}
	if !hook.Subscribes(eventType) {
		return nil, invalidOpMsg("create delivery", "webhook is not subscribed to "+eventType)
	}
	ts := now()
	d := &WebhookDelivery{
		ID:        id,
		WebhookID: hook.ID,
		AccountID: hook.AccountID,
		EventType: eventType,
		Payload:   payload,
		Status:    DeliveryPending,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	d.raise(WebhookDeliveryCreatedEvent{EventBase: newEventBase(id, "", ts), WebhookID: hook.ID, EventType: eventType})
	return d, nil
}

// RecordResult stores the outcome of an attempt. Any 2xx code without an error message is a success.
func (d *WebhookDelivery) RecordResult(code int, errMsg string, t time.Time) error {
	if code < 0 || code > 599 {
		return argErr("responseCode", "must be a valid HTTP status code or 0")
	}
	if d.Status != DeliveryPending {
		return invalidOp("record delivery result", d.Status)
	}
	d.Attempts++
	d.ResponseCode = code
	d.LastAttemptAt = timePtr(t.UTC())
	d.UpdatedAt = now()
	if code >= 200 && code < 300 && strings.TrimSpace(errMsg) == "" {
		d.Status = DeliverySucceeded
		d.LastError = ""
		d.raise(WebhookDeliverySucceededEvent{EventBase: newEventBase(d.ID, "", d.UpdatedAt), ResponseCode: code, Attempts: d.Attempts})
		return nil
	}
	errMsg = clip(errMsg, 1000)
	d.Status = DeliveryFailed
	d.LastError = errMsg
	d.raise(WebhookDeliveryFailedEvent{EventBase: newEventBase(d.ID, "", d.UpdatedAt), ResponseCode: code, Error: errMsg, Attempts: d.Attempts})
	return nil
}

func (d *WebhookDelivery) Retry(by string) error {
	if d.Status != DeliveryFailed {
		return invalidOp("retry delivery", d.Status)
	}
	d.Status = DeliveryPending
	d.UpdatedAt = now()
	d.raise(WebhookDeliveryRetriedEvent{EventBase: newEventBase(d.ID, by, d.UpdatedAt), Attempts: d.Attempts})
	return nil
}

type WebhookCreatedEvent struct {
	EventBase
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

func (WebhookCreatedEvent) EventName() string { return "webhook.created" }

type WebhookUpdatedEvent struct {
	EventBase
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

func (WebhookUpdatedEvent) EventName() string { return "webhook.updated" }

type WebhookActivatedEvent struct{ EventBase }

func (WebhookActivatedEvent) EventName() string { return "webhook.activated" }

type WebhookDeactivatedEvent struct{ EventBase }

func (WebhookDeactivatedEvent) EventName() string { return "webhook.deactivated" }

type WebhookSecretRotatedEvent struct{ EventBase }

func (WebhookSecretRotatedEvent) EventName() string { return "webhook.secret_rotated" }

type WebhookDeletedEvent struct {
	EventBase
	Name string `json:"name"`
}

func (WebhookDeletedEvent) EventName() string { return "webhook.deleted" }

type WebhookDeliveryCreatedEvent struct {
	EventBase
	WebhookID string `json:"webhookId"`
	EventType string `json:"eventType"`
}

func (WebhookDeliveryCreatedEvent) EventName() string { return "webhook_delivery.created" }

type WebhookDeliverySucceededEvent struct {
	EventBase
	ResponseCode int `json:"responseCode"`
	Attempts     int `json:"attempts"`
}

func (WebhookDeliverySucceededEvent) EventName() string { return "webhook_delivery.succeeded" }

type WebhookDeliveryFailedEvent struct {
	EventBase
	ResponseCode int    `json:"responseCode"`
	Error        string `json:"error"`
	Attempts     int    `json:"attempts"`
}

func (WebhookDeliveryFailedEvent) EventName() string { return "webhook_delivery.failed" }

type WebhookDeliveryRetriedEvent struct {
	EventBase
	Attempts int `json:"attempts"`
}

func (WebhookDeliveryRetriedEvent) EventName() string { return "webhook_delivery.retried" }
