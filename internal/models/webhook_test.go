package models

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestWebhook(t *testing.T) *Webhook {
	t.Helper()
	w, err := NewWebhook("wh-1", "acc-1", "CRM sync", "https://crm.example.com/hook", []string{"user.created", "content.published"}, "s3cret", "admin")
	require.NoError(t, err)
	w.ClearEvents()
	return w
}

func TestNewWebhookValidation(t *testing.T) {
	_, err := NewWebhook("wh-1", "acc-1", "n", "ftp://x", []string{"a"}, "s", "admin")
	requireParam(t, err, "url")
	_, err = NewWebhook("wh-1", "acc-1", "n", "https://x.io", []string{" "}, "s", "admin")
	requireParam(t, err, "events")
	_, err = NewWebhook("wh-1", "acc-1", "n", "https://x.io", []string{"a"}, "", "admin")
	requireParam(t, err, "secret")
}

func TestWebhookActivation(t *testing.T) {
	w := newTestWebhook(t)
	require.ErrorIs(t, w.Activate("admin"), ErrInvalidOperation)
	require.NoError(t, w.Deactivate("admin"))
	require.ErrorIs(t, w.Deactivate("admin"), ErrInvalidOperation)
	require.NoError(t, w.Activate("admin"))
	assert.Len(t, w.Events(), 2)
}

func TestWebhookRotateSecretEventOmitsSecret(t *testing.T) {
	w := newTestWebhook(t)
	requireParam(t, w.RotateSecret("s3cret", "admin"), "secret")
	require.NoError(t, w.RotateSecret("n3w", "admin"))
	assert.Equal(t, "n3w", w.Secret)
	singleEvent[WebhookSecretRotatedEvent](t, w)
}

func TestWebhookDeliveryLifecycle(t *testing.T) {
	w := newTestWebhook(t)

	_, err := NewWebhookDelivery("d-0", w, "account.deleted", nil)
	require.ErrorIs(t, err, ErrInvalidOperation)

	d, err := NewWebhookDelivery("d-1", w, "user.created", datatypes.JSON(`{"id":"u"}`))
	require.NoError(t, err)
	assert.Equal(t, DeliveryPending, d.Status)
	assert.Equal(t, "acc-1", d.AccountID)
	d.ClearEvents()

	require.ErrorIs(t, d.Retry("admin"), ErrInvalidOperation)

	require.NoError(t, d.RecordResult(500, "upstream error", time.Now()))
	assert.Equal(t, DeliveryFailed, d.Status)
	assert.Equal(t, 1, d.Attempts)
	singleEvent[WebhookDeliveryFailedEvent](t, d)
	d.ClearEvents()

	require.ErrorIs(t, d.RecordResult(200, "", time.Now()), ErrInvalidOperation)
	require.NoError(t, d.Retry("admin"))
	require.NoError(t, d.RecordResult(204, "", time.Now()))
	assert.Equal(t, DeliverySucceeded, d.Status)
	assert.Equal(t, 2, d.Attempts)
	assert.Empty(t, d.LastError)
}

func TestNewWebhookDeliveryRejectsInactiveHook(t *testing.T) {
	w := newTestWebhook(t)
	require.NoError(t, w.Deactivate("admin"))
	_, err := NewWebhookDelivery("d-1", w, "user.created", nil)
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestWebhookWildcardSubscription(t *testing.T) {
	w, err := NewWebhook("wh-2", "acc-1", "All", "http://localhost:9000", []string{"*"}, "s", "admin")
	require.NoError(t, err)
	assert.True(t, w.Subscribes("anything.at_all"))
}

func TestRecordResultKeepsLongErrorValidUTF8(t *testing.T) {
	w := newTestWebhook(t)
	d, err := NewWebhookDelivery("d-1", w, "user.created", nil)
	require.NoError(t, err)

	require.NoError(t, d.RecordResult(500, "x"+strings.Repeat("é", 1200), time.Now()))
	assert.True(t, utf8.ValidString(d.LastError))
	assert.Equal(t, 1000, utf8.RuneCountInString(d.LastError))
	ev := d.Events()[len(d.Events())-1].(WebhookDeliveryFailedEvent)
	assert.Equal(t, d.LastError, ev.Error)
}

func TestWebhookKeepsSubscribedEventTypes(t *testing.T) {
	w := newTestWebhook(t)
	var a Aggregate = w
	assert.Equal(t, "wh-1", a.AggregateID())
	assert.Equal(t, []string{"content.published", "user.created"}, []string(w.EventTypes))

	require.NoError(t, w.Update("CRM sync", "https://crm.example.com/hook", []string{"user.deleted"}, "admin"))
	assert.True(t, w.Subscribes("user.deleted"))
	assert.False(t, w.Subscribes("user.created"))
	singleEvent[WebhookUpdatedEvent](t, w)
}
