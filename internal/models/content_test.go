package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newDraft(t *testing.T) *Content {
	t.Helper()
	c, err := NewContent("c-1", ContentArticle, "Hello", "first body", "author-1", "acc-1", "", seqIDs("v"))
	require.NoError(t, err)
	c.ClearEvents()
	return c
}

func TestNewContentStartsAtVersionOne(t *testing.T) {
	c, err := NewContent("c-1", ContentArticle, "Hello", "body", "author-1", "acc-1", "", seqIDs("v"))
	require.NoError(t, err)
	assert.Equal(t, ContentDraft, c.Status)
	assert.Equal(t, 1, c.Version)
	require.Len(t, c.Versions, 1)
	assert.Equal(t, 1, c.Versions[0].Version)
	assert.Equal(t, "c-1", c.Versions[0].ContentID)
	singleEvent[ContentCreatedEvent](t, c)

	_, err = NewContent("c-2", ContentType("Tweet"), "x", "", "a", "acc", "", seqIDs("v"))
	requireParam(t, err, "type")
}

func TestContentUpdateSnapshotsEachVersion(t *testing.T) {
	c := newDraft(t)
	require.NoError(t, c.Update("v-2", "Hello again", "second body", "editor"))
	assert.Equal(t, 2, c.Version)
	require.Len(t, c.Versions, 2)
	assert.Equal(t, "second body", c.Versions[1].Body)
	ev := singleEvent[ContentUpdatedEvent](t, c)
	assert.Equal(t, 1, ev.OldVersion)
	assert.Equal(t, 2, ev.NewVersion)
}

func TestContentRestoreVersion(t *testing.T) {
	c := newDraft(t)
	require.NoError(t, c.Update("v-2", "Changed", "changed body", "editor"))
	c.ClearEvents()

	requireParam(t, c.RestoreVersion("v-3", 0, "editor"), "version")
	requireParam(t, c.RestoreVersion("v-3", 3, "editor"), "version")
	assert.Empty(t, c.Events())

	require.NoError(t, c.RestoreVersion("v-3", 1, "editor"))
	assert.Equal(t, 3, c.Version)
	assert.Equal(t, "Hello", c.Title)
	assert.Equal(t, "first body", c.Body)
	ev := singleEvent[ContentVersionRestoredEvent](t, c)
	assert.Equal(t, 1, ev.RestoredVersion)
	assert.Equal(t, 3, ev.NewVersion)
}

func TestContentPublishLifecycle(t *testing.T) {
	c := newDraft(t)
	require.ErrorIs(t, c.Unpublish("editor"), ErrInvalidOperation)

	require.NoError(t, c.SubmitForReview("editor"))
	assert.Equal(t, ContentReview, c.Status)
	require.NoError(t, c.Publish("editor"))
	assert.Equal(t, ContentPublished, c.Status)
	assert.NotNil(t, c.PublishedAt)
	require.ErrorIs(t, c.Publish("editor"), ErrInvalidOperation)

	require.NoError(t, c.Unpublish("editor"))
	assert.Equal(t, ContentUnpublished, c.Status)
	require.NoError(t, c.Archive("editor"))
	require.ErrorIs(t, c.Update("v-9", "t", "b", "editor"), ErrInvalidOperation)
	require.NoError(t, c.Delete("editor"))
	require.ErrorIs(t, c.Delete("editor"), ErrInvalidOperation)
	assert.Len(t, c.Events(), 5)
}

func TestContentSchedulePublish(t *testing.T) {
	c := newDraft(t)
	now := time.Now()

	requireParam(t, c.SchedulePublish(now.Add(-time.Minute), now, "editor"), "publishAt")
	require.ErrorIs(t, c.CancelSchedule("editor"), ErrInvalidOperation)

	at := now.Add(time.Hour)
	require.NoError(t, c.SchedulePublish(at, now, "editor"))
	require.NotNil(t, c.ScheduledPublishAt)
	assert.False(t, c.DueForPublish(now))
	assert.True(t, c.DueForPublish(at.Add(time.Second)))

	require.NoError(t, c.CancelSchedule("editor"))
	assert.Nil(t, c.ScheduledPublishAt)
	assert.False(t, c.DueForPublish(at.Add(time.Second)))
}

func TestContentCreateVersion(t *testing.T) {
	c := newDraft(t)
	require.NoError(t, c.CreateVersion("v-2", "checkpoint", "editor"))
	assert.Equal(t, 2, c.Version)
	assert.Equal(t, "checkpoint", c.Versions[1].Note)
	singleEvent[ContentVersionCreatedEvent](t, c)
}
