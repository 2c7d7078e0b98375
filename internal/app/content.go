package app

import (
	"context"
	"time"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
)

type CreateContentCommand struct {
	Type      string
	Title     string
	Body      string
	AccountID string
	ProfileID string
}

type UpdateContentCommand struct {
	ID    string
	Title string
	Body  string
}

type CreateContentVersionCommand struct {
	ID   string
	Note string
}

type RestoreContentVersionCommand struct {
	ID      string
	Version int
}

type SubmitContentForReviewCommand struct{ ID string }

type PublishContentCommand struct{ ID string }

type UnpublishContentCommand struct{ ID string }

type ArchiveContentCommand struct{ ID string }

type DeleteContentCommand struct{ ID string }

type ScheduleContentPublishCommand struct {
	ID        string
	PublishAt time.Time
}

type CancelContentScheduleCommand struct{ ID string }

// PublishDueContentCommand publishes every item whose scheduled date has passed.
// It returns the number of items published.
type PublishDueContentCommand struct{}

type GetContentQuery struct{ ID string }

type ListContentQuery struct {
	PageQuery
	AccountID string
	Status    string
	Type      string
	AuthorID  string
}

// ListContentVersionsQuery returns nil for unknown content.
type ListContentVersionsQuery struct{ ID string }

func (h *handlers) registerContent(m *mediator.Mediator) {
	handle(m, func(ctx context.Context, c CreateContentCommand) (*ContentDTO, error) {
		item, err := models.NewContent(h.NewID(), models.ContentType(c.Type), c.Title, c.Body,
			actor(ctx), c.AccountID, c.ProfileID, h.NewID)
		if err != nil {
			return nil, err
		}
		if err := h.r.Content.Add(ctx, item); err != nil {
			return nil, err
		}
		dto := toContentDTO(item)
		return &dto, nil
	})
	edit := func(ctx context.Context, id string, fn func(*models.Content) error) (*ContentDTO, error) {
		return mutate(ctx, h.r.Content, id, fn, toContentDTO)
	}
	handle(m, func(ctx context.Context, c UpdateContentCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.Update(h.NewID(), c.Title, c.Body, actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c CreateContentVersionCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.CreateVersion(h.NewID(), c.Note, actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c RestoreContentVersionCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.RestoreVersion(h.NewID(), c.Version, actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c SubmitContentForReviewCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.SubmitForReview(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c PublishContentCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.Publish(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c UnpublishContentCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.Unpublish(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c ArchiveContentCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.Archive(actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c DeleteContentCommand) (bool, error) {
		dto, err := edit(ctx, c.ID, func(it *models.Content) error { return it.Delete(actor(ctx)) })
		return dto != nil, err
	})
	handle(m, func(ctx context.Context, c ScheduleContentPublishCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.SchedulePublish(c.PublishAt, h.Now(), actor(ctx)) })
	})
	handle(m, func(ctx context.Context, c CancelContentScheduleCommand) (*ContentDTO, error) {
		return edit(ctx, c.ID, func(it *models.Content) error { return it.CancelSchedule(actor(ctx)) })
	})
	handle(m, h.publishDueContent)
	handle(m, func(ctx context.Context, q GetContentQuery) (*ContentDTO, error) {
		return get(ctx, h.r.Content, q.ID, toContentDTO)
	})
	handle(m, func(ctx context.Context, q ListContentQuery) (*PageResult[ContentDTO], error) {
		return listPage(ctx, h.r.Content.List, q.PageQuery, toContentDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("status", q.Status),
			repos.Eq("type", q.Type),
			repos.Eq("author_id", q.AuthorID),
			repos.Search(q.Search, "title"),
		)
	})
	handle(m, func(ctx context.Context, q ListContentVersionsQuery) ([]ContentVersionDTO, error) {
		item, err := h.r.Content.FindByID(ctx, q.ID)
		if err != nil || item == nil {
			return nil, err
		}
		out := make([]ContentVersionDTO, len(item.Versions))
		for i, v := range item.Versions {
			out[i] = toContentVersionDTO(v)
		}
		return out, nil
	})
}

// publishDueContent keeps going past items that fail so one bad row cannot block the rest.
func (h *handlers) publishDueContent(ctx context.Context, _ PublishDueContentCommand) (int, error) {
	t := h.Now()
	due, err := h.r.Content.All(ctx,
		repos.Where("scheduled_publish_at IS NOT NULL AND scheduled_publish_at <= ?", t),
		repos.Where("status IN ?", []string{
			string(models.ContentDraft), string(models.ContentReview), string(models.ContentUnpublished),
		}),
	)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, item := range due {
		if err := ctx.Err(); err != nil {
			return published, err
		}
		if !item.DueForPublish(t) {
			continue
		}
		if err := item.Publish(actor(ctx)); err != nil {
			h.log.Warn("scheduled publish rejected", "content_id", item.ID, "error", err)
			continue
		}
		if err := h.r.Content.Save(ctx, item); err != nil {
			h.log.Error("scheduled publish save failed", "content_id", item.ID, "error", err)
			continue
		}
		published++
	}
	if published > 0 {
		h.log.Info("published scheduled content", "count", published)
	}
	return published, nil
}
