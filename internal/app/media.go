package app

import (
	"context"
	"errors"
	"io"
	"strconv"

	"saas_admin/internal/mediator"
	"saas_admin/internal/models"
	"saas_admin/internal/repos"
	"saas_admin/internal/storage"
)

// UploadMediaCommand streams Body into the object store and records the asset.
type UploadMediaCommand struct {
	AccountID   string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UpdateMediaCommand struct {
	ID      string
	AltText string
	Tags    []string
}

type DeleteMediaCommand struct{ ID string }

type GetMediaQuery struct{ ID string }

type ListMediaQuery struct {
	PageQuery
	AccountID   string
	ContentType string
}

// OpenMediaQuery returns nil for unknown or deleted assets.
type OpenMediaQuery struct{ ID string }

// MediaContent is an open asset body. The caller closes Body.
type MediaContent struct {
	Asset MediaDTO
	Body  io.ReadCloser
}

func (h *handlers) registerMedia(m *mediator.Mediator) {
	handle(m, h.uploadMedia)
	handle(m, func(ctx context.Context, c UpdateMediaCommand) (*MediaDTO, error) {
		return mutate(ctx, h.r.Media, c.ID, func(a *models.MediaAsset) error {
			return a.UpdateMetadata(c.AltText, c.Tags, actor(ctx))
		}, toMediaDTO)
	})
	handle(m, h.deleteMedia)
	handle(m, func(ctx context.Context, q GetMediaQuery) (*MediaDTO, error) {
		return get(ctx, h.r.Media, q.ID, toMediaDTO)
	})
	handle(m, func(ctx context.Context, q ListMediaQuery) (*PageResult[MediaDTO], error) {
		return listPage(ctx, h.r.Media.List, q.PageQuery, toMediaDTO,
			repos.Eq("account_id", q.AccountID),
			repos.Eq("content_type", q.ContentType),
			repos.Eq("status", string(models.MediaActive)),
			repos.Search(q.Search, "file_name", "alt_text"),
		)
	})
	handle(m, h.openMedia)
}

func (h *handlers) uploadMedia(ctx context.Context, c UploadMediaCommand) (*MediaDTO, error) {
	limit := h.Settings.MediaMaxBytes
	if c.Size > limit {
		return nil, validation("file", "must not exceed "+strconv.FormatInt(limit, 10)+" bytes")
	}
	if c.Body == nil {
		return nil, validation("file", "is required")
	}
	if c.AccountID == "" {
		return nil, validation("accountId", "is required")
	}
	id := h.NewID()
	key := storage.MediaKey(c.AccountID, id, c.FileName)
	n, err := h.Store.Put(ctx, key, io.LimitReader(c.Body, limit+1), c.ContentType)
	if err != nil {
		return nil, err
	}
	discard := func() {
		if err := h.Store.Delete(context.WithoutCancel(ctx), key); err != nil {
			h.log.Warn("discard uploaded object failed", "key", key, "error", err)
		}
	}
	if n > limit {
		discard()
		return nil, validation("file", "must not exceed "+strconv.FormatInt(limit, 10)+" bytes")
	}
	asset, err := models.NewMediaAsset(id, c.AccountID, actor(ctx), c.FileName, c.ContentType, n, key, h.Store.URL(key))
	if err != nil {
		discard()
		return nil, err
	}
	if err := h.r.Media.Add(ctx, asset); err != nil {
		discard()
		return nil, err
	}
	dto := toMediaDTO(asset)
	return &dto, nil
}

// deleteMedia soft-deletes the record, then removes the stored object.
func (h *handlers) deleteMedia(ctx context.Context, c DeleteMediaCommand) (bool, error) {
	key, err := mutate(ctx, h.r.Media, c.ID, func(a *models.MediaAsset) error {
		return a.Delete(actor(ctx))
	}, func(a *models.MediaAsset) string { return a.StorageKey })
	if err != nil || key == nil {
		return false, err
	}
	if err := h.Store.Delete(context.WithoutCancel(ctx), *key); err != nil {
		h.log.Warn("delete media object failed", "media_id", c.ID, "key", *key, "error", err)
	}
	return true, nil
}

func (h *handlers) openMedia(ctx context.Context, q OpenMediaQuery) (*MediaContent, error) {
	a, err := h.r.Media.FindByID(ctx, q.ID)
	if err != nil || a == nil || a.Status == models.MediaDeleted {
		return nil, err
	}
	body, err := h.Store.Open(ctx, a.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		h.log.Warn("media object missing", "media_id", a.ID, "key", a.StorageKey)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &MediaContent{Asset: toMediaDTO(a), Body: body}, nil
}
