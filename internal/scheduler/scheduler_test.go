package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas_admin/internal/app"
	"saas_admin/internal/mediator"
	"saas_admin/internal/platform/ctxutil"
	"saas_admin/internal/platform/logger"
)

func TestPublishDueContentDispatchesAsSystem(t *testing.T) {
	m := mediator.New()
	var actor string
	mediator.Register[app.PublishDueContentCommand, int](m, mediator.HandlerFunc[app.PublishDueContentCommand, int](
		func(ctx context.Context, _ app.PublishDueContentCommand) (int, error) {
			actor = ctxutil.ActorID(ctx)
			return 2, nil
		}))

	s := New(m, logger.Nop())
	assert.Equal(t, 2, s.PublishDueContent())
	assert.Equal(t, "system", actor)
}

func TestAddContentPublishingRejectsBadSpec(t *testing.T) {
	s := New(mediator.New(), logger.Nop())
	require.Error(t, s.AddContentPublishing("not a schedule"))
	require.NoError(t, s.AddContentPublishing("@every 1h"))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
