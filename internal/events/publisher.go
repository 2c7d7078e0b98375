package events

import (
	"context"
	"errors"

	"saas_admin/internal/models"
	"saas_admin/internal/platform/logger"
)

// Publisher hands committed domain events to the outside world.
type Publisher interface {
	Publish(ctx context.Context, evs []models.Event) error
	Close()
}

// LogPublisher is used when no broker is configured. It only logs what would have been published.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("component", "LogPublisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, evs []models.Event) error {
	for _, e := range evs {
		p.log.Debug("domain event", "event", e.EventName(), "aggregate_id", e.AggregateID())
	}
	return nil
}

func (p *LogPublisher) Close() {}

// Multi fans events out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evs []models.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() {
	for _, p := range m {
		p.Close()
	}
}

// Recorder captures published events in memory. Tests use it to assert on dispatch.
type Recorder struct {
	Published []models.Event
}

func (r *Recorder) Publish(ctx context.Context, evs []models.Event) error {
	r.Published = append(r.Published, evs...)
	return nil
}

func (r *Recorder) Close() {}

// Names returns the event names in publish order.
func (r *Recorder) Names() []string {
	out := make([]string, 0, len(r.Published))
	for _, e := range r.Published {
		out = append(out, e.EventName())
	}
	return out
}
