package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/qubic/go-transfers-trigger/entities"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Publisher interface {
	Publish(ctx context.Context, events []*entities.TriggerEvent) error
}

// Runner schedules the triggers. Every trigger is polled once on start and then once per poll interval.
type Runner struct {
	triggers     map[string]*Trigger
	order        []string
	pollInterval time.Duration
	publisher    Publisher
	logger       *zap.SugaredLogger
	now          func() time.Time
}

func NewRunner(triggers []*Trigger, pollInterval time.Duration, publisher Publisher, logger *zap.SugaredLogger) (*Runner, error) {
	err := entities.ValidatePollInterval(pollInterval)
	if err != nil {
		return nil, err
	}

	runner := Runner{
		triggers:     make(map[string]*Trigger, len(triggers)),
		pollInterval: pollInterval,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
	for _, t := range triggers {
		if _, ok := runner.triggers[t.Identity()]; ok {
			return nil, fmt.Errorf("duplicate identity [%s]", t.Identity())
		}
		runner.triggers[t.Identity()] = t
		runner.order = append(runner.order, t.Identity())
	}
	return &runner, nil
}

// Run blocks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Infow("Starting triggers.", "identities", len(r.order), "pollInterval", r.pollInterval)
	var group errgroup.Group
	for _, identity := range r.order {
		t := r.triggers[identity]
		group.Go(func() error {
			r.schedule(ctx, t)
			return nil
		})
	}
	err := group.Wait()
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) schedule(ctx context.Context, t *Trigger) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		// do one initial poll, so we do not wait for the first interval
		_, _ = r.pollAndPublish(ctx, t, entities.ModeTrigger)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PollIdentity polls one configured identity on demand and publishes the result.
func (r *Runner) PollIdentity(ctx context.Context, identity string, mode entities.Mode) ([][]entities.TriggerResult, error) {
	t, ok := r.triggers[identity]
	if !ok {
		return nil, fmt.Errorf("%w: [%s]", entities.ErrUnknownIdentity, identity)
	}
	return r.pollAndPublish(ctx, t, mode)
}

func (r *Runner) pollAndPublish(ctx context.Context, t *Trigger, mode entities.Mode) ([][]entities.TriggerResult, error) {
	batches, err := t.Poll(ctx, mode)
	if err != nil || batches == nil {
		return nil, err
	}

	tickRange := t.LastTickRange()
	var events []*entities.TriggerEvent
	for _, batch := range batches {
		for _, result := range batch {
			events = append(events, &entities.TriggerEvent{
				Identity:   t.Identity(),
				HasChanged: result.HasChanged,
				StartTick:  tickRange.StartTick,
				EndTick:    tickRange.EndTick,
				Timestamp:  r.now().Unix(),
			})
		}
	}

	err = r.publisher.Publish(ctx, events)
	if err != nil {
		r.logger.Errorw("Error publishing trigger events.", "identity", t.Identity(), "error", err)
	}
	return batches, nil
}
