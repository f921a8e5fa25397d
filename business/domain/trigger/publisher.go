package trigger

import (
	"context"

	"github.com/qubic/go-transfers-trigger/entities"
	"go.uber.org/zap"
)

// LogPublisher writes trigger events to the log only.
type LogPublisher struct {
	logger *zap.SugaredLogger
}

func NewLogPublisher(logger *zap.SugaredLogger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, events []*entities.TriggerEvent) error {
	for _, event := range events {
		p.logger.Infow("Trigger event.", "identity", event.Identity, "hasChanged", event.HasChanged,
			"startTick", event.StartTick, "endTick", event.EndTick)
	}
	return nil
}
