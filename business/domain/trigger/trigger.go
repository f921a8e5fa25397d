package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/qubic/go-transfers-trigger/metrics"
	"go.uber.org/zap"
)

type TickRangeResolver interface {
	ResolveCurrentEpoch(ctx context.Context) (uint32, entities.TickRange, error)
}

type TransfersFetcher interface {
	GetTransfers(ctx context.Context, identity string, tickRange entities.TickRange) ([]byte, error)
}

type ChangeDetector interface {
	DetectChange(previous, current *entities.TransferResponse) bool
}

// SnapshotStore holds the last observed transfers response per identity. GetSnapshot returns
// entities.ErrStoreEntityNotFound if the identity was never polled.
type SnapshotStore interface {
	GetSnapshot(identity string) (*entities.TransferResponse, error)
	SetSnapshot(identity string, response *entities.TransferResponse) error
}

// Trigger polls the transfers of one identity. Polls of the same trigger never overlap.
type Trigger struct {
	identity      string
	resolver      TickRangeResolver
	fetcher       TransfersFetcher
	detector      ChangeDetector
	store         SnapshotStore
	metrics       *metrics.TriggerMetrics
	logger        *zap.SugaredLogger
	pollLock      sync.Mutex
	lastTickRange entities.TickRange
}

func NewTrigger(identity string, resolver TickRangeResolver, fetcher TransfersFetcher, detector ChangeDetector,
	store SnapshotStore, m *metrics.TriggerMetrics, logger *zap.SugaredLogger) *Trigger {

	return &Trigger{
		identity: identity,
		resolver: resolver,
		fetcher:  fetcher,
		detector: detector,
		store:    store,
		metrics:  m,
		logger:   logger.With("identity", identity),
	}
}

func (t *Trigger) Identity() string {
	return t.identity
}

// LastTickRange returns the tick range of the last successful poll.
func (t *Trigger) LastTickRange() entities.TickRange {
	t.pollLock.Lock()
	defer t.pollLock.Unlock()
	return t.lastTickRange
}

// Poll fetches the transfers of the current epoch and compares them with the previous poll. On success it returns
// one batch with exactly one result. On failure in trigger mode the error is logged and nil is returned (no output
// this cycle). In manual mode the error is returned.
func (t *Trigger) Poll(ctx context.Context, mode entities.Mode) ([][]entities.TriggerResult, error) {
	t.pollLock.Lock()
	defer t.pollLock.Unlock()

	result, err := t.poll(ctx)
	if err != nil {
		t.metrics.IncSkippedPolls()
		if mode == entities.ModeManual {
			return nil, fmt.Errorf("polling transfers of identity [%s]: %w", t.identity, err)
		}
		t.logger.Warnw("Skipping poll.", "error", err)
		return nil, nil
	}
	return [][]entities.TriggerResult{{*result}}, nil
}

func (t *Trigger) poll(ctx context.Context) (*entities.TriggerResult, error) {
	epoch, tickRange, err := t.resolver.ResolveCurrentEpoch(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving current epoch ticks: %w", err)
	}
	t.metrics.SetSourceTicks(epoch, tickRange.StartTick, tickRange.EndTick)

	payload, err := t.fetcher.GetTransfers(ctx, t.identity, tickRange)
	if err != nil {
		return nil, fmt.Errorf("fetching transfers: %w", err)
	}

	current, err := entities.DecodeTransferResponse(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding transfers: %w", err)
	}

	previous, err := t.store.GetSnapshot(t.identity)
	if errors.Is(err, entities.ErrStoreEntityNotFound) {
		previous = nil // first observation
	} else if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	hasChanged := t.detector.DetectChange(previous, current)

	err = t.store.SetSnapshot(t.identity, current)
	if err != nil {
		return nil, fmt.Errorf("storing snapshot: %w", err)
	}

	t.lastTickRange = tickRange
	t.metrics.IncPolls(hasChanged)
	t.logger.Debugw("Polled transfers.", "epoch", epoch, "startTick", tickRange.StartTick,
		"endTick", tickRange.EndTick, "hasChanged", hasChanged)
	return &entities.TriggerResult{HasChanged: hasChanged}, nil
}
