package ticks

import (
	"context"
	"fmt"

	"github.com/qubic/go-transfers-trigger/entities"
)

type StatusFetcher interface {
	GetStatus(ctx context.Context) (*entities.Status, error)
}

// Resolver finds the tick range of the current epoch. The status is fetched on every call.
type Resolver struct {
	fetcher StatusFetcher
}

func NewResolver(fetcher StatusFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// ResolveCurrentEpochTicks returns the range from the first processed tick to the last processed tick of the
// current epoch. Errors wrap entities.ErrNetwork or entities.ErrParse.
func (r *Resolver) ResolveCurrentEpochTicks(ctx context.Context) (entities.TickRange, error) {
	_, tickRange, err := r.ResolveCurrentEpoch(ctx)
	return tickRange, err
}

// ResolveCurrentEpoch is like ResolveCurrentEpochTicks but also returns the current epoch.
func (r *Resolver) ResolveCurrentEpoch(ctx context.Context) (uint32, entities.TickRange, error) {
	status, err := r.fetcher.GetStatus(ctx)
	if err != nil {
		return 0, entities.TickRange{}, fmt.Errorf("getting rpc status: %w", err)
	}
	if status == nil {
		return 0, entities.TickRange{}, fmt.Errorf("%w: nil rpc status", entities.ErrParse)
	}
	return status.LastProcessedTick.Epoch, CurrentEpochTickRange(status), nil
}

// CurrentEpochTickRange scans the intervals of the current epoch in array order. The first initial tick wins
// and the last 'last processed tick' wins. Zero is used as 'unset' marker for the start tick, so an interval
// starting at tick 0 does not block a later interval from setting it. Without a matching epoch the result
// is {0,0}.
func CurrentEpochTickRange(status *entities.Status) entities.TickRange {
	var tickRange entities.TickRange
	currentEpoch := status.LastProcessedTick.Epoch
	for _, epochIntervals := range status.ProcessedTickIntervalsPerEpoch {
		if epochIntervals.Epoch != currentEpoch {
			continue
		}
		for _, interval := range epochIntervals.Intervals {
			if tickRange.StartTick == 0 {
				tickRange.StartTick = interval.InitialProcessedTick
			}
			tickRange.EndTick = interval.LastProcessedTick
		}
	}
	return tickRange
}
