package ticks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeStatusFetcher struct {
	status *entities.Status
	err    error
}

func (f *FakeStatusFetcher) GetStatus(_ context.Context) (*entities.Status, error) {
	return f.status, f.err
}

func statusWith(epoch uint32, epochs ...entities.ProcessedTickIntervalsPerEpoch) *entities.Status {
	return &entities.Status{
		LastProcessedTick:              entities.ProcessedTick{Epoch: epoch},
		ProcessedTickIntervalsPerEpoch: epochs,
	}
}

func TestResolver_ResolveCurrentEpochTicks(t *testing.T) {
	fetcher := &FakeStatusFetcher{status: statusWith(123,
		entities.ProcessedTickIntervalsPerEpoch{
			Epoch:     122,
			Intervals: []entities.ProcessedTickInterval{{InitialProcessedTick: 1, LastProcessedTick: 9}},
		},
		entities.ProcessedTickIntervalsPerEpoch{
			Epoch: 123,
			Intervals: []entities.ProcessedTickInterval{
				{InitialProcessedTick: 10, LastProcessedTick: 20},
				{InitialProcessedTick: 21, LastProcessedTick: 35},
			},
		},
	)}

	tickRange, err := NewResolver(fetcher).ResolveCurrentEpochTicks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.TickRange{StartTick: 10, EndTick: 35}, tickRange)
}

func TestResolver_ResolveCurrentEpoch_returnsEpoch(t *testing.T) {
	fetcher := &FakeStatusFetcher{status: statusWith(7, entities.ProcessedTickIntervalsPerEpoch{
		Epoch:     7,
		Intervals: []entities.ProcessedTickInterval{{InitialProcessedTick: 100, LastProcessedTick: 200}},
	})}

	epoch, tickRange, err := NewResolver(fetcher).ResolveCurrentEpoch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, int(epoch))
	assert.Equal(t, 100, int(tickRange.StartTick))
	assert.Equal(t, 200, int(tickRange.EndTick))
}

func TestResolver_ResolveCurrentEpochTicks_givenFetchError(t *testing.T) {
	fetcher := &FakeStatusFetcher{err: fmt.Errorf("%w: connection refused", entities.ErrNetwork)}

	_, err := NewResolver(fetcher).ResolveCurrentEpochTicks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrNetwork))
}

func TestResolver_ResolveCurrentEpochTicks_givenNilStatus(t *testing.T) {
	_, err := NewResolver(&FakeStatusFetcher{}).ResolveCurrentEpochTicks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrParse))
}

func TestCurrentEpochTickRange(t *testing.T) {
	tests := []struct {
		name     string
		status   *entities.Status
		expected entities.TickRange
	}{
		{
			name:     "no intervals",
			status:   statusWith(100),
			expected: entities.TickRange{},
		},
		{
			name: "no matching epoch",
			status: statusWith(100, entities.ProcessedTickIntervalsPerEpoch{
				Epoch:     99,
				Intervals: []entities.ProcessedTickInterval{{InitialProcessedTick: 1, LastProcessedTick: 1000}},
			}),
			expected: entities.TickRange{},
		},
		{
			name: "matching epoch without intervals",
			status: statusWith(100, entities.ProcessedTickIntervalsPerEpoch{
				Epoch: 100,
			}),
			expected: entities.TickRange{},
		},
		{
			name: "multiple matching entries use array order",
			status: statusWith(100,
				entities.ProcessedTickIntervalsPerEpoch{
					Epoch:     100,
					Intervals: []entities.ProcessedTickInterval{{InitialProcessedTick: 500, LastProcessedTick: 600}},
				},
				entities.ProcessedTickIntervalsPerEpoch{
					Epoch:     101,
					Intervals: []entities.ProcessedTickInterval{{InitialProcessedTick: 900, LastProcessedTick: 999}},
				},
				entities.ProcessedTickIntervalsPerEpoch{
					Epoch:     100,
					Intervals: []entities.ProcessedTickInterval{{InitialProcessedTick: 100, LastProcessedTick: 200}},
				},
			),
			expected: entities.TickRange{StartTick: 500, EndTick: 200},
		},
		{
			// zero is the 'unset' marker, a genuine start tick 0 is overwritten by the next interval
			name: "start tick zero is treated as unset",
			status: statusWith(1, entities.ProcessedTickIntervalsPerEpoch{
				Epoch: 1,
				Intervals: []entities.ProcessedTickInterval{
					{InitialProcessedTick: 0, LastProcessedTick: 10},
					{InitialProcessedTick: 20, LastProcessedTick: 30},
				},
			}),
			expected: entities.TickRange{StartTick: 20, EndTick: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CurrentEpochTickRange(tt.status))
		})
	}
}
