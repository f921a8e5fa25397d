package archiver

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/qubic/go-archiver/protobuff"
	"github.com/qubic/go-transfers-trigger/entities"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client reads the processed tick intervals from an archiver instead of the public rpc.
type Client struct {
	api protobuff.ArchiveServiceClient
}

func NewClient(host string) (*Client, error) {
	archiverConn, err := grpc.NewClient(host, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, errors.Wrap(err, "creating archiver api connection")
	}
	cl := Client{
		api: protobuff.NewArchiveServiceClient(archiverConn),
	}
	return &cl, nil
}

func (c *Client) GetStatus(ctx context.Context) (*entities.Status, error) {
	s, err := c.api.GetStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: calling archiver: %w", entities.ErrNetwork, err)
	}
	return convertArchiverStatus(s)
}

func convertArchiverStatus(s *protobuff.GetStatusResponse) (*entities.Status, error) {
	if s == nil || s.GetLastProcessedTick() == nil {
		return nil, fmt.Errorf("%w: archiver status without last processed tick", entities.ErrParse)
	}

	epochs := make([]entities.ProcessedTickIntervalsPerEpoch, 0, len(s.GetProcessedTickIntervalsPerEpoch()))
	for _, epochIntervals := range s.GetProcessedTickIntervalsPerEpoch() {
		intervals := make([]entities.ProcessedTickInterval, 0, len(epochIntervals.GetIntervals()))
		for _, interval := range epochIntervals.GetIntervals() {
			intervals = append(intervals, entities.ProcessedTickInterval{
				InitialProcessedTick: interval.GetInitialProcessedTick(),
				LastProcessedTick:    interval.GetLastProcessedTick(),
			})
		}
		epochs = append(epochs, entities.ProcessedTickIntervalsPerEpoch{
			Epoch:     epochIntervals.GetEpoch(),
			Intervals: intervals,
		})
	}

	status := entities.Status{
		LastProcessedTick: entities.ProcessedTick{
			TickNumber: s.GetLastProcessedTick().GetTickNumber(),
			Epoch:      s.GetLastProcessedTick().GetEpoch(),
		},
		ProcessedTickIntervalsPerEpoch: epochs,
	}
	return &status, nil
}
