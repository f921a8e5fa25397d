package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

type KafkaClient interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// Client publishes trigger events, one record per event keyed by identity.
type Client struct {
	kcl    KafkaClient
	logger *zap.SugaredLogger
}

func NewClient(kafkaClient KafkaClient, logger *zap.SugaredLogger) *Client {
	return &Client{
		kcl:    kafkaClient,
		logger: logger,
	}
}

func (kc *Client) Publish(ctx context.Context, events []*entities.TriggerEvent) error {
	records := make([]*kgo.Record, 0, len(events))
	for _, event := range events {
		record, err := createRecord(event)
		if err != nil {
			return fmt.Errorf("creating trigger event record: %w", err)
		}
		records = append(records, record)
	}

	var wg sync.WaitGroup
	errorChannel := make(chan error, len(records))
	for _, record := range records {
		wg.Add(1)
		kc.kcl.Produce(ctx, record, func(r *kgo.Record, err error) {
			defer wg.Done()
			if err != nil {
				kc.logger.Errorw("Error producing trigger event record.", "key", string(record.Key), "error", err)
				errorChannel <- err
			}
		})
	}
	wg.Wait()
	close(errorChannel)

	var errs []error
	for err := range errorChannel {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("producing [%d] of [%d] trigger event records: %w", len(errs), len(records), errors.Join(errs...))
	}
	return nil
}

func createRecord(event *entities.TriggerEvent) (*kgo.Record, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshalling trigger event to json: %w", err)
	}
	return &kgo.Record{
		Key:   []byte(event.Identity),
		Value: payload,
	}, nil
}
