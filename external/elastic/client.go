package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/pkg/errors"
	"github.com/qubic/go-transfers-trigger/entities"
	"go.uber.org/zap"
)

type Client struct {
	esClient  *elasticsearch.Client
	indexName string
	logger    *zap.SugaredLogger
}

func NewClient(esClient *elasticsearch.Client, indexName string, logger *zap.SugaredLogger) *Client {
	return &Client{
		esClient:  esClient,
		indexName: indexName,
		logger:    logger,
	}
}

type EsDocument struct {
	Id      string
	Payload []byte
}

// Publish indexes one document per trigger event.
func (c *Client) Publish(ctx context.Context, events []*entities.TriggerEvent) error {
	if len(events) == 0 {
		return nil
	}
	documents, err := createDocuments(events)
	if err != nil {
		return err
	}
	return c.BulkIndex(ctx, documents)
}

func (c *Client) BulkIndex(ctx context.Context, data []*EsDocument) error {
	start := time.Now().UnixMilli()
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      c.indexName,
		Client:     c.esClient,
		NumWorkers: min(runtime.NumCPU(), 4),
	})
	if err != nil {
		return errors.Wrap(err, "creating bulk indexer")
	}

	for _, d := range data {
		item := esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: d.Id,
			Body:       bytes.NewReader(d.Payload),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					c.logger.Errorw("Error indexing document.", "id", d.Id, "error", err)
				} else {
					c.logger.Errorw("Error indexing document.", "id", d.Id, "type", res.Error.Type, "reason", res.Error.Reason)
				}
			},
		}
		err = bi.Add(ctx, item)
		if err != nil {
			return errors.Wrapf(err, "adding document [%s] to bulk indexer", d.Id)
		}
	}

	err = bi.Close(ctx)
	if err != nil {
		return errors.Wrap(err, "closing bulk indexer")
	}

	biStats := bi.Stats()
	if biStats.NumFailed > 0 {
		return errors.Errorf("%d errors indexing [%d] documents", biStats.NumFailed, biStats.NumFlushed)
	}
	c.logger.Debugw("Indexed documents.", "count", biStats.NumFlushed, "bytes", biStats.FlushedBytes,
		"requests", biStats.NumRequests, "durationMs", time.Now().UnixMilli()-start)
	return nil
}

func createDocuments(events []*entities.TriggerEvent) ([]*EsDocument, error) {
	documents := make([]*EsDocument, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, errors.Wrap(err, "marshalling trigger event")
		}
		documents = append(documents, &EsDocument{
			Id:      documentId(event),
			Payload: payload,
		})
	}
	return documents, nil
}

// documentId is unique per identity and poll second. A repeated poll within the same second replaces the document.
func documentId(event *entities.TriggerEvent) string {
	return fmt.Sprintf("%s-%d", event.Identity, event.Timestamp)
}
