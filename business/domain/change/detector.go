package change

import (
	"encoding/json"
	"fmt"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/qubic/go-transfers-trigger/metrics"
	"github.com/qubic/go-transfers-trigger/util"
	"go.uber.org/zap"
)

type transferGroup struct {
	Transactions json.RawMessage `json:"transactions"`
}

type transferEntry struct {
	Transaction *struct {
		TxId string `json:"txId"`
	} `json:"transaction"`
}

// Detector decides if a transfers response contains transactions that were not part of the previous one.
type Detector struct {
	metrics *metrics.TriggerMetrics
	logger  *zap.SugaredLogger
}

func NewDetector(m *metrics.TriggerMetrics, logger *zap.SugaredLogger) *Detector {
	return &Detector{
		metrics: m,
		logger:  logger,
	}
}

// DetectChange returns false for the first observation (previous is nil). Shape drift of either transaction
// list and failing comparisons count as change. Otherwise only new transaction ids count, order and
// duplicates are ignored.
func (d *Detector) DetectChange(previous, current *entities.TransferResponse) bool {
	if previous == nil {
		return false
	}

	if !previous.HasTransactionList() || !current.HasTransactionList() {
		return true
	}

	newIds, err := newTransactionIds(previous, current)
	if err != nil {
		d.logger.Warnw("Error comparing responses.", "error", err)
		d.metrics.IncComparisonErrors()
		return true
	}
	if len(newIds) > 0 {
		d.logger.Debugw("Found new transactions.", "count", len(newIds))
		return true
	}
	return false
}

func newTransactionIds(previous, current *entities.TransferResponse) (map[string]bool, error) {
	currentIds, err := ExtractTransactionIds(current)
	if err != nil {
		return nil, fmt.Errorf("extracting current transaction ids: %w", err)
	}
	previousIds, err := ExtractTransactionIds(previous)
	if err != nil {
		return nil, fmt.Errorf("extracting previous transaction ids: %w", err)
	}
	return util.Missing(util.ToSet(currentIds), util.ToSet(previousIds)), nil
}

// ExtractTransactionIds collects transaction.txId of all entries in all transfer groups. Groups or entries
// with an unexpected shape are skipped. Only a transaction list that is not valid json fails.
func ExtractTransactionIds(response *entities.TransferResponse) ([]string, error) {
	if !response.HasTransactionList() {
		return nil, nil
	}

	var groups []json.RawMessage
	err := json.Unmarshal(response.Transactions, &groups)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding transfer groups: %w", entities.ErrComparison, err)
	}

	var txIds []string
	for _, rawGroup := range groups {
		var group transferGroup
		if json.Unmarshal(rawGroup, &group) != nil {
			continue
		}
		var entries []json.RawMessage
		if json.Unmarshal(group.Transactions, &entries) != nil {
			continue
		}
		for _, rawEntry := range entries {
			var entry transferEntry
			if json.Unmarshal(rawEntry, &entry) != nil {
				continue
			}
			if entry.Transaction != nil && entry.Transaction.TxId != "" {
				txIds = append(txIds, entry.Transaction.TxId)
			}
		}
	}
	return txIds, nil
}
