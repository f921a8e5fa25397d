package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TransferResponse is the transfers payload as returned by the rpc. Transactions is kept raw as the
// shape is not under our control. Only transaction ids are interpreted.
type TransferResponse struct {
	Transactions json.RawMessage `json:"transactions"`
}

// HasTransactionList reports whether transactions is a json array.
func (r *TransferResponse) HasTransactionList() bool {
	if r == nil {
		return false
	}
	trimmed := bytes.TrimSpace(r.Transactions)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// DecodeTransferResponse accepts the raw body ([]byte, string, json.RawMessage), an already decoded
// value (for example map[string]any) or a *TransferResponse.
func DecodeTransferResponse(payload any) (*TransferResponse, error) {
	var data []byte
	switch p := payload.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty transfers payload", ErrParse)
	case *TransferResponse:
		return p, nil
	case TransferResponse:
		return &p, nil
	case []byte:
		data = p
	case json.RawMessage:
		data = p
	case string:
		data = []byte(p)
	default:
		encoded, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding transfers payload: %w", ErrParse, err)
		}
		data = encoded
	}

	var response TransferResponse
	err := json.Unmarshal(data, &response)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding transfers payload: %w", ErrParse, err)
	}
	return &response, nil
}
