package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/qubic/go-transfers-trigger/entities"
)

const DefaultBaseUrl = "https://rpc.qubic.org"

const (
	transfersPage     = 1
	transfersPageSize = 10
)

// Requester is the transport capability used by the client.
type Requester interface {
	Request(ctx context.Context, method, url string) ([]byte, error)
}

type Client struct {
	baseUrl   string
	requester Requester
}

func NewClient(baseUrl string, requester Requester) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	return &Client{
		baseUrl:   strings.TrimRight(baseUrl, "/"),
		requester: requester,
	}
}

func (c *Client) GetStatus(ctx context.Context) (*entities.Status, error) {
	body, err := c.requester.Request(ctx, http.MethodGet, c.baseUrl+"/v1/status")
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	var status entities.Status
	err = json.Unmarshal(body, &status)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding status: %w", entities.ErrParse, err)
	}
	return &status, nil
}

// GetTransfers returns the raw first page of transfers of the identity in the tick range.
func (c *Client) GetTransfers(ctx context.Context, identity string, tickRange entities.TickRange) ([]byte, error) {
	body, err := c.requester.Request(ctx, http.MethodGet, c.transfersUrl(identity, tickRange))
	if err != nil {
		return nil, fmt.Errorf("getting transfers of identity [%s]: %w", identity, err)
	}
	return body, nil
}

func (c *Client) transfersUrl(identity string, tickRange entities.TickRange) string {
	return fmt.Sprintf("%s/v2/identities/%s/transfers?startTick=%d&endTick=%d&page=%d&pageSize=%d",
		c.baseUrl, url.PathEscape(identity), tickRange.StartTick, tickRange.EndTick, transfersPage, transfersPageSize)
}
