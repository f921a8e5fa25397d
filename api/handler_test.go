package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const identity = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type FakePoller struct {
	batches  [][]entities.TriggerResult
	err      error
	identity string
	mode     entities.Mode
}

func (f *FakePoller) PollIdentity(_ context.Context, identity string, mode entities.Mode) ([][]entities.TriggerResult, error) {
	f.identity = identity
	f.mode = mode
	return f.batches, f.err
}

func newTestServer(poller Poller) *httptest.Server {
	mux := http.NewServeMux()
	NewHandler(poller, zap.NewNop().Sugar()).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func TestHandler_GetHealth(t *testing.T) {
	server := newTestServer(&FakePoller{})
	defer server.Close()

	res, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"UP"}`, readBody(t, res))
}

func TestHandler_PollIdentity(t *testing.T) {
	poller := &FakePoller{batches: [][]entities.TriggerResult{{{HasChanged: true}}}}
	server := newTestServer(poller)
	defer server.Close()

	res, err := http.Post(server.URL+"/v1/identities/"+identity+"/poll", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"identity":"`+identity+`","batches":[[{"hasChanged":true}]]}`, readBody(t, res))
	assert.Equal(t, identity, poller.identity)
	assert.Equal(t, entities.ModeManual, poller.mode)
}

func TestHandler_PollIdentity_givenErrors(t *testing.T) {
	testData := []struct {
		name     string
		identity string
		err      error
		status   int
	}{
		{name: "invalid identity", identity: "abc", status: http.StatusBadRequest},
		{name: "unknown identity", identity: identity, err: fmt.Errorf("%w: [%s]", entities.ErrUnknownIdentity, identity), status: http.StatusNotFound},
		{name: "network error", identity: identity, err: fmt.Errorf("fetching transfers: %w", entities.ErrNetwork), status: http.StatusBadGateway},
		{name: "other error", identity: identity, err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range testData {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(&FakePoller{err: tc.err})
			defer server.Close()

			res, err := http.Post(server.URL+"/v1/identities/"+tc.identity+"/poll", "application/json", nil)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tc.status, res.StatusCode)
			assert.Contains(t, readBody(t, res), `"message"`)
		})
	}
}

func TestHandler_PollIdentity_givenWrongMethod(t *testing.T) {
	server := newTestServer(&FakePoller{})
	defer server.Close()

	res, err := http.Get(server.URL + "/v1/identities/" + identity + "/poll")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func readBody(t *testing.T, res *http.Response) string {
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}
