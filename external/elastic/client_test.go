package elastic

import (
	"context"
	"testing"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const identity = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func TestClient_createDocuments(t *testing.T) {
	documents, err := createDocuments([]*entities.TriggerEvent{
		{Identity: identity, HasChanged: true, StartTick: 100, EndTick: 200, Timestamp: 1744610180},
		{Identity: identity, HasChanged: false, StartTick: 100, EndTick: 210, Timestamp: 1744610240},
	})
	require.NoError(t, err)
	require.Len(t, documents, 2)

	assert.Equal(t, identity+"-1744610180", documents[0].Id)
	assert.JSONEq(t, `{"identity":"`+identity+`","hasChanged":true,"startTick":100,"endTick":200,"timestamp":1744610180}`,
		string(documents[0].Payload))
	assert.Equal(t, identity+"-1744610240", documents[1].Id)
}

func TestClient_Publish_givenNoEvents_thenNoRequest(t *testing.T) {
	client := NewClient(nil, "index", zap.NewNop().Sugar())
	err := client.Publish(context.Background(), nil)
	assert.NoError(t, err)
}
