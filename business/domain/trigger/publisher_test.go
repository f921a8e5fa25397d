package trigger

import (
	"context"
	"testing"

	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogPublisher_Publish(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	publisher := NewLogPublisher(zap.New(core).Sugar())

	err := publisher.Publish(context.Background(), []*entities.TriggerEvent{
		{Identity: identityA, HasChanged: true, StartTick: 1, EndTick: 2},
	})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, identityA, fields["identity"])
	assert.Equal(t, true, fields["hasChanged"])
}
