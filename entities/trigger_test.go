package entities

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, ValidateIdentity(strings.Repeat("A", 60)))
	assert.NoError(t, ValidateIdentity(strings.Repeat("A1", 30)))

	assert.Error(t, ValidateIdentity(""))
	assert.Error(t, ValidateIdentity(strings.Repeat("A", 59)))
	assert.Error(t, ValidateIdentity(strings.Repeat("A", 61)))
	assert.Error(t, ValidateIdentity(strings.Repeat("a", 60)))
}

func TestValidatePollInterval(t *testing.T) {
	for _, interval := range PollIntervals {
		assert.NoError(t, ValidatePollInterval(interval))
	}
	assert.NoError(t, ValidatePollInterval(DefaultPollInterval))
	assert.Error(t, ValidatePollInterval(0))
	assert.Error(t, ValidatePollInterval(42*time.Second))
}
