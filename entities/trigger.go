package entities

import (
	"fmt"
	"regexp"
	"slices"
	"time"
)

// Mode is the execution mode of a poll. It decides if failures are swallowed or returned.
type Mode string

const (
	// ModeTrigger is a scheduled poll. Failures skip the cycle silently.
	ModeTrigger Mode = "trigger"
	// ModeManual is a poll started by a user. Failures are returned to the caller.
	ModeManual Mode = "manual"
)

// TriggerResult is the single output item of a poll.
type TriggerResult struct {
	HasChanged bool `json:"hasChanged"`
}

// TriggerEvent wraps a result with the context needed by downstream consumers.
type TriggerEvent struct {
	Identity   string `json:"identity"`
	HasChanged bool   `json:"hasChanged"`
	StartTick  uint32 `json:"startTick"`
	EndTick    uint32 `json:"endTick"`
	Timestamp  int64  `json:"timestamp"`
}

var identityPattern = regexp.MustCompile(`^[A-Z0-9]{60}$`)

func ValidateIdentity(identity string) error {
	if !identityPattern.MatchString(identity) {
		return fmt.Errorf("invalid identity [%s]: expected 60 uppercase alphanumeric characters", identity)
	}
	return nil
}

// PollIntervals are the supported polling intervals.
var PollIntervals = []time.Duration{
	15 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
}

const DefaultPollInterval = time.Minute

func ValidatePollInterval(interval time.Duration) error {
	if !slices.Contains(PollIntervals, interval) {
		return fmt.Errorf("unsupported poll interval [%v]: expected one of %v", interval, PollIntervals)
	}
	return nil
}
