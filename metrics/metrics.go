package metrics

import (
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type TriggerMetrics struct {
	sourceEpochGauge     prometheus.Gauge
	sourceStartTickGauge prometheus.Gauge
	sourceEndTickGauge   prometheus.Gauge
	pollCount            prometheus.Counter
	changeCount          prometheus.Counter
	skippedPollCount     prometheus.Counter
	comparisonErrorCount prometheus.Counter
}

func NewTriggerMetrics(namespace string) *TriggerMetrics {
	m := TriggerMetrics{
		// metrics for comparison to event source
		sourceEpochGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_source_epoch", namespace),
			Help: "The latest known source epoch",
		}),
		sourceStartTickGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_source_start_tick", namespace),
			Help: "The first tick of the current epoch",
		}),
		sourceEndTickGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_source_end_tick", namespace),
			Help: "The last processed tick of the current epoch",
		}),
		// metrics for polling
		pollCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_poll_count", namespace),
			Help: "The total number of completed polls",
		}),
		changeCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_change_count", namespace),
			Help: "The total number of polls that detected new transfers",
		}),
		skippedPollCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_skipped_poll_count", namespace),
			Help: "The total number of polls skipped because of errors",
		}),
		comparisonErrorCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_comparison_error_count", namespace),
			Help: "The total number of failed transfer comparisons",
		}),
	}
	return &m
}

func (m *TriggerMetrics) SetSourceTicks(epoch, startTick, endTick uint32) {
	m.sourceEpochGauge.Set(float64(epoch))
	m.sourceStartTickGauge.Set(float64(startTick))
	m.sourceEndTickGauge.Set(float64(endTick))
}

func (m *TriggerMetrics) IncPolls(changed bool) {
	m.pollCount.Inc()
	if changed {
		m.changeCount.Inc()
	}
}

func (m *TriggerMetrics) IncSkippedPolls() {
	m.skippedPollCount.Inc()
}

func (m *TriggerMetrics) IncComparisonErrors() {
	m.comparisonErrorCount.Inc()
}
