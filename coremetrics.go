package spotscot

import (
	"go.opentelemetry.io/otel/api/key"
	"go.opentelemetry.io/otel/api/metric"
	"time"
)

type instrumenter struct {
	coreMetrics coreMetrics
}

type coreMetrics struct {
	msgsSeen     metric.BoundInt64Counter
	msgsGated    metric.BoundInt64Counter
	msgsAnswered metric.BoundInt64Counter

	commandsSeen     metric.BoundInt64Counter
	commandsGated    metric.BoundInt64Counter
	commandsAnswered metric.BoundInt64Counter

	msgProcessingLatencyMillis     metric.BoundInt64Measure
	commandProcessingLatencyMillis metric.BoundInt64Measure
}

func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter) {
	ins = new(instrumenter)

	defaultLabels := meter.Labels(key.New("name").String(appName))

	ins.coreMetrics = coreMetrics{
		msgsSeen:                       newBoundCounter("msgSeen", appName, meter),
		msgsGated:                      newBoundCounter("msgGated", appName, meter),
		msgsAnswered:                   newBoundCounter("msgAnswered", appName, meter),
		commandsSeen:                   newBoundCounter("commandSeen", appName, meter),
		commandsGated:                  newBoundCounter("commandGated", appName, meter),
		commandsAnswered:               newBoundCounter("commandAnswered", appName, meter),
		msgProcessingLatencyMillis:     meter.NewInt64Measure("msgProcessingLatencyMillis", metric.WithKeys(key.New("name"))).Bind(defaultLabels),
		commandProcessingLatencyMillis: meter.NewInt64Measure("commandProcessingLatencyMillis", metric.WithKeys(key.New("name"))).Bind(defaultLabels),
	}

	return ins
}

func newBoundCounter(counterName string, appName string, meter metric.Meter) metric.BoundInt64Counter {
	c := meter.NewInt64Counter(counterName, metric.WithKeys(key.New("name")))
	return c.Bind(meter.Labels(key.New("name").String(appName)))
}

type timed func()

func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Now().Sub(before)
}
