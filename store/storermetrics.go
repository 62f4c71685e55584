package store

import (
	"context"
	"go.opentelemetry.io/otel/api/key"
	"go.opentelemetry.io/otel/api/metric"
	"time"
)

var spotStorerMethods = []string{"PutSpot", "ScanSpots", "DeleteSpot", "DeleteChannelSpots", "Close"}

// spotStorerWithTelemetry implements the SpotStorer interface with all methods
// wrapped with open telemetry call counts, error counts and timing metrics
type spotStorerWithTelemetry struct {
	base               SpotStorer
	methodCounters     map[string]metric.BoundInt64Counter
	errCounters        map[string]metric.BoundInt64Counter
	methodTimeMeasures map[string]metric.BoundInt64Measure
}

// NewSpotStorerWithTelemetry returns an instance of the SpotStorer decorated with
// open telemetry timing and count metrics
func NewSpotStorerWithTelemetry(base SpotStorer, appName string, meter metric.Meter) SpotStorer {
	return &spotStorerWithTelemetry{
		base:               base,
		methodCounters:     newSpotStorerMethodCounters("Calls", appName, meter),
		errCounters:        newSpotStorerMethodCounters("Errors", appName, meter),
		methodTimeMeasures: newSpotStorerMethodTimeMeasures(appName, meter),
	}
}

func newSpotStorerMethodCounters(suffix string, appName string, meter metric.Meter) (boundCounters map[string]metric.BoundInt64Counter) {
	boundCounters = make(map[string]metric.BoundInt64Counter)

	for _, m := range spotStorerMethods {
		c := meter.NewInt64Counter("spotStorer_"+m+"_"+suffix, metric.WithKeys(key.New("name")))
		boundCounters[m] = c.Bind(meter.Labels(key.New("name").String(appName)))
	}

	return boundCounters
}

func newSpotStorerMethodTimeMeasures(appName string, meter metric.Meter) (boundTimeMeasures map[string]metric.BoundInt64Measure) {
	boundTimeMeasures = make(map[string]metric.BoundInt64Measure)

	for _, m := range spotStorerMethods {
		measure := meter.NewInt64Measure("spotStorer_"+m+"_ProcessingTimeMillis", metric.WithKeys(key.New("name")))
		boundTimeMeasures[m] = measure.Bind(meter.Labels(key.New("name").String(appName)))
	}

	return boundTimeMeasures
}

func (st *spotStorerWithTelemetry) instrument(method string, start time.Time, err error) {
	ctx := context.Background()

	st.methodCounters[method].Add(ctx, 1)
	if err != nil {
		st.errCounters[method].Add(ctx, 1)
	}

	st.methodTimeMeasures[method].Record(ctx, time.Since(start).Milliseconds())
}

// PutSpot delegates to the decorated SpotStorer and records telemetry
func (st *spotStorerWithTelemetry) PutSpot(spot Spot) (err error) {
	start := time.Now()
	defer func() { st.instrument("PutSpot", start, err) }()

	return st.base.PutSpot(spot)
}

// ScanSpots delegates to the decorated SpotStorer and records telemetry
func (st *spotStorerWithTelemetry) ScanSpots(teamID string, channelID string) (spots []Spot, err error) {
	start := time.Now()
	defer func() { st.instrument("ScanSpots", start, err) }()

	return st.base.ScanSpots(teamID, channelID)
}

// DeleteSpot delegates to the decorated SpotStorer and records telemetry
func (st *spotStorerWithTelemetry) DeleteSpot(teamID string, channelID string, messageID string) (deleted Spot, err error) {
	start := time.Now()
	defer func() { st.instrument("DeleteSpot", start, err) }()

	return st.base.DeleteSpot(teamID, channelID, messageID)
}

// DeleteChannelSpots delegates to the decorated SpotStorer and records telemetry
func (st *spotStorerWithTelemetry) DeleteChannelSpots(teamID string, channelID string) (count int, err error) {
	start := time.Now()
	defer func() { st.instrument("DeleteChannelSpots", start, err) }()

	return st.base.DeleteChannelSpots(teamID, channelID)
}

// Close delegates to the decorated SpotStorer and records telemetry
func (st *spotStorerWithTelemetry) Close() (err error) {
	start := time.Now()
	defer func() { st.instrument("Close", start, err) }()

	return st.base.Close()
}
