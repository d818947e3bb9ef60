package monitor

import (
	"context"
	"fmt"

	"github.com/oshokin/moisture-sensor/internal/config"
	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
	"github.com/oshokin/moisture-sensor/internal/logger"
	"github.com/oshokin/moisture-sensor/internal/notify"
	"github.com/oshokin/moisture-sensor/internal/sensor"
)

// monitor holds everything one poll iteration needs. All loop state lives
// here as explicit fields, not package globals, so a future multi-sensor
// setup could run several monitors side by side.
type monitor struct {
	sensor       sensor.Sensor
	notifier     notify.Notifier
	evaluator    moisture.Evaluator
	everyReading bool
	hostname     string

	// prevValue is the raw value of the previous iteration, -1 before the
	// first sample.
	prevValue int
	// prevState is the evaluated state of the previous iteration. It starts
	// as Wet so that a probe already in dry soil alerts on the first poll.
	prevState moisture.State
	// gainCount counts samples that moved toward the wet side.
	gainCount int
	// lossCount counts samples that moved toward the dry side.
	lossCount int
}

// newMonitor wires a monitor from configuration and collaborators.
func newMonitor(cfg *config.Config, s sensor.Sensor, n notify.Notifier, hostname string) *monitor {
	return &monitor{
		sensor:   s,
		notifier: n,
		evaluator: moisture.Evaluator{
			Threshold: cfg.Threshold.Value,
			Polarity:  cfg.Threshold.DryWhen,
		},
		everyReading: cfg.Notify.EveryReading,
		hostname:     hostname,
		prevValue:    -1,
		prevState:    moisture.Wet,
	}
}

// poll performs one READ, EVALUATE, NOTIFY-IF-DRY iteration. Any sensor or
// delivery error is returned to the caller; the loop does not retry.
func (m *monitor) poll(ctx context.Context) error {
	reading, err := m.sensor.Read(ctx)
	if err != nil {
		return fmt.Errorf("read sensor: %w", err)
	}

	m.track(ctx, reading)

	state := m.evaluator.Evaluate(reading.Value)
	transition := moisture.Transition{From: m.prevState, To: state}
	m.prevState = state

	if transition.IsWetting() {
		logger.InfoKV(ctx, "Soil recovered", "value", reading.Value)
	}

	if state != moisture.Dry {
		return nil
	}

	// Default policy: alert once per drying, on the wet-to-dry edge.
	// every_reading restores the naive resend-per-iteration behavior.
	if !m.everyReading && !transition.IsDrying() {
		return nil
	}

	alert := notify.Alert{
		Reading:   reading,
		State:     state,
		Threshold: m.evaluator.Threshold,
		Hostname:  m.hostname,
		GainCount: m.gainCount,
		LossCount: m.lossCount,
	}

	if err = m.notifier.Notify(ctx, alert); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	return nil
}

// track logs value changes against the previous sample and updates the
// gain/loss counters. Direction is interpreted through the polarity: moving
// toward the dry side of the threshold is a loss.
func (m *monitor) track(ctx context.Context, reading moisture.Reading) {
	previous := m.prevValue
	m.prevValue = reading.Value

	if previous < 0 {
		logger.InfoKV(ctx, "First reading", "channel", reading.Channel, "value", reading.Value)
		return
	}

	if reading.Value == previous {
		logger.DebugKV(ctx, "Reading unchanged", "value", reading.Value)
		return
	}

	dryward := reading.Value < previous
	if m.evaluator.Polarity == moisture.DryAbove {
		dryward = reading.Value > previous
	}

	if dryward {
		m.lossCount++
		logger.InfoKV(ctx, "Moisture loss detected",
			"value", reading.Value, "previous", previous, "count", m.lossCount)
	} else {
		m.gainCount++
		logger.InfoKV(ctx, "Moisture gain detected",
			"value", reading.Value, "previous", previous, "count", m.gainCount)
	}
}

// dryRunNotifier logs what would be sent instead of delivering it.
// Used by the hidden debug flag to exercise the loop without mail traffic.
type dryRunNotifier struct{}

// Notify logs the alert and reports success.
func (dryRunNotifier) Notify(ctx context.Context, alert notify.Alert) error {
	logger.InfoKV(ctx, "Debug mode, alert not delivered",
		"value", alert.Reading.Value, "threshold", alert.Threshold, "state", string(alert.State))

	return nil
}
