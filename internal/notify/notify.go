package notify

import (
	"context"
	"errors"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

// ErrDeliveryFailed indicates the alert could not be handed to the mail
// server. All delivery failures wrap this sentinel.
var ErrDeliveryFailed = errors.New("alert delivery failed")

// Alert is the ephemeral payload of one notification. It is rendered into
// the message template, sent, and discarded; nothing is tracked afterwards.
type Alert struct {
	// Reading is the sample that triggered the alert.
	Reading moisture.Reading
	// State is the evaluated soil condition.
	State moisture.State
	// Threshold is the configured dryness boundary, for context in the message.
	Threshold int
	// Hostname identifies the machine the probe is attached to.
	Hostname string
	// GainCount is how many moisture gains the monitor has seen since start.
	GainCount int
	// LossCount is how many moisture losses the monitor has seen since start.
	LossCount int
}

// Notifier delivers alerts. Implementations must be safe to call from the
// poll loop on every iteration.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Recorder is a Notifier that captures alerts in memory for tests.
type Recorder struct {
	// Alerts holds every alert received, in order.
	Alerts []Alert
	// Err, when set, is returned by Notify instead of recording.
	Err error
}

// Notify records the alert or returns the injected error.
func (r *Recorder) Notify(_ context.Context, alert Alert) error {
	if r.Err != nil {
		return r.Err
	}

	r.Alerts = append(r.Alerts, alert)

	return nil
}
