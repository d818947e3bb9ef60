package sensor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

const (
	// defaultSimulatorStart is roughly what the probe reads in freshly
	// watered soil.
	defaultSimulatorStart = 620

	// defaultDecayPerMin is how many raw units the simulated reading drops
	// per minute as the virtual soil dries out.
	defaultDecayPerMin = 1.5

	// simulatorJitter is the +/- noise applied to each sample.
	simulatorJitter = 2

	// maxRawValue is the highest value a 10-bit conversion can yield.
	maxRawValue = 1023
)

// Simulator produces readings without any hardware: the value starts in wet
// territory and drifts toward dry over time, with a little sampling noise.
// It lets the daemon run end to end on a development machine.
type Simulator struct {
	mu          sync.Mutex
	channel     int
	value       float64
	last        time.Time
	decayPerMin float64
}

// NewSimulator returns a simulator for the given channel starting at the
// given raw value. Non-positive start or decay values pick the defaults.
func NewSimulator(channel, start int, decayPerMin float64) *Simulator {
	if start <= 0 {
		start = defaultSimulatorStart
	}

	if decayPerMin <= 0 {
		decayPerMin = defaultDecayPerMin
	}

	return &Simulator{
		channel:     channel,
		value:       float64(start),
		last:        time.Now().UTC(),
		decayPerMin: decayPerMin,
	}
}

// Read advances the simulated moisture level by the elapsed wall time and
// returns the current sample.
func (s *Simulator) Read(ctx context.Context) (moisture.Reading, error) {
	if err := ctx.Err(); err != nil {
		return moisture.Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	elapsed := now.Sub(s.last).Minutes()
	if elapsed > 0 {
		s.value -= s.decayPerMin * elapsed
	}

	s.last = now

	sample := int(s.value) + rand.IntN(2*simulatorJitter+1) - simulatorJitter
	sample = min(max(sample, 0), maxRawValue)

	return moisture.Reading{
		Channel:   s.channel,
		Value:     sample,
		Timestamp: now,
	}, nil
}

// Close implements Sensor; the simulator holds no resources.
func (s *Simulator) Close() error {
	return nil
}
