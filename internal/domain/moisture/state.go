package moisture

import "time"

// Reading is a single raw sample taken from one ADC channel.
// The value range is device-dependent; the MCP3008 yields 0-1023.
type Reading struct {
	// Channel is the ADC channel the sample was taken from.
	Channel int
	// Value is the raw digital value of the sample.
	Value int
	// Timestamp is when the sample was taken.
	Timestamp time.Time
}

// State is the binary soil condition derived from a reading.
type State string

const (
	// Wet means the reading is on the moist side of the threshold.
	Wet State = "wet"
	// Dry means the reading crossed the threshold and the soil needs water.
	Dry State = "dry"
)

// Polarity declares which side of the threshold means dry. Capacitive and
// resistive probes disagree on whether drier soil raises or lowers the raw
// value, so the direction is configuration, not a constant.
type Polarity string

const (
	// DryBelow treats readings below the threshold as dry (default).
	DryBelow Polarity = "below"
	// DryAbove treats readings above the threshold as dry.
	DryAbove Polarity = "above"
)

// Valid reports whether the polarity is one of the known values.
func (p Polarity) Valid() bool {
	return p == DryBelow || p == DryAbove
}

// Evaluator derives a State from a raw value. It is a pure value type with
// no side effects; the same input always yields the same state.
type Evaluator struct {
	// Threshold is the raw-reading boundary between Wet and Dry.
	Threshold int
	// Polarity declares which side of the threshold means dry.
	Polarity Polarity
}

// Evaluate returns the state for a raw value. The boundary is pinned to the
// wet side: a value exactly equal to the threshold is Wet under either
// polarity.
func (e Evaluator) Evaluate(value int) State {
	switch e.Polarity {
	case DryAbove:
		if value > e.Threshold {
			return Dry
		}
	default: // DryBelow
		if value < e.Threshold {
			return Dry
		}
	}

	return Wet
}

// Transition captures a state change between two consecutive evaluations.
type Transition struct {
	// From is the state of the previous poll iteration.
	From State
	// To is the state of the current poll iteration.
	To State
}

// IsDrying reports whether the soil just crossed from Wet to Dry.
func (t Transition) IsDrying() bool {
	return t.From == Wet && t.To == Dry
}

// IsWetting reports whether the soil just recovered from Dry to Wet.
func (t Transition) IsWetting() bool {
	return t.From == Dry && t.To == Wet
}
