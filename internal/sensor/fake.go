package sensor

import (
	"context"
	"time"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

// Fake is a scripted in-memory sensor for tests. It replays the configured
// values in order, repeating the last one, and can be switched into a
// failing state to exercise hardware error paths.
type Fake struct {
	channel int
	values  []int
	next    int
	err     error
}

// NewFake returns a fake sensor that replays the given values.
func NewFake(channel int, values ...int) *Fake {
	return &Fake{
		channel: channel,
		values:  values,
	}
}

// Fail makes every subsequent Read return the given error.
func (f *Fake) Fail(err error) {
	f.err = err
}

// Read returns the next scripted value, sticking at the last one.
func (f *Fake) Read(ctx context.Context) (moisture.Reading, error) {
	if err := ctx.Err(); err != nil {
		return moisture.Reading{}, err
	}

	if f.err != nil {
		return moisture.Reading{}, f.err
	}

	if len(f.values) == 0 {
		return moisture.Reading{}, ErrHardwareUnavailable
	}

	value := f.values[f.next]
	if f.next < len(f.values)-1 {
		f.next++
	}

	return moisture.Reading{
		Channel:   f.channel,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Close implements Sensor.
func (f *Fake) Close() error {
	return nil
}
