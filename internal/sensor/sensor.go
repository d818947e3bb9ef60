package sensor

import (
	"context"
	"errors"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

// ErrHardwareUnavailable indicates the ADC could not be reached over SPI.
// All hardware backend failures wrap this sentinel.
var ErrHardwareUnavailable = errors.New("hardware unavailable")

// Sensor is the port for one soil-moisture probe. Read performs a single
// synchronous sample of the configured channel; Close releases the
// underlying bus handle.
type Sensor interface {
	Read(ctx context.Context) (moisture.Reading, error)
	Close() error
}
