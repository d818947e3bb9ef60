package sensor

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/oshokin/moisture-sensor/internal/domain/moisture"
)

// spiClock is the SPI clock frequency. The MCP3008 tops out at 1.35 MHz on
// a 2.7 V supply, so 1 MHz is safe on any wiring.
const spiClock = physic.MegaHertz

// MCP3008 reads one channel of an MCP3008 10-bit ADC over hardware SPI.
// The bus handle is opened once and reused for every poll.
type MCP3008 struct {
	port    spi.PortCloser
	conn    spi.Conn
	channel int
}

// OpenMCP3008 initializes the host drivers, opens the SPI port for the given
// bus and chip-select line, and prepares single-ended reads of the channel.
func OpenMCP3008(spiPort, spiDevice, channel int) (*MCP3008, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w: %w", err, ErrHardwareUnavailable)
	}

	name := fmt.Sprintf("SPI%d.%d", spiPort, spiDevice)

	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", name, err, ErrHardwareUnavailable)
	}

	conn, err := port.Connect(spiClock, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect %s: %w: %w", name, err, ErrHardwareUnavailable)
	}

	return &MCP3008{
		port:    port,
		conn:    conn,
		channel: channel,
	}, nil
}

// Read performs one single-ended conversion and returns the raw 10-bit value.
func (m *MCP3008) Read(ctx context.Context) (moisture.Reading, error) {
	if err := ctx.Err(); err != nil {
		return moisture.Reading{}, err
	}

	// Single-ended conversion frame: start bit, then SGL/DIFF=1 with the
	// channel in bits 6-4 of the second byte, then a padding byte to clock
	// the 10-bit result out.
	write := []byte{0x01, byte(0x80 | m.channel<<4), 0x00}
	read := make([]byte, len(write))

	if err := m.conn.Tx(write, read); err != nil {
		return moisture.Reading{}, fmt.Errorf("spi tx: %w: %w", err, ErrHardwareUnavailable)
	}

	value := int(read[1]&0x03)<<8 | int(read[2])

	return moisture.Reading{
		Channel:   m.channel,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Close releases the SPI port.
func (m *MCP3008) Close() error {
	return m.port.Close()
}
