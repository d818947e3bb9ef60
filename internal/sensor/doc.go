// Package sensor provides access to the soil-moisture probe through its
// MCP3008 ADC on the SPI bus, plus a hardware-free simulator and a scripted
// fake for tests. All backends implement the Sensor port.
package sensor
