// Package positioner drives a dual-axis solar tracker mount over Modbus.
//
// The controller exposes azimuth/elevation setpoints and actual angles as
// 0.01° scaled registers. Azimuth is a compass bearing (degrees clockwise
// from north), elevation is degrees above the horizon.
package positioner

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/goburrow/modbus"
)

// Modbus client configuration
const (
	DefaultSlaveAddress = 1
	MinSlaveAddress     = 1
	MaxSlaveAddress     = 246
)

// Holding registers (write)
const (
	regAzimuthSetpoint   = 0x0000 // 0.01°, 0..36000
	regElevationSetpoint = 0x0001 // 0.01°, signed, -9000..9000
	regCommand           = 0x0002
)

// Input registers (read)
const (
	regState           = 0x0100
	regActualAzimuth   = 0x0101
	regActualElevation = 0x0102
)

// Controller commands
const (
	CommandTrack uint16 = 1
	CommandStow  uint16 = 2
)

// Controller states as reported in the state register
const (
	StateIdle     uint16 = 0
	StateTracking uint16 = 1
	StateStowed   uint16 = 2
	StateFault    uint16 = 3
)

// Status represents the controller's reported state and actual angles.
type Status struct {
	State        uint16
	AzimuthDeg   float64
	ElevationDeg float64
}

// Client represents a Modbus connection to a tracker mount controller.
type Client struct {
	client     modbus.Client
	handler    *modbus.RTUClientHandler
	tcpHandler *modbus.TCPClientHandler
}

// NewTCPClient connects to a tracker controller over Modbus TCP.
func NewTCPClient(address string, slaveID byte) (*Client, error) {
	handler := modbus.NewTCPClientHandler(address)
	handler.SlaveId = slaveID
	handler.Timeout = 1 * time.Second

	err := handler.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	return &Client{
		client:     modbus.NewClient(handler),
		tcpHandler: handler,
	}, nil
}

// NewRTUClient connects to a tracker controller over Modbus RTU.
func NewRTUClient(device string, baudRate int, slaveID byte) (*Client, error) {
	handler := modbus.NewRTUClientHandler(device)
	handler.BaudRate = baudRate
	handler.DataBits = 8
	handler.Parity = "N"
	handler.StopBits = 1
	handler.SlaveId = slaveID
	handler.Timeout = 1 * time.Second

	err := handler.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	return &Client{
		client:  modbus.NewClient(handler),
		handler: handler,
	}, nil
}

// Close closes the Modbus connection
func (c *Client) Close() error {
	if c.handler != nil {
		return c.handler.Close()
	}
	if c.tcpHandler != nil {
		return c.tcpHandler.Close()
	}
	return nil
}

// MoveTo writes azimuth/elevation setpoints and commands the mount to
// track. Azimuth is normalized into [0, 360); elevation is clamped to the
// mount's mechanical range.
func (c *Client) MoveTo(azimuthDeg, elevationDeg float64) error {
	if _, err := c.client.WriteSingleRegister(regAzimuthSetpoint, azimuthToRegister(azimuthDeg)); err != nil {
		return fmt.Errorf("failed to write azimuth setpoint: %v", err)
	}
	if _, err := c.client.WriteSingleRegister(regElevationSetpoint, elevationToRegister(elevationDeg)); err != nil {
		return fmt.Errorf("failed to write elevation setpoint: %v", err)
	}
	if _, err := c.client.WriteSingleRegister(regCommand, CommandTrack); err != nil {
		return fmt.Errorf("failed to write track command: %v", err)
	}
	return nil
}

// Stow commands the mount into its protective stow position. Used when the
// sun is below the horizon or in high-wind conditions.
func (c *Client) Stow() error {
	if _, err := c.client.WriteSingleRegister(regCommand, CommandStow); err != nil {
		return fmt.Errorf("failed to write stow command: %v", err)
	}
	return nil
}

// ReadStatus reads the controller state and actual mount angles.
func (c *Client) ReadStatus() (*Status, error) {
	data, err := c.client.ReadInputRegisters(regState, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to read status registers: %v", err)
	}
	if len(data) < 6 {
		return nil, fmt.Errorf("short status read: got %d bytes, want 6", len(data))
	}

	return &Status{
		State:        bytesToU16(data[0:2]),
		AzimuthDeg:   float64(bytesToU16(data[2:4])) / 100,
		ElevationDeg: float64(bytesToS16(data[4:6])) / 100,
	}, nil
}

// Helper functions for data conversion
func bytesToU16(data []byte) uint16 {
	return binary.BigEndian.Uint16(data)
}

func bytesToS16(data []byte) int16 {
	return int16(binary.BigEndian.Uint16(data))
}

func azimuthToRegister(deg float64) uint16 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return uint16(math.Round(deg * 100))
}

func elevationToRegister(deg float64) uint16 {
	if deg > 90 {
		deg = 90
	}
	if deg < -90 {
		deg = -90
	}
	return uint16(int16(math.Round(deg * 100)))
}
