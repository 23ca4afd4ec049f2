package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Config represents the configuration for the solar tracker service
type Config struct {
	// Site settings
	SiteName  string  `json:"site_name"` // Human-readable site identifier
	Latitude  float64 `json:"latitude"`  // Site latitude in degrees
	Longitude float64 `json:"longitude"` // Site longitude in degrees, positive east

	// Sampling settings
	SampleInterval time.Duration `json:"sample_interval"` // How often to compute the sun position
	DryRun         bool          `json:"dry_run"`         // Simulate mount moves and database writes

	// Web server
	ServerPort int `json:"server_port"` // Port for the HTTP/WebSocket server (0 = disabled)

	// Persistence
	PostgresConnString string `json:"postgres_conn_string"` // PostgreSQL connection string ("" = disabled)
	DeviceID           int    `json:"device_id"`            // Device ID for the sun_positions table

	// Mount controller
	PositionerAddress string `json:"positioner_address"`  // Modbus TCP address (format: IP:PORT, "" = disabled)
	PositionerSlaveID int    `json:"positioner_slave_id"` // Modbus slave ID of the mount controller

	// Logging settings
	LogLevel  string `json:"log_level"`  // Log level: debug, info, warn, error
	LogFormat string `json:"log_format"` // Log format: text, json
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		SiteName:          "riga",
		Latitude:          56.9496, // Riga, Latvia
		Longitude:         24.1052, // Riga, Latvia
		SampleInterval:    1 * time.Minute,
		DryRun:            false,
		ServerPort:        0,
		DeviceID:          0,
		PositionerSlaveID: 1,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	config := DefaultConfig()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config JSON: %w", err)
	}

	return nil
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if c.SiteName == "" {
		return fmt.Errorf("site_name cannot be empty")
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got: %f", c.Latitude)
	}

	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got: %f", c.Longitude)
	}

	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample_interval must be greater than 0, got: %s", c.SampleInterval)
	}

	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server_port must be between 0 and 65535, got: %d", c.ServerPort)
	}

	if c.PositionerAddress != "" {
		if c.PositionerSlaveID < 1 || c.PositionerSlaveID > 246 {
			return fmt.Errorf("positioner_slave_id must be between 1 and 246, got: %d", c.PositionerSlaveID)
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level: %s, must be one of: debug, info, warn, error", c.LogLevel)
	}

	// Validate log format
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format: %s, must be one of: text, json", c.LogFormat)
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling to handle durations
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		SampleInterval string `json:"sample_interval"`
	}{
		Alias:          (*Alias)(c),
		SampleInterval: c.SampleInterval.String(),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling to handle durations
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config
	aux := &struct {
		*Alias
		SampleInterval string `json:"sample_interval"`
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.SampleInterval != "" {
		var err error
		if c.SampleInterval, err = time.ParseDuration(aux.SampleInterval); err != nil {
			return fmt.Errorf("invalid sample_interval: %w", err)
		}
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
