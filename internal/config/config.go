// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("invalid config")

// Config holds all gateway configuration values.
type Config struct {
	MQTT        MQTTConfig         `yaml:"mqtt"`
	NMEA0183    []SerialLineConfig `yaml:"nmea0183"`
	NMEA2000    NMEA2000Config     `yaml:"nmea2000"`
	NMEA0183Out NMEA0183OutConfig  `yaml:"nmea0183_out"`
	NMEA2000Out NMEA2000OutConfig  `yaml:"nmea2000_out"`
	Web         WebConfig          `yaml:"web"`
	Barometer   BarometerConfig    `yaml:"barometer"`
	Display     DisplayConfig      `yaml:"display"`
	IMU         IMUConfig          `yaml:"imu"`
	Hub         HubConfig          `yaml:"hub"`
}

type MQTTConfig struct {
	Enable          bool   `yaml:"enable"`
	Broker          string `yaml:"broker"`
	ClientID        string `yaml:"client_id"`
	ConsoleClientID string `yaml:"console_client_id"`
	Topic           string `yaml:"topic"`
}

// SerialLineConfig describes one NMEA0183 port. Input selects which of the
// two logical NMEA0183 inputs updates decoded from the port are tagged with.
// Output lines receive the encoded sentences of updates from other inputs.
type SerialLineConfig struct {
	Name   string `yaml:"name"`
	Enable bool   `yaml:"enable"`
	Port   string `yaml:"port"`
	Baud   uint   `yaml:"baud"`
	Input  int    `yaml:"input"`
	Output bool   `yaml:"output"`
}

type NMEA2000Config struct {
	Enable    bool   `yaml:"enable"`
	Interface string `yaml:"interface"`
	// Source is the bus address the gateway sends from.
	Source uint8 `yaml:"source"`
}

type NMEA0183OutConfig struct {
	Talker    string `yaml:"talker"`
	Batteries bool   `yaml:"batteries"`
	Barometer bool   `yaml:"barometer"`
	Attitude  bool   `yaml:"attitude"`
	Heading   bool   `yaml:"heading"`
	Rudder    bool   `yaml:"rudder"`
	Wind      bool   `yaml:"wind"`
}

type NMEA2000OutConfig struct {
	// Batteries maps battery names to NMEA2000 instance numbers.
	Batteries map[string]uint8 `yaml:"batteries"`
	QueueSize int              `yaml:"queue_size"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

type BarometerConfig struct {
	Enable bool `yaml:"enable"`
	// Bus is the periph I2C bus name, empty for the first bus found.
	Bus      string        `yaml:"bus"`
	Address  uint16        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
}

type DisplayConfig struct {
	Enable   bool          `yaml:"enable"`
	Bus      string        `yaml:"bus"`
	Address  uint16        `yaml:"address"`
	Interval time.Duration `yaml:"interval"`
}

// IMUConfig is the MPU9250 on SPI that supplies roll and pitch.
type IMUConfig struct {
	Enable    bool   `yaml:"enable"`
	SPIDevice string `yaml:"spi_device"`
	CSPin     string `yaml:"cs_pin"`
	// Calibrate runs the self-test and bias calibration at start; the boat
	// must be level and still.
	Calibrate bool          `yaml:"calibrate"`
	Interval  time.Duration `yaml:"interval"`
}

type HubConfig struct {
	MaxSubscribers int `yaml:"max_subscribers"`
	UpdateCapacity int `yaml:"update_capacity"`
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot modify it without locking.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a configuration with every default applied and all
// collaborators disabled.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return Parse(b)
}

// Parse is Load without the file.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = "tcp://localhost:1883"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "marine-gateway"
	}
	if c.MQTT.ConsoleClientID == "" {
		c.MQTT.ConsoleClientID = "marine-gateway-console"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "marine/updates"
	}

	for i := range c.NMEA0183 {
		l := &c.NMEA0183[i]
		if l.Baud == 0 {
			l.Baud = 4800
		}
		if l.Input == 0 {
			l.Input = 1
		}
		if l.Name == "" {
			l.Name = fmt.Sprintf("nmea0183-%d", i+1)
		}
	}

	if c.NMEA2000.Interface == "" {
		c.NMEA2000.Interface = "can0"
	}
	if c.NMEA2000.Source == 0 {
		c.NMEA2000.Source = 35
	}

	if c.NMEA0183Out.Talker == "" {
		c.NMEA0183Out.Talker = "II"
	}

	if c.NMEA2000Out.Batteries == nil {
		c.NMEA2000Out.Batteries = map[string]uint8{"engine": 0, "house": 1}
	}
	if c.NMEA2000Out.QueueSize == 0 {
		c.NMEA2000Out.QueueSize = 16
	}

	if c.Web.Listen == "" {
		c.Web.Listen = ":8080"
	}

	if c.Barometer.Address == 0 {
		c.Barometer.Address = 0x76
	}
	if c.Barometer.Interval <= 0 {
		c.Barometer.Interval = 5 * time.Second
	}

	if c.Display.Address == 0 {
		c.Display.Address = 0x3C
	}
	if c.Display.Interval <= 0 {
		c.Display.Interval = time.Second
	}

	if c.IMU.SPIDevice == "" {
		c.IMU.SPIDevice = "/dev/spidev6.0"
	}
	if c.IMU.CSPin == "" {
		c.IMU.CSPin = "18"
	}
	if c.IMU.Interval <= 0 {
		c.IMU.Interval = 200 * time.Millisecond
	}

	if c.Hub.MaxSubscribers == 0 {
		c.Hub.MaxSubscribers = 16
	}
	if c.Hub.UpdateCapacity == 0 {
		c.Hub.UpdateCapacity = 16
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// validate checks the values defaults cannot fix.
func (c *Config) validate() error {
	if c.MQTT.Enable && !strings.Contains(c.MQTT.Broker, "://") {
		return invalid("mqtt.broker %q must be a URL such as tcp://host:1883", c.MQTT.Broker)
	}

	names := make(map[string]bool, len(c.NMEA0183))
	for i, l := range c.NMEA0183 {
		if names[l.Name] {
			return invalid("nmea0183[%d].name %q is duplicated", i, l.Name)
		}
		names[l.Name] = true
		if l.Input != 1 && l.Input != 2 {
			return invalid("nmea0183[%d].input must be 1 or 2, got %d", i, l.Input)
		}
		if l.Enable && l.Port == "" {
			return invalid("nmea0183[%d].port is required when enable is true", i)
		}
	}

	if c.NMEA2000.Source > 251 {
		return invalid("nmea2000.source must be 0-251, got %d", c.NMEA2000.Source)
	}

	if len(c.NMEA0183Out.Talker) != 2 {
		return invalid("nmea0183_out.talker must be two characters, got %q", c.NMEA0183Out.Talker)
	}

	if c.NMEA2000Out.QueueSize < 0 {
		return invalid("nmea2000_out.queue_size must be > 0")
	}

	if c.Barometer.Address > 0x7F {
		return invalid("barometer.address 0x%X is not a 7-bit I2C address", c.Barometer.Address)
	}
	if c.Display.Address > 0x7F {
		return invalid("display.address 0x%X is not a 7-bit I2C address", c.Display.Address)
	}

	if c.Hub.MaxSubscribers < 1 {
		return invalid("hub.max_subscribers must be > 0")
	}
	if c.Hub.UpdateCapacity < 1 || c.Hub.UpdateCapacity > 24 {
		return invalid("hub.update_capacity must be 1-24, got %d", c.Hub.UpdateCapacity)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
