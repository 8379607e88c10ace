package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicMag     string
	TopicHeading string

	// Magnetometer hardware
	MagI2CBus  string
	MagI2CAddr uint16

	// Magnetometer settings. Values must match a chip table entry
	// exactly; the driver rejects anything else.
	// Sample rate: 10, 50, 100 or 200 Hz
	MagSampleRateHz int
	// Full-scale range: 2 or 8 Gauss
	MagRangeGauss int
	// Oversampling ratio: 512, 256, 128 or 64
	MagOversample int

	// Mount matrix, row-major. Passed through to consumers unchanged.
	MountMatrix [9]float64

	// Timing
	CaptureInterval int // milliseconds

	// Web server
	WebServerPort     int
	RegisterDebugPort int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{
		MagI2CAddr:  0x0D,
		MountMatrix: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_MAG":
		c.TopicMag = value
	case "TOPIC_HEADING":
		c.TopicHeading = value

	// Magnetometer hardware
	case "MAG_I2C_BUS":
		c.MagI2CBus = value
	case "MAG_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid MAG_I2C_ADDR %q: %w", value, err)
		}
		c.MagI2CAddr = uint16(addr)

	// Magnetometer settings
	case "MAG_SAMPLE_RATE_HZ":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_SAMPLE_RATE_HZ %q: %w", value, err)
		}
		if rate <= 0 {
			return fmt.Errorf("MAG_SAMPLE_RATE_HZ must be positive, got %d", rate)
		}
		c.MagSampleRateHz = rate
	case "MAG_RANGE_GAUSS":
		rng, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_RANGE_GAUSS %q: %w", value, err)
		}
		if rng != 2 && rng != 8 {
			return fmt.Errorf("MAG_RANGE_GAUSS must be 2 or 8, got %d", rng)
		}
		c.MagRangeGauss = rng
	case "MAG_OVERSAMPLE":
		osr, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAG_OVERSAMPLE %q: %w", value, err)
		}
		if osr <= 0 {
			return fmt.Errorf("MAG_OVERSAMPLE must be positive, got %d", osr)
		}
		c.MagOversample = osr

	// Mount matrix
	case "MOUNT_MATRIX":
		fields := strings.Split(value, ",")
		if len(fields) != 9 {
			return fmt.Errorf("MOUNT_MATRIX needs 9 comma-separated values, got %d", len(fields))
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return fmt.Errorf("invalid MOUNT_MATRIX element %d %q: %w", i, f, err)
			}
			c.MountMatrix[i] = v
		}

	// Timing
	case "CAPTURE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CAPTURE_INTERVAL %q: %w", value, err)
		}
		c.CaptureInterval = interval

	// Web server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "REGISTER_DEBUG_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid REGISTER_DEBUG_PORT %q: %w", value, err)
		}
		c.RegisterDebugPort = port

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.CaptureInterval == 0 {
		return fmt.Errorf("CAPTURE_INTERVAL is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called
// multiple times.
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
