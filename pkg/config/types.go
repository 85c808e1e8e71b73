package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent fes configuration stored as config.toml
// in the .fes/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Stream  StreamConfig `toml:"stream"`
	Kafka   KafkaConfig  `toml:"kafka"`
	Log     LogConfig    `toml:"log"`
}

// StreamConfig holds settings applied to every subscription.
type StreamConfig struct {
	// Method is the HTTP method used for stream requests.
	Method string `toml:"method,omitempty"`

	// InitialRetryMs is the reconnect interval in milliseconds used until
	// the server sends a retry field.
	InitialRetryMs int `toml:"initial_retry_ms,omitempty"`
}

// KafkaConfig holds settings for the optional Kafka republishing sink.
type KafkaConfig struct {
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// LogConfig holds logging output settings.
type LogConfig struct {
	JSON   bool   `toml:"json,omitempty"`
	Pretty bool   `toml:"pretty,omitempty"`
	File   string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"stream.method": {
		get: func(c *Config) string { return c.Stream.Method },
		set: func(c *Config, v string) error { c.Stream.Method = v; return nil },
	},
	"stream.initial_retry_ms": {
		get: func(c *Config) string {
			if c.Stream.InitialRetryMs == 0 {
				return ""
			}
			return strconv.Itoa(c.Stream.InitialRetryMs)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid value for stream.initial_retry_ms: %q", v)
			}
			c.Stream.InitialRetryMs = n
			return nil
		},
	},
	"kafka.brokers": {
		get: func(c *Config) string { return strings.Join(c.Kafka.Brokers, ",") },
		set: func(c *Config, v string) error {
			if v == "" {
				c.Kafka.Brokers = nil
				return nil
			}
			c.Kafka.Brokers = strings.Split(v, ",")
			return nil
		},
	},
	"kafka.topic": {
		get: func(c *Config) string { return c.Kafka.Topic },
		set: func(c *Config, v string) error { c.Kafka.Topic = v; return nil },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for log.json: %w", err)
			}
			c.Log.JSON = b
			return nil
		},
	},
	"log.pretty": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.Pretty) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for log.pretty: %w", err)
			}
			c.Log.Pretty = b
			return nil
		},
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
}
