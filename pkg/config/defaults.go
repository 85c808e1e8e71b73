package config

const (
	defaultStreamMethod   = "GET"
	defaultInitialRetryMs = 1000

	defaultKafkaTopic = "fes.messages"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Stream: StreamConfig{
			Method:         defaultStreamMethod,
			InitialRetryMs: defaultInitialRetryMs,
		},
		Kafka: KafkaConfig{
			Topic: defaultKafkaTopic,
		},
		Log: LogConfig{
			Pretty: true,
		},
	}
}
