// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueCapacity bounds the pending scoring queue.
	QueueCapacity int `koanf:"queue_capacity"`

	// TickIntervalMS sets the scheduler tick interval in milliseconds.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// LeaseTTLMin bounds the worker lease in minutes.
	LeaseTTLMin int `koanf:"lease_ttl_min"`

	// StatusTTLMin bounds queued/running status marks in minutes.
	StatusTTLMin int `koanf:"status_ttl_min"`

	// MaxAttempts caps pipeline runs per job.
	MaxAttempts int `koanf:"max_attempts"`

	// Twitter API credentials (OAuth1).
	ConsumerKey       string `koanf:"consumer_key"`
	ConsumerSecret    string `koanf:"consumer_secret"`
	AccessToken       string `koanf:"access_token"`
	AccessTokenSecret string `koanf:"access_token_secret"`

	// Postgres connection for the score store.
	PostgresHost     string `koanf:"postgres_host"`
	PostgresPort     int    `koanf:"postgres_port"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresUser     string `koanf:"postgres_user"`
	PostgresPassword string `koanf:"postgres_password"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		QueueCapacity:  10_000,
		TickIntervalMS: 500,
		LeaseTTLMin:    180,
		StatusTTLMin:   180,
		MaxAttempts:    3,
		PostgresHost:   "localhost",
		PostgresPort:   5432,
		PostgresDB:     "finch",
		PostgresUser:   "finch",
	}
}
