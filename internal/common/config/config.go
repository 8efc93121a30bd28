// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Server       ServerConfig            `mapstructure:"server"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Datasets     DatasetsConfig          `mapstructure:"datasets"`
	Profiles     ProfilesConfig          `mapstructure:"profiles"`
	Gateway      GatewayConfig           `mapstructure:"gateway"`
	Intents      map[string]WorkerConfig `mapstructure:"intents"`
	RegistryPath string                  `mapstructure:"registry_path"`
	Messages     map[string]string       `mapstructure:"messages"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Tracing      TracingConfig           `mapstructure:"tracing"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development staging production test"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active" validate:"gte=0"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Dataset sources.
const (
	SourceFile          = "file"
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
)

// DatasetsConfig selects where the read-only tables come from.
type DatasetsConfig struct {
	Source       string `mapstructure:"source" validate:"oneof=file postgres"`
	MoviesSource string `mapstructure:"movies_source" validate:"oneof=file postgres elasticsearch"`
	Dir          string `mapstructure:"dir"`
	MoviesIndex  string `mapstructure:"movies_index"`
	MoviesLimit  int    `mapstructure:"movies_limit" validate:"gte=0"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// Profile store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// ProfilesConfig selects and tunes the profile store.
type ProfilesConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=memory redis postgres"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	TTL        int    `mapstructure:"ttl"` // seconds, 0 disables expiry
	MaxRetries int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelay int    `mapstructure:"retry_delay" validate:"gte=0"` // milliseconds, doubled per conflict
}

// GatewayConfig configures the external fact services.
type GatewayConfig struct {
	JokeURL    string `mapstructure:"joke_url" validate:"omitempty,url"`
	AdviceURL  string `mapstructure:"advice_url" validate:"omitempty,url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries" validate:"gte=0"`
}

// WorkerConfig holds the settings applicable to every intent worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}

// TracingConfig enables span export. An empty endpoint disables tracing.
type TracingConfig struct {
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint" validate:"omitempty,url"`
	SampleRatio    float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}
