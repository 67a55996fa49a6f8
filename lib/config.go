package rolodex

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines the interface for configuration management in the rolodex service.
type Config interface {
	Host() string
	Port() string
	Addr() string
	Title() string
	Version() string
	Description() string
	Environment() string

	StoreDriver() string
	DSN() string
	MongoURI() string
	MongoDatabase() string
	PoolConfig() PoolConfig

	CacheDriver() string
	CacheTTL() time.Duration
	RedisURL() string

	DevMode() bool
	LogFile() string
	LogLevel() string

	OtelEndpoint() string
	MetricsEnabled() bool

	QueryMaxLimit() int
	QueryMaxPatternLength() int
}

// PoolConfig represents connection pool configuration
type PoolConfig struct {
	MaxOpen     int           `yaml:"max_open"`      // Maximum open connections (0 = unlimited)
	MaxIdle     int           `yaml:"max_idle"`      // Maximum idle connections
	MaxLifetime time.Duration `yaml:"max_lifetime"`  // Maximum connection lifetime
	MaxIdleTime time.Duration `yaml:"max_idle_time"` // Maximum connection idle time
}

// zConfig implements the Config interface. Its exported sections mirror the YAML file layout.
type zConfig struct {
	Server struct {
		Host        string `yaml:"host"`
		Port        string `yaml:"port" validate:"required,numeric"`
		Title       string `yaml:"title" validate:"required"`
		Version     string `yaml:"version" validate:"required"`
		Description string `yaml:"description"`
		Environment string `yaml:"environment" validate:"required"`
	} `yaml:"server"`

	Store struct {
		Driver string `yaml:"driver" validate:"oneof=postgres mongo memory"`
	} `yaml:"store"`

	Postgres struct {
		Host     string     `yaml:"host"`
		Port     string     `yaml:"port"`
		DB       string     `yaml:"db"`
		User     string     `yaml:"user"`
		Password string     `yaml:"password"`
		SSLMode  string     `yaml:"sslmode"`
		Pool     PoolConfig `yaml:"pool"`
	} `yaml:"postgres"`

	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`

	Cache struct {
		Driver   string        `yaml:"driver" validate:"oneof=memory redis"`
		TTL      time.Duration `yaml:"ttl" validate:"gt=0"`
		RedisURL string        `yaml:"redis_url"`
	} `yaml:"cache"`

	Log struct {
		DevMode bool   `yaml:"dev_mode"`
		File    string `yaml:"file"`
		Level   string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`

	Telemetry struct {
		OtelEndpoint string `yaml:"otel_endpoint"`
		Metrics      bool   `yaml:"metrics"`
	} `yaml:"telemetry"`

	Query struct {
		MaxLimit         int `yaml:"max_limit" validate:"gte=0"`
		MaxPatternLength int `yaml:"max_pattern_length" validate:"gte=0"`
	} `yaml:"query"`
}

// Host returns the host for the API server.
func (c *zConfig) Host() string {
	return c.Server.Host
}

// Port returns the port for the API server.
func (c *zConfig) Port() string {
	return c.Server.Port
}

// Addr returns the listen address for the API server.
func (c *zConfig) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Title returns the title of the API.
func (c *zConfig) Title() string {
	return c.Server.Title
}

// Version returns the version of the API.
func (c *zConfig) Version() string {
	return c.Server.Version
}

// Description returns the description of the API.
func (c *zConfig) Description() string {
	return c.Server.Description
}

// Environment returns the deployment environment name (development, production, ...).
func (c *zConfig) Environment() string {
	return c.Server.Environment
}

// StoreDriver returns the contact store backend: postgres, mongo or memory.
func (c *zConfig) StoreDriver() string {
	return c.Store.Driver
}

// DSN returns the Data Source Name for connecting to the PostgreSQL database.
func (c *zConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.DB,
		c.Postgres.Port,
		c.Postgres.SSLMode,
	)
}

// MongoURI returns the MongoDB connection string.
func (c *zConfig) MongoURI() string {
	return c.Mongo.URI
}

// MongoDatabase returns the MongoDB database holding the contacts collection.
func (c *zConfig) MongoDatabase() string {
	return c.Mongo.Database
}

// PoolConfig returns the SQL connection pool settings.
func (c *zConfig) PoolConfig() PoolConfig {
	return c.Postgres.Pool
}

// CacheDriver returns the cache backend: memory or redis.
func (c *zConfig) CacheDriver() string {
	return c.Cache.Driver
}

// CacheTTL returns the default expiry of cache entries.
func (c *zConfig) CacheTTL() time.Duration {
	return c.Cache.TTL
}

// RedisURL returns the Redis connection URL used by the redis cache.
func (c *zConfig) RedisURL() string {
	return c.Cache.RedisURL
}

// DevMode reports whether console logging is enabled.
func (c *zConfig) DevMode() bool {
	return c.Log.DevMode
}

// LogFile returns the rotated log file path.
func (c *zConfig) LogFile() string {
	return c.Log.File
}

// LogLevel returns the minimum log level.
func (c *zConfig) LogLevel() string {
	return c.Log.Level
}

// OtelEndpoint returns the OTLP gRPC collector endpoint; empty disables export.
func (c *zConfig) OtelEndpoint() string {
	return c.Telemetry.OtelEndpoint
}

// MetricsEnabled reports whether /metrics is served.
func (c *zConfig) MetricsEnabled() bool {
	return c.Telemetry.Metrics
}

// QueryMaxLimit returns the page size cap for listings; 0 means unbounded.
func (c *zConfig) QueryMaxLimit() int {
	return c.Query.MaxLimit
}

// QueryMaxPatternLength returns the longest accepted regex filter; 0 means unlimited.
func (c *zConfig) QueryMaxPatternLength() int {
	return c.Query.MaxPatternLength
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *zConfig {
	c := &zConfig{}
	c.Server.Port = "5001"
	c.Server.Title = "Rolodex API"
	c.Server.Version = "1.0.0"
	c.Server.Description = "Contact management service"
	c.Server.Environment = "development"

	c.Store.Driver = "postgres"

	c.Postgres.Host = "localhost"
	c.Postgres.Port = "5432"
	c.Postgres.DB = "contacts_db"
	c.Postgres.User = "postgres"
	c.Postgres.Password = "postgres"
	c.Postgres.SSLMode = "disable"
	c.Postgres.Pool = PoolConfig{MaxOpen: 25, MaxIdle: 5, MaxLifetime: 30 * time.Minute}

	c.Mongo.URI = "mongodb://mongodb:27017"
	c.Mongo.Database = "contacts_db"

	c.Cache.Driver = "memory"
	c.Cache.TTL = 5 * time.Minute
	c.Cache.RedisURL = "redis://localhost:6379/0"

	c.Log.DevMode = true
	c.Log.File = ".logs/rolodex.log"
	c.Log.Level = "info"
	return c
}

// DefaultConfig returns the built-in configuration without consulting files or
// the environment.
func DefaultConfig() Config {
	return defaultConfig()
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// the `.env.<environment>` file and finally the process environment.
func LoadConfig(path string) (Config, error) {
	c := defaultConfig()

	if path == "" {
		path = os.Getenv("ROLODEX_CONFIG")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = c.Server.Environment
	}
	// A missing env file is normal outside local development.
	_ = godotenv.Load(".env." + env)

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.Server.Environment = env

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// applyEnv overrides settings from environment variables.
func (c *zConfig) applyEnv() error {
	setString(&c.Server.Host, "API_HOST")
	setString(&c.Server.Port, "API_PORT")
	setString(&c.Server.Title, "API_TITLE")
	setString(&c.Server.Version, "API_VERSION")
	setString(&c.Server.Description, "API_DESCRIPTION")

	setString(&c.Store.Driver, "STORE_DRIVER")

	setString(&c.Postgres.Host, "POSTGRES_HOST")
	setString(&c.Postgres.Port, "POSTGRES_PORT")
	setString(&c.Postgres.DB, "POSTGRES_DB")
	setString(&c.Postgres.User, "POSTGRES_USER")
	setString(&c.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&c.Postgres.SSLMode, "POSTGRES_SSLMODE")

	setString(&c.Mongo.URI, "MONGO_URI")
	setString(&c.Mongo.Database, "MONGO_DB")

	setString(&c.Cache.Driver, "CACHE_DRIVER")
	setString(&c.Cache.RedisURL, "REDIS_URL")
	if err := setDuration(&c.Cache.TTL, "CACHE_TTL"); err != nil {
		return err
	}

	setString(&c.Log.File, "LOG_FILE")
	setString(&c.Log.Level, "LOG_LEVEL")
	if err := setBool(&c.Log.DevMode, "DEV_MODE"); err != nil {
		return err
	}

	setString(&c.Telemetry.OtelEndpoint, "OTEL_ENDPOINT")
	if err := setBool(&c.Telemetry.Metrics, "METRICS_ENABLED"); err != nil {
		return err
	}

	if err := setInt(&c.Query.MaxLimit, "QUERY_MAX_LIMIT"); err != nil {
		return err
	}
	return setInt(&c.Query.MaxPatternLength, "QUERY_MAX_PATTERN_LENGTH")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = i
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
