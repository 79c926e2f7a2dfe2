package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"fooddelivery/internal/adapters/out/redisrelay"
	"fooddelivery/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrJWTSecretIsRequired = errors.New("JWT_SECRET is required")
	ErrDBNameIsRequired    = errors.New("DB_NAME is required")
)

type Config struct {
	HTTPPort string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	DBAutoMigrate bool

	JWTSecret         string
	HeartbeatInterval time.Duration
	ShutdownTimeout   time.Duration

	RedisAddr    string
	RedisChannel string

	KafkaBrokers  string
	KafkaTopic    string
	KafkaProducer string

	LogLevel    string
	CORSOrigins []string
}

// LoadConfig reads the optional .env file and the process environment.
// Variables already set in the environment win over .env entries. The result
// is not validated; callers pick Validate or ValidateDB.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort: v.GetString("HTTP_PORT"),

		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSslMode:     v.GetString("DB_SSLMODE"),
		DBAutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),

		JWTSecret:         v.GetString("JWT_SECRET"),
		HeartbeatInterval: v.GetDuration("STREAM_HEARTBEAT_INTERVAL"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),

		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisChannel: v.GetString("REDIS_CHANNEL"),

		KafkaBrokers:  v.GetString("KAFKA_BROKERS"),
		KafkaTopic:    v.GetString("KAFKA_TOPIC"),
		KafkaProducer: v.GetString("KAFKA_PRODUCER"),

		LogLevel:    v.GetString("LOG_LEVEL"),
		CORSOrigins: splitCSV(v.GetString("CORS_ORIGINS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("STREAM_HEARTBEAT_INTERVAL", jobs.DefaultHeartbeatInterval)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_CHANNEL", redisrelay.DefaultChannel)
	v.SetDefault("KAFKA_TOPIC", "orders.events")
	v.SetDefault("KAFKA_PRODUCER", "order-service")
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate fails fast on settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, ErrJWTSecretIsRequired)
	}
	if err := c.ValidateDB(); err != nil {
		errs = append(errs, err)
	}
	if c.HeartbeatInterval <= 0 {
		errs = append(errs, fmt.Errorf("STREAM_HEARTBEAT_INTERVAL must be positive, got %s", c.HeartbeatInterval))
	}
	return errors.Join(errs...)
}

// ValidateDB checks only the database settings, for tools that never serve HTTP.
func (c Config) ValidateDB() error {
	if c.DBName == "" {
		return ErrDBNameIsRequired
	}
	return nil
}

// DSN renders the PostgreSQL connection string in URL form.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return u.String()
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
