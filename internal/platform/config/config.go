// Pacote config centraliza o carregamento das variáveis de ambiente usadas pelos binários.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config agrega os parâmetros de API, worker e CLI administrativo.
type Config struct {
	HTTPAddress string

	DBDriver         string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string
	AutoMigrate      bool

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	QueueKey      string
	CounterPrefix string

	RateLimitEnabled       bool
	RateLimitMaxActions    int
	RateLimitWindowSeconds int
	RateLimitKeyPrefix     string

	RequireActiveNomination bool

	WorkerMetricsAddress string
	LogLevel             string
}

func Load() (Config, error) {
	// Defaults priorizam execução local; variáveis permitem sobrescrever em Docker/K8s.
	cfg := Config{
		HTTPAddress:             getEnv("HTTP_ADDRESS", ":8080"),
		DBDriver:                strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		PostgresHost:            getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:            getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:            getEnv("POSTGRES_USER", "premiacao"),
		PostgresPassword:        getEnv("POSTGRES_PASSWORD", "premiacao"),
		PostgresDB:              getEnv("POSTGRES_DB", "premiacao"),
		PostgresSSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:              getEnv("SQLITE_PATH", "premiacao.db"),
		AutoMigrate:             getEnvAsBool("DB_AUTO_MIGRATE", true),
		RedisEnabled:            getEnvAsBool("REDIS_ENABLED", true),
		RedisAddr:               getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		QueueKey:                getEnv("REDIS_QUEUE_KEY", "fila:votos"),
		CounterPrefix:           getEnv("REDIS_COUNTER_PREFIX", "contador"),
		RateLimitEnabled:        getEnvAsBool("ANTIFRAUDE_RATE_LIMIT_ENABLED", true),
		RateLimitMaxActions:     getEnvAsInt("ANTIFRAUDE_RATE_LIMIT_MAX", 30),
		RateLimitWindowSeconds:  getEnvAsInt("ANTIFRAUDE_RATE_LIMIT_WINDOW", 60),
		RateLimitKeyPrefix:      getEnv("ANTIFRAUDE_RATE_LIMIT_PREFIX", "ratelimit"),
		RequireActiveNomination: getEnvAsBool("VOTING_REQUIRE_ACTIVE", true),
		WorkerMetricsAddress:    getEnv("WORKER_METRICS_ADDRESS", ":9090"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("config: DB_DRIVER invalido: %q", cfg.DBDriver)
	}

	return cfg, nil
}

// DSN devolve a string de conexão do driver escolhido.
func (c Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return c.PostgresDSN()
}

func (c Config) PostgresDSN() string {
	// Mantemos o formato DSN compatível com GORM e ferramentas de migração.
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}
