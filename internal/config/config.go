package config

import (
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// ErrMissingDatabaseConfig is returned when neither MYSQL_DSN nor the
// DB_NAME/DB_USER pair is set. The server refuses to start without it.
var ErrMissingDatabaseConfig = errors.New("database configuration missing: set MYSQL_DSN or DB_NAME and DB_USER")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBHost   string
	DBPort   string
	DBName   string
	DBUser   string
	DBPass   string
	MySQLDSN string

	RunMigrations bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	// SessionStore is "redis" or "memory".
	SessionStore  string
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	SwaggerHost string
	LogLevel    string
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        os.Getenv("DB_NAME"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		MySQLDSN:      os.Getenv("MYSQL_DSN"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "redis")),
		SessionSecret: getEnv("SESSION_SECRET", "change-me"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),
		SwaggerHost:   os.Getenv("SWAGGER_HOST"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.MySQLDSN == "" {
		if cfg.DBName == "" || cfg.DBUser == "" {
			return nil, ErrMissingDatabaseConfig
		}
		cfg.MySQLDSN = cfg.buildDSN()
	}
	return cfg, nil
}

func (c *Config) buildDSN() string {
	dsn := mysqldriver.NewConfig()
	dsn.User = c.DBUser
	dsn.Passwd = c.DBPass
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	dsn.DBName = c.DBName
	dsn.ParseTime = true
	dsn.Loc = time.Local
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
