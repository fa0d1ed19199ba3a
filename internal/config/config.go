package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/yukikurage/teamboard-api/internal/constants"
)

type Config struct {
	Addr          string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	TokenTTL      time.Duration
	GinMode       string
	CORSOrigins   []string
	PublicReads   bool
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LogLevel      string
	SeedFile      string
}

// Load reads configuration from the environment. Variables defined in the
// given .env files (or ".env" when none is given) are loaded first; missing
// files are ignored and real environment variables always win.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	return &Config{
		Addr:          getEnv("SERVER_ADDR", ":8080"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "taskuser"),
		DBPassword:    getEnv("DB_PASSWORD", "taskpassword"),
		DBName:        getEnv("DB_NAME", "teamboard"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:      getDuration("TOKEN_TTL", constants.DefaultTokenTTL),
		GinMode:       getEnv("GIN_MODE", "debug"),
		CORSOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		PublicReads:   getBool("PUBLIC_READS", false),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SeedFile:      getEnv("SEED_FILE", ""),
	}
}

// BindFlags registers command-line overrides for cfg on fs. Flag defaults
// are the values already present in cfg, so parsing fs only changes what
// was passed explicitly.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "database driver: mysql, postgres or sqlite")
	fs.StringVar(&cfg.DBName, "db-name", cfg.DBName, "database name (file path for sqlite)")
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "YAML fixture applied at start-up")
	fs.BoolVar(&cfg.PublicReads, "public-reads", cfg.PublicReads, "serve task and comment reads without authentication")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
