package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, Postgres connection details and factor parameters.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=hffactors
//	DATA_DIR=./data/input
//	OUTPUT_FORMAT=xlsx
//	FACTOR_WINDOW=60
//	FACTOR_FAK_ORDER_KIND=U
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Postgres  PostgresConfig  // PostgreSQL connection settings
	Data      DataConfig      // input and output locations
	Factor    FactorConfig    // engine parameters
	Pipeline  PipelineConfig  // batch behavior
	RateLimit RateLimitConfig // per-client API limits
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DataConfig locates day files and exports.
type DataConfig struct {
	InputDir     string
	OutputDir    string
	OutputFormat string   // csv | xlsx
	GridSource   string   // file | session | auto
	Sessions     []string // "09:15-11:30" style ranges used when the grid is synthesized
}

// FactorConfig mirrors factor.Params.
type FactorConfig struct {
	Window        int
	PeriodSeconds int
	Parallel      int
	FAKOrderKind  string
}

// PipelineConfig controls the compute job.
type PipelineConfig struct {
	ParallelDays int
	Persist      bool
}

// RateLimitConfig is a token bucket per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "hffactors")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("DATA_DIR", "./data/input")
	viper.SetDefault("OUTPUT_DIR", "./data/output")
	viper.SetDefault("OUTPUT_FORMAT", "csv")
	viper.SetDefault("GRID_SOURCE", "auto")
	viper.SetDefault("TRADING_SESSIONS", "09:15-11:30,13:00-15:00")

	viper.SetDefault("FACTOR_WINDOW", 60)
	viper.SetDefault("FACTOR_PERIOD_SECONDS", 300)
	viper.SetDefault("FACTOR_PARALLEL", 0)
	viper.SetDefault("FACTOR_FAK_ORDER_KIND", "")

	viper.SetDefault("PIPELINE_PARALLEL_DAYS", 1)
	viper.SetDefault("PERSIST", true)

	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 60)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Data: DataConfig{
			InputDir:     viper.GetString("DATA_DIR"),
			OutputDir:    viper.GetString("OUTPUT_DIR"),
			OutputFormat: strings.ToLower(viper.GetString("OUTPUT_FORMAT")),
			GridSource:   strings.ToLower(viper.GetString("GRID_SOURCE")),
			Sessions:     splitList(viper.GetString("TRADING_SESSIONS")),
		},
		Factor: FactorConfig{
			Window:        viper.GetInt("FACTOR_WINDOW"),
			PeriodSeconds: viper.GetInt("FACTOR_PERIOD_SECONDS"),
			Parallel:      viper.GetInt("FACTOR_PARALLEL"),
			FAKOrderKind:  viper.GetString("FACTOR_FAK_ORDER_KIND"),
		},
		Pipeline: PipelineConfig{
			ParallelDays: viper.GetInt("PIPELINE_PARALLEL_DAYS"),
			Persist:      viper.GetBool("PERSIST"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// splitList splits a comma separated value and drops empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and valid, and
// terminates the application otherwise.
//
// Behavior:
//   - Collects missing and invalid fields.
//   - If any are found, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	if problems := configProblems(AppConfig); len(problems) > 0 {
		log.Fatalf("invalid configuration: %v\n", problems)
	}
}

// configProblems lists every missing or invalid setting of c.
func configProblems(c Config) []string {
	var problems []string

	if c.Server.Port == "" {
		problems = append(problems, "SERVER_PORT")
	}
	if c.Postgres.Host == "" {
		problems = append(problems, "POSTGRES_HOST")
	}
	if c.Postgres.Port == 0 {
		problems = append(problems, "POSTGRES_PORT")
	}
	if c.Postgres.User == "" {
		problems = append(problems, "POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		problems = append(problems, "POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		problems = append(problems, "POSTGRES_DB")
	}
	if c.Data.InputDir == "" {
		problems = append(problems, "DATA_DIR")
	}
	switch c.Data.OutputFormat {
	case "csv", "xlsx":
	default:
		problems = append(problems, fmt.Sprintf("OUTPUT_FORMAT=%q (want csv|xlsx)", c.Data.OutputFormat))
	}
	if c.Factor.Window < 1 {
		problems = append(problems, "FACTOR_WINDOW must be >= 1")
	}
	if c.Factor.PeriodSeconds < 1 {
		problems = append(problems, "FACTOR_PERIOD_SECONDS must be >= 1")
	}
	if c.Pipeline.ParallelDays < 1 {
		problems = append(problems, "PIPELINE_PARALLEL_DAYS must be >= 1")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		problems = append(problems, "RATE_LIMIT_RPS/RATE_LIMIT_BURST must be positive")
	}
	return problems
}
