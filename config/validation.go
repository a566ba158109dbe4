package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredEnvVars lists variables that must be set explicitly per environment
// when the postgres driver is used. Development and Test fall back to defaults.
var requiredEnvVars = map[Environment][]string{
	CI: {
		"DB_HOST",
		"DB_PORT",
		"DB_NAME",
		"DB_PASSWORD",
	},
	Production: {
		"SERVER_PORT",
		"DB_HOST",
		"DB_PORT",
		"DB_NAME",
		"DB_SSL_MODE",
	},
}

// ValidateConfig checks if the configuration meets the requirements for the given environment
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []error

	switch cfg.DBDriver {
	case DriverPostgres:
		for _, envVar := range requiredEnvVars[env] {
			if os.Getenv(envVar) == "" {
				errs = append(errs, ValidationError{Field: envVar, Message: "required environment variable is not set"})
			}
		}
		if env == Production && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "db_password", Message: "secret is required in production"})
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "must not be empty"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must not be empty"})
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT", Message: "must be positive"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be positive"})
	}
	for _, origin := range cfg.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, ValidationError{Field: "CORS_ORIGINS", Message: fmt.Sprintf("invalid origin %q", origin)})
		}
	}

	return errors.Join(errs...)
}
