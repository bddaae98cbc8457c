package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads configuration from process environment variables.
//
// Recognized variables:
//
//	PORT           - server port (default "8080")
//	ENVIRONMENT    - runtime environment (default "development")
//	DATABASE_URL   - postgres connection string; empty means in-memory
//	DATABASE_TYPE  - "memory" or "postgres" (inferred from DATABASE_URL if unset)
//	RUN_MIGRATIONS - run pending schema migrations at startup (default true)
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("reading environment: %w", err)
		}
		if c.DatabaseURL != "" && c.DatabaseType == "memory" {
			c.DatabaseType = "postgres"
		}
		return nil
	}
}
