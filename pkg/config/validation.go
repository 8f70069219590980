package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for invalid values.
//
// Struct-tag validation (via go-playground/validator) covers ranges and
// enumerations; cross-field rules are checked explicitly afterwards.
func Validate(cfg *Config) error {
	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if cfg.Auth.Backend == "ldap" {
		if err := cfg.Auth.LDAP.Validate(); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	return nil
}
