package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Credentials holds API secrets sourced from the environment, never from TOML.
type Credentials struct {
	RoostooKey    string `envconfig:"ROOSTOO_API_KEY"`
	RoostooSecret string `envconfig:"ROOSTOO_API_SECRET"`
	HorusKey      string `envconfig:"HORUS_API_KEY"`
}

// LoadCredentials reads .env if present, then the process environment.
// Missing .env is not an error so the same binary runs in containers.
func LoadCredentials() (*Credentials, error) {
	_ = godotenv.Load()

	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// ValidateLive checks that the secrets required for live order flow are set.
// Dry runs can operate without them.
func (c *Credentials) ValidateLive() error {
	if strings.TrimSpace(c.RoostooKey) == "" {
		return errors.New("ROOSTOO_API_KEY is not set")
	}
	if strings.TrimSpace(c.RoostooSecret) == "" {
		return errors.New("ROOSTOO_API_SECRET is not set")
	}
	return nil
}
