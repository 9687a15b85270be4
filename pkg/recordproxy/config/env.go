package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings the CLI reads from the environment. Flags
// override them.
type Env struct {
	Store    string `env:"RECORDPROXY_STORE" envDefault:"sqlite"`
	DB       string `env:"RECORDPROXY_DB" envDefault:"recordproxy.db"`
	URLRoot  string `env:"RECORDPROXY_URL_ROOT" envDefault:"/records"`
	LogLevel string `env:"RECORDPROXY_LOG_LEVEL" envDefault:"warn"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	return cfg, nil
}

// ParseEnv loads environment variables into target, a pointer to a struct
// with env tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
