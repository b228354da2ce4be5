package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var loadDotEnv sync.Once

// Load populates the given configuration struct from environment variables
// based on `env:` field tags. On first use it also loads a .env file from the
// working directory if one exists; a missing .env file is not an error.
//
// Example:
//
//	type StoreConfig struct {
//		URL     string        `env:"REDIS_URL,required"`
//		Timeout time.Duration `env:"REDIS_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv.Do(func() {
		// The .env file is a development convenience and optional.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// without which the process cannot start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(err)
	}
}
