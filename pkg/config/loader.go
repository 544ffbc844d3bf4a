package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvOnce ensures the .env file is read at most once per process, before
// the first config struct is parsed.
var dotenvOnce sync.Once

// Load parses environment variables into the provided configuration struct
// using caarlos0/env field tags. A .env file in the working directory is
// loaded first when present; a missing file is not an error.
//
// Example:
//
//	type StripeConfig struct {
//		SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
//		WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
//	}
//
//	var cfg StripeConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration the
// application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
