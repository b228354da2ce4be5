// Package config loads environment-based configuration structs.
//
// Configuration is declared as plain structs with `env:` and `envDefault:`
// tags and parsed with caarlos0/env. A .env file in the working directory is
// loaded once, lazily, as a development convenience; real environments are
// expected to provide variables directly.
package config
