package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every variable read by LoadEnv.
const EnvPrefix = "SECTIONS_"

// LoadEnv starts from DefaultConfig, loads the given dotenv files (".env"
// when none are named) and overlays SECTIONS_* environment variables.
// Missing dotenv files are ignored; variables already set in the process
// environment win over dotenv values.
func LoadEnv(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("sections config: load %s: %w", file, err)
		}
	}
	return ParseEnv(nil)
}

// ParseEnv overlays variables onto DefaultConfig. A nil environment reads
// the process environment.
func ParseEnv(environment map[string]string) (Config, error) {
	cfg := DefaultConfig()
	opts := env.Options{Prefix: EnvPrefix}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("sections config: parse environment: %w", err)
	}
	return cfg, nil
}
