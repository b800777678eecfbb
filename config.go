package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// KeyEnvVar supplies key material without putting it on the command line
const KeyEnvVar = "PPDECRYPT_KEY"

// Config is read from the environment; flags given on the command line win
type Config struct {
	Key        string `env:"PPDECRYPT_KEY"`
	KeyLengths []int  `env:"PPDECRYPT_KEY_LENGTHS"`
	BlobPath   string `env:"PPDECRYPT_BLOB_PATH"`
	LogLevel   string `env:"PPDECRYPT_LOG_LEVEL, default=warn"`
}

// loadConfig loads envpath (if set) into the process environment, then reads
// Config through lookuper. A nil lookuper reads the OS environment.
func loadConfig(ctx context.Context, envpath string, lookuper envconfig.Lookuper) (*Config, error) {
	if envpath != "" {
		if err := godotenv.Load(envpath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envpath, err)
		}
	}
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if len(cfg.KeyLengths) == 0 {
		cfg.KeyLengths = append([]int(nil), DefaultKeyLengths...)
	}
	for _, k := range cfg.KeyLengths {
		if k < 1 {
			return nil, fmt.Errorf("invalid configuration: key length %d must be positive", k)
		}
	}
	return cfg, nil
}
