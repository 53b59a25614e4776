package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// LoadEnv reads TUIMORSE_* variables. A .env file in the working
// directory is loaded first when present; real environment wins.
func LoadEnv() (FileConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return FileConfig{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return parseEnv(env.Options{})
}

func parseEnv(opts env.Options) (FileConfig, error) {
	var cfg FileConfig
	if err := env.Parse(&cfg.Playback, opts); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := env.Parse(&cfg.Drill, opts); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Load merges the config file at path with the environment.
func Load(path string) (FileConfig, error) {
	fileCfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	envCfg, err := LoadEnv()
	if err != nil {
		return FileConfig{}, err
	}
	return Overlay(fileCfg, envCfg), nil
}
