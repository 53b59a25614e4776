// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Playback PlaybackConfig `toml:"playback"`
	Drill    DrillConfig    `toml:"drill"`
}

// PlaybackConfig maps playback settings. Nil means unset.
type PlaybackConfig struct {
	UnitMs    *int     `toml:"unit-ms" env:"TUIMORSE_UNIT_MS"`
	WPM       *int     `toml:"wpm" env:"TUIMORSE_WPM"`
	Backend   *string  `toml:"backend" env:"TUIMORSE_BACKEND"`
	Pairing   *string  `toml:"pairing" env:"TUIMORSE_PAIRING"`
	Frequency *float64 `toml:"frequency" env:"TUIMORSE_FREQUENCY"`
}

// DrillConfig maps drill settings.
type DrillConfig struct {
	Groups    *int    `toml:"groups" env:"TUIMORSE_DRILL_GROUPS"`
	GroupSize *int    `toml:"group-size" env:"TUIMORSE_DRILL_GROUP_SIZE"`
	Chars     *string `toml:"chars" env:"TUIMORSE_DRILL_CHARS"`
	Wordlist  *string `toml:"wordlist" env:"TUIMORSE_DRILL_WORDLIST"`
	MaxLen    *int    `toml:"max-len" env:"TUIMORSE_DRILL_MAX_LEN"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Overlay copies every value set in top over base.
func Overlay(base, top FileConfig) FileConfig {
	out := base
	overlay(&out.Playback.UnitMs, top.Playback.UnitMs)
	overlay(&out.Playback.WPM, top.Playback.WPM)
	overlay(&out.Playback.Backend, top.Playback.Backend)
	overlay(&out.Playback.Pairing, top.Playback.Pairing)
	overlay(&out.Playback.Frequency, top.Playback.Frequency)
	overlay(&out.Drill.Groups, top.Drill.Groups)
	overlay(&out.Drill.GroupSize, top.Drill.GroupSize)
	overlay(&out.Drill.Chars, top.Drill.Chars)
	overlay(&out.Drill.Wordlist, top.Drill.Wordlist)
	overlay(&out.Drill.MaxLen, top.Drill.MaxLen)
	return out
}

func overlay[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
