// Package config loads franklin settings: embedded defaults, then the user's
// XDG config file, then FRANKLIN_* environment overrides, each layer
// overriding the previous one.
package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/franklin/pkg/errors"
)

//go:embed franklin.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Config holds all user-tunable settings.
type Config struct {
	MOTD   MOTDConfig   `koanf:"motd"`
	Update UpdateConfig `koanf:"update"`
	Deps   DepsConfig   `koanf:"deps"`
}

// MOTDConfig controls the login banner.
type MOTDConfig struct {
	// Color is a Campfire palette name or a #rrggbb hex value.
	Color    string `koanf:"color"`
	MaxWidth int    `koanf:"max_width"`
	MinWidth int    `koanf:"min_width"`
}

// UpdateConfig controls the update orchestration engine.
type UpdateConfig struct {
	SpinnerIntervalMS int `koanf:"spinner_interval_ms"`
	TailLines         int `koanf:"tail_lines"`
	SettleDelayMS     int `koanf:"settle_delay_ms"`
}

// DepsConfig controls the reconciliation pass.
type DepsConfig struct {
	// Manifest overrides the embedded dependency manifest when set.
	Manifest string `koanf:"manifest"`
}

// Path returns the user config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "franklin", "franklin.toml")
}

// Load reads the layered configuration.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	path := Path()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load user config").
				WithDetail("path", path)
		}
	}

	// FRANKLIN_MOTD_COLOR maps to motd.color, and so on. An exported but
	// empty variable is skipped rather than erasing the configured value.
	if err := k.Load(env.ProviderWithValue("FRANKLIN_", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(key, "FRANKLIN_")), "_", ".", 1), value
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "failed to decode config")
	}
	return &cfg, nil
}

// SaveMOTDColor persists the banner color choice, preserving any other
// settings already present in the user config file.
func SaveMOTDColor(name, hex string) error {
	path := Path()

	settings := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := gotoml.Unmarshal(data, &settings); err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "existing config is not valid TOML").
				WithDetail("path", path)
		}
	}

	motd, _ := settings["motd"].(map[string]interface{})
	if motd == nil {
		motd = map[string]interface{}{}
	}
	motd["color"] = name
	if name == "custom" {
		motd["color"] = hex
	}
	settings["motd"] = motd

	data, err := gotoml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "failed to encode config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrConfigWrite, "failed to write config").
			WithDetail("path", path)
	}
	return nil
}
