package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"webframe/pkg/engine"
)

// Settings is the process-wide engine configuration, loadable from YAML.
type Settings struct {
	// Locale selects the engine UI locale, e.g. "en-US".
	Locale string `yaml:"locale"`

	// CachePath is the per-profile cache directory. Empty means incognito.
	CachePath string `yaml:"cache_path"`

	// RootCachePath must be a parent of every CachePath in the process.
	RootCachePath string `yaml:"root_cache_path"`

	// SubprocessPath points at a separate helper executable. Empty means the
	// main executable doubles as the helper.
	SubprocessPath string `yaml:"subprocess_path"`
}

func (s Settings) withDefaults() Settings {
	if s.Locale == "" {
		s.Locale = "en-US"
	}
	return s
}

// Validate checks path constraints the engine enforces at startup.
func (s Settings) Validate() error {
	if s.CachePath != "" && !filepath.IsAbs(s.CachePath) {
		return fmt.Errorf("cache_path %q must be absolute", s.CachePath)
	}
	if s.RootCachePath != "" && !filepath.IsAbs(s.RootCachePath) {
		return fmt.Errorf("root_cache_path %q must be absolute", s.RootCachePath)
	}
	if s.CachePath != "" && s.RootCachePath != "" {
		rel, err := filepath.Rel(s.RootCachePath, s.CachePath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("cache_path %q must live under root_cache_path %q", s.CachePath, s.RootCachePath)
		}
	}
	return nil
}

func (s Settings) launchOptions() engine.LaunchOptions {
	return engine.LaunchOptions{
		Locale:         s.Locale,
		CachePath:      s.CachePath,
		RootCachePath:  s.RootCachePath,
		SubprocessPath: s.SubprocessPath,
	}
}

// LoadSettings reads Settings from a YAML file. Unknown keys are an error.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	var s Settings
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}
