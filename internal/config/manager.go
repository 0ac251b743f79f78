// Package config loads persistent scanner configuration from a TOML
// file via viper, and holds the speed-profile presets a CLI invocation
// can select by name.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"
)

// RateProfile is a named preset for the three scan-shaping knobs the
// engine actually exposes. The teacher's separate Rate/Concurrency
// fields collapse into BatchSize here: this scanner has no
// packets-per-second limiter independent of the in-flight window.
type RateProfile struct {
	Name        string        `mapstructure:"name"`
	Description string        `mapstructure:"description"`
	BatchSize   uint16        `mapstructure:"batch_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Tries       int           `mapstructure:"tries"`
}

// DefaultRateProfiles mirrors the teacher's slow/medium/fast/ludicrous
// tiers, retuned onto batch_size/timeout/tries.
var DefaultRateProfiles = map[string]RateProfile{
	"slow": {
		Name:        "slow",
		Description: "Conservative scanning for stealth and stability",
		BatchSize:   500,
		Timeout:     3 * time.Second,
		Tries:       3,
	},
	"medium": {
		Name:        "medium",
		Description: "Balanced scanning for general use",
		BatchSize:   1500,
		Timeout:     2 * time.Second,
		Tries:       2,
	},
	"fast": {
		Name:        "fast",
		Description: "Aggressive scanning for speed",
		BatchSize:   4500,
		Timeout:     time.Second,
		Tries:       1,
	},
	"ludicrous": {
		Name:        "ludicrous",
		Description: "Maximum speed scanning (use with caution)",
		BatchSize:   9000,
		Timeout:     500 * time.Millisecond,
		Tries:       1,
	},
}

// Config is the persisted shape of $HOME/.config/portscan/config.toml.
type Config struct {
	CurrentRateProfile string                 `mapstructure:"current_rate_profile"`
	RateProfiles       map[string]RateProfile `mapstructure:"rate_profiles"`
	Resolver           []string               `mapstructure:"resolver"`
	TopPorts           map[string][]string    `mapstructure:"top_ports"`
}

// Manager owns the loaded Config and its viper-backed source.
type Manager struct {
	v      *viper.Viper
	config *Config
	path   string
}

// Load reads (or initializes) the TOML config at
// $HOME/.config/portscan/config.toml.
func Load() (*Manager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "portscan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("config: creating config directory: %w", err)
	}
	path := filepath.Join(dir, "config.toml")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("current_rate_profile", "medium")

	m := &Manager{v: v, path: path}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		m.config = defaultConfig()
		if err := m.Save(); err != nil {
			return nil, fmt.Errorf("config: writing defaults: %w", err)
		}
		return m, nil
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	m.config = cfg
	return m, nil
}

func defaultConfig() *Config {
	profiles := make(map[string]RateProfile, len(DefaultRateProfiles))
	for k, v := range DefaultRateProfiles {
		profiles[k] = v
	}
	return &Config{
		CurrentRateProfile: "medium",
		RateProfiles:       profiles,
		TopPorts:           map[string][]string{},
	}
}

// Save persists the in-memory config back to disk as TOML.
func (m *Manager) Save() error {
	m.v.Set("current_rate_profile", m.config.CurrentRateProfile)
	m.v.Set("rate_profiles", m.config.RateProfiles)
	m.v.Set("resolver", m.config.Resolver)
	m.v.Set("top_ports", m.config.TopPorts)
	return m.v.WriteConfigAs(m.path)
}

// CurrentRateProfile returns the active preset, falling back to medium
// if the configured name no longer exists.
func (m *Manager) CurrentRateProfile() RateProfile {
	if profile, ok := m.config.RateProfiles[m.config.CurrentRateProfile]; ok {
		return profile
	}
	return DefaultRateProfiles["medium"]
}

// SetCurrentRateProfile switches the active preset and persists it.
func (m *Manager) SetCurrentRateProfile(name string) error {
	if _, ok := m.config.RateProfiles[name]; !ok {
		return fmt.Errorf("config: rate profile %q does not exist", name)
	}
	m.config.CurrentRateProfile = name
	return m.Save()
}

// TopPorts returns the named catalogue entry as a numerically sorted
// []uint16. The TOML table's key order is never assumed to encode
// "top N by popularity" ordering; only the parsed port numbers are
// sorted, for stable output across runs.
func (m *Manager) TopPorts(name string) ([]uint16, error) {
	entries, ok := m.config.TopPorts[name]
	if !ok {
		return nil, fmt.Errorf("config: no top-ports catalogue named %q", name)
	}

	ports := make([]uint16, 0, len(entries))
	for _, s := range entries {
		var p uint16
		if _, err := fmt.Sscanf(s, "%d", &p); err != nil {
			return nil, fmt.Errorf("config: invalid port %q in catalogue %q: %w", s, name, err)
		}
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports, nil
}

// Resolver returns the configured DNS resolver list, if any.
func (m *Manager) Resolver() []string {
	return m.config.Resolver
}

// Path returns the on-disk location of the loaded config file.
func (m *Manager) Path() string {
	return m.path
}
