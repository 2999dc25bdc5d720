// Package config wires reldb's runtime settings through a single viper
// instance, bound to environment variables under the RELDB_ prefix and to
// an optional config file, the way the teacher's internal/config binds its
// own BD_/BEADS_ prefix. Precedence (highest first): explicit flag (Set),
// environment variable, config file, default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigSource identifies which layer a setting's effective value came
// from, as reported by GetValueSource for diagnostics.
type ConfigSource int

const (
	SourceDefault ConfigSource = iota
	SourceConfigFile
	SourceEnvVar
	SourceFlag
)

func (s ConfigSource) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceConfigFile:
		return "config file"
	case SourceEnvVar:
		return "environment variable"
	case SourceFlag:
		return "flag"
	default:
		return "unknown"
	}
}

var v *viper.Viper

// Initialize sets up the package-level viper instance: defaults, the
// RELDB_ environment prefix, and an optional config file discovered at
// configPath (or ./reldb.yaml / $HOME/.reldb/config.yaml if configPath is
// empty). It is safe to call more than once; each call rebuilds state from
// scratch.
func Initialize(configPath string) error {
	v = viper.New()

	v.SetDefault("db-dir", "dbdata")
	v.SetDefault("lock-timeout", 5*time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("json", false)

	v.SetEnvPrefix("RELDB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("reldb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reldb"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: read config file: %w", err)
		}
	}
	return nil
}

func ensureInitialized() {
	if v == nil {
		_ = Initialize("")
	}
}

// GetString returns a string setting.
func GetString(key string) string {
	ensureInitialized()
	return v.GetString(key)
}

// GetBool returns a boolean setting.
func GetBool(key string) bool {
	ensureInitialized()
	return v.GetBool(key)
}

// GetDuration returns a duration setting.
func GetDuration(key string) time.Duration {
	ensureInitialized()
	return v.GetDuration(key)
}

// Set overrides a setting for the remainder of the process (used by cobra
// flag bindings, giving flags the highest precedence).
func Set(key string, value any) {
	ensureInitialized()
	v.Set(key, value)
}

// DBDir returns the configured database root directory.
func DBDir() string {
	return GetString("db-dir")
}

// LockTimeout returns the configured advisory-lock wait timeout.
func LockTimeout() time.Duration {
	return GetDuration("lock-timeout")
}

// Debug returns whether debug output is enabled via config (RELDB_DEBUG is
// also consulted directly by internal/dbglog, independent of this flag).
func Debug() bool {
	return GetBool("debug")
}

// JSONOutput returns whether the CLI should render statement results as
// JSON instead of a pretty-printed table.
func JSONOutput() bool {
	return GetBool("json")
}

// GetValueSource reports which layer key's effective value came from, for
// diagnostics. It distinguishes environment variable, config file and
// default only; it never returns SourceFlag, so a value overridden through
// Set is reported as the layer beneath it.
func GetValueSource(key string) ConfigSource {
	ensureInitialized()
	if v.InConfig(key) && os.Getenv("RELDB_"+envName(key)) == "" {
		return SourceConfigFile
	}
	if os.Getenv("RELDB_"+envName(key)) != "" {
		return SourceEnvVar
	}
	return SourceDefault
}

func envName(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '-' {
			out[i] = '_'
		} else if c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		} else {
			out[i] = c
		}
	}
	return string(out)
}
