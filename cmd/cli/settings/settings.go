// Package settings resolves the fraportal-cli configuration.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (FRAPORTAL_*)
//  3. Config file (~/.fraportal.yaml)
//  4. Defaults
package settings

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/spf13/viper"
)

const (
	KeyAPIURL      = "api_url"
	KeyTimeout     = "timeout"
	KeySessionFile = "session_file"
	KeyEmail       = "email"
	KeyPassword    = "password"
	KeyVerbose     = "verbose"
)

// Settings are the resolved values.
type Settings struct {
	APIURL      string        `yaml:"api_url"`
	Timeout     time.Duration `yaml:"timeout"`
	SessionFile string        `yaml:"session_file"`
	Email       string        `yaml:"email,omitempty"`
	// Password is only ever read from flags or the environment and never printed.
	Password string `yaml:"-"`
	Verbose  bool   `yaml:"verbose"`
}

// New returns a viper instance with the defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, "http://localhost:8000/api")
	v.SetDefault(KeyTimeout, 10*time.Second) //nolint:mnd // 10s
	v.SetDefault(KeySessionFile, defaultSessionFile())
	v.SetDefault(KeyEmail, "")
	v.SetDefault(KeyPassword, "")
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix("FRAPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fraportal-session.yaml"
	}
	return filepath.Join(home, ".fraportal-session.yaml")
}

// ReadConfigFile reads cfgFile, or ~/.fraportal.yaml when cfgFile is empty. A missing default file is not an error.
func ReadConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil //nolint:nilerr // without a home directory there is no default config file.
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".fraportal")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "read config file")
	}
	return nil
}

// Load resolves the settings from v.
func Load(v *viper.Viper) Settings {
	return Settings{
		APIURL:      v.GetString(KeyAPIURL),
		Timeout:     v.GetDuration(KeyTimeout),
		SessionFile: v.GetString(KeySessionFile),
		Email:       v.GetString(KeyEmail),
		Password:    v.GetString(KeyPassword),
		Verbose:     v.GetBool(KeyVerbose),
	}
}
