/*
Copyright 2025 The Critical-RT Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config loads and validates adapter configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
)

// Config holds the adapter-side settings used to construct the RTResource
// client. It is an explicit value passed into constructors; nothing in this
// repository reads it from ambient global state.
type Config struct {
	// ProfilesFile is an optional path to a YAML file with the same layout
	// as the profile ConfigMap data (keys "default" and overrides).
	ProfilesFile string `mapstructure:"profilesFile"`

	// ProfilesConfigMap optionally names an in-cluster ConfigMap holding
	// the same profile entries, as "namespace/name". When set it takes
	// precedence over ProfilesFile.
	ProfilesConfigMap string `mapstructure:"profilesConfigMap"`

	// UserAgent identifies the adapter to the API server.
	UserAgent string `mapstructure:"userAgent"`

	// QPS is the client-side request rate limit. Zero keeps the
	// client-go default.
	QPS float32 `mapstructure:"qps"`

	// Burst is the client-side burst allowance. Zero keeps the
	// client-go default.
	Burst int `mapstructure:"burst"`
}

// Defaults applied when the corresponding key is unset.
const (
	DefaultUserAgent = "rtresource-scaler"

	configName      = "rtscaler"
	configEnvPrefix = "RTSCALER"
)

// Load reads configuration from the given file, or from rtscaler.yaml in
// the working directory and /etc/rtscaler when path is empty. Environment
// variables prefixed RTSCALER_ override file values. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	// Every key needs a default so AutomaticEnv surfaces its RTSCALER_*
	// variable through Unmarshal even when no config file sets it.
	v.SetDefault("userAgent", DefaultUserAgent)
	v.SetDefault("profilesFile", "")
	v.SetDefault("profilesConfigMap", "")
	v.SetDefault("qps", float32(0))
	v.SetDefault("burst", 0)
	v.SetEnvPrefix(configEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/rtscaler")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.QPS < 0 {
		return fmt.Errorf("qps must be >= 0, got %g", c.QPS)
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst must be >= 0, got %d", c.Burst)
	}
	if c.ProfilesFile != "" {
		if _, err := os.Stat(c.ProfilesFile); err != nil {
			return fmt.Errorf("profiles file %s: %w", c.ProfilesFile, err)
		}
	}
	if c.ProfilesConfigMap != "" {
		if _, ok := c.ProfilesConfigMapRef(); !ok {
			return fmt.Errorf("profilesConfigMap must be namespace/name, got %q", c.ProfilesConfigMap)
		}
	}
	return nil
}

// ProfilesConfigMapRef parses the ProfilesConfigMap reference. The second
// return is false when the field is unset or not of the form namespace/name.
func (c *Config) ProfilesConfigMapRef() (types.NamespacedName, bool) {
	namespace, name, found := strings.Cut(c.ProfilesConfigMap, "/")
	if !found || namespace == "" || name == "" {
		return types.NamespacedName{}, false
	}
	return types.NamespacedName{Namespace: namespace, Name: name}, true
}

// ApplyTo copies the client-facing settings onto a REST config.
func (c *Config) ApplyTo(restConfig *rest.Config) {
	restConfig.UserAgent = c.UserAgent
	if c.QPS > 0 {
		restConfig.QPS = c.QPS
	}
	if c.Burst > 0 {
		restConfig.Burst = c.Burst
	}
}

// LoadProfiles reads the profiles file named by the config. An unset path
// yields an empty profile set.
func (c *Config) LoadProfiles() (Profiles, error) {
	if c.ProfilesFile == "" {
		return make(Profiles), nil
	}
	raw, err := os.ReadFile(c.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %s: %w", c.ProfilesFile, err)
	}
	// The file uses the same layout as the ConfigMap data block: entry
	// name to YAML profile document.
	var entries map[string]string
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing profiles file %s: %w", c.ProfilesFile, err)
	}
	return ParseProfileConfigMap(entries), nil
}
