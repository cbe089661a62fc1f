// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config types define the configuration structures used throughout
// tootline. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import "fmt"

// Config represents the complete configuration for tootline. It
// consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InstanceConfig names the server this client talks to. When URL is empty
// and no stored credential exists, the CLI prompts for it interactively.
type InstanceConfig struct {
	URL string `yaml:"url"`
}

// DefaultsConfig contains default settings that apply to every timeline
// session unless overridden by command-line flags.
type DefaultsConfig struct {
	PageSize       int    `yaml:"page_size"`
	OutputFormat   string `yaml:"output_format"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoggingConfig controls the log sinks. The JSON and text files receive
// everything down to debug level; stderr stays at info unless Verbose is
// set. Empty file paths disable that sink.
type LoggingConfig struct {
	JSONFile string `yaml:"json_file"`
	TextFile string `yaml:"text_file"`
	Verbose  bool   `yaml:"verbose"`
}

// DefaultConfig returns a Config with sensible defaults. The page size
// matches the server's own default so an unconfigured run behaves like
// the web client.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			PageSize:       20,
			OutputFormat:   "text",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			JSONFile: "logfile.json",
			TextFile: "logfile.txt",
		},
	}
}

// Validate checks if the configuration contains valid values. It ensures
// the page size is within the server's limits and the output format is
// one the writer supports. This should be called after loading
// configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 40 {
		return fmt.Errorf("page size %d exceeds the API limit of 40", c.Defaults.PageSize)
	}
	if c.Defaults.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be positive, got: %d", c.Defaults.TimeoutSeconds)
	}
	switch c.Defaults.OutputFormat {
	case "text", "ndjson":
	default:
		return fmt.Errorf("unknown output format %q (want text or ndjson)", c.Defaults.OutputFormat)
	}
	return nil
}
