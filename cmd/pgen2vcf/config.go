package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the pgen2vcf configuration file
// ($XDG_CONFIG_HOME/pgen2vcf/config.yaml). Booleans are pointers so we can
// distinguish "not set" from false.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Mmap     *bool `yaml:"mmap"`
	Gzip     *bool `yaml:"gzip"`
	UseIndex *bool `yaml:"use_index"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pgen2vcf", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	return loadConfigFile(configPath())
}

func loadConfigFile(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// stringSetting returns the flag value unless the flag was left unset and
// the config file provides one.
func stringSetting(c *cli.Command, flag, fromConfig string) string {
	if fromConfig != "" && !c.IsSet(flag) {
		return fromConfig
	}
	return c.String(flag)
}

func boolSetting(c *cli.Command, flag string, fromConfig *bool) bool {
	if fromConfig != nil && !c.IsSet(flag) {
		return *fromConfig
	}
	return c.Bool(flag)
}
