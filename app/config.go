package app

import (
	"encoding/json"
	"errors"
	"os"
)

// Config is the CLI/file configuration for the simulatr binary. The same
// struct round-trips through go-arg tags for flags and JSON for the profile
// file.
type Config struct {
	InitCfgCmd *InitCfg `arg:"subcommand:initcfg" json:"-" help:"write the current configuration to the profile file"`

	Listen   string `arg:"-l,--listen" default:"127.0.0.1:3334" json:"listen" help:"network address to listen on"`
	Name     string `arg:"-n,--name" default:"simulatr" json:"name" help:"name of the relay instance"`
	LogLevel string `arg:"--loglevel" default:"info" json:"loglevel" help:"log level: off/fatal/error/warn/info/debug/trace"`
	Profile  string `arg:"-p,--profile" default:"simulatr" json:"-" help:"profile name to use for the config file directory"`
}

type InitCfg struct{}

func GetDefaultConfig() *Config {
	return &Config{
		Listen:   "127.0.0.1:3334",
		Name:     "simulatr",
		LogLevel: "info",
		Profile:  "simulatr",
	}
}

// Save writes the configuration to a file as JSON.
func (c *Config) Save(filename string) (err error) {
	if c == nil {
		return errors.New("cannot save nil config")
	}
	var b []byte
	if b, err = json.MarshalIndent(c, "", "  "); chk.E(err) {
		return
	}
	return os.WriteFile(filename, b, 0600)
}

// Load reads the configuration from a JSON file over the top of whatever is
// already set.
func (c *Config) Load(filename string) (err error) {
	if c == nil {
		return errors.New("cannot load into nil config")
	}
	var b []byte
	if b, err = os.ReadFile(filename); err != nil {
		return
	}
	return json.Unmarshal(b, c)
}
