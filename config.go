package main

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig is the optional goshrc.toml schema. Flag values override
// anything set here.
type fileConfig struct {
	Stack     int    `toml:"stack"`
	Vars      int    `toml:"vars"`
	Heap      int    `toml:"heap"`
	Line      int    `toml:"line"`
	Store     string `toml:"store"`
	Trace     bool   `toml:"trace"`
	Mnemonics bool   `toml:"mnemonics"`
	Prompt    string `toml:"prompt"`
}

const defaultConfigFile = "goshrc.toml"

// loadConfig reads path, or the default config file when path is empty; a
// missing default file is not an error.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	implicit := path == ""
	if implicit {
		path = defaultConfigFile
	}
	_, err := toml.DecodeFile(path, &cfg)
	if implicit && errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	return cfg, err
}

func (cfg fileConfig) options() []Option {
	var opts []Option
	if cfg.Stack > 0 {
		opts = append(opts, WithStackSize(cfg.Stack))
	}
	if cfg.Vars > 0 {
		opts = append(opts, WithVarSize(cfg.Vars))
	}
	if cfg.Heap > 0 {
		opts = append(opts, WithHeapLimit(cfg.Heap))
	}
	if cfg.Line > 0 {
		opts = append(opts, WithLineSize(cfg.Line))
	}
	if cfg.Store != "" {
		opts = append(opts, WithStoreFile(cfg.Store))
	}
	if cfg.Trace {
		opts = append(opts, WithTrace(true))
	}
	if cfg.Mnemonics {
		opts = append(opts, WithMnemonics(true))
	}
	if cfg.Prompt != "" {
		opts = append(opts, WithPrompt(cfg.Prompt))
	}
	return opts
}
