package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/contentdefined/fastcdc"
)

// cliConfig mirrors the flags the split command accepts; loadConfig merges
// them with a fastcdc.yaml/fastcdc.json config file and environment
// variables (FASTCDC_*) via viper, flags taking precedence.
type cliConfig struct {
	MinSize       int    `mapstructure:"min-size"`
	AvgSize       int    `mapstructure:"avg-size"`
	MaxSize       int    `mapstructure:"max-size"`
	Normalization int    `mapstructure:"normalization"`
	Hash          bool   `mapstructure:"hash"`
	KeyFile       string `mapstructure:"key-file"`
}

func loadConfig(v *viper.Viper) (cliConfig, error) {
	v.SetDefault("min-size", fastcdc.DefaultMinSize)
	v.SetDefault("avg-size", fastcdc.DefaultAvgSize)
	v.SetDefault("max-size", fastcdc.DefaultMaxSize)
	v.SetDefault("normalization", fastcdc.DefaultNormalizationLevel)
	v.SetDefault("hash", true)

	v.SetConfigName("fastcdc")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config")
	v.SetEnvPrefix("FASTCDC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cliConfig{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// chunkConfig turns the CLI-level config into a validated
// fastcdc.ChunkConfig, loading the keyed-CDC key from KeyFile if set.
func (c cliConfig) chunkConfig() (fastcdc.ChunkConfig, error) {
	config, err := fastcdc.NewChunkConfig(c.MinSize, c.AvgSize, c.MaxSize)
	if err != nil {
		return fastcdc.ChunkConfig{}, err
	}
	config = config.WithHashConfig(fastcdc.HashConfig{Enabled: c.Hash})

	if c.KeyFile != "" {
		key, err := readKeyFile(c.KeyFile)
		if err != nil {
			return fastcdc.ChunkConfig{}, err
		}
		config = config.WithKey(&key)
	}

	if c.Normalization != fastcdc.DefaultNormalizationLevel {
		config = config.WithNormalizationLevel(c.Normalization)
	}
	if err := config.Validate(); err != nil {
		return fastcdc.ChunkConfig{}, err
	}
	return config, nil
}

func readKeyFile(path string) ([32]byte, error) {
	var key [32]byte
	data, err := os.ReadFile(path)
	if err != nil {
		return key, fmt.Errorf("reading key file %s: %w", path, err)
	}
	if len(data) != len(key) {
		return key, fmt.Errorf("key file %s must contain exactly %d bytes, got %d", path, len(key), len(data))
	}
	copy(key[:], data)
	return key, nil
}
