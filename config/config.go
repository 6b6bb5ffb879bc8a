// Package config loads the settings shared by the s11n programs.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/KumKeeHyun/s11n/encoding"
	"github.com/KumKeeHyun/s11n/store"
)

const envPrefix = "S11N"

type Config struct {
	StoreType string `mapstructure:"STORE_TYPE"`
	DirPath   string `mapstructure:"DIR_PATH"`
	Bucket    string `mapstructure:"BUCKET"`
	Codec     string `mapstructure:"CODEC"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
}

// Setup reads cfgPath, when given, and lets S11N_* environment variables
// override it.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("STORE_TYPE", "memory")
	v.SetDefault("DIR_PATH", ".")
	v.SetDefault("BUCKET", "nodes")
	v.SetDefault("CODEC", "json")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StoreOptions translates the store settings for store.New.
func (c *Config) StoreOptions() ([]store.Option, error) {
	codec, err := encoding.Lookup(c.Codec)
	if err != nil {
		return nil, err
	}
	opts := []store.Option{store.WithCodec(codec)}

	switch strings.ToLower(c.StoreType) {
	case "", "memory":
		opts = append(opts, store.WithInMemory())
	case "boltdb", "bolt":
		opts = append(opts, store.WithBoltDB(c.Bucket), store.WithDirPath(c.DirPath))
	default:
		return nil, fmt.Errorf("config: unknown store type %q", c.StoreType)
	}
	return opts, nil
}

func NewLogger(c *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
