// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the per-endpoint tuning values spec.md's
// constants section names — MAX_MSG_SIZE, max_connections, connect
// timeout/retry_after, per-call io_timeout — from a YAML file or from
// LINK_-prefixed environment variables, via viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tuning values an endpoint (Clt or Svc) is built from.
type Config struct {
	MaxMsgSize     int           `mapstructure:"max_msg_size"`
	MaxConnections int           `mapstructure:"max_connections"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	RetryAfter     time.Duration `mapstructure:"retry_after"`
	IOTimeout      time.Duration `mapstructure:"io_timeout"`
}

// Defaults mirror spec.md's constants section: a 64KiB message/accumulator
// ceiling, a single unsplit connection unless the caller says otherwise, a
// 5s connect budget retried every 100ms, and a 1s per-call I/O timeout.
var Defaults = Config{
	MaxMsgSize:     65536,
	MaxConnections: 1,
	ConnectTimeout: 5 * time.Second,
	RetryAfter:     100 * time.Millisecond,
	IOTimeout:      time.Second,
}

var (
	// ErrInvalidRetryAfter reports that RetryAfter was not smaller than
	// ConnectTimeout, violating spec.md §6's busywait-connect invariant.
	ErrInvalidRetryAfter = errors.New("link: config: retry_after must be smaller than connect_timeout")

	// ErrInvalidMaxConnections reports a non-positive MaxConnections.
	ErrInvalidMaxConnections = errors.New("link: config: max_connections must be positive")
)

// Load reads path (if non-empty) as a YAML config file, overlays
// LINK_-prefixed environment variables, and falls back to Defaults for
// anything neither source sets. path may be empty to read only the
// environment and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("link")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("max_msg_size", Defaults.MaxMsgSize)
	v.SetDefault("max_connections", Defaults.MaxConnections)
	v.SetDefault("connect_timeout", Defaults.ConnectTimeout)
	v.SetDefault("retry_after", Defaults.RetryAfter)
	v.SetDefault("io_timeout", Defaults.IOTimeout)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the two invariants spec.md §6 states explicitly:
// RetryAfter must be smaller than ConnectTimeout, and MaxConnections must
// be positive.
func (c *Config) Validate() error {
	if c.MaxConnections <= 0 {
		return ErrInvalidMaxConnections
	}
	if c.RetryAfter >= c.ConnectTimeout {
		return ErrInvalidRetryAfter
	}
	return nil
}
