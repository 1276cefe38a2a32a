// Package config loads the settings of the treeflat command from flags,
// TREEFLAT_* environment variables and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/internal/logger"
	"github.com/ehsanranjbar/treeflat/tree"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by New.
const EnvPrefix = "TREEFLAT"

// Config keys.
const (
	KeyMaxDepth  = "max-depth"
	KeyCollision = "collision"
	KeyStringify = "stringify"
	KeyDB        = "db"
	KeyOutput    = "output"
	KeyDebug     = "debug"
	KeyLogFile   = "log-file"
	KeyLogDir    = "log-dir"
)

// Output formats of the flatten command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds the resolved settings.
type Config struct {
	MaxDepth  int
	Collision flatten.CollisionPolicy
	Stringify bool
	DB        string
	Output    string
	Debug     bool
	LogToFile bool
	LogDir    string
}

// New creates a viper instance with the defaults and environment binding in place.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyMaxDepth, 0)
	v.SetDefault(KeyCollision, flatten.Overwrite.String())
	v.SetDefault(KeyStringify, false)
	v.SetDefault(KeyDB, "treeflat.db")
	v.SetDefault(KeyOutput, OutputTable)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogFile, false)
	v.SetDefault(KeyLogDir, "")
	return v
}

// Load reads file, if not empty, into v and resolves the settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		MaxDepth:  v.GetInt(KeyMaxDepth),
		Stringify: v.GetBool(KeyStringify),
		DB:        v.GetString(KeyDB),
		Output:    strings.ToLower(v.GetString(KeyOutput)),
		Debug:     v.GetBool(KeyDebug),
		LogToFile: v.GetBool(KeyLogFile),
		LogDir:    v.GetString(KeyLogDir),
	}

	var err error
	cfg.Collision, err = flatten.ParseCollisionPolicy(v.GetString(KeyCollision))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalid, KeyMaxDepth)
	}
	switch cfg.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", ErrInvalid, cfg.Output)
	}

	return cfg, nil
}

// FlattenOptions returns the flattener options the config describes.
func (c *Config) FlattenOptions() []flatten.Option {
	return []flatten.Option{
		flatten.WithMaxDepth(c.MaxDepth),
		flatten.WithCollisionPolicy(c.Collision),
	}
}

// ConvertOptions returns the tree conversion options the config describes.
func (c *Config) ConvertOptions() []tree.ConvertOption {
	if c.Stringify {
		return []tree.ConvertOption{tree.WithStringify()}
	}
	return nil
}

// LogOptions returns the logger options the config describes.
func (c *Config) LogOptions() logger.LogOptions {
	return logger.LogOptions{
		OutputPath: c.LogDir,
		Verbose:    c.Debug,
		LogToFile:  c.LogToFile,
	}
}
