package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigFile            = "config"
	ConfigWordList        = "wordlist"
	ConfigVariant         = "variant"
	ConfigDiceFile        = "dice-file"
	ConfigStrategy        = "strategy"
	ConfigGenerations     = "generations"
	ConfigPopulation      = "population"
	ConfigIterations      = "iterations"
	ConfigRestartInterval = "restart-interval"
	ConfigRerollAttempts  = "reroll-attempts"
	ConfigThreads         = "threads"
	ConfigMemoFraction    = "memo-fraction"
	ConfigSeed            = "seed"
	ConfigStore           = "store"
	ConfigStorePath       = "store-path"
	ConfigOutput          = "output"
	ConfigDebug           = "debug"
	ConfigCPUProfile      = "cpu-profile"
)

const (
	VariantStandard = "standard"
	VariantBig      = "big"

	StrategyGenetic = "genetic"
	StrategyClimb   = "climb"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a configuration with every default in place and
// nothing read from the command line. Environment variables still apply.
func DefaultConfig() *Config {
	c := &Config{}
	// Parsing an empty argument list can only fail on a bad config file,
	// and none is named here.
	_ = c.Load(nil)
	return c
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("boggler", pflag.ContinueOnError)
	fs.String(ConfigFile, "", "optional config file (yaml, toml or json)")
	fs.String(ConfigWordList, "", "word list file, one word per line")
	fs.String(ConfigVariant, VariantStandard, "grid variant: standard (4x4) or big (5x5)")
	fs.String(ConfigDiceFile, "", "yaml file with a custom die table; overrides variant")
	fs.String(ConfigStrategy, StrategyGenetic, "optimizer strategy: genetic or climb")
	fs.Int(ConfigGenerations, 1000, "number of generations for the genetic strategy")
	fs.Int(ConfigPopulation, 50, "population size for the genetic strategy")
	fs.Int(ConfigIterations, 200, "number of sweeps for the climb strategy")
	fs.Int(ConfigRestartInterval, 50, "climb restarts from a random grid every this many sweeps")
	fs.Int(ConfigRerollAttempts, 5, "rerolls tried per cell during a climb sweep")
	fs.Int(ConfigThreads, runtime.NumCPU(), "number of goroutines evaluating grids")
	fs.Float64(ConfigMemoFraction, 0.01, "fraction of system memory for remembered evaluations; 0 turns it off")
	fs.Uint64(ConfigSeed, 0, "random seed for reproducible results")
	fs.String(ConfigStore, StoreMemory, "run store backend: memory or sqlite")
	fs.String(ConfigStorePath, "boggler.db", "sqlite file for the sqlite store")
	fs.String(ConfigOutput, "", "write the final result as yaml to this file")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	return fs
}

// Load parses args and merges them with BOGGLER_* environment variables and
// an optional config file. Positional arguments are kept and can be fetched
// with Args.
func (c *Config) Load(args []string) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	v := viper.New()
	v.SetEnvPrefix("BOGGLER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if cf := v.GetString(ConfigFile); cf != "" {
		v.SetConfigFile(cf)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %v: %w", cf, err)
		}
	}
	c.Viper = v
	c.args = fs.Args()
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// HasSeed is true if the user supplied a seed by any means. A seed of zero
// is a valid seed.
func (c *Config) HasSeed() bool {
	return c.IsSet(ConfigSeed)
}

func invalid(key string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v: %v", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

// Validate rejects configurations that cannot be run. It should be called
// before any optimization work begins.
func (c *Config) Validate() error {
	if c.GetString(ConfigDiceFile) == "" {
		switch c.GetString(ConfigVariant) {
		case VariantStandard, VariantBig:
		default:
			return invalid(ConfigVariant, "unknown variant %q", c.GetString(ConfigVariant))
		}
	}
	switch c.GetString(ConfigStrategy) {
	case StrategyGenetic, StrategyClimb:
	default:
		return invalid(ConfigStrategy, "unknown strategy %q", c.GetString(ConfigStrategy))
	}
	for _, key := range []string{ConfigGenerations, ConfigPopulation, ConfigIterations,
		ConfigRestartInterval, ConfigRerollAttempts, ConfigThreads} {
		if c.GetInt(key) <= 0 {
			return invalid(key, "must be positive, got %d", c.GetInt(key))
		}
	}
	if f := c.GetFloat64(ConfigMemoFraction); f < 0 || f >= 1 {
		return invalid(ConfigMemoFraction, "must be in [0, 1), got %v", f)
	}
	switch c.GetString(ConfigStore) {
	case StoreMemory:
	case StoreSQLite:
		if c.GetString(ConfigStorePath) == "" {
			return invalid(ConfigStorePath, "required for the sqlite store")
		}
	default:
		return invalid(ConfigStore, "unknown store %q", c.GetString(ConfigStore))
	}
	return nil
}

// SanitizedSettings returns all settings in a form that is fine to log.
func (c *Config) SanitizedSettings() map[string]interface{} {
	return c.AllSettings()
}
