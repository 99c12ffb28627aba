package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/eval/material"
	eval "github.com/kestrelchess/kestrel/pkg/eval/pst"
)

const (
	KeyConfigFile         = "config"
	KeyLogLevel           = "log-level"
	KeyHash               = "hash"
	KeyHashMemoryFraction = "hash-memory-fraction"
	KeyNullMovePruning    = "null-move-pruning"
	KeyNullMoveReduction  = "null-move-reduction"
	KeyHistoryMax         = "history-max"
	KeyProgressMinNodes   = "progress-min-nodes"
	KeyPerftWorkers       = "perft-workers"
	KeyEval               = "eval"
	KeyEvalWeights        = "eval-weights"
)

const envPrefix = "KESTREL"

// Config layers command-line flags over KESTREL_* environment variables over
// an optional config file over the defaults.
type Config struct {
	*viper.Viper
	// Args are the positional arguments left after the flags.
	Args []string
}

func Load(name string, args []string) (*Config, error) {
	var defaults = engine.NewOptions()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String(KeyConfigFile, "", "config file (yaml, toml or json)")
	fs.String(KeyLogLevel, "info", "log level: trace, debug, info, warn, error or disabled")
	fs.Int(KeyHash, defaults.Hash, "transposition table size in megabytes")
	fs.Float64(KeyHashMemoryFraction, defaults.HashMemoryFraction, "largest share of physical memory the transposition table may take")
	fs.Bool(KeyNullMovePruning, defaults.NullMovePruning, "enable null-move pruning")
	fs.Int(KeyNullMoveReduction, defaults.NullMoveReduction, "base null-move depth reduction")
	fs.Int(KeyHistoryMax, defaults.HistoryMax, "history counter value that halves the history table")
	fs.Int(KeyProgressMinNodes, defaults.ProgressMinNodes, "nodes searched before progress is reported")
	fs.Int(KeyPerftWorkers, runtime.NumCPU(), "goroutines used by perft")
	fs.String(KeyEval, "pst", "evaluation: pst or material")
	fs.String(KeyEvalWeights, "", "yaml file overriding the piece-square weights")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %v: %w", file, err)
		}
	}

	c := &Config{Viper: v, Args: fs.Args()}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.GetInt(KeyHash) < 1 {
		return errors.New("hash must be at least 1 megabyte")
	}
	if f := c.GetFloat64(KeyHashMemoryFraction); f < 0 || f > 1 {
		return fmt.Errorf("hash-memory-fraction %v is outside [0, 1]", f)
	}
	if c.GetInt(KeyNullMoveReduction) < 0 {
		return errors.New("null-move-reduction must not be negative")
	}
	if c.GetInt(KeyPerftWorkers) < 1 {
		return errors.New("perft-workers must be at least 1")
	}
	if e := c.GetString(KeyEval); e != "pst" && e != "material" {
		return fmt.Errorf("unknown evaluation %q", e)
	}
	if _, err := zerolog.ParseLevel(c.GetString(KeyLogLevel)); err != nil {
		return err
	}
	return nil
}

func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Hash:               c.GetInt(KeyHash),
		HashMemoryFraction: c.GetFloat64(KeyHashMemoryFraction),
		NullMovePruning:    c.GetBool(KeyNullMovePruning),
		NullMoveReduction:  c.GetInt(KeyNullMoveReduction),
		HistoryMax:         c.GetInt(KeyHistoryMax),
		ProgressMinNodes:   c.GetInt(KeyProgressMinNodes),
	}
}

// Logger writes to w at the configured level.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	var level, err = zerolog.ParseLevel(c.GetString(KeyLogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// Evaluator builds the evaluation, reading piece-square weights from the
// configured file if there is one.
func (c *Config) Evaluator() (engine.Evaluator, error) {
	if c.GetString(KeyEval) == "material" {
		return material.NewEvaluationService(), nil
	}
	var file = c.GetString(KeyEvalWeights)
	if file == "" {
		return eval.NewEvaluationService(), nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w, err := eval.LoadWeights(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return eval.NewEvaluationServiceWithWeights(w)
}
