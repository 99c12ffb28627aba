package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/kestrelchess/kestrel/pkg/config"
	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/uci"
)

const (
	name   = "Kestrel"
	author = "Kestrel authors"
)

var (
	versionName = "dev"
	gitRevision = "(null)"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(name, os.Args[1:])
	if err != nil {
		return err
	}

	var logger = cfg.Logger(os.Stderr)
	zerolog.DefaultContextLogger = &logger
	logger.Info().
		Str("version", versionName).
		Str("git-revision", gitRevision).
		Str("runtime", runtime.Version()).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Int("num-cpu", runtime.NumCPU()).
		Msg(name)

	evaluator, err := cfg.Evaluator()
	if err != nil {
		return err
	}
	var eng = engine.NewEngine(evaluator, cfg.EngineOptions())

	var protocol = uci.New(name, author, versionName, eng,
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 1, Max: 1 << 16, Value: &eng.Options.Hash},
			&uci.BoolOption{Name: "NullMovePruning", Value: &eng.Options.NullMovePruning},
			&uci.IntOption{Name: "NullMoveReduction", Min: 0, Max: 6, Value: &eng.Options.NullMoveReduction},
			&uci.IntOption{Name: "ProgressMinNodes", Min: 0, Max: 1 << 30, Value: &eng.Options.ProgressMinNodes},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx)
	return protocol.Run(ctx, os.Stdin, os.Stdout)
}
