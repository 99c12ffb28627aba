package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/kestrelchess/kestrel/pkg/common"
	"github.com/kestrelchess/kestrel/pkg/config"
)

// perft [flags] depth [fen]
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("perft", os.Args[1:])
	if err != nil {
		return err
	}
	var logger = cfg.Logger(os.Stderr)
	zerolog.DefaultContextLogger = &logger

	if len(cfg.Args) < 1 || len(cfg.Args) > 2 {
		return fmt.Errorf("usage: perft [flags] depth [fen]")
	}
	depth, err := strconv.Atoi(cfg.Args[0])
	if err != nil || depth < 1 {
		return fmt.Errorf("bad depth %q", cfg.Args[0])
	}
	var fen = common.InitialPositionFen
	if len(cfg.Args) == 2 {
		fen = cfg.Args[1]
	}
	p, err := common.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var start = time.Now()
	var workers = cfg.GetInt(config.KeyPerftWorkers)
	nodes, err := p.PerftParallel(ctx, depth, workers)
	if err != nil {
		return err
	}
	var elapsed = time.Since(start)
	fmt.Printf("nodes %v\n", nodes)
	logger.Info().
		Int("depth", depth).
		Int64("nodes", nodes).
		Int("workers", workers).
		Dur("elapsed", elapsed).
		Float64("mnps", float64(nodes)/elapsed.Seconds()/1e6).
		Msg("perft")
	return nil
}
