package common

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf positions reachable by strictly legal moves.
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result int64
	for _, m := range p.GenerateMoves(buffer[:0]) {
		if !p.MakeMove(m.Move, &child) {
			continue
		}
		if depth > 1 {
			result += child.Perft(depth - 1)
		} else {
			result++
		}
	}
	return result
}

type DivideEntry struct {
	Move  Move
	Nodes int64
}

// Divide reports the perft count below each legal root move.
func (p *Position) Divide(depth int) []DivideEntry {
	var result []DivideEntry
	var child Position
	for _, m := range p.GenerateLegalMoves() {
		p.MakeMove(m, &child)
		result = append(result, DivideEntry{m, child.Perft(depth - 1)})
	}
	return result
}

// PerftParallel splits the root moves over at most workers goroutines.
func (p *Position) PerftParallel(ctx context.Context, depth, workers int) (int64, error) {
	if depth <= 1 {
		return p.Perft(depth), nil
	}
	var total atomic.Int64
	var g, gctx = errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, m := range p.GenerateLegalMoves() {
		var child Position
		p.MakeMove(m, &child)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			total.Add(child.Perft(depth - 1))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total.Load(), nil
}
