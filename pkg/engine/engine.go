package engine

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

// Engine runs one search at a time. The transposition table, history and
// killers persist between searches of the same game.
type Engine struct {
	Options     Options
	evaluator   Evaluator
	timeManager *timeManager
	transTable  *transTable
	history     historyService
	historyKeys map[uint64]int
	stop        atomic.Bool
	progress    func(SearchInfo)
	mainLine    mainLine
	start       time.Time
	nodes       int64
	stack       [stackSize]struct {
		position       Position
		moveList       [MaxMoves]OrderedMove
		quietsSearched [MaxMoves]Move
		pv             pv
		killer1        Move
		killer2        Move
	}
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves []Move
	score int
	depth int
}

type Evaluator interface {
	Evaluate(p *Position) int
}

func NewEngine(evaluator Evaluator, options Options) *Engine {
	return &Engine{
		Options:   options,
		evaluator: evaluator,
	}
}

// Prepare allocates the transposition table for the current options.
func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Options.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTable(e.Options.Hash, e.Options.HashMemoryFraction)
	}
	e.history.max = e.Options.HistoryMax
}

// Search returns the result of the deepest completed iteration. It is not
// safe to call Search concurrently on the same Engine.
func (e *Engine) Search(ctx context.Context, searchParams SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()
	var logger = zerolog.Ctx(ctx)
	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	e.timeManager = newTimeManager(ctx, e.start, searchParams.Limits, p)
	defer e.timeManager.Close()
	e.transTable.IncDate()
	e.history.Age()
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.nodes = 0
	e.stop.Store(false)
	e.progress = searchParams.Progress
	e.mainLine = mainLine{}
	for i := range e.stack {
		e.stack[i].killer1 = MoveEmpty
		e.stack[i].killer2 = MoveEmpty
	}
	e.stack[0].position = *p

	e.iterativeDeepening(logger)

	var stats = e.transTable.Stats()
	logger.Debug().
		Uint64("probes", stats.Probes).
		Uint64("hits", stats.Hits).
		Uint64("stores", stats.Stores).
		Int("clusters", stats.Clusters).
		Msg("transposition table")
	return e.currentSearchResult()
}

func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 1; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

// Clear forgets everything learned in previous searches.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	e.history.Clear()
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.nodes,
		Time:     time.Since(e.start),
	}
}

func (e *Engine) onIterationComplete(logger *zerolog.Logger, depth, score int) {
	const height = 0
	e.mainLine = mainLine{
		depth: depth,
		score: score,
		moves: e.stack[height].pv.toSlice(),
	}
	logger.Debug().
		Int("depth", depth).
		Int("score", score).
		Int64("nodes", e.nodes).
		Dur("time", time.Since(e.start)).
		Str("pv", formatLine(e.mainLine.moves)).
		Msg("iteration complete")
	e.timeManager.OnIterationComplete(e.mainLine)
	if e.progress != nil && e.nodes >= int64(e.Options.ProgressMinNodes) {
		e.progress(e.currentSearchResult())
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}
