package engine

import (
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

func (e *Engine) iterativeDeepening(logger *zerolog.Logger) {
	var ml = e.genRootMoves()
	if len(ml) == 0 {
		var p = &e.stack[0].position
		if p.IsCheck() {
			e.mainLine = mainLine{score: lossIn(0)}
		}
		return
	}
	e.mainLine = mainLine{
		moves: []Move{ml[0]},
	}

	for depth := 1; depth <= maxHeight; depth++ {
		if e.timeManager.Stopped() {
			break
		}
		var score, ok = e.searchRoot(ml, depth)
		if !ok {
			break
		}
		e.onIterationComplete(logger, depth, score)
		moveToBegin(ml, lo.IndexOf(ml, e.mainLine.moves[0]))
		if len(ml) == 1 && !e.timeManager.limits.Infinite {
			break
		}
	}
}

// searchRoot searches every root move with a full window for the first and
// PVS for the rest. ok is false when the iteration was cut by the stop flag.
func (e *Engine) searchRoot(ml []Move, depth int) (score int, ok bool) {
	const height = 0
	var position = &e.stack[height].position
	var alpha, beta = -valueInfinity, valueInfinity
	var best = -valueInfinity
	var bestMove = MoveEmpty
	e.stack[height].pv.clear()

	for i, move := range ml {
		if !e.makeMove(move, height) {
			continue
		}
		var score int
		if i == 0 {
			score = -e.alphaBeta(-beta, -alpha, depth-1, height+1)
		} else {
			score = -e.alphaBeta(-(alpha + 1), -alpha, depth-1, height+1)
			if score > alpha {
				score = -e.alphaBeta(-beta, -alpha, depth-1, height+1)
			}
		}
		if e.stop.Load() {
			return 0, false
		}
		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			e.stack[height].pv.assign(move, &e.stack[height+1].pv)
		}
	}
	e.transTable.Store(position.Key, depth, -valueInfinity, valueInfinity, best, bestMove, height)
	return best, true
}

func (e *Engine) alphaBeta(alpha, beta, depth, height int) int {
	if e.stop.Load() {
		return 0
	}
	var position = &e.stack[height].position
	var isCheck = position.IsCheck()
	if isCheck {
		depth++
	}
	if depth <= 0 {
		return e.quiescence(alpha, beta, height)
	}
	e.stack[height].pv.clear()

	var pvNode = beta != alpha+1

	if height >= maxHeight {
		return e.evaluator.Evaluate(position)
	}
	if e.isRepeat(height) || isDraw(position) {
		return valueDraw
	}

	// mate distance pruning
	alpha = Max(alpha, lossIn(height))
	beta = Min(beta, winIn(height+1))
	if alpha >= beta {
		return alpha
	}

	if score, ok := e.transTable.Probe(position.Key, depth, alpha, beta, height); ok && !pvNode {
		return score
	}
	var ttMove = e.transTable.BestMove(position.Key)

	if e.Options.NullMovePruning && !pvNode && depth >= 2 && !isCheck &&
		position.LastMove != MoveEmpty &&
		beta < valueWin &&
		position.NonPawnMaterial(position.WhiteMove) != 0 &&
		e.evaluator.Evaluate(position) >= beta {
		var reduction = e.Options.NullMoveReduction + depth/6
		e.makeNullMove(height)
		var score = -e.alphaBeta(-beta, -(beta - 1), depth-1-reduction, height+1)
		if e.stop.Load() {
			return 0
		}
		if score >= beta {
			if score >= valueWin {
				score = beta
			}
			return score
		}
	}

	var mi = moveIterator{
		position:  position,
		buffer:    e.stack[height].moveList[:],
		history:   &e.history,
		transMove: ttMove,
		killer1:   e.stack[height].killer1,
		killer2:   e.stack[height].killer2,
	}

	var movesSearched = 0
	var quietsSearched = e.stack[height].quietsSearched[:0]
	var best = -valueInfinity
	var bestMove = MoveEmpty
	var oldAlpha = alpha

	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !e.makeMove(move, height) {
			continue
		}
		movesSearched++

		var score int
		if movesSearched == 1 {
			score = -e.alphaBeta(-beta, -alpha, depth-1, height+1)
		} else {
			score = -e.alphaBeta(-(alpha + 1), -alpha, depth-1, height+1)
			if score > alpha && score < beta {
				score = -e.alphaBeta(-beta, -alpha, depth-1, height+1)
			}
		}
		if e.stop.Load() {
			return 0
		}

		if !isNoisy(move) {
			quietsSearched = append(quietsSearched, move)
		}
		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			e.stack[height].pv.assign(move, &e.stack[height+1].pv)
			if alpha >= beta {
				break
			}
		}
	}

	if movesSearched == 0 {
		if isCheck {
			return lossIn(height)
		}
		return valueDraw
	}

	if best >= beta && !isNoisy(bestMove) {
		e.history.Update(position.WhiteMove, quietsSearched, bestMove, depth)
		e.updateKiller(bestMove, height)
	}

	var ttStoreMove = MoveEmpty
	if best > oldAlpha {
		ttStoreMove = bestMove
	}
	e.transTable.Store(position.Key, depth, oldAlpha, beta, best, ttStoreMove, height)
	return best
}

func (e *Engine) quiescence(alpha, beta, height int) int {
	if e.stop.Load() {
		return 0
	}
	e.stack[height].pv.clear()
	var position = &e.stack[height].position
	if isDraw(position) || e.isRepeat(height) {
		return valueDraw
	}
	if height >= maxHeight {
		return e.evaluator.Evaluate(position)
	}

	if score, ok := e.transTable.Probe(position.Key, 0, alpha, beta, height); ok {
		return score
	}

	var isCheck = position.IsCheck()
	var best = -valueInfinity
	if !isCheck {
		var eval = e.evaluator.Evaluate(position)
		best = eval
		if eval > alpha {
			alpha = eval
			if alpha >= beta {
				// a stalemate scores 0, which only fails high when beta <= 0
				if valueDraw < beta && !position.HasLegalMove() {
					return valueDraw
				}
				return alpha
			}
		}
	}
	var mi = moveIteratorQS{
		position: position,
		buffer:   e.stack[height].moveList[:],
	}
	mi.Init()
	var hasLegalMove = false
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if !isCheck && !seeGEZero(position, move) {
			continue
		}
		if !e.makeMove(move, height) {
			continue
		}
		hasLegalMove = true
		var score = -e.quiescence(-beta, -alpha, height+1)
		if e.stop.Load() {
			return 0
		}
		best = Max(best, score)
		if score > alpha {
			alpha = score
			e.stack[height].pv.assign(move, &e.stack[height+1].pv)
			if alpha >= beta {
				break
			}
		}
	}
	if !hasLegalMove {
		if isCheck {
			return lossIn(height)
		}
		if !position.HasLegalMove() {
			return valueDraw
		}
	}
	return best
}

func (e *Engine) isRepeat(height int) bool {
	var p = &e.stack[height].position

	if p.Rule50 == 0 || p.LastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &e.stack[i].position
		if temp.Key == p.Key {
			return true
		}
		if temp.Rule50 == 0 || temp.LastMove == MoveEmpty {
			return false
		}
	}

	return e.historyKeys[p.Key] >= 2
}

func moveToBegin(ml []Move, index int) {
	if index <= 0 {
		return
	}
	var item = ml[index]
	for i := index; i > 0; i-- {
		ml[i] = ml[i-1]
	}
	ml[0] = item
}

// genRootMoves returns the legal root moves, hash move first.
func (e *Engine) genRootMoves() []Move {
	const height = 0
	var p = &e.stack[height].position
	var mi = moveIterator{
		position:  p,
		buffer:    e.stack[height].moveList[:],
		history:   &e.history,
		transMove: e.transTable.BestMove(p.Key),
	}

	var result []Move
	var child = &e.stack[height+1].position
	for mi.Reset(); ; {
		var move = mi.Next()
		if move == MoveEmpty {
			break
		}
		if p.MakeMove(move, child) {
			result = append(result, move)
		}
	}
	return result
}

func (e *Engine) updateKiller(move Move, height int) {
	if e.stack[height].killer1 != move {
		e.stack[height].killer2 = e.stack[height].killer1
		e.stack[height].killer1 = move
	}
}

func (e *Engine) makeMove(move Move, height int) bool {
	var pos = &e.stack[height].position
	var child = &e.stack[height+1].position
	if !pos.MakeMove(move, child) {
		return false
	}
	e.incNodes()
	return true
}

func (e *Engine) makeNullMove(height int) {
	e.stack[height].position.MakeNullMove(&e.stack[height+1].position)
	e.incNodes()
}

func (e *Engine) incNodes() {
	e.nodes++
	if e.nodes&1023 == 0 && e.timeManager.IsDone(e.nodes) {
		e.stop.Store(true)
	}
}
