package engine

import . "github.com/kestrelchess/kestrel/pkg/common"

const (
	stageTransMove = iota
	stageGoodCaptures
	stageGenerateQuiets
	stageKillers
	stageQuiets
	stageBadCaptures
	stageDone
)

// isNoisy reports whether the generator puts m into the captures list.
func isNoisy(m Move) bool {
	return m.IsCapture() || m.Promotion() == Queen
}

var sortPieceValues = [...]int{Empty: 0, Pawn: 1, Knight: 2, Bishop: 3, Rook: 4, Queen: 5, King: 6}

func mvvlva(move Move) int {
	return 8*(sortPieceValues[move.CapturedPiece()]+
		sortPieceValues[move.Promotion()]) -
		sortPieceValues[move.MovingPiece()]
}

// pickBest swaps the highest keyed move to the front of ml.
func pickBest(ml []OrderedMove) {
	var bestIndex = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		ml[0], ml[bestIndex] = ml[bestIndex], ml[0]
	}
}

func containsMove(ml []OrderedMove, move Move) bool {
	for i := range ml {
		if ml[i].Move == move {
			return true
		}
	}
	return false
}

// moveIterator yields the pseudo-legal moves of a node in stages: the hash
// move, winning captures, killers, the other quiets by history, losing
// captures by static exchange value. Captures occupy buffer[:captures], quiets buffer[captures:quiets].
// Losing captures are swapped to buffer[:badCaptures] as they are found.
type moveIterator struct {
	position  *Position
	buffer    []OrderedMove
	history   *historyService
	transMove Move
	killer1   Move
	killer2   Move

	stage           int
	index           int
	captures        int
	quiets          int
	badCaptures     int
	quietsGenerated bool
	killers         [2]Move
	killerCount     int
}

func (mi *moveIterator) Reset() {
	mi.stage = stageTransMove
	mi.index = 0
	mi.badCaptures = 0
	mi.quietsGenerated = false
	mi.killerCount = 0

	var ml = mi.position.GenerateCaptures(mi.buffer[:0])
	for i := range ml {
		ml[i].Key = int32(mvvlva(ml[i].Move))
	}
	mi.captures = len(ml)
	mi.quiets = mi.captures
}

func (mi *moveIterator) generateQuiets() {
	if mi.quietsGenerated {
		return
	}
	mi.quietsGenerated = true
	var ml = mi.position.GenerateQuiets(mi.buffer[:mi.captures])
	var side = mi.position.WhiteMove
	for i := mi.captures; i < len(ml); i++ {
		ml[i].Key = int32(mi.history.Score(side, ml[i].Move))
	}
	mi.quiets = len(ml)
}

func (mi *moveIterator) Next() Move {
	for {
		switch mi.stage {
		case stageTransMove:
			mi.stage = stageGoodCaptures
			if mi.transMove == MoveEmpty {
				continue
			}
			if isNoisy(mi.transMove) {
				if containsMove(mi.buffer[:mi.captures], mi.transMove) {
					return mi.transMove
				}
			} else {
				mi.generateQuiets()
				if containsMove(mi.buffer[mi.captures:mi.quiets], mi.transMove) {
					return mi.transMove
				}
			}
			mi.transMove = MoveEmpty

		case stageGoodCaptures:
			if mi.index >= mi.captures {
				mi.stage = stageGenerateQuiets
				continue
			}
			pickBest(mi.buffer[mi.index:mi.captures])
			var m = mi.buffer[mi.index].Move
			if m == mi.transMove {
				mi.index++
				continue
			}
			if !seeGEZero(mi.position, m) {
				mi.buffer[mi.index].Key = int32(See(mi.position, m))
				mi.buffer[mi.index], mi.buffer[mi.badCaptures] = mi.buffer[mi.badCaptures], mi.buffer[mi.index]
				mi.badCaptures++
				mi.index++
				continue
			}
			mi.index++
			return m

		case stageGenerateQuiets:
			mi.generateQuiets()
			mi.index = mi.captures
			for _, killer := range [...]Move{mi.killer1, mi.killer2} {
				if killer != MoveEmpty && killer != mi.transMove &&
					(mi.killerCount == 0 || mi.killers[0] != killer) &&
					containsMove(mi.buffer[mi.captures:mi.quiets], killer) {
					mi.killers[mi.killerCount] = killer
					mi.killerCount++
				}
			}
			mi.stage = stageKillers

		case stageKillers:
			if mi.index-mi.captures < mi.killerCount {
				var m = mi.killers[mi.index-mi.captures]
				mi.index++
				return m
			}
			mi.index = mi.captures
			mi.stage = stageQuiets

		case stageQuiets:
			if mi.index >= mi.quiets {
				mi.index = 0
				mi.stage = stageBadCaptures
				continue
			}
			pickBest(mi.buffer[mi.index:mi.quiets])
			var m = mi.buffer[mi.index].Move
			mi.index++
			if m == mi.transMove || mi.isKiller(m) {
				continue
			}
			return m

		case stageBadCaptures:
			if mi.index >= mi.badCaptures {
				mi.stage = stageDone
				continue
			}
			pickBest(mi.buffer[mi.index:mi.badCaptures])
			var m = mi.buffer[mi.index].Move
			mi.index++
			return m

		default:
			return MoveEmpty
		}
	}
}

func (mi *moveIterator) isKiller(m Move) bool {
	for i := 0; i < mi.killerCount; i++ {
		if mi.killers[i] == m {
			return true
		}
	}
	return false
}

// moveIteratorQS yields captures, or every move when in check, by MVV-LVA.
type moveIteratorQS struct {
	position *Position
	buffer   []OrderedMove
	count    int
	index    int
}

func (mi *moveIteratorQS) Init() {
	var ml []OrderedMove
	if mi.position.IsCheck() {
		ml = mi.position.GenerateMoves(mi.buffer[:0])
	} else {
		ml = mi.position.GenerateCaptures(mi.buffer[:0])
	}
	mi.count = len(ml)

	for i := range ml {
		var m = ml[i].Move
		var score int
		if isNoisy(m) {
			score = 29000 + mvvlva(m)
		} else {
			score = 0
		}
		ml[i].Key = int32(score)
	}
}

func (mi *moveIteratorQS) Reset() {
	mi.index = 0
}

func (mi *moveIteratorQS) Next() Move {
	if mi.index >= mi.count {
		return MoveEmpty
	}
	pickBest(mi.buffer[mi.index:mi.count])
	var m = mi.buffer[mi.index].Move
	mi.index++
	return m
}
