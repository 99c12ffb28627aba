package engine

import . "github.com/kestrelchess/kestrel/pkg/common"

// historyScale is the score of a quiet move that always caused a cutoff.
const historyScale = 1 << 14

// historyService counts how often a quiet move (by side, piece and
// destination) caused a beta cutoff and how often it was tried without one.
type historyService struct {
	good [2][PieceNB][64]int
	bad  [2][PieceNB][64]int
	max  int
}

func sideIndex(side bool) int {
	if side {
		return SideWhite
	}
	return SideBlack
}

func (h *historyService) Clear() {
	clear(h.good[:])
	clear(h.bad[:])
}

// Age halves every counter.
func (h *historyService) Age() {
	for side := range h.good {
		for piece := range h.good[side] {
			for sq := range h.good[side][piece] {
				h.good[side][piece][sq] /= 2
				h.bad[side][piece][sq] /= 2
			}
		}
	}
}

func (h *historyService) Score(side bool, m Move) int {
	var s = sideIndex(side)
	var good = h.good[s][m.MovingPiece()][m.To()]
	var bad = h.bad[s][m.MovingPiece()][m.To()]
	return good * historyScale / (good + bad + 1)
}

// Update rewards bestMove and penalizes the quiet moves searched before it.
func (h *historyService) Update(side bool, quietsSearched []Move, bestMove Move, depth int) {
	var s = sideIndex(side)
	var bonus = depth * depth
	var overflow = false
	for _, m := range quietsSearched {
		var counter *int
		if m == bestMove {
			counter = &h.good[s][m.MovingPiece()][m.To()]
		} else {
			counter = &h.bad[s][m.MovingPiece()][m.To()]
		}
		*counter += bonus
		if h.max > 0 && *counter > h.max {
			overflow = true
		}
		if m == bestMove {
			break
		}
	}
	if overflow {
		h.Age()
	}
}
