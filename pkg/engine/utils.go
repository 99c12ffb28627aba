package engine

import (
	"strings"

	"github.com/samber/lo"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxHeight
	valueLoss     = -valueWin
)

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

// valueToTT makes mate scores relative to the node being stored.
func valueToTT(v, height int) int {
	if v >= valueWin {
		return v + height
	}
	if v <= valueLoss {
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	if v >= valueWin {
		return v - height
	}
	if v <= valueLoss {
		return v + height
	}
	return v
}

// newUciScore converts v to moves to mate when it is a mate score. A side
// that is already checkmated reports Mate -1, so Mate stays nonzero.
func newUciScore(v int) UciScore {
	if v >= valueWin {
		return UciScore{Mate: (valueMate - v + 1) / 2}
	} else if v <= valueLoss {
		return UciScore{Mate: Min(-1, (-valueMate-v)/2)}
	} else {
		return UciScore{Centipawns: v}
	}
}

func isDraw(p *Position) bool {
	if p.Rule50 >= 100 {
		return true
	}
	if (p.Pawns|p.Rooks|p.Queens) == 0 &&
		!MoreThanOne(p.Knights|p.Bishops) {
		return true
	}
	return false
}

func formatLine(ml []Move) string {
	return strings.Join(lo.Map(ml, func(m Move, _ int) string {
		return m.String()
	}), " ")
}
