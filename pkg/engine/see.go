package engine

import (
	"fmt"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

var pieceValuesSEE = [PieceNB]int{Pawn: 100, Knight: 320, Bishop: 330, Rook: 500, Queen: 900, King: 20000}

func seeGEZero(p *Position, move Move) bool {
	return SeeGE(p, move, 0)
}

// SeeGE reports whether the exchange started by move wins at least
// threshold. Based on Ethereal.
func SeeGE(pos *Position, move Move, threshold int) bool {
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()
	var promotionPiece = move.Promotion()

	var nextVictim = movingPiece
	if promotionPiece != Empty {
		nextVictim = promotionPiece
	}

	var balance = pieceValuesSEE[capturedPiece]
	if promotionPiece != Empty {
		balance += pieceValuesSEE[promotionPiece] - pieceValuesSEE[Pawn]
	}
	balance -= threshold

	if balance < 0 {
		return false
	}

	balance -= pieceValuesSEE[nextVictim]
	if balance >= 0 {
		return true
	}

	var occupied, attackers = exchangeStart(pos, move)

	var bishops = pos.Bishops | pos.Queens
	var rooks = pos.Rooks | pos.Queens

	var side = !pos.WhiteMove

	for {
		var myAttackers = attackers & pos.PiecesByColor(side)
		if myAttackers == 0 {
			break
		}

		var attackerType, attackerFrom = leastValuableAttacker(pos, myAttackers)

		occupied &^= SquareMask[attackerFrom]

		if attackerType == Pawn || attackerType == Bishop || attackerType == Queen {
			attackers |= BishopAttacks(to, occupied) & bishops
		}
		if attackerType == Rook || attackerType == Queen {
			attackers |= RookAttacks(to, occupied) & rooks
		}

		attackers &= occupied

		side = !side

		balance = -balance - 1 - pieceValuesSEE[attackerType]
		if balance >= 0 {
			if attackerType == King &&
				(attackers&pos.PiecesByColor(side)) != 0 {
				side = !side
			}
			break
		}
	}

	return side != pos.WhiteMove
}

// exchangeStart returns the occupancy after move and every piece that then
// attacks its destination.
func exchangeStart(pos *Position, move Move) (occupied, attackers uint64) {
	var to = move.To()
	occupied = (pos.White|pos.Black)&^SquareMask[move.From()] | SquareMask[to]
	if move.IsEnPassant() {
		if pos.WhiteMove {
			occupied &^= SquareMask[to-8]
		} else {
			occupied &^= SquareMask[to+8]
		}
	}
	attackers = pos.AttackersTo(to, occupied) & occupied
	return
}

// See returns the material balance of the capture sequence on the
// destination of move, both sides always recapturing with their least
// valuable piece and free to stop. The move iterator orders losing captures
// by it.
func See(pos *Position, move Move) int {
	var to = move.To()
	var gain [32]int
	var depth = 0

	gain[0] = pieceValuesSEE[move.CapturedPiece()]
	var onSquare = pieceValuesSEE[move.MovingPiece()]
	if promotion := move.Promotion(); promotion != Empty {
		gain[0] += pieceValuesSEE[promotion] - pieceValuesSEE[Pawn]
		onSquare = pieceValuesSEE[promotion]
	}

	var occupied, attackers = exchangeStart(pos, move)
	var bishops = pos.Bishops | pos.Queens
	var rooks = pos.Rooks | pos.Queens
	var side = !pos.WhiteMove

	for depth+1 < len(gain) {
		var myAttackers = attackers & pos.PiecesByColor(side)
		if myAttackers == 0 {
			break
		}
		var attackerType, attackerFrom = lva(pos, myAttackers)

		var nextOccupied = occupied &^ SquareMask[attackerFrom]
		var nextAttackers = attackers
		if attackerType == Pawn || attackerType == Bishop || attackerType == Queen {
			nextAttackers |= BishopAttacks(to, nextOccupied) & bishops
		}
		if attackerType == Rook || attackerType == Queen {
			nextAttackers |= RookAttacks(to, nextOccupied) & rooks
		}
		nextAttackers &= nextOccupied

		// the king may only take a piece nobody defends
		if attackerType == King && nextAttackers&pos.PiecesByColor(!side) != 0 {
			break
		}

		depth++
		gain[depth] = onSquare - gain[depth-1]
		// the sign can no longer change
		if Max(-gain[depth-1], gain[depth]) < 0 {
			depth--
			break
		}

		onSquare = pieceValuesSEE[attackerType]
		occupied = nextOccupied
		attackers = nextAttackers
		side = !side
	}

	for ; depth > 0; depth-- {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// lva picks the least valuable attacker and panics when the two searches
// disagree.
func lva(p *Position, attackers uint64) (attacker, from int) {
	attacker, from = leastValuableAttacker(p, attackers)
	var attacker2, from2 = leastValuableAttackerByValue(p, attackers)
	if attacker != attacker2 || from != from2 {
		panic(fmt.Errorf("least valuable attacker mismatch %v: %v on %v vs %v on %v",
			p, attacker, SquareName(from), attacker2, SquareName(from2)))
	}
	return
}

// leastValuableAttacker scans the piece masks from pawn to king.
func leastValuableAttacker(p *Position, attackers uint64) (attacker, from int) {
	if p.Pawns&attackers != 0 {
		return Pawn, FirstOne(p.Pawns & attackers)
	}
	if p.Knights&attackers != 0 {
		return Knight, FirstOne(p.Knights & attackers)
	}
	if p.Bishops&attackers != 0 {
		return Bishop, FirstOne(p.Bishops & attackers)
	}
	if p.Rooks&attackers != 0 {
		return Rook, FirstOne(p.Rooks & attackers)
	}
	if p.Queens&attackers != 0 {
		return Queen, FirstOne(p.Queens & attackers)
	}
	if p.Kings&attackers != 0 {
		return King, FirstOne(p.Kings & attackers)
	}
	return Empty, SquareNone
}

// leastValuableAttackerByValue scans the attacking squares and keeps the
// cheapest piece.
func leastValuableAttackerByValue(p *Position, attackers uint64) (attacker, from int) {
	attacker, from = Empty, SquareNone
	for x := attackers; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		if attacker == Empty || pieceValuesSEE[piece] < pieceValuesSEE[attacker] {
			attacker, from = piece, sq
		}
	}
	return
}
