package common

import (
	"errors"
	"fmt"
)

var castleMask [64]int

func (p *Position) WhatPiece(sq int) int {
	var bb = SquareMask[sq]
	if ((p.White | p.Black) & bb) == 0 {
		return Empty
	}
	if (p.Pawns & bb) != 0 {
		return Pawn
	}
	if (p.Knights & bb) != 0 {
		return Knight
	}
	if (p.Bishops & bb) != 0 {
		return Bishop
	}
	if (p.Rooks & bb) != 0 {
		return Rook
	}
	if (p.Queens & bb) != 0 {
		return Queen
	}
	if (p.Kings & bb) != 0 {
		return King
	}
	panic(fmt.Errorf("wrong piece on %s", SquareName(sq)))
}

func (p *Position) GetPieceTypeAndSide(sq int) (pieceType int, side bool) {
	var bb = SquareMask[sq]
	if (p.White & bb) != 0 {
		side = true
	} else if (p.Black & bb) == 0 {
		return Empty, false
	}
	return p.WhatPiece(sq), side
}

func (p *Position) PiecesByColor(side bool) uint64 {
	if side {
		return p.White
	}
	return p.Black
}

// MakeMove writes the position after move into result and reports whether
// the mover's king is safe there. src is never modified. On false the
// content of result is undefined.
func (src *Position) MakeMove(move Move, result *Position) bool {
	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()

	result.Pawns = src.Pawns
	result.Knights = src.Knights
	result.Bishops = src.Bishops
	result.Rooks = src.Rooks
	result.Queens = src.Queens
	result.Kings = src.Kings
	result.White = src.White
	result.Black = src.Black

	result.WhiteMove = !src.WhiteMove
	result.Key = src.Key ^ sideKey

	result.CastleRights = src.CastleRights & castleMask[from] & castleMask[to]
	result.Key ^= castlingKey[result.CastleRights^src.CastleRights]

	if movingPiece == Pawn || capturedPiece != Empty {
		result.Rule50 = 0
	} else {
		result.Rule50 = src.Rule50 + 1
	}
	result.FullMove = src.FullMove
	if !src.WhiteMove {
		result.FullMove++
	}

	result.EpSquare = SquareNone
	if src.EpSquare != SquareNone {
		result.Key ^= enpassantKey[File(src.EpSquare)]
	}

	if capturedPiece != Empty {
		if move.Flag() == FlagEnPassant {
			xorPiece(result, Pawn, !src.WhiteMove, to+let(src.WhiteMove, -8, 8))
		} else {
			xorPiece(result, capturedPiece, !src.WhiteMove, to)
		}
	}

	movePiece(result, movingPiece, src.WhiteMove, from, to)

	switch move.Flag() {
	case FlagDoublePush:
		result.EpSquare = (from + to) / 2
		result.Key ^= enpassantKey[File(result.EpSquare)]
	case FlagCastleShort:
		if src.WhiteMove {
			movePiece(result, Rook, true, SquareH1, SquareF1)
		} else {
			movePiece(result, Rook, false, SquareH8, SquareF8)
		}
	case FlagCastleLong:
		if src.WhiteMove {
			movePiece(result, Rook, true, SquareA1, SquareD1)
		} else {
			movePiece(result, Rook, false, SquareA8, SquareD8)
		}
	}

	if promotion := move.Promotion(); promotion != Empty {
		xorPiece(result, Pawn, src.WhiteMove, to)
		xorPiece(result, promotion, src.WhiteMove, to)
	}

	if !result.isLegal() {
		return false
	}
	result.Checkers = result.computeCheckers()
	result.LastMove = move
	return true
}

func (src *Position) MakeNullMove(result *Position) {
	result.Pawns = src.Pawns
	result.Knights = src.Knights
	result.Bishops = src.Bishops
	result.Rooks = src.Rooks
	result.Queens = src.Queens
	result.Kings = src.Kings
	result.White = src.White
	result.Black = src.Black
	result.Rule50 = src.Rule50 + 1
	result.FullMove = src.FullMove
	result.CastleRights = src.CastleRights

	result.WhiteMove = !src.WhiteMove
	result.Key = src.Key ^ sideKey

	result.EpSquare = SquareNone
	if src.EpSquare != SquareNone {
		result.Key ^= enpassantKey[File(src.EpSquare)]
	}

	result.Checkers = 0
	result.LastMove = MoveEmpty
}

func xorPiece(p *Position, piece int, side bool, square int) {
	var b = SquareMask[square]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	switch piece {
	case Pawn:
		p.Pawns ^= b
	case Knight:
		p.Knights ^= b
	case Bishop:
		p.Bishops ^= b
	case Rook:
		p.Rooks ^= b
	case Queen:
		p.Queens ^= b
	case King:
		p.Kings ^= b
	}
	p.Key ^= PieceSquareKey(piece, side, square)
}

func movePiece(p *Position, piece int, side bool, from int, to int) {
	var b = SquareMask[from] ^ SquareMask[to]
	if side {
		p.White ^= b
	} else {
		p.Black ^= b
	}
	switch piece {
	case Pawn:
		p.Pawns ^= b
	case Knight:
		p.Knights ^= b
	case Bishop:
		p.Bishops ^= b
	case Rook:
		p.Rooks ^= b
	case Queen:
		p.Queens ^= b
	case King:
		p.Kings ^= b
	}
	p.Key ^= PieceSquareKey(piece, side, from) ^ PieceSquareKey(piece, side, to)
}

// IsAttackedBySide reports whether any piece of side attacks sq.
func (p *Position) IsAttackedBySide(sq int, side bool) bool {
	var enemy = p.PiecesByColor(side)
	if (PawnAttacks(sq, !side) & p.Pawns & enemy) != 0 {
		return true
	}
	if (KnightAttacks[sq] & p.Knights & enemy) != 0 {
		return true
	}
	if (KingAttacks[sq] & p.Kings & enemy) != 0 {
		return true
	}
	var allPieces = p.White | p.Black
	if (BishopAttacks(sq, allPieces) & (p.Bishops | p.Queens) & enemy) != 0 {
		return true
	}
	if (RookAttacks(sq, allPieces) & (p.Rooks | p.Queens) & enemy) != 0 {
		return true
	}
	return false
}

// AttackersTo returns the pieces of both colours attacking sq through occ.
func (p *Position) AttackersTo(sq int, occ uint64) uint64 {
	return (blackPawnAttacks[sq] & p.Pawns & p.White) |
		(whitePawnAttacks[sq] & p.Pawns & p.Black) |
		(KnightAttacks[sq] & p.Knights) |
		(BishopAttacks(sq, occ) & (p.Bishops | p.Queens)) |
		(RookAttacks(sq, occ) & (p.Rooks | p.Queens)) |
		(KingAttacks[sq] & p.Kings)
}

func (p *Position) KingSquare(side bool) int {
	var kings = p.Kings & p.PiecesByColor(side)
	if kings == 0 {
		panic(fmt.Errorf("no king for %v in %v", sideName(side), p.placement()))
	}
	return FirstOne(kings)
}

func (p *Position) computeCheckers() uint64 {
	var kingSq = p.KingSquare(p.WhiteMove)
	return p.AttackersTo(kingSq, p.White|p.Black) & p.PiecesByColor(!p.WhiteMove)
}

// isLegal reports whether the side that just moved left its king safe.
func (p *Position) isLegal() bool {
	return !p.IsChecked(!p.WhiteMove)
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

// IsChecked reports whether the king of side is attacked.
func (p *Position) IsChecked(side bool) bool {
	return p.IsAttackedBySide(p.KingSquare(side), !side)
}

// Equal compares placement, side to move, castling rights and en passant
// square. Counters and the last move are ignored.
func (p *Position) Equal(other *Position) bool {
	return p.White == other.White &&
		p.Black == other.Black &&
		p.Pawns == other.Pawns &&
		p.Knights == other.Knights &&
		p.Bishops == other.Bishops &&
		p.Rooks == other.Rooks &&
		p.Queens == other.Queens &&
		p.Kings == other.Kings &&
		p.WhiteMove == other.WhiteMove &&
		p.CastleRights == other.CastleRights &&
		p.EpSquare == other.EpSquare
}

func (p *Position) NonPawnMaterial(side bool) uint64 {
	return (p.Knights | p.Bishops | p.Rooks | p.Queens) & p.PiecesByColor(side)
}

// Validate checks the board invariants: disjoint masks, one king per side,
// no pawns on the back ranks, consistent castling and en passant state, the
// side not to move not in check, and the key.
func (p *Position) Validate() error {
	if p.White&p.Black != 0 {
		return errors.New("square occupied by both colours")
	}
	var pieces = []uint64{p.Pawns, p.Knights, p.Bishops, p.Rooks, p.Queens, p.Kings}
	var union uint64
	for i, bb := range pieces {
		for _, other := range pieces[i+1:] {
			if bb&other != 0 {
				return errors.New("square occupied by two piece types")
			}
		}
		union |= bb
	}
	if union != p.White|p.Black {
		return errors.New("piece masks disagree with colour masks")
	}
	if PopCount(p.Kings&p.White) != 1 || PopCount(p.Kings&p.Black) != 1 {
		return errors.New("each side needs exactly one king")
	}
	if p.Pawns&(Rank1Mask|Rank8Mask) != 0 {
		return errors.New("pawn on first or last rank")
	}
	if err := p.validateCastling(); err != nil {
		return err
	}
	if p.EpSquare != SquareNone {
		var wantRank, pawnSq = Rank6, p.EpSquare - 8
		if !p.WhiteMove {
			wantRank, pawnSq = Rank3, p.EpSquare+8
		}
		if Rank(p.EpSquare) != wantRank ||
			(p.Pawns&p.PiecesByColor(!p.WhiteMove)&SquareMask[pawnSq]) == 0 ||
			(p.White|p.Black)&SquareMask[p.EpSquare] != 0 {
			return fmt.Errorf("bad en passant square %v", SquareName(p.EpSquare))
		}
	}
	if !p.isLegal() {
		return errors.New("side not to move is in check")
	}
	if p.Checkers != p.computeCheckers() {
		return errors.New("checkers out of date")
	}
	if p.Key != p.ComputeKey() {
		return errors.New("key out of date")
	}
	return nil
}

func (p *Position) validateCastling() error {
	var rights = []struct {
		flag       int
		king, rook int
		side       bool
	}{
		{WhiteKingSide, SquareE1, SquareH1, true},
		{WhiteQueenSide, SquareE1, SquareA1, true},
		{BlackKingSide, SquareE8, SquareH8, false},
		{BlackQueenSide, SquareE8, SquareA8, false},
	}
	var own = func(side bool, pieces uint64, sq int) bool {
		return pieces&p.PiecesByColor(side)&SquareMask[sq] != 0
	}
	for _, r := range rights {
		if p.CastleRights&r.flag == 0 {
			continue
		}
		if !own(r.side, p.Kings, r.king) || !own(r.side, p.Rooks, r.rook) {
			return fmt.Errorf("castling right without king and rook on %v, %v",
				SquareName(r.king), SquareName(r.rook))
		}
	}
	return nil
}

func MirrorPosition(p *Position) Position {
	var result = Position{
		WhiteMove:    !p.WhiteMove,
		CastleRights: (p.CastleRights >> 2) | ((p.CastleRights & 3) << 2),
		EpSquare:     SquareNone,
		Rule50:       p.Rule50,
		FullMove:     p.FullMove,
	}
	for x := p.White | p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var pt, side = p.GetPieceTypeAndSide(sq)
		xorPiece(&result, pt, !side, FlipSquare(sq))
	}
	if p.EpSquare != SquareNone {
		result.EpSquare = FlipSquare(p.EpSquare)
	}
	result.Key = result.ComputeKey()
	result.Checkers = result.computeCheckers()
	return result
}

func sideName(side bool) string {
	if side {
		return "white"
	}
	return "black"
}

func init() {
	initKeys()
	for i := range castleMask {
		castleMask[i] = AllCastleRights
	}
	castleMask[SquareA1] &^= WhiteQueenSide
	castleMask[SquareE1] &^= WhiteQueenSide | WhiteKingSide
	castleMask[SquareH1] &^= WhiteKingSide
	castleMask[SquareA8] &^= BlackQueenSide
	castleMask[SquareE8] &^= BlackQueenSide | BlackKingSide
	castleMask[SquareH8] &^= BlackKingSide
}
