package common

var (
	whiteKingSideCastle  = makeSpecialMove(SquareE1, SquareG1, King, Empty, FlagCastleShort)
	whiteQueenSideCastle = makeSpecialMove(SquareE1, SquareC1, King, Empty, FlagCastleLong)
	blackKingSideCastle  = makeSpecialMove(SquareE8, SquareG8, King, Empty, FlagCastleShort)
	blackQueenSideCastle = makeSpecialMove(SquareE8, SquareC8, King, Empty, FlagCastleLong)
)

// pawnShifts describes pawn geometry for the side to move: the push
// offset and the offsets of the two capture directions.
type pawnShifts struct {
	push, left, right       int
	promotionRank, pushRank uint64
}

var (
	whitePawnShifts = pawnShifts{8, 7, 9, Rank8Mask, Rank3Mask}
	blackPawnShifts = pawnShifts{-8, -9, -7, Rank1Mask, Rank6Mask}
)

func (p *Position) pawnGeometry() (pawnShifts, func(uint64) uint64, func(uint64) uint64, func(uint64) uint64) {
	if p.WhiteMove {
		return whitePawnShifts, Up, UpLeft, UpRight
	}
	return blackPawnShifts, Down, DownLeft, DownRight
}

func (p *Position) sides() (own, opp uint64) {
	if p.WhiteMove {
		return p.White, p.Black
	}
	return p.Black, p.White
}

func add(ml []OrderedMove, move Move) []OrderedMove {
	return append(ml, OrderedMove{Move: move})
}

func addPieceMoves(ml []OrderedMove, p *Position, own, target uint64) []OrderedMove {
	var allPieces = p.White | p.Black
	for fromBB := p.Knights & own; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			ml = add(ml, makeMove(from, to, Knight, p.WhatPiece(to)))
		}
	}
	for fromBB := p.Bishops & own; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			ml = add(ml, makeMove(from, to, Bishop, p.WhatPiece(to)))
		}
	}
	for fromBB := p.Rooks & own; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			ml = add(ml, makeMove(from, to, Rook, p.WhatPiece(to)))
		}
	}
	for fromBB := p.Queens & own; fromBB != 0; fromBB &= fromBB - 1 {
		var from = FirstOne(fromBB)
		for toBB := QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			ml = add(ml, makeMove(from, to, Queen, p.WhatPiece(to)))
		}
	}
	var from = FirstOne(p.Kings & own)
	for toBB := KingAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml = add(ml, makeMove(from, to, King, p.WhatPiece(to)))
	}
	return ml
}

// GenerateCaptures appends captures, en passant and queen promotions to ml.
// Together with GenerateQuiets it yields every pseudo-legal move once.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	var own, opp = p.sides()
	var allPieces = p.White | p.Black
	var pawns = p.Pawns & own
	var shifts, push, left, right = p.pawnGeometry()

	if p.EpSquare != SquareNone {
		for fromBB := PawnAttacks(p.EpSquare, !p.WhiteMove) & pawns; fromBB != 0; fromBB &= fromBB - 1 {
			var from = FirstOne(fromBB)
			ml = add(ml, makeSpecialMove(from, p.EpSquare, Pawn, Pawn, FlagEnPassant))
		}
	}

	for _, dir := range [2]struct {
		targets uint64
		delta   int
	}{{left(pawns) & opp, shifts.left}, {right(pawns) & opp, shifts.right}} {
		for toBB := dir.targets; toBB != 0; toBB &= toBB - 1 {
			var to = FirstOne(toBB)
			var from = to - dir.delta
			var captured = p.WhatPiece(to)
			if SquareMask[to]&shifts.promotionRank != 0 {
				for promotion := Queen; promotion >= Knight; promotion-- {
					ml = add(ml, makePawnMove(from, to, captured, promotion))
				}
			} else {
				ml = add(ml, makePawnMove(from, to, captured, Empty))
			}
		}
	}

	for toBB := push(pawns) &^ allPieces & shifts.promotionRank; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml = add(ml, makePawnMove(to-shifts.push, to, Empty, Queen))
	}

	return addPieceMoves(ml, p, own, opp)
}

// GenerateQuiets appends non-capturing moves: pushes, under-promotion
// pushes, piece moves to empty squares and castling.
func (p *Position) GenerateQuiets(ml []OrderedMove) []OrderedMove {
	var own, _ = p.sides()
	var allPieces = p.White | p.Black
	var pawns = p.Pawns & own
	var shifts, push, _, _ = p.pawnGeometry()

	var single = push(pawns) &^ allPieces
	for toBB := single &^ shifts.promotionRank; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml = add(ml, makePawnMove(to-shifts.push, to, Empty, Empty))
	}
	for toBB := push(single&shifts.pushRank) &^ allPieces; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		ml = add(ml, makeSpecialMove(to-2*shifts.push, to, Pawn, Empty, FlagDoublePush))
	}
	for toBB := single & shifts.promotionRank; toBB != 0; toBB &= toBB - 1 {
		var to = FirstOne(toBB)
		for promotion := Rook; promotion >= Knight; promotion-- {
			ml = add(ml, makePawnMove(to-shifts.push, to, Empty, promotion))
		}
	}

	ml = addPieceMoves(ml, p, own, ^allPieces)

	if p.Checkers != 0 {
		return ml
	}
	if p.WhiteMove {
		if (p.CastleRights&WhiteKingSide) != 0 &&
			(allPieces&BetweenMask(SquareE1, SquareH1)) == 0 &&
			!p.IsAttackedBySide(SquareE1, false) &&
			!p.IsAttackedBySide(SquareF1, false) &&
			!p.IsAttackedBySide(SquareG1, false) {
			ml = add(ml, whiteKingSideCastle)
		}
		if (p.CastleRights&WhiteQueenSide) != 0 &&
			(allPieces&BetweenMask(SquareE1, SquareA1)) == 0 &&
			!p.IsAttackedBySide(SquareE1, false) &&
			!p.IsAttackedBySide(SquareD1, false) &&
			!p.IsAttackedBySide(SquareC1, false) {
			ml = add(ml, whiteQueenSideCastle)
		}
	} else {
		if (p.CastleRights&BlackKingSide) != 0 &&
			(allPieces&BetweenMask(SquareE8, SquareH8)) == 0 &&
			!p.IsAttackedBySide(SquareE8, true) &&
			!p.IsAttackedBySide(SquareF8, true) &&
			!p.IsAttackedBySide(SquareG8, true) {
			ml = add(ml, blackKingSideCastle)
		}
		if (p.CastleRights&BlackQueenSide) != 0 &&
			(allPieces&BetweenMask(SquareE8, SquareA8)) == 0 &&
			!p.IsAttackedBySide(SquareE8, true) &&
			!p.IsAttackedBySide(SquareD8, true) &&
			!p.IsAttackedBySide(SquareC8, true) {
			ml = add(ml, blackQueenSideCastle)
		}
	}
	return ml
}

// GenerateMoves appends all pseudo-legal moves, captures first.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	return p.GenerateQuiets(p.GenerateCaptures(ml))
}

func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result []Move
	for _, m := range p.GenerateMoves(buffer[:0]) {
		if p.MakeMove(m.Move, &child) {
			result = append(result, m.Move)
		}
	}
	return result
}

// HasLegalMove stops at the first move that does not leave the king in check.
func (p *Position) HasLegalMove() bool {
	var buffer [MaxMoves]OrderedMove
	var child Position
	for _, m := range p.GenerateCaptures(buffer[:0]) {
		if p.MakeMove(m.Move, &child) {
			return true
		}
	}
	for _, m := range p.GenerateQuiets(buffer[:0]) {
		if p.MakeMove(m.Move, &child) {
			return true
		}
	}
	return false
}
