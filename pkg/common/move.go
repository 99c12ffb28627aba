package common

import (
	"errors"
	"fmt"
	"strings"
)

var ErrIllegalMove = errors.New("illegal move")

// Move packs from(6) to(6) moving piece(3) captured piece(3) promotion(3) flag(3).
type Move int32

const MoveEmpty = Move(0)

const (
	FlagNone = iota
	FlagDoublePush
	FlagEnPassant
	FlagCastleShort
	FlagCastleLong
)

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15))
}

func makeSpecialMove(from, to, movingPiece, capturedPiece, flag int) Move {
	return makeMove(from, to, movingPiece, capturedPiece) ^ Move(flag<<21)
}

func makePawnMove(from, to, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (capturedPiece << 15) ^ (promotion << 18))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) Flag() int {
	return int((m >> 21) & 7)
}

func (m Move) IsCapture() bool {
	return m.CapturedPiece() != Empty
}

func (m Move) IsCaptureOrPromotion() bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

func (m Move) IsCastle() bool {
	var flag = m.Flag()
	return flag == FlagCastleShort || flag == FlagCastleLong
}

func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// SameMove compares the part of a move a user can express: squares and promotion.
func SameMove(a, b Move) bool {
	const mask = 63 | (63 << 6) | (7 << 18)
	return a&mask == b&mask
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// ParseMoveLAN finds the legal move written as e2e4 or e7e8q.
func (p *Position) ParseMoveLAN(lan string) (Move, error) {
	if len(lan) != 4 && len(lan) != 5 {
		return MoveEmpty, fmt.Errorf("parse move %q: %w", lan, ErrIllegalMove)
	}
	for _, mv := range p.GenerateLegalMoves() {
		if strings.EqualFold(mv.String(), lan) {
			return mv, nil
		}
	}
	return MoveEmpty, fmt.Errorf("parse move %q in %v: %w", lan, p, ErrIllegalMove)
}

func (p *Position) MakeMoveLAN(lan string) (Position, bool) {
	var mv, err = p.ParseMoveLAN(lan)
	if err != nil {
		return Position{}, false
	}
	var newPosition = Position{}
	if !p.MakeMove(mv, &newPosition) {
		return Position{}, false
	}
	return newPosition, true
}

func moveToSAN(ml []Move, mv Move) string {
	const PieceNames = "NBRQK"
	if mv.Flag() == FlagCastleShort {
		return "O-O"
	}
	if mv.Flag() == FlagCastleLong {
		return "O-O-O"
	}
	var strPiece, strCapture, strFrom, strTo, strPromotion string
	if mv.MovingPiece() != Pawn {
		strPiece = string(PieceNames[mv.MovingPiece()-Knight])
	}
	strTo = SquareName(mv.To())
	if mv.CapturedPiece() != Empty {
		strCapture = "x"
		if mv.MovingPiece() == Pawn {
			strFrom = SquareName(mv.From())[:1]
		}
	}
	if mv.Promotion() != Empty {
		strPromotion = "=" + string(PieceNames[mv.Promotion()-Knight])
	}
	var ambiguity = false
	var uniqCol = true
	var uniqRow = true
	for _, mv1 := range ml {
		if mv1.From() == mv.From() {
			continue
		}
		if mv1.To() != mv.To() {
			continue
		}
		if mv1.MovingPiece() != mv.MovingPiece() {
			continue
		}
		ambiguity = true
		if File(mv1.From()) == File(mv.From()) {
			uniqCol = false
		}
		if Rank(mv1.From()) == Rank(mv.From()) {
			uniqRow = false
		}
	}
	if ambiguity && mv.MovingPiece() != Pawn {
		if uniqCol {
			strFrom = SquareName(mv.From())[:1]
		} else if uniqRow {
			strFrom = SquareName(mv.From())[1:2]
		} else {
			strFrom = SquareName(mv.From())
		}
	}
	return strPiece + strFrom + strCapture + strTo + strPromotion
}

func (p *Position) MoveToSAN(mv Move) string {
	return moveToSAN(p.GenerateLegalMoves(), mv)
}

func (p *Position) ParseMoveSAN(san string) (Move, error) {
	var s = san
	var index = strings.IndexAny(s, "+#?!")
	if index >= 0 {
		s = s[:index]
	}
	var ml = p.GenerateLegalMoves()
	for _, mv := range ml {
		if s == moveToSAN(ml, mv) {
			return mv, nil
		}
	}
	return MoveEmpty, fmt.Errorf("parse san %q: %w", san, ErrIllegalMove)
}
