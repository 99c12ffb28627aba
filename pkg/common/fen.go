package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidFEN = errors.New("invalid fen")

func fenError(fen string, format string, args ...interface{}) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidFEN, fen, fmt.Sprintf(format, args...))
}

// NewPositionFromFEN parses a board description. The move counters may be
// omitted. Any malformed field or impossible position is reported as an
// error wrapping ErrInvalidFEN.
func NewPositionFromFEN(fen string) (Position, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 || len(tokens) > 6 {
		return Position{}, fenError(fen, "expected 4 to 6 fields, got %d", len(tokens))
	}

	var p = Position{
		EpSquare: SquareNone,
		FullMove: 1,
		LastMove: MoveEmpty,
	}

	var ranks = strings.Split(tokens[0], "/")
	if len(ranks) != 8 {
		return Position{}, fenError(fen, "expected 8 ranks, got %d", len(ranks))
	}
	for i, sRank := range ranks {
		var rank = Rank8 - i
		var file = FileA
		for _, ch := range sRank {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			var piece = parsePiece(ch)
			if piece.Type == Empty {
				return Position{}, fenError(fen, "unknown piece %q", ch)
			}
			if file > FileH {
				return Position{}, fenError(fen, "rank %d is too long", rank+1)
			}
			xorPiece(&p, piece.Type, piece.Side, MakeSquare(file, rank))
			file++
		}
		if file != 8 {
			return Position{}, fenError(fen, "rank %d describes %d squares", rank+1, file)
		}
	}

	switch tokens[1] {
	case "w":
		p.WhiteMove = true
	case "b":
		p.WhiteMove = false
	default:
		return Position{}, fenError(fen, "bad side to move %q", tokens[1])
	}

	if tokens[2] != "-" {
		for _, ch := range tokens[2] {
			var flag = strings.IndexRune("KQkq", ch)
			if flag < 0 {
				return Position{}, fenError(fen, "bad castling letter %q", ch)
			}
			if p.CastleRights&(1<<uint(flag)) != 0 {
				return Position{}, fenError(fen, "repeated castling letter %q", ch)
			}
			p.CastleRights |= 1 << uint(flag)
		}
	}

	var ep, err = ParseSquare(tokens[3])
	if err != nil {
		return Position{}, fenError(fen, "%v", err)
	}
	p.EpSquare = ep

	if len(tokens) > 4 {
		p.Rule50, err = strconv.Atoi(tokens[4])
		if err != nil || p.Rule50 < 0 {
			return Position{}, fenError(fen, "bad halfmove clock %q", tokens[4])
		}
	}
	if len(tokens) > 5 {
		p.FullMove, err = strconv.Atoi(tokens[5])
		if err != nil || p.FullMove < 1 {
			return Position{}, fenError(fen, "bad move number %q", tokens[5])
		}
	}

	if PopCount(p.Kings&p.White) != 1 || PopCount(p.Kings&p.Black) != 1 {
		return Position{}, fenError(fen, "each side needs exactly one king")
	}
	p.Key = p.ComputeKey()
	p.Checkers = p.computeCheckers()
	if err := p.Validate(); err != nil {
		return Position{}, fenError(fen, "%v", err)
	}
	return p, nil
}

func (p *Position) placement() string {
	var sb strings.Builder
	for rank := Rank8; rank >= Rank1; rank-- {
		var emptyCount = 0
		for file := FileA; file <= FileH; file++ {
			var sq = MakeSquare(file, rank)
			var piece, side = p.GetPieceTypeAndSide(sq)
			if piece == Empty {
				emptyCount++
				continue
			}
			if emptyCount != 0 {
				sb.WriteString(strconv.Itoa(emptyCount))
				emptyCount = 0
			}
			sb.WriteString(pieceToChar(piece, side))
		}
		if emptyCount != 0 {
			sb.WriteString(strconv.Itoa(emptyCount))
		}
		if rank != Rank1 {
			sb.WriteString("/")
		}
	}
	return sb.String()
}

func (p *Position) String() string {
	var sb strings.Builder

	sb.WriteString(p.placement())
	sb.WriteString(" ")

	if p.WhiteMove {
		sb.WriteString("w")
	} else {
		sb.WriteString("b")
	}
	sb.WriteString(" ")

	if p.CastleRights == 0 {
		sb.WriteString("-")
	} else {
		if (p.CastleRights & WhiteKingSide) != 0 {
			sb.WriteString("K")
		}
		if (p.CastleRights & WhiteQueenSide) != 0 {
			sb.WriteString("Q")
		}
		if (p.CastleRights & BlackKingSide) != 0 {
			sb.WriteString("k")
		}
		if (p.CastleRights & BlackQueenSide) != 0 {
			sb.WriteString("q")
		}
	}
	sb.WriteString(" ")

	sb.WriteString(SquareName(p.EpSquare))
	sb.WriteString(" ")

	sb.WriteString(strconv.Itoa(p.Rule50))
	sb.WriteString(" ")

	sb.WriteString(strconv.Itoa(Max(1, p.FullMove)))

	return sb.String()
}
