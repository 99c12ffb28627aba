package common

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

func TestFENRoundTrip(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		var p, err = NewPositionFromFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, p.String())

		var q, err2 = NewPositionFromFEN(p.String())
		require.NoError(t, err2)
		assert.True(t, p.Equal(&q), fen)
		assert.Equal(t, p.Key, q.Key, fen)
	}
}

func TestFENWithoutCounters(t *testing.T) {
	is := is.New(t)
	var p, err = NewPositionFromFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -")
	is.NoErr(err)
	is.Equal(p.String(), "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
}

func TestMalformedFEN(t *testing.T) {
	var tests = []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"few fields", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w"},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"long rank", "rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"short rank", "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"unknown piece", "rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad side", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1"},
		{"bad castling", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1"},
		{"castling without rook", "rnbqkbn1/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"bad ep", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1"},
		{"ep without pawn", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1"},
		{"bad clock", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1"},
		{"bad move number", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0"},
		{"no black king", "rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1"},
		{"two white kings", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKKBNR w kq - 0 1"},
		{"pawn on last rank", "rnbqkbnP/pppppppp/8/8/8/8/PPPPPPP1/RNBQKBNR w KQq - 0 1"},
		{"side not to move in check", "4k3/8/8/8/8/8/8/4RK2 w - - 0 1"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var _, err = NewPositionFromFEN(test.fen)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFEN), err.Error())
		})
	}
}

// randomPlayout plays random legal moves and checks the board after each one.
func randomPlayout(t *testing.T, fen string, plies int) {
	var p, err = NewPositionFromFEN(fen)
	require.NoError(t, err)
	for i := 0; i < plies; i++ {
		var ml = p.GenerateLegalMoves()
		if len(ml) == 0 {
			return
		}
		var m = ml[frand.Intn(len(ml))]
		var child Position
		require.True(t, p.MakeMove(m, &child))
		require.NoError(t, child.Validate(), "%v after %v", p.String(), m)
		require.Equal(t, child.ComputeKey(), child.Key, "%v after %v", p.String(), m)

		var reparsed, err = NewPositionFromFEN(child.String())
		require.NoError(t, err)
		require.True(t, child.Equal(&reparsed))
		require.Equal(t, child.Key, reparsed.Key)
		p = child
	}
}

func TestHashConsistency(t *testing.T) {
	var fens = []string{
		InitialPositionFen,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range fens {
		for game := 0; game < 20; game++ {
			randomPlayout(t, fen, 200)
		}
	}
}

func TestMakeMoveKeepsParent(t *testing.T) {
	is := is.New(t)
	var p, err = NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	is.NoErr(err)
	var saved = p
	var child Position
	for _, m := range p.GenerateMoves(nil) {
		p.MakeMove(m.Move, &child)
		is.Equal(p, saved)
	}
}

func TestNullMove(t *testing.T) {
	is := is.New(t)
	var p, err = NewPositionFromFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2")
	is.NoErr(err)
	var child Position
	p.MakeNullMove(&child)
	is.Equal(child.WhiteMove, false)
	is.Equal(child.EpSquare, SquareNone)
	is.Equal(child.Key, child.ComputeKey())
	is.Equal(child.LastMove, MoveEmpty)
}

func TestSpecialMoves(t *testing.T) {
	var tests = []struct {
		fen, move, want string
	}{
		{InitialPositionFen, "e2e4", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"},
		{"8/8/8/2k5/3Pp3/8/8/4K3 b - d3 0 1", "e4d3", "8/8/8/2k5/8/3p4/8/4K3 w - - 0 2"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 1 1"},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 1 2"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a8", "R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1"},
		{"4k3/1P6/8/8/8/8/8/4K3 w - - 0 1", "b7b8n", "1N2k3/8/8/8/8/8/8/4K3 b - - 0 1"},
		{"r3k3/1P6/8/8/8/8/8/4K3 w q - 0 1", "b7a8q", "Q3k3/8/8/8/8/8/8/4K3 b - - 0 1"},
	}
	for _, test := range tests {
		var p, err = NewPositionFromFEN(test.fen)
		require.NoError(t, err)
		var child, ok = p.MakeMoveLAN(test.move)
		require.True(t, ok, "%v %v", test.fen, test.move)
		assert.Equal(t, test.want, child.String())
		assert.NoError(t, child.Validate())
	}
}

func TestKingSquarePanicsWithoutKing(t *testing.T) {
	var p = Position{EpSquare: SquareNone}
	assert.Panics(t, func() { p.KingSquare(true) })
}

func TestMirrorPosition(t *testing.T) {
	is := is.New(t)
	var p, err = NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	is.NoErr(err)
	var m = MirrorPosition(&p)
	is.NoErr(m.Validate())
	is.Equal(m.WhiteMove, false)
	is.Equal(len(m.GenerateLegalMoves()), len(p.GenerateLegalMoves()))
	var back = MirrorPosition(&m)
	is.True(back.Equal(&p))
}

func TestIsCheckedAndNonPawnMaterial(t *testing.T) {
	is := is.New(t)
	var p, err = NewPositionFromFEN("4k3/8/8/8/8/8/4r3/R3K3 w - - 0 1")
	is.NoErr(err)
	is.True(p.IsChecked(true))
	is.True(!p.IsChecked(false))
	is.Equal(p.IsChecked(p.WhiteMove), p.IsCheck())
	is.Equal(p.NonPawnMaterial(true), SquareMask[SquareA1])
	is.Equal(p.NonPawnMaterial(false), SquareMask[SquareE2])

	// Kf2 stays on the rook's rank, Kf1 escapes
	for _, om := range p.GenerateMoves(nil) {
		var child Position
		switch om.Move.String() {
		case "e1f2":
			is.True(!p.MakeMove(om.Move, &child))
		case "e1f1":
			is.True(p.MakeMove(om.Move, &child))
			is.True(!child.IsChecked(true))
		}
	}

	p, err = NewPositionFromFEN("4k3/pppp4/8/8/8/8/PPPP4/4K3 w - - 0 1")
	is.NoErr(err)
	is.Equal(p.NonPawnMaterial(true), uint64(0))
	is.Equal(p.NonPawnMaterial(false), uint64(0))
}
