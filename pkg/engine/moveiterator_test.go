package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

var orderingFens = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

func iterate(mi *moveIterator) []Move {
	var result []Move
	for mi.Reset(); ; {
		var m = mi.Next()
		if m == MoveEmpty {
			return result
		}
		result = append(result, m)
	}
}

func TestMoveIteratorYieldsEveryMoveOnce(t *testing.T) {
	for _, fen := range orderingFens {
		var p, err = NewPositionFromFEN(fen)
		require.NoError(t, err)

		var all []Move
		for _, om := range p.GenerateMoves(nil) {
			all = append(all, om.Move)
		}
		var quiets = p.GenerateQuiets(nil)
		var captures = p.GenerateCaptures(nil)
		var foreign = testMove(t, InitialPositionFen, "b1c3")

		var hints = [][3]Move{
			{MoveEmpty, MoveEmpty, MoveEmpty},
			{all[0], all[len(all)-1], all[len(all)/2]},
			{quiets[0].Move, quiets[1].Move, quiets[0].Move},
			{foreign, foreign, quiets[len(quiets)-1].Move},
		}
		if len(captures) > 0 {
			hints = append(hints, [3]Move{captures[0].Move, captures[0].Move, foreign})
		}

		var history historyService
		for i, m := range all {
			if !isNoisy(m) && i%3 == 0 {
				history.Update(p.WhiteMove, []Move{m}, m, i%7+1)
			}
		}

		for _, hint := range hints {
			var mi = moveIterator{
				position:  &p,
				buffer:    make([]OrderedMove, MaxMoves),
				history:   &history,
				transMove: hint[0],
				killer1:   hint[1],
				killer2:   hint[2],
			}
			var got = iterate(&mi)
			assert.ElementsMatch(t, all, got, fen)
			// restartable
			assert.Equal(t, got, iterate(&mi), fen)
		}
	}
}

func TestMoveIteratorOrder(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var ttMove = testMove(t, p.String(), "a2a3")
	var killer = testMove(t, p.String(), "g2g3")
	var mi = moveIterator{
		position:  &p,
		buffer:    make([]OrderedMove, MaxMoves),
		history:   &historyService{},
		transMove: ttMove,
		killer1:   killer,
	}
	var got = iterate(&mi)
	require.NotEmpty(t, got)
	assert.Equal(t, ttMove, got[0])

	// winning captures by MVV-LVA before the killer, losing captures last
	var killerIndex = -1
	for i, m := range got {
		if m == killer {
			killerIndex = i
		}
	}
	require.True(t, killerIndex > 0)
	var lastGood = -1
	for i, m := range got[1:killerIndex] {
		require.True(t, isNoisy(m), m.String())
		require.True(t, seeGEZero(&p, m), m.String())
		if i > 0 {
			assert.LessOrEqual(t, mvvlva(m), lastGood, m.String())
		}
		lastGood = mvvlva(m)
	}
	// quiets, then the losing captures
	var rest = got[killerIndex+1:]
	var firstBad = len(rest)
	for i, m := range rest {
		if isNoisy(m) {
			firstBad = i
			break
		}
	}
	var lastSee = 1 << 30
	for _, m := range rest[firstBad:] {
		require.True(t, isNoisy(m), m.String())
		assert.False(t, seeGEZero(&p, m), m.String())
		var value = See(&p, m)
		assert.Negative(t, value, m.String())
		assert.LessOrEqual(t, value, lastSee, m.String())
		lastSee = value
	}
	assert.Less(t, firstBad, len(rest), "the position has losing captures")
}

func TestMoveIteratorQS(t *testing.T) {
	for _, fen := range orderingFens {
		var p, err = NewPositionFromFEN(fen)
		require.NoError(t, err)
		var expected []OrderedMove
		if p.IsCheck() {
			expected = p.GenerateMoves(nil)
		} else {
			expected = p.GenerateCaptures(nil)
		}
		var mi = moveIteratorQS{
			position: &p,
			buffer:   make([]OrderedMove, MaxMoves),
		}
		mi.Init()
		var got []Move
		var last = 1 << 30
		for mi.Reset(); ; {
			var m = mi.Next()
			if m == MoveEmpty {
				break
			}
			got = append(got, m)
			if isNoisy(m) {
				assert.LessOrEqual(t, mvvlva(m), last)
				last = mvvlva(m)
			}
		}
		var want []Move
		for _, om := range expected {
			want = append(want, om.Move)
		}
		assert.ElementsMatch(t, want, got, fen)
	}
}
