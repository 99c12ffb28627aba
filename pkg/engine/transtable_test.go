package engine

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

func testMove(t *testing.T, fen, lan string) Move {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	m, err := p.ParseMoveLAN(lan)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTransTableBounds(t *testing.T) {
	is := is.New(t)
	var tt = newTransTable(1, 0)
	var move = testMove(t, InitialPositionFen, "e2e4")

	const exactKey, lowerKey, upperKey = 0x1234, 0x5678, 0x9abc
	tt.Store(exactKey, 5, -100, 100, 50, move, 0)
	tt.Store(lowerKey, 5, -100, 100, 150, move, 0)
	tt.Store(upperKey, 5, -100, 100, -150, MoveEmpty, 0)

	score, ok := tt.Probe(exactKey, 5, -100, 100, 0)
	is.True(ok)
	is.Equal(score, 50)
	_, ok = tt.Probe(exactKey, 6, -100, 100, 0)
	is.True(!ok) // shallower entry

	score, ok = tt.Probe(lowerKey, 4, -50, 120, 0)
	is.True(ok)
	is.Equal(score, 150)
	_, ok = tt.Probe(lowerKey, 4, -50, 200, 0)
	is.True(!ok) // lower bound below beta

	score, ok = tt.Probe(upperKey, 5, -100, 0, 0)
	is.True(ok)
	is.Equal(score, -150)
	_, ok = tt.Probe(upperKey, 5, -200, 0, 0)
	is.True(!ok) // upper bound above alpha

	is.Equal(tt.BestMove(exactKey), move)
	is.Equal(tt.BestMove(upperKey), MoveEmpty)
	is.Equal(tt.BestMove(0xdead), MoveEmpty)
}

func TestTransTableKeepsMove(t *testing.T) {
	is := is.New(t)
	var tt = newTransTable(1, 0)
	var move = testMove(t, InitialPositionFen, "g1f3")

	const key = 42
	tt.Store(key, 3, -10, 10, 5, move, 0)
	tt.Store(key, 6, -10, 10, -20, MoveEmpty, 0)
	is.Equal(tt.BestMove(key), move)

	score, ok := tt.Probe(key, 6, -10, 10, 0)
	is.True(ok)
	is.Equal(score, -20)
}

func TestTransTableMateScores(t *testing.T) {
	is := is.New(t)
	var tt = newTransTable(1, 0)
	const key = 7
	// a mate 5 plies below a node at height 3 reads back as 5 plies below height 1
	tt.Store(key, 4, -valueInfinity, valueInfinity, winIn(8), MoveEmpty, 3)
	score, ok := tt.Probe(key, 4, -valueInfinity, valueInfinity, 1)
	is.True(ok)
	is.Equal(score, winIn(6))
}

func TestTransTableReplacement(t *testing.T) {
	is := is.New(t)
	var tt = newTransTable(1, 0)
	var stride = tt.mask + 1
	var keys []uint64
	for i := uint64(0); i < clusterSize+1; i++ {
		keys = append(keys, 3+i*stride)
	}
	for i := 0; i < clusterSize; i++ {
		tt.Store(keys[i], i+1, -100, 100, i, MoveEmpty, 0)
	}
	for i := 0; i < clusterSize; i++ {
		_, ok := tt.Probe(keys[i], 0, -100, 100, 0)
		is.True(ok)
	}

	// the shallowest entry goes
	tt.Store(keys[clusterSize], 10, -100, 100, 0, MoveEmpty, 0)
	_, ok := tt.Probe(keys[0], 0, -100, 100, 0)
	is.True(!ok)
	for _, key := range keys[1:] {
		_, ok := tt.Probe(key, 0, -100, 100, 0)
		is.True(ok)
	}

	// entries of an older search go before deeper ones
	tt.IncDate()
	tt.Store(keys[4], 10, -100, 100, 0, MoveEmpty, 0)
	tt.Store(keys[0], 1, -100, 100, 0, MoveEmpty, 0)
	_, ok = tt.Probe(keys[0], 0, -100, 100, 0)
	is.True(ok)
	_, ok = tt.Probe(keys[4], 0, -100, 100, 0)
	is.True(ok)

	var stats = tt.Stats()
	is.True(stats.Stores > 0)
	is.True(stats.Hits <= stats.Probes)
}

// A probe that answers must agree with the score the entry was produced from:
// a fail-soft result r of a window is a lower bound when r >= beta and an
// upper bound when r <= alpha.
func TestTransTableSoundness(t *testing.T) {
	var rng = frand.NewCustom(make([]byte, 32), 1024, 12)
	var tt = newTransTable(1, 0)
	for i := 0; i < 20000; i++ {
		var key = uint64(rng.Intn(512))
		var trueScore = rng.Intn(2001) - 1000
		var alpha = rng.Intn(2001) - 1000
		var beta = alpha + 1 + rng.Intn(300)
		var depth = rng.Intn(8)

		var result = trueScore
		if trueScore >= beta {
			result = beta + rng.Intn(trueScore-beta+1)
		} else if trueScore <= alpha {
			result = trueScore + rng.Intn(alpha-trueScore+1)
		}
		tt.Clear()
		tt.Store(key, depth, alpha, beta, result, MoveEmpty, 0)

		for j := 0; j < 10; j++ {
			var alpha2 = rng.Intn(2001) - 1000
			var beta2 = alpha2 + 1 + rng.Intn(300)
			score, ok := tt.Probe(key, rng.Intn(depth+1), alpha2, beta2, 0)
			if !ok {
				continue
			}
			switch {
			case score >= beta2:
				if trueScore < beta2 {
					t.Fatalf("false fail high: true %v probe %v window %v %v", trueScore, score, alpha2, beta2)
				}
			case score <= alpha2:
				if trueScore > alpha2 {
					t.Fatalf("false fail low: true %v probe %v window %v %v", trueScore, score, alpha2, beta2)
				}
			default:
				if score != trueScore {
					t.Fatalf("inexact score: true %v probe %v window %v %v", trueScore, score, alpha2, beta2)
				}
			}
		}
	}
}
