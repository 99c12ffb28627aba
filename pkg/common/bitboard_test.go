package common

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

// slowRay walks one direction until it leaves the board or hits a piece.
func slowRay(sq int, occ uint64, shift func(uint64) uint64) uint64 {
	var result uint64
	for x := shift(SquareMask[sq]); x != 0; x = shift(x) {
		result |= x
		if x&occ != 0 {
			break
		}
	}
	return result
}

func slowBishopAttacks(sq int, occ uint64) uint64 {
	return slowRay(sq, occ, UpRight) | slowRay(sq, occ, UpLeft) |
		slowRay(sq, occ, DownRight) | slowRay(sq, occ, DownLeft)
}

func slowRookAttacks(sq int, occ uint64) uint64 {
	return slowRay(sq, occ, Up) | slowRay(sq, occ, Down) |
		slowRay(sq, occ, Left) | slowRay(sq, occ, Right)
}

func TestSliderAttacks(t *testing.T) {
	for i := 0; i < 2000; i++ {
		// sparse and dense boards
		var occ = frand.Uint64n(^uint64(0))
		if i%2 == 0 {
			occ &= frand.Uint64n(^uint64(0)) & frand.Uint64n(^uint64(0))
		}
		for sq := 0; sq < 64; sq++ {
			if got, want := BishopAttacks(sq, occ), slowBishopAttacks(sq, occ); got != want {
				t.Fatalf("bishop %v occ %v: got %v want %v",
					SquareName(sq), BitboardString(occ), BitboardString(got), BitboardString(want))
			}
			if got, want := RookAttacks(sq, occ), slowRookAttacks(sq, occ); got != want {
				t.Fatalf("rook %v occ %v: got %v want %v",
					SquareName(sq), BitboardString(occ), BitboardString(got), BitboardString(want))
			}
		}
	}
}

func TestEmptyBoardAttacks(t *testing.T) {
	is := is.New(t)
	is.Equal(PopCount(RookAttacks(SquareA1, 0)), 14)
	is.Equal(PopCount(RookAttacks(SquareD4, 0)), 14)
	is.Equal(PopCount(BishopAttacks(SquareA1, 0)), 7)
	is.Equal(PopCount(BishopAttacks(SquareD4, 0)), 13)
	is.Equal(PopCount(QueenAttacks(SquareD4, 0)), 27)
	is.Equal(PopCount(KnightAttacks[SquareA1]), 2)
	is.Equal(PopCount(KnightAttacks[SquareE4]), 8)
	is.Equal(PopCount(KingAttacks[SquareH8]), 3)
	is.Equal(PawnAttacks(SquareA2, true), SquareMask[SquareB3])
	is.Equal(PawnAttacks(SquareE7, false), SquareMask[SquareD6]|SquareMask[SquareF6])
}

func TestBetweenMask(t *testing.T) {
	is := is.New(t)
	is.Equal(BetweenMask(SquareA1, SquareD4), SquareMask[SquareB2]|SquareMask[SquareC3])
	is.Equal(BetweenMask(SquareE1, SquareE4), SquareMask[SquareE2]|SquareMask[SquareE3])
	is.Equal(BetweenMask(SquareA1, SquareB3), uint64(0))
	is.Equal(BetweenMask(SquareA1, SquareB2), uint64(0))
}

func TestMoreThanOne(t *testing.T) {
	var tests = []struct {
		name  string
		value uint64
		want  bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"high bit", 1 << 63, false},
		{"two", 3, true},
		{"file", FileAMask, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoreThanOne(tt.value); got != tt.want {
				t.Errorf("MoreThanOne() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstAndLastOne(t *testing.T) {
	is := is.New(t)
	is.Equal(FirstOne(SquareMask[SquareC3]|SquareMask[SquareH8]), SquareC3)
	is.Equal(LastOne(SquareMask[SquareC3]|SquareMask[SquareH8]), SquareH8)
	is.Equal(LastOne(1), SquareA1)
}
