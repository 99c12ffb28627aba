package common

import "math/bits"

const (
	FileAMask uint64 = 0x0101010101010101 << iota
	FileBMask
	FileCMask
	FileDMask
	FileEMask
	FileFMask
	FileGMask
	FileHMask
)

const (
	Rank1Mask uint64 = 0xFF << (8 * iota)
	Rank2Mask
	Rank3Mask
	Rank4Mask
	Rank5Mask
	Rank6Mask
	Rank7Mask
	Rank8Mask
)

var (
	whitePawnAttacks, blackPawnAttacks [64]uint64
	SquareMask                         [64]uint64
	KnightAttacks                      [64]uint64
	KingAttacks                        [64]uint64
	betweenMask                        [64][64]uint64
)

// Full lines through a square, the square itself excluded.
var (
	fileLine     [64]uint64
	rankLine     [64]uint64
	diagonalLine [64]uint64
	antiLine     [64]uint64
	aboveMask    [64]uint64
	belowMask    [64]uint64
)

func BitboardString(b uint64) string {
	var s = ""
	for x := b; x != 0; x &= x - 1 {
		sq := FirstOne(x)
		if s != "" {
			s += ","
		}
		s += SquareName(sq)
	}
	return "(" + s + ")"
}

func PopCount(b uint64) int {
	return bits.OnesCount64(b)
}

func FirstOne(b uint64) int {
	return bits.TrailingZeros64(b)
}

func LastOne(b uint64) int {
	return 63 - bits.LeadingZeros64(b)
}

func MoreThanOne(value uint64) bool {
	return value != 0 && ((value-1)&value) != 0
}

func Up(b uint64) uint64 {
	return b << 8
}

func Down(b uint64) uint64 {
	return b >> 8
}

func Right(b uint64) uint64 {
	return (b & ^FileHMask) << 1
}

func Left(b uint64) uint64 {
	return (b & ^FileAMask) >> 1
}

func UpRight(b uint64) uint64 {
	return Up(Right(b))
}

func UpLeft(b uint64) uint64 {
	return Up(Left(b))
}

func DownRight(b uint64) uint64 {
	return Down(Right(b))
}

func DownLeft(b uint64) uint64 {
	return Down(Left(b))
}

func PawnAttacks(from int, side bool) uint64 {
	if side {
		return whitePawnAttacks[from]
	}
	return blackPawnAttacks[from]
}

func BetweenMask(from, to int) uint64 {
	return betweenMask[from][to]
}

// lineAttacks returns the squares of line reachable from sq, first blocker
// on each side included. above^(above-1) keeps every bit up to the nearest
// blocker above sq (all bits when there is none), the second mask keeps
// every bit strictly below the nearest blocker below sq.
func lineAttacks(line uint64, sq int, occ uint64) uint64 {
	var blockers = line & occ
	var above = blockers & aboveMask[sq]
	var below = blockers & belowMask[sq]
	var upTo = above ^ (above - 1)
	var downTo = (uint64(1) << uint(LastOne(below|1))) - 1
	return line & (upTo ^ downTo)
}

func BishopAttacks(from int, occ uint64) uint64 {
	return lineAttacks(diagonalLine[from], from, occ) |
		lineAttacks(antiLine[from], from, occ)
}

func RookAttacks(from int, occ uint64) uint64 {
	return lineAttacks(fileLine[from], from, occ) |
		lineAttacks(rankLine[from], from, occ)
}

func QueenAttacks(from int, occ uint64) uint64 {
	return BishopAttacks(from, occ) | RookAttacks(from, occ)
}

func ray(b uint64, shift func(uint64) uint64) uint64 {
	var result uint64
	for x := shift(b); x != 0; x = shift(x) {
		result |= x
	}
	return result
}

func init() {
	for sq := 0; sq < 64; sq++ {
		var b = uint64(1) << uint(sq)
		SquareMask[sq] = b
		belowMask[sq] = b - 1
		aboveMask[sq] = ^(b | (b - 1))

		whitePawnAttacks[sq] = Up(Left(b) | Right(b))
		blackPawnAttacks[sq] = Down(Left(b) | Right(b))

		KnightAttacks[sq] = Right(UpRight(b)) | Up(UpRight(b)) |
			Up(UpLeft(b)) | Left(UpLeft(b)) |
			Left(DownLeft(b)) | Down(DownLeft(b)) |
			Down(DownRight(b)) | Right(DownRight(b))

		KingAttacks[sq] = UpRight(b) | Up(b) | UpLeft(b) | Left(b) |
			DownLeft(b) | Down(b) | DownRight(b) | Right(b)

		fileLine[sq] = ray(b, Up) | ray(b, Down)
		rankLine[sq] = ray(b, Left) | ray(b, Right)
		diagonalLine[sq] = ray(b, UpRight) | ray(b, DownLeft)
		antiLine[sq] = ray(b, UpLeft) | ray(b, DownRight)
	}

	for s1 := 0; s1 < 64; s1++ {
		for s2 := 0; s2 < 64; s2++ {
			if (QueenAttacks(s1, 0) & SquareMask[s2]) != 0 {
				var delta = (s2 - s1) / SquareDistance(s1, s2)
				for s := s1 + delta; s != s2; s += delta {
					betweenMask[s1][s2] |= SquareMask[s]
				}
			}
		}
	}
}
