package common

import (
	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// Keys come from a ChaCha stream with a fixed seed so hashes are stable
// across runs and machines.
var (
	sideKey        uint64
	enpassantKey   [8]uint64
	castlingKey    [16]uint64
	pieceSquareKey [12 * 64]uint64
)

func PieceSquareKey(piece int, side bool, square int) uint64 {
	return pieceSquareKey[MakePiece(piece, side)*64+square]
}

func initKeys() {
	var seed [32]byte
	copy(seed[:], "kestrel zobrist keys")
	var r = frand.NewCustom(seed[:], 1024, 12)
	var next = func() uint64 {
		return r.Uint64n(bignum) + 1
	}

	sideKey = next()
	for i := range enpassantKey {
		enpassantKey[i] = next()
	}
	for i := range pieceSquareKey {
		pieceSquareKey[i] = next()
	}

	var castle [4]uint64
	for i := range castle {
		castle[i] = next()
	}
	for i := range castlingKey {
		for j := 0; j < 4; j++ {
			if (i & (1 << uint(j))) != 0 {
				castlingKey[i] ^= castle[j]
			}
		}
	}
}

// ComputeKey rebuilds the hash from scratch. MakeMove keeps Key equal to it.
func (p *Position) ComputeKey() uint64 {
	var result = uint64(0)
	if p.WhiteMove {
		result ^= sideKey
	}
	result ^= castlingKey[p.CastleRights]
	if p.EpSquare != SquareNone {
		result ^= enpassantKey[File(p.EpSquare)]
	}
	for x := p.White | p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		var side = (p.White & SquareMask[sq]) != 0
		result ^= PieceSquareKey(piece, side, sq)
	}
	return result
}
