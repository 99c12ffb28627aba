package eval

import (
	. "github.com/kestrelchess/kestrel/pkg/common"
)

const (
	minorPhase = 1
	rookPhase  = 2
	queenPhase = 4
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

type EvaluationService struct {
	pst        [2][King + 1][64]Score
	bishopPair Score
	tempo      int
	pieceCount [2][King + 1]int
}

func NewEvaluationService() *EvaluationService {
	var es, err = NewEvaluationServiceWithWeights(DefaultWeights())
	if err != nil {
		panic(err)
	}
	return es
}

func NewEvaluationServiceWithWeights(w Weights) (*EvaluationService, error) {
	var pst, err = w.pst()
	if err != nil {
		return nil, err
	}
	return &EvaluationService{
		pst:        pst,
		bishopPair: S(w.BishopPair[0], w.BishopPair[1]),
		tempo:      w.Tempo,
	}, nil
}

// Evaluate returns centipawns from the side to move's point of view.
func (e *EvaluationService) Evaluate(p *Position) int {
	var s Score

	for piece := Pawn; piece <= King; piece++ {
		e.pieceCount[SideWhite][piece] = 0
		e.pieceCount[SideBlack][piece] = 0
	}

	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		s += e.pst[SideWhite][piece][sq]
		e.pieceCount[SideWhite][piece]++
	}

	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.WhatPiece(sq)
		s -= e.pst[SideBlack][piece][sq]
		e.pieceCount[SideBlack][piece]++
	}

	if e.pieceCount[SideWhite][Bishop] >= 2 {
		s += e.bishopPair
	}
	if e.pieceCount[SideBlack][Bishop] >= 2 {
		s -= e.bishopPair
	}

	var phase = e.force(SideWhite) + e.force(SideBlack)
	if phase > totalPhase {
		phase = totalPhase
	}
	var result = (int(s.Middle())*phase + int(s.End())*(totalPhase-phase)) / totalPhase

	if !p.WhiteMove {
		result = -result
	}
	return result + e.tempo
}

func (e *EvaluationService) force(side int) int {
	return minorPhase*(e.pieceCount[side][Knight]+e.pieceCount[side][Bishop]) +
		rookPhase*e.pieceCount[side][Rook] + queenPhase*e.pieceCount[side][Queen]
}
