package material

import (
	"github.com/kestrelchess/kestrel/pkg/common"
)

// EvaluationService counts material only. Search tests use it because its
// scores are easy to predict.
type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

var pieceValues = [common.King + 1]int{0, 100, 320, 330, 500, 900, 0}

func (e *EvaluationService) Evaluate(p *common.Position) int {
	var eval = 0
	for piece, bb := range [...]uint64{p.Pawns, p.Knights, p.Bishops, p.Rooks, p.Queens} {
		eval += pieceValues[piece+common.Pawn] *
			(common.PopCount(bb&p.White) - common.PopCount(bb&p.Black))
	}
	if !p.WhiteMove {
		eval = -eval
	}
	return eval
}
