package eval

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

// PieceWeights is the material value and the piece-square table of one
// piece type. Tables are written from white's point of view, a8 first, the
// way they read on a diagram. An empty EndTable reuses Table.
type PieceWeights struct {
	Middle   int   `yaml:"middle"`
	End      int   `yaml:"end"`
	Table    []int `yaml:"table"`
	EndTable []int `yaml:"end-table,omitempty"`
}

type Weights struct {
	Pieces     map[string]PieceWeights `yaml:"pieces"`
	BishopPair [2]int                  `yaml:"bishop-pair"`
	Tempo      int                     `yaml:"tempo"`
}

var pieceNames = [...]string{
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

// DefaultWeights are Tomasz Michniewski's Simplified Evaluation Function
// tables with a separate end game king table.
func DefaultWeights() Weights {
	return Weights{
		Pieces: map[string]PieceWeights{
			"pawn": {Middle: 100, End: 120, Table: []int{
				0, 0, 0, 0, 0, 0, 0, 0,
				50, 50, 50, 50, 50, 50, 50, 50,
				10, 10, 20, 30, 30, 20, 10, 10,
				5, 5, 10, 25, 25, 10, 5, 5,
				0, 0, 0, 20, 20, 0, 0, 0,
				5, -5, -10, 0, 0, -10, -5, 5,
				5, 10, 10, -20, -20, 10, 10, 5,
				0, 0, 0, 0, 0, 0, 0, 0,
			}},
			"knight": {Middle: 320, End: 300, Table: []int{
				-50, -40, -30, -30, -30, -30, -40, -50,
				-40, -20, 0, 0, 0, 0, -20, -40,
				-30, 0, 10, 15, 15, 10, 0, -30,
				-30, 5, 15, 20, 20, 15, 5, -30,
				-30, 0, 15, 20, 20, 15, 0, -30,
				-30, 5, 10, 15, 15, 10, 5, -30,
				-40, -20, 0, 5, 5, 0, -20, -40,
				-50, -40, -30, -30, -30, -30, -40, -50,
			}},
			"bishop": {Middle: 330, End: 320, Table: []int{
				-20, -10, -10, -10, -10, -10, -10, -20,
				-10, 0, 0, 0, 0, 0, 0, -10,
				-10, 0, 5, 10, 10, 5, 0, -10,
				-10, 5, 5, 10, 10, 5, 5, -10,
				-10, 0, 10, 10, 10, 10, 0, -10,
				-10, 10, 10, 10, 10, 10, 10, -10,
				-10, 5, 0, 0, 0, 0, 5, -10,
				-20, -10, -10, -10, -10, -10, -10, -20,
			}},
			"rook": {Middle: 500, End: 520, Table: []int{
				0, 0, 0, 0, 0, 0, 0, 0,
				5, 10, 10, 10, 10, 10, 10, 5,
				-5, 0, 0, 0, 0, 0, 0, -5,
				-5, 0, 0, 0, 0, 0, 0, -5,
				-5, 0, 0, 0, 0, 0, 0, -5,
				-5, 0, 0, 0, 0, 0, 0, -5,
				-5, 0, 0, 0, 0, 0, 0, -5,
				0, 0, 0, 5, 5, 0, 0, 0,
			}},
			"queen": {Middle: 900, End: 950, Table: []int{
				-20, -10, -10, -5, -5, -10, -10, -20,
				-10, 0, 0, 0, 0, 0, 0, -10,
				-10, 0, 5, 5, 5, 5, 0, -10,
				-5, 0, 5, 5, 5, 5, 0, -5,
				0, 0, 5, 5, 5, 5, 0, -5,
				-10, 5, 5, 5, 5, 5, 0, -10,
				-10, 0, 5, 0, 0, 0, 0, -10,
				-20, -10, -10, -5, -5, -10, -10, -20,
			}},
			"king": {Table: []int{
				-30, -40, -40, -50, -50, -40, -40, -30,
				-30, -40, -40, -50, -50, -40, -40, -30,
				-30, -40, -40, -50, -50, -40, -40, -30,
				-30, -40, -40, -50, -50, -40, -40, -30,
				-20, -30, -30, -40, -40, -30, -30, -20,
				-10, -20, -20, -20, -20, -20, -20, -10,
				20, 20, 0, 0, 0, 0, 20, 20,
				20, 30, 10, 0, 0, 10, 30, 20,
			}, EndTable: []int{
				-50, -40, -30, -20, -20, -30, -40, -50,
				-30, -20, -10, 0, 0, -10, -20, -30,
				-30, -10, 20, 30, 30, 20, -10, -30,
				-30, -10, 30, 40, 40, 30, -10, -30,
				-30, -10, 30, 40, 40, 30, -10, -30,
				-30, -10, 20, 30, 30, 20, -10, -30,
				-30, -30, 0, 0, 0, 0, -30, -30,
				-50, -30, -30, -30, -30, -30, -30, -50,
			}},
		},
		BishopPair: [2]int{30, 50},
		Tempo:      10,
	}
}

// LoadWeights reads yaml weights over the defaults, so a file may override
// only some pieces. Keys that are present win even when they are zero.
func LoadWeights(r io.Reader) (Weights, error) {
	var w = DefaultWeights()
	var override struct {
		Pieces     map[string]PieceWeights `yaml:"pieces"`
		BishopPair *[2]int                 `yaml:"bishop-pair"`
		Tempo      *int                    `yaml:"tempo"`
	}
	if err := yaml.NewDecoder(r).Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return Weights{}, fmt.Errorf("decode weights: %w", err)
	}
	for name, pw := range override.Pieces {
		if _, ok := w.Pieces[name]; !ok {
			return Weights{}, fmt.Errorf("unknown piece %q in weights", name)
		}
		w.Pieces[name] = pw
	}
	if override.BishopPair != nil {
		w.BishopPair = *override.BishopPair
	}
	if override.Tempo != nil {
		w.Tempo = *override.Tempo
	}
	return w, nil
}

// pst expands the weights into per-side tables indexed by square.
func (w *Weights) pst() (result [2][King + 1][64]Score, err error) {
	for piece := Pawn; piece <= King; piece++ {
		var name = pieceNames[piece]
		var pw, ok = w.Pieces[name]
		if !ok {
			return result, fmt.Errorf("missing weights for %v", name)
		}
		var endTable = pw.EndTable
		if len(endTable) == 0 {
			endTable = pw.Table
		}
		if len(pw.Table) != 64 || len(endTable) != 64 {
			return result, fmt.Errorf("%v table needs 64 values", name)
		}
		for i := 0; i < 64; i++ {
			var s = S(pw.Middle+pw.Table[i], pw.End+endTable[i])
			// i == 0 is a8 for white, which is a1 seen from black's side
			result[SideWhite][piece][FlipSquare(i)] = s
			result[SideBlack][piece][i] = s
		}
	}
	return result, nil
}
