package engine

type Options struct {
	// Hash is the transposition table size in megabytes.
	Hash int
	// HashMemoryFraction caps Hash at this share of physical memory.
	HashMemoryFraction float64
	NullMovePruning    bool
	// NullMoveReduction is the base depth reduction, depth/6 is added on top.
	NullMoveReduction int
	// HistoryMax is the counter value that triggers halving of the history table.
	HistoryMax int
	// ProgressMinNodes suppresses progress reports until the search has
	// visited that many nodes.
	ProgressMinNodes int
}

func NewOptions() Options {
	return Options{
		Hash:               16,
		HashMemoryFraction: 0.25,
		NullMovePruning:    true,
		NullMoveReduction:  3,
		HistoryMax:         1 << 20,
		ProgressMinNodes:   0,
	}
}
