package engine

import (
	"sync/atomic"
	"unsafe"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	. "github.com/kestrelchess/kestrel/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const clusterSize = 4

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

type transEntry struct {
	key   uint64
	move  Move
	score int16
	depth int8
	bound uint8
	date  uint8
	hits  uint8
}

const entrySize = int(unsafe.Sizeof(transEntry{}))

// transTable is a bucketed hash table. A key maps to one cluster of
// clusterSize slots and is never stored outside it. The table is owned by
// a single search, so there is no locking.
type transTable struct {
	megabytes int
	entries   []transEntry
	mask      uint64
	date      uint8

	probes atomic.Uint64
	hits   atomic.Uint64
	stores atomic.Uint64
}

type TransTableStats struct {
	Probes, Hits, Stores uint64
	Clusters             int
}

// newTransTable allocates megabytes of entries, capped at memFraction of
// physical memory when that is known.
func newTransTable(megabytes int, memFraction float64) *transTable {
	var bytes = megabytes * 1024 * 1024
	var totalMem = memory.TotalMemory()
	if totalMem > 0 && memFraction > 0 {
		var limit = int(memFraction * float64(totalMem))
		if bytes > limit {
			bytes = limit
		}
	}
	var clusters = roundPowerOfTwo(Max(1, bytes/(entrySize*clusterSize)))
	log.Debug().Int("megabytes", megabytes).
		Int("clusters", clusters).
		Int("estimated-total-memory-bytes", clusters*clusterSize*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
	return &transTable{
		megabytes: megabytes,
		entries:   make([]transEntry, clusters*clusterSize),
		mask:      uint64(clusters - 1),
	}
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) IncDate() {
	tt.date++
}

func (tt *transTable) Clear() {
	tt.date = 0
	clear(tt.entries)
	tt.probes.Store(0)
	tt.hits.Store(0)
	tt.stores.Store(0)
}

func (tt *transTable) Stats() TransTableStats {
	return TransTableStats{
		Probes:   tt.probes.Load(),
		Hits:     tt.hits.Load(),
		Stores:   tt.stores.Load(),
		Clusters: len(tt.entries) / clusterSize,
	}
}

func (tt *transTable) cluster(key uint64) []transEntry {
	var index = (key & tt.mask) * clusterSize
	return tt.entries[index : index+clusterSize]
}

func (tt *transTable) find(key uint64) *transEntry {
	var cluster = tt.cluster(key)
	for i := range cluster {
		if cluster[i].key == key && cluster[i].bound != 0 {
			return &cluster[i]
		}
	}
	return nil
}

// BestMove returns the stored move for key whatever its depth.
func (tt *transTable) BestMove(key uint64) Move {
	if entry := tt.find(key); entry != nil {
		return entry.move
	}
	return MoveEmpty
}

// Probe returns a score usable at this node: the entry must be searched at
// least as deep, and its bound must be exact or already outside the window
// on the side it bounds.
func (tt *transTable) Probe(key uint64, depth, alpha, beta, height int) (score int, ok bool) {
	tt.probes.Add(1)
	var entry = tt.find(key)
	if entry == nil {
		return 0, false
	}
	tt.hits.Add(1)
	if entry.hits < 255 {
		entry.hits++
	}
	entry.date = tt.date
	if int(entry.depth) < depth {
		return 0, false
	}
	score = valueFromTT(int(entry.score), height)
	switch {
	case entry.bound == boundExact:
		return score, true
	case entry.bound == boundLower && score >= beta:
		return score, true
	case entry.bound == boundUpper && score <= alpha:
		return score, true
	}
	return 0, false
}

// Store records a search result. The bound is derived from the window the
// score was produced with.
func (tt *transTable) Store(key uint64, depth, alpha, beta, score int, move Move, height int) {
	var bound uint8
	switch {
	case score >= beta:
		bound = boundLower
	case score <= alpha:
		bound = boundUpper
	default:
		bound = boundExact
	}

	var entry = tt.replacementSlot(key)
	if entry.key == key && entry.bound != 0 {
		if move == MoveEmpty {
			move = entry.move
		}
		if depth < int(entry.depth)-3 && bound != boundExact && entry.date == tt.date {
			entry.move = move
			return
		}
	} else {
		entry.key = key
		entry.hits = 0
	}
	tt.stores.Add(1)
	entry.move = move
	entry.score = int16(valueToTT(score, height))
	entry.depth = int8(depth)
	entry.bound = bound
	entry.date = tt.date
}

// replacementSlot picks the slot for key inside its cluster: the same key,
// an empty slot, otherwise the least valuable entry.
func (tt *transTable) replacementSlot(key uint64) *transEntry {
	if entry := tt.find(key); entry != nil {
		return entry
	}
	var cluster = tt.cluster(key)
	var worst *transEntry
	for i := range cluster {
		var entry = &cluster[i]
		if entry.bound == 0 {
			return entry
		}
		if worst == nil || tt.lessValuable(entry, worst) {
			worst = entry
		}
	}
	return worst
}

func (tt *transTable) lessValuable(a, b *transEntry) bool {
	var aOld, bOld = a.date != tt.date, b.date != tt.date
	if aOld != bOld {
		return aOld
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.hits < b.hits
}
