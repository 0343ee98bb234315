package planar

import (
	"math"
)

type BroadPhaseKind int

const (
	BroadPhaseNaive BroadPhaseKind = iota
	BroadPhaseGrid
)

// DefaultGridCellSize is a workable default for scenes whose colliders
// are a few tens of world units across; a cell roughly twice the average
// collider size keeps cell occupancy low.
const DefaultGridCellSize = 50

// candidatePair is a broad-phase emission: two colliders that might
// overlap. The narrow phase decides.
type candidatePair struct {
	a ColliderHandle
	b ColliderHandle
}

// BroadPhase produces candidate pairs from the collision system's live
// collider list. Implementations must not emit duplicates or self-pairs;
// emission order is unspecified.
type BroadPhase interface {
	generate(cs *CollisionSystem) []candidatePair
}

// NaiveBroadPhase emits every ordered pair of live colliders, O(n^2).
type NaiveBroadPhase struct {
	pairs []candidatePair
}

func (bp *NaiveBroadPhase) generate(cs *CollisionSystem) []candidatePair {
	bp.pairs = bp.pairs[:0]
	n := cs.colliders.Len()
	for i := 0; i < n; i++ {
		c1 := *cs.colliders.At(i)
		for j := i + 1; j < n; j++ {
			c2 := *cs.colliders.At(j)
			if c1 == c2 {
				continue
			}
			bp.pairs = append(bp.pairs, candidatePair{a: c1, b: c2})
		}
	}
	return bp.pairs
}

type gridCell struct {
	x, y int32
}

// GridBroadPhase hashes collider AABBs into uniform cells and emits the
// intra-cell pairs. A pair straddling several cells is emitted once;
// dedup is keyed on the canonical (min,max) handle order. Cell and pair
// storage is reused between runs.
type GridBroadPhase struct {
	cellSize float32
	cells    map[gridCell][]ColliderHandle
	seen     map[uint64]struct{}
	pairs    []candidatePair
	log      Logger
}

func NewGridBroadPhase(cellSize float32, log Logger) *GridBroadPhase {
	if cellSize <= 0 {
		cellSize = DefaultGridCellSize
	}
	if log == nil {
		log = NewNopLogger()
	}
	return &GridBroadPhase{
		cellSize: cellSize,
		cells:    make(map[gridCell][]ColliderHandle),
		seen:     make(map[uint64]struct{}),
		log:      log,
	}
}

func pairKey(a, b ColliderHandle) uint64 {
	lo, hi := uint64(a), uint64(b)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo<<32 | hi
}

func (bp *GridBroadPhase) generate(cs *CollisionSystem) []candidatePair {
	for key, occupants := range bp.cells {
		bp.cells[key] = occupants[:0]
	}
	clear(bp.seen)
	bp.pairs = bp.pairs[:0]

	invCellSize := 1 / bp.cellSize
	n := cs.colliders.Len()
	for i := 0; i < n; i++ {
		h := *cs.colliders.At(i)
		aabb := cs.baseData(h).aabb

		minX := int32(math.Floor(float64(aabb.Min.X() * invCellSize)))
		minY := int32(math.Floor(float64(aabb.Min.Y() * invCellSize)))
		maxX := int32(math.Floor(float64(aabb.Max.X() * invCellSize)))
		maxY := int32(math.Floor(float64(aabb.Max.Y() * invCellSize)))

		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				key := gridCell{x, y}
				bp.cells[key] = append(bp.cells[key], h)
			}
		}
	}

	for _, occupants := range bp.cells {
		for i := 0; i < len(occupants); i++ {
			c1 := occupants[i]
			for j := i + 1; j < len(occupants); j++ {
				c2 := occupants[j]
				if c1 == c2 {
					continue
				}
				key := pairKey(c1, c2)
				if _, dup := bp.seen[key]; dup {
					continue
				}
				bp.seen[key] = struct{}{}
				bp.pairs = append(bp.pairs, candidatePair{a: c1, b: c2})
			}
		}
	}

	if bp.log.DebugEnabled() {
		bp.log.Debugf("grid broad phase: %d colliders, %d cells, %d candidate pairs",
			n, len(bp.cells), len(bp.pairs))
	}
	return bp.pairs
}
