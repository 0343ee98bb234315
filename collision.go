package planar

import (
	"fmt"
)

// maxColliderIndex is the number of distinct pool indices a collider
// handle's 28 index bits can encode. The all-ones index is reserved for
// InvalidColliderHandle, so a collision system holds fewer colliders.
const maxColliderIndex = 1 << 28

// CollisionPair is a detected contact between colliders A and B. When
// the pair mixes a circle and a line, A is always the circle and the
// contact normal points out of it.
type CollisionPair struct {
	A       ColliderHandle
	B       ColliderHandle
	Contact Contact
}

// colliderListHandle identifies an entry in the live-collider store, as
// opposed to the packed ColliderHandle that locates the pooled data.
type colliderListHandle uint32

// CollisionSystem owns the per-type collider pools, the list of live
// colliders, the broad phase and the resulting pair buffer.
type CollisionSystem struct {
	circles *Pool[circleColliderData]
	lines   *Pool[lineColliderData]

	colliders Store[colliderListHandle, ColliderHandle]
	listEntry map[ColliderHandle]colliderListHandle

	broad BroadPhase
	pairs []CollisionPair

	// onDestroy lets the owning physics system drop its collider->body
	// mapping when a collider is destroyed directly.
	onDestroy func(ColliderHandle)

	log Logger
}

// NewCollisionSystem creates a standalone collision system. Construction
// fails if a pool index up to maxColliders-1 would reach the all-ones
// 28-bit index reserved for InvalidColliderHandle.
func NewCollisionSystem(maxColliders int, kind BroadPhaseKind) (*CollisionSystem, error) {
	return newCollisionSystem(maxColliders, kind, DefaultGridCellSize, NewNopLogger())
}

func newCollisionSystem(maxColliders int, kind BroadPhaseKind, gridCellSize float32, log Logger) (*CollisionSystem, error) {
	if maxColliders <= 0 {
		return nil, fmt.Errorf("max colliders must be positive, got %d", maxColliders)
	}
	if maxColliders >= maxColliderIndex {
		return nil, fmt.Errorf("max colliders must be below 2^28, got %d", maxColliders)
	}

	cs := &CollisionSystem{
		circles:   NewPool[circleColliderData](maxColliders),
		lines:     NewPool[lineColliderData](maxColliders),
		colliders: MakeStore[colliderListHandle, ColliderHandle](),
		listEntry: make(map[ColliderHandle]colliderListHandle),
		log:       log,
	}
	switch kind {
	case BroadPhaseGrid:
		cs.broad = NewGridBroadPhase(gridCellSize, log)
	case BroadPhaseNaive:
		cs.broad = &NaiveBroadPhase{}
	default:
		return nil, fmt.Errorf("unknown broad phase kind %d", kind)
	}
	return cs, nil
}

// CreateCircleCollider allocates a circle collider. Fails when the
// circle pool is exhausted.
func (cs *CollisionSystem) CreateCircleCollider() (CircleCollider, bool) {
	h, ok := cs.createCollider(ColliderCircle)
	if !ok {
		return CircleCollider{}, false
	}
	return CircleCollider{collider{sys: cs, hndl: h}}, true
}

// CreateLineCollider allocates a thick line segment collider. Fails when
// the line pool is exhausted.
func (cs *CollisionSystem) CreateLineCollider() (LineCollider, bool) {
	h, ok := cs.createCollider(ColliderLine)
	if !ok {
		return LineCollider{}, false
	}
	return LineCollider{collider{sys: cs, hndl: h}}, true
}

func (cs *CollisionSystem) createCollider(t ColliderType) (ColliderHandle, bool) {
	switch t {
	case ColliderCircle:
		idx, data, ok := cs.circles.Allocate()
		if !ok {
			cs.log.Warnf("circle collider pool exhausted (capacity %d)", cs.circles.Capacity())
			return InvalidColliderHandle, false
		}
		data.restitution = defaultRestitution
		data.updateAABB()
		h := MakeColliderHandle(ColliderCircle, idx)
		cs.listEntry[h] = cs.colliders.Add(h)
		return h, true

	case ColliderLine:
		idx, data, ok := cs.lines.Allocate()
		if !ok {
			cs.log.Warnf("line collider pool exhausted (capacity %d)", cs.lines.Capacity())
			return InvalidColliderHandle, false
		}
		data.restitution = defaultRestitution
		data.updateAABB()
		h := MakeColliderHandle(ColliderLine, idx)
		cs.listEntry[h] = cs.colliders.Add(h)
		return h, true
	}

	// ColliderBox is reserved in the type tag but has no pool yet.
	return InvalidColliderHandle, false
}

// DestroyCollider releases the collider's pool slot and removes it from
// the live list. Unknown or already destroyed handles are a no-op.
func (cs *CollisionSystem) DestroyCollider(ref ColliderRef) {
	h := ref.Handle()
	entry, ok := cs.listEntry[h]
	if !ok {
		return
	}
	delete(cs.listEntry, h)
	cs.colliders.Remove(entry)

	switch h.Type() {
	case ColliderCircle:
		cs.circles.Release(h.Index())
	case ColliderLine:
		cs.lines.Release(h.Index())
	}

	if cs.onDestroy != nil {
		cs.onDestroy(h)
	}
}

func (cs *CollisionSystem) isLive(h ColliderHandle) bool {
	_, ok := cs.listEntry[h]
	return ok
}

// ColliderCount reports how many colliders are live.
func (cs *CollisionSystem) ColliderCount() int { return cs.colliders.Len() }

// baseData resolves the variant-independent collider state. Handles with
// an unknown type tag are a programming error.
func (cs *CollisionSystem) baseData(h ColliderHandle) *colliderData {
	switch h.Type() {
	case ColliderCircle:
		return &cs.circles.At(h.Index()).colliderData
	case ColliderLine:
		return &cs.lines.At(h.Index()).colliderData
	}
	panic(fmt.Sprintf("collider handle with unexpected type %d", h.Type()))
}

// GenerateCollisionPairs refreshes the pair buffer: it runs the broad
// phase and narrow-phase tests every candidate, keeping only pairs with
// an actual contact. Line/line candidates are skipped. Called by the
// physics step; standalone collision systems call it directly.
func (cs *CollisionSystem) GenerateCollisionPairs() {
	cs.pairs = cs.pairs[:0]

	for _, cand := range cs.broad.generate(cs) {
		a, b := cand.a, cand.b
		switch {
		case a.Type() == ColliderCircle && b.Type() == ColliderCircle:
			c1 := cs.circles.At(a.Index())
			c2 := cs.circles.At(b.Index())
			if contact, ok := CircleToCircle(c1.circle, c2.circle); ok {
				cs.pairs = append(cs.pairs, CollisionPair{A: a, B: b, Contact: contact})
			}

		case a.Type() == ColliderCircle && b.Type() == ColliderLine:
			c := cs.circles.At(a.Index())
			l := cs.lines.At(b.Index())
			if contact, ok := CircleToThickSegment(c.circle, l.line); ok {
				cs.pairs = append(cs.pairs, CollisionPair{A: a, B: b, Contact: contact})
			}

		case a.Type() == ColliderLine && b.Type() == ColliderCircle:
			// swap so the emitted pair leads with the circle and the
			// normal points out of it
			c := cs.circles.At(b.Index())
			l := cs.lines.At(a.Index())
			if contact, ok := CircleToThickSegment(c.circle, l.line); ok {
				cs.pairs = append(cs.pairs, CollisionPair{A: b, B: a, Contact: contact})
			}
		}
	}
}

// CollisionPairs returns the contacts found by the last
// GenerateCollisionPairs call. The slice is reused between runs.
func (cs *CollisionSystem) CollisionPairs() []CollisionPair { return cs.pairs }
