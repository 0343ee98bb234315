package planar

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Builder configures a PhysicsSystem. All knobs have workable defaults;
// Build validates and wires the system together.
type Builder struct {
	maxBodies        int
	substeps         int
	kind             BroadPhaseKind
	gridCellSize     float32
	correctPositions bool
	log              Logger
}

func NewBuilder() *Builder {
	return &Builder{
		maxBodies:    1024,
		substeps:     1,
		kind:         BroadPhaseNaive,
		gridCellSize: DefaultGridCellSize,
		log:          NewNopLogger(),
	}
}

func (b *Builder) MaxBodies(n int) *Builder {
	b.maxBodies = n
	return b
}

func (b *Builder) Substeps(n int) *Builder {
	b.substeps = n
	return b
}

func (b *Builder) BroadPhase(kind BroadPhaseKind) *Builder {
	b.kind = kind
	return b
}

// GridCellSize sets the uniform grid cell edge; only meaningful with
// BroadPhaseGrid. A cell around twice the average collider size is a
// good starting point.
func (b *Builder) GridCellSize(size float32) *Builder {
	b.gridCellSize = size
	return b
}

// PositionalCorrection enables pushing overlapping bodies apart by the
// penetration depth on top of the impulse. Off by default.
func (b *Builder) PositionalCorrection(enabled bool) *Builder {
	b.correctPositions = enabled
	return b
}

func (b *Builder) Logger(l Logger) *Builder {
	b.log = l
	return b
}

func (b *Builder) Build() (*PhysicsSystem, error) {
	if b.maxBodies <= 0 {
		return nil, fmt.Errorf("max bodies must be positive, got %d", b.maxBodies)
	}
	if b.substeps < 1 {
		return nil, fmt.Errorf("substeps must be at least 1, got %d", b.substeps)
	}
	log := b.log
	if log == nil {
		log = NewNopLogger()
	}

	// three colliders per body covers a body's own collider plus
	// free-standing scenery
	cs, err := newCollisionSystem(b.maxBodies*3, b.kind, b.gridCellSize, log)
	if err != nil {
		return nil, err
	}

	ps := &PhysicsSystem{
		maxBodies:        b.maxBodies,
		substeps:         b.substeps,
		lastDt:           1.0 / 60.0,
		correctPositions: b.correctPositions,
		bodies:           MakeStore[BodyHandle, bodyData](),
		globalForces:     MakeStore[ForceHandle, mgl32.Vec2](),
		collision:        cs,
		colliderBody:     make(map[ColliderHandle]BodyHandle),
		log:              log,
	}
	cs.onDestroy = func(h ColliderHandle) {
		bh, ok := ps.colliderBody[h]
		if !ok {
			return
		}
		if data, live := ps.bodies.Get(bh); live && data.collider == h {
			data.collider = InvalidColliderHandle
		}
		delete(ps.colliderBody, h)
	}
	return ps, nil
}
