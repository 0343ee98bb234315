package planar

import (
	"github.com/go-gl/mathgl/mgl32"
)

type BodyHandle uint32

type ForceHandle uint32

// bodyData is the simulation state of one point-mass body. Velocity is
// implicit: v = (position - prevPosition) / lastDt. mass <= 0 marks the
// body static; the integrator skips it and the resolver treats it as
// infinite inertia.
type bodyData struct {
	position     mgl32.Vec2
	prevPosition mgl32.Vec2
	acceleration mgl32.Vec2
	force        mgl32.Vec2
	mass         float32

	collider       ColliderHandle
	colliderVertex int // 0 or 1, selects the line endpoint this body drives
}

// PhysicsSystem owns the bodies, the global forces, gravity and the
// collision system, and advances the simulation in fixed substeps.
//
// The whole API is synchronous and single-threaded; Step runs to
// completion and nothing here may be called re-entrantly.
type PhysicsSystem struct {
	maxBodies int
	substeps  int

	gravity mgl32.Vec2
	lastDt  float32

	correctPositions bool

	bodies       Store[BodyHandle, bodyData]
	globalForces Store[ForceHandle, mgl32.Vec2]

	collision    *CollisionSystem
	colliderBody map[ColliderHandle]BodyHandle

	log Logger
}

// NewPhysicsSystem creates a system with maxBodies capacity, the given
// substep count and broad phase. The nested collision system is sized at
// three colliders per body. Use NewBuilder for the remaining knobs.
func NewPhysicsSystem(maxBodies, substeps int, kind BroadPhaseKind) (*PhysicsSystem, error) {
	return NewBuilder().
		MaxBodies(maxBodies).
		Substeps(substeps).
		BroadPhase(kind).
		Build()
}

// CollisionSystem exposes the nested collision system for collider
// creation and pair inspection.
func (ps *PhysicsSystem) CollisionSystem() *CollisionSystem { return ps.collision }

func (ps *PhysicsSystem) SetGravity(g mgl32.Vec2) { ps.gravity = g }

func (ps *PhysicsSystem) Gravity() mgl32.Vec2 { return ps.gravity }

// AddGlobalForce registers a force summed into every dynamic body each
// step.
func (ps *PhysicsSystem) AddGlobalForce(f mgl32.Vec2) ForceHandle {
	return ps.globalForces.Add(f)
}

// RemoveGlobalForce drops a global force; unknown handles are a no-op.
func (ps *PhysicsSystem) RemoveGlobalForce(h ForceHandle) {
	ps.globalForces.Remove(h)
}

func (ps *PhysicsSystem) GlobalForce(h ForceHandle) (mgl32.Vec2, bool) {
	f, ok := ps.globalForces.Get(h)
	if !ok {
		return mgl32.Vec2{}, false
	}
	return *f, true
}

// GlobalForces exposes the dense force list; a borrow, valid until the
// next add or remove.
func (ps *PhysicsSystem) GlobalForces() []mgl32.Vec2 { return ps.globalForces.Values() }

// CreateBody allocates a dynamic body (mass 1) at the origin. Fails when
// the system is at capacity.
func (ps *PhysicsSystem) CreateBody() (Body, bool) {
	if ps.bodies.Len() >= ps.maxBodies {
		ps.log.Warnf("body capacity reached (%d)", ps.maxBodies)
		return Body{}, false
	}
	h := ps.bodies.Add(bodyData{
		mass:     1,
		collider: InvalidColliderHandle,
	})
	return Body{sys: ps, hndl: h}, true
}

// DestroyBody removes the body and its attached collider, if any.
// Unknown handles are a no-op.
func (ps *PhysicsSystem) DestroyBody(h BodyHandle) {
	data, ok := ps.bodies.Get(h)
	if !ok {
		return
	}
	if data.collider.IsValid() {
		// destroying the collider also erases the collider->body mapping
		// through the destroy hook
		ps.collision.DestroyCollider(data.collider)
	}
	ps.bodies.Remove(h)
}

func (ps *PhysicsSystem) IsBodyValid(h BodyHandle) bool {
	_, ok := ps.bodies.Get(h)
	return ok
}

// BodyCount reports how many bodies are live.
func (ps *PhysicsSystem) BodyCount() int { return ps.bodies.Len() }

// Step advances the simulation by dt, split into the configured number
// of substeps. Callers should clamp dt against spiral-of-death spikes
// (0.1 is a workable ceiling).
func (ps *PhysicsSystem) Step(dt float32) {
	var globalSum mgl32.Vec2
	for i := 0; i < ps.globalForces.Len(); i++ {
		globalSum = globalSum.Add(*ps.globalForces.At(i))
	}

	h := dt / float32(ps.substeps)
	ps.lastDt = h

	for s := 0; s < ps.substeps; s++ {
		ps.integrate(h, globalSum)
	}

	ps.collision.GenerateCollisionPairs()

	for _, pair := range ps.collision.CollisionPairs() {
		ps.resolve(pair)
	}
}

// integrate performs one Verlet substep over every dynamic body and
// syncs the attached collider geometry.
func (ps *PhysicsSystem) integrate(h float32, globalSum mgl32.Vec2) {
	for i := 0; i < ps.bodies.Len(); i++ {
		body := ps.bodies.At(i)
		if body.mass <= 0 {
			continue
		}

		force := body.force.Add(globalSum)
		accel := force.Mul(1 / body.mass).Add(ps.gravity)

		next := body.position.
			Add(body.position.Sub(body.prevPosition)).
			Add(accel.Mul(h * h))

		body.prevPosition = body.position
		body.position = next
		body.acceleration = accel
		body.force = mgl32.Vec2{}

		ps.syncCollider(body)
	}
}

// syncCollider moves the attached collider to the body's position and
// refreshes its AABB. Line bodies drive one endpoint; the other stays
// wherever it was last set.
func (ps *PhysicsSystem) syncCollider(body *bodyData) {
	if !body.collider.IsValid() {
		return
	}
	switch body.collider.Type() {
	case ColliderCircle:
		data := ps.collision.circles.At(body.collider.Index())
		data.circle.Center = body.position
		data.updateAABB()
	case ColliderLine:
		data := ps.collision.lines.At(body.collider.Index())
		if body.colliderVertex == 0 {
			data.line.Segment.Start = body.position
		} else {
			data.line.Segment.End = body.position
		}
		data.updateAABB()
	}
}

// resolve applies a restitution impulse for one contact by editing the
// previous positions, so the implicit Verlet velocity picks up the
// change. Velocities here are raw position deltas (per-substep units);
// the dt scaling only matters at the API boundary.
func (ps *PhysicsSystem) resolve(pair CollisionPair) {
	aData := ps.collision.baseData(pair.A)
	bData := ps.collision.baseData(pair.B)
	if aData.sensor || bData.sensor {
		return
	}

	bodyA, okA := ps.bodyForCollider(pair.A)
	bodyB, okB := ps.bodyForCollider(pair.B)
	if !okA && !okB {
		return
	}

	var (
		vA, vB     mgl32.Vec2
		invA, invB float32
	)
	if okA && bodyA.mass > 0 {
		invA = 1 / bodyA.mass
		vA = bodyA.position.Sub(bodyA.prevPosition)
	}
	if okB && bodyB.mass > 0 {
		invB = 1 / bodyB.mass
		vB = bodyB.position.Sub(bodyB.prevPosition)
	}
	if invA == 0 && invB == 0 {
		return
	}

	// the contact normal points out of A, so a negative relative normal
	// velocity means the pair is approaching
	n := pair.Contact.Normal
	vn := vA.Sub(vB).Dot(n)
	if vn >= 0 {
		return
	}

	e := (aData.restitution + bData.restitution) / 2
	j := -(1 + e) * vn / (invA + invB)

	if invA > 0 {
		vA = vA.Add(n.Mul(j * invA))
		bodyA.prevPosition = bodyA.position.Sub(vA)
	}
	if invB > 0 {
		vB = vB.Sub(n.Mul(j * invB))
		bodyB.prevPosition = bodyB.position.Sub(vB)
	}

	if ps.correctPositions {
		ps.separate(pair, bodyA, bodyB, invA, invB)
	}
}

// separate pushes overlapping bodies apart along the contact normal,
// weighted by inverse mass. Off by default; the impulse alone keeps
// resting contacts stable in typical scenes.
func (ps *PhysicsSystem) separate(pair CollisionPair, bodyA, bodyB *bodyData, invA, invB float32) {
	total := invA + invB
	if total == 0 {
		return
	}
	push := pair.Contact.Normal.Mul(pair.Contact.Penetration / total)
	if invA > 0 {
		bodyA.position = bodyA.position.Add(push.Mul(invA))
		ps.syncCollider(bodyA)
	}
	if invB > 0 {
		bodyB.position = bodyB.position.Sub(push.Mul(invB))
		ps.syncCollider(bodyB)
	}
}

// bodyForCollider resolves the body mapped to a collider. Mappings whose
// body has been destroyed are pruned on sight.
func (ps *PhysicsSystem) bodyForCollider(h ColliderHandle) (*bodyData, bool) {
	bh, ok := ps.colliderBody[h]
	if !ok {
		return nil, false
	}
	data, ok := ps.bodies.Get(bh)
	if !ok {
		delete(ps.colliderBody, h)
		return nil, false
	}
	return data, true
}
