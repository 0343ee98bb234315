package planar

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Body is a view over a body owned by the physics system. Views borrow:
// once the body is destroyed every setter is a no-op and every getter
// reports the zero value, except Collider, which reports
// InvalidColliderHandle.
type Body struct {
	sys  *PhysicsSystem
	hndl BodyHandle
}

func (b Body) Handle() BodyHandle { return b.hndl }

func (b Body) IsValid() bool { return b.sys != nil && b.sys.IsBodyValid(b.hndl) }

// Destroy removes the body and its attached collider from the system.
func (b Body) Destroy() {
	if b.sys != nil {
		b.sys.DestroyBody(b.hndl)
	}
}

func (b Body) data() (*bodyData, bool) {
	if b.sys == nil {
		return nil, false
	}
	return b.sys.bodies.Get(b.hndl)
}

func (b Body) SetMass(mass float32) {
	if d, ok := b.data(); ok {
		d.mass = mass
	}
}

func (b Body) Mass() float32 {
	d, ok := b.data()
	if !ok {
		return 0
	}
	return d.mass
}

// SetStatic flips the body between static (mass -1) and dynamic
// (mass 1). Any mass <= 0 counts as static.
func (b Body) SetStatic(static bool) {
	if static {
		b.SetMass(-1)
	} else {
		b.SetMass(1)
	}
}

func (b Body) IsStatic() bool {
	d, ok := b.data()
	if !ok {
		return false
	}
	return d.mass <= 0
}

// SetPosition teleports the body: the previous position follows, so the
// implicit velocity becomes zero. Call SetVelocity afterwards to keep a
// velocity across a teleport.
func (b Body) SetPosition(p mgl32.Vec2) {
	if d, ok := b.data(); ok {
		d.position = p
		d.prevPosition = p
	}
}

func (b Body) Position() mgl32.Vec2 {
	d, ok := b.data()
	if !ok {
		return mgl32.Vec2{}
	}
	return d.position
}

// SetVelocity back-dates the previous position so the next integrator
// substep sees velocity v.
func (b Body) SetVelocity(v mgl32.Vec2) {
	if d, ok := b.data(); ok {
		d.prevPosition = d.position.Sub(v.Mul(b.sys.lastDt))
	}
}

// Velocity derives the implicit Verlet velocity,
// (position - previous position) / substep duration.
func (b Body) Velocity() mgl32.Vec2 {
	d, ok := b.data()
	if !ok {
		return mgl32.Vec2{}
	}
	return d.position.Sub(d.prevPosition).Mul(1 / b.sys.lastDt)
}

// SetAcceleration overwrites the diagnostic acceleration readout. The
// integrator recomputes it from forces every substep.
func (b Body) SetAcceleration(a mgl32.Vec2) {
	if d, ok := b.data(); ok {
		d.acceleration = a
	}
}

func (b Body) Acceleration() mgl32.Vec2 {
	d, ok := b.data()
	if !ok {
		return mgl32.Vec2{}
	}
	return d.acceleration
}

// AddForce accumulates into the per-body force, consumed and zeroed by
// the next substep.
func (b Body) AddForce(f mgl32.Vec2) {
	if d, ok := b.data(); ok {
		d.force = d.force.Add(f)
	}
}

func (b Body) ZeroForce() {
	if d, ok := b.data(); ok {
		d.force = mgl32.Vec2{}
	}
}

func (b Body) Force() mgl32.Vec2 {
	d, ok := b.data()
	if !ok {
		return mgl32.Vec2{}
	}
	return d.force
}

// SetCollider attaches a collider (handle or view) to the body. vertex
// selects which line endpoint the body drives (0 for start, 1 for end);
// it is ignored for circles. The mapping makes the resolver see this
// body behind the collider's contacts.
func (b Body) SetCollider(ref ColliderRef, vertex int) {
	d, ok := b.data()
	if !ok {
		return
	}
	h := ref.Handle()
	d.collider = h
	d.colliderVertex = vertex
	b.sys.colliderBody[h] = b.hndl
}

// Collider returns the attached collider handle, which may be invalid
// when nothing is attached.
func (b Body) Collider() ColliderHandle {
	d, ok := b.data()
	if !ok {
		return InvalidColliderHandle
	}
	return d.collider
}
