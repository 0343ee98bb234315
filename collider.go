package planar

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ColliderType uint8

const (
	ColliderCircle ColliderType = 1
	ColliderLine   ColliderType = 2
	ColliderBox    ColliderType = 3

	colliderTypeInvalid ColliderType = 4
)

const defaultRestitution = 0.83

// ColliderHandle packs the collider type into the low 4 bits and the
// pool slot index into the high 28 bits of one 32-bit word.
type ColliderHandle uint32

const invalidColliderIndex = 1<<28 - 1

const InvalidColliderHandle = ColliderHandle(invalidColliderIndex<<4 | uint32(colliderTypeInvalid))

func MakeColliderHandle(t ColliderType, index uint32) ColliderHandle {
	return ColliderHandle(index<<4 | uint32(t)&0xf)
}

func (h ColliderHandle) Type() ColliderType { return ColliderType(h & 0xf) }

func (h ColliderHandle) Index() uint32 { return uint32(h) >> 4 }

func (h ColliderHandle) IsValid() bool {
	t := h.Type()
	return (t == ColliderCircle || t == ColliderLine) && h.Index() != invalidColliderIndex
}

// Handle makes ColliderHandle satisfy ColliderRef, so bare handles and
// collider views are interchangeable wherever a collider is expected.
func (h ColliderHandle) Handle() ColliderHandle { return h }

// ColliderRef is anything that resolves to a collider handle: the handle
// itself or one of the typed views.
type ColliderRef interface {
	Handle() ColliderHandle
}

// colliderData is the state every collider variant carries. The aabb is
// derived from the variant geometry and must be refreshed after any
// geometry mutation, before the next broad-phase run.
type colliderData struct {
	sensor       bool
	friction     float32
	restitution  float32
	categoryBits uint16
	maskBits     uint16
	aabb         AABB
}

type circleColliderData struct {
	colliderData
	circle Circle
}

func (d *circleColliderData) updateAABB() {
	r := mgl32.Vec2{d.circle.Radius, d.circle.Radius}
	d.aabb = AABB{
		Min: d.circle.Center.Sub(r),
		Max: d.circle.Center.Add(r),
	}
}

type lineColliderData struct {
	colliderData
	line ThickSegment
}

func (d *lineColliderData) updateAABB() {
	start, end := d.line.Segment.Start, d.line.Segment.End
	t := mgl32.Vec2{d.line.Thickness, d.line.Thickness}
	lo := mgl32.Vec2{min(start.X(), end.X()), min(start.Y(), end.Y())}
	hi := mgl32.Vec2{max(start.X(), end.X()), max(start.Y(), end.Y())}
	d.aabb = AABB{
		Min: lo.Sub(t),
		Max: hi.Add(t),
	}
}

// collider is the part shared by the typed views. Views borrow from the
// collision system: they are valid only while the collider lives.
type collider struct {
	sys  *CollisionSystem
	hndl ColliderHandle
}

func (c collider) Handle() ColliderHandle { return c.hndl }

func (c collider) Type() ColliderType { return c.hndl.Type() }

func (c collider) IsValid() bool { return c.sys != nil && c.sys.isLive(c.hndl) }

func (c collider) SetSensor(sensor bool) { c.sys.baseData(c.hndl).sensor = sensor }

func (c collider) IsSensor() bool { return c.sys.baseData(c.hndl).sensor }

func (c collider) SetFriction(friction float32) { c.sys.baseData(c.hndl).friction = friction }

func (c collider) Friction() float32 { return c.sys.baseData(c.hndl).friction }

func (c collider) SetRestitution(restitution float32) {
	c.sys.baseData(c.hndl).restitution = restitution
}

func (c collider) Restitution() float32 { return c.sys.baseData(c.hndl).restitution }

// SetFilter stores 16-bit category and mask bits on the collider. The
// bits are reported back through Filter but are not consulted by the
// collision pipeline.
func (c collider) SetFilter(categoryBits, maskBits uint16) {
	data := c.sys.baseData(c.hndl)
	data.categoryBits = categoryBits
	data.maskBits = maskBits
}

func (c collider) Filter() (categoryBits, maskBits uint16) {
	data := c.sys.baseData(c.hndl)
	return data.categoryBits, data.maskBits
}

func (c collider) AABB() AABB { return c.sys.baseData(c.hndl).aabb }

// CircleCollider is the view over a circle collider.
type CircleCollider struct {
	collider
}

func (c CircleCollider) data() *circleColliderData {
	return c.sys.circles.At(c.hndl.Index())
}

func (c CircleCollider) SetRadius(radius float32) {
	d := c.data()
	d.circle.Radius = radius
	d.updateAABB()
}

func (c CircleCollider) Radius() float32 { return c.data().circle.Radius }

func (c CircleCollider) SetCenter(center mgl32.Vec2) {
	d := c.data()
	d.circle.Center = center
	d.updateAABB()
}

func (c CircleCollider) Center() mgl32.Vec2 { return c.data().circle.Center }

func (c CircleCollider) SetCircle(circle Circle) {
	d := c.data()
	d.circle = circle
	d.updateAABB()
}

func (c CircleCollider) Circle() Circle { return c.data().circle }

// LineCollider is the view over a thick line segment collider.
type LineCollider struct {
	collider
}

func (c LineCollider) data() *lineColliderData {
	return c.sys.lines.At(c.hndl.Index())
}

func (c LineCollider) SetStart(start mgl32.Vec2) {
	d := c.data()
	d.line.Segment.Start = start
	d.updateAABB()
}

func (c LineCollider) Start() mgl32.Vec2 { return c.data().line.Segment.Start }

func (c LineCollider) SetEnd(end mgl32.Vec2) {
	d := c.data()
	d.line.Segment.End = end
	d.updateAABB()
}

func (c LineCollider) End() mgl32.Vec2 { return c.data().line.Segment.End }

func (c LineCollider) SetThickness(thickness float32) {
	d := c.data()
	d.line.Thickness = thickness
	d.updateAABB()
}

func (c LineCollider) Thickness() float32 { return c.data().line.Thickness }

func (c LineCollider) SetLine(line ThickSegment) {
	d := c.data()
	d.line = line
	d.updateAABB()
}

func (c LineCollider) Line() ThickSegment { return c.data().line }
