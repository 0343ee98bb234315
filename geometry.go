package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

type Circle struct {
	Center mgl32.Vec2
	Radius float32
}

type LineSegment struct {
	Start mgl32.Vec2
	End   mgl32.Vec2
}

// ThickSegment is a line segment inflated by a radius, i.e. a capsule.
type ThickSegment struct {
	Segment   LineSegment
	Thickness float32
}

type Ray struct {
	Origin    mgl32.Vec2
	Direction mgl32.Vec2
}

// Contact is the witness of an overlap: the unit normal pointing out of
// the first shape, directed away from the second shape, the point where
// that normal leaves the first shape's surface, and the penetration
// depth (>= 0).
type Contact struct {
	Normal      mgl32.Vec2
	Point       mgl32.Vec2
	Penetration float32
}

// ClosestPointOnSegment projects p onto ls and clamps to the endpoints.
// A degenerate segment (Start == End) yields Start.
func ClosestPointOnSegment(p mgl32.Vec2, ls LineSegment) mgl32.Vec2 {
	d := ls.End.Sub(ls.Start)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return ls.Start
	}
	t := p.Sub(ls.Start).Dot(d) / lenSq
	t = mgl32.Clamp(t, 0, 1)
	return ls.Start.Add(d.Mul(t))
}

// CircleToCircle tests two circles for overlap. The contact normal is
// normalize(c1.Center - c2.Center), i.e. it points from the contact
// toward c1, and the contact point is on c1's surface along the normal.
// Concentric circles get the arbitrary (but fixed) normal (1,0).
func CircleToCircle(c1, c2 Circle) (Contact, bool) {
	d := c1.Center.Sub(c2.Center)
	distSq := d.Dot(d)
	radiusSum := c1.Radius + c2.Radius
	if distSq > radiusSum*radiusSum {
		return Contact{}, false
	}

	var normal mgl32.Vec2
	if distSq == 0 {
		normal = mgl32.Vec2{1, 0}
	} else {
		normal = d.Normalize()
	}
	dist := float32(math.Sqrt(float64(distSq)))

	return Contact{
		Normal:      normal,
		Point:       c1.Center.Add(normal.Mul(c1.Radius)),
		Penetration: radiusSum - dist,
	}, true
}

// CircleToThickSegment tests a circle against a capsule. The closest
// point on the segment to the circle center reduces the test to a
// circle/circle one with the capsule's thickness as the second radius.
func CircleToThickSegment(c Circle, ls ThickSegment) (Contact, bool) {
	closest := ClosestPointOnSegment(c.Center, ls.Segment)
	return CircleToCircle(c, Circle{Center: closest, Radius: ls.Thickness})
}
