package planar

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollisionSystemConstruction(t *testing.T) {
	_, err := NewCollisionSystem(0, BroadPhaseNaive)
	assert.Error(t, err)

	_, err = NewCollisionSystem(1<<28+1, BroadPhaseNaive)
	assert.Error(t, err, "collider count beyond the 28 index bits must fail construction")

	cs, err := NewCollisionSystem(16, BroadPhaseGrid)
	require.NoError(t, err)
	assert.NotNil(t, cs)
}

func TestCreateColliderExhaustion(t *testing.T) {
	cs, err := NewCollisionSystem(2, BroadPhaseNaive)
	require.NoError(t, err)

	_, ok := cs.CreateCircleCollider()
	require.True(t, ok)
	_, ok = cs.CreateCircleCollider()
	require.True(t, ok)
	_, ok = cs.CreateCircleCollider()
	assert.False(t, ok, "circle pool of 2 should refuse a third collider")

	// the line pool is independent
	_, ok = cs.CreateLineCollider()
	assert.True(t, ok)
}

func TestDestroyColliderReleasesSlot(t *testing.T) {
	cs, err := NewCollisionSystem(1, BroadPhaseNaive)
	require.NoError(t, err)

	c, ok := cs.CreateCircleCollider()
	require.True(t, ok)
	require.Equal(t, 1, cs.ColliderCount())

	cs.DestroyCollider(c)
	assert.Equal(t, 0, cs.ColliderCount())

	// destroy is idempotent
	cs.DestroyCollider(c)
	assert.Equal(t, 0, cs.ColliderCount())

	_, ok = cs.CreateCircleCollider()
	assert.True(t, ok, "slot should be reusable after destroy")
}

func TestDestroyUnknownColliderIsNoop(t *testing.T) {
	cs, err := NewCollisionSystem(4, BroadPhaseNaive)
	require.NoError(t, err)
	cs.DestroyCollider(MakeColliderHandle(ColliderCircle, 3))
	assert.Equal(t, 0, cs.ColliderCount())
}

func TestGenerateCollisionPairsCircleCircle(t *testing.T) {
	cs, err := NewCollisionSystem(8, BroadPhaseNaive)
	require.NoError(t, err)

	a, _ := cs.CreateCircleCollider()
	a.SetCircle(Circle{Center: mgl32.Vec2{0, 0}, Radius: 5})
	b, _ := cs.CreateCircleCollider()
	b.SetCircle(Circle{Center: mgl32.Vec2{7, 0}, Radius: 5})

	cs.GenerateCollisionPairs()
	pairs := cs.CollisionPairs()
	require.Len(t, pairs, 1)

	assert.InDelta(t, 3, pairs[0].Contact.Penetration, 1e-5)
	if pairs[0].Contact.Penetration < 0 {
		t.Errorf("penetration must be non negative, got %f", pairs[0].Contact.Penetration)
	}
}

func TestGenerateCollisionPairsSwapsLineCircle(t *testing.T) {
	cs, err := NewCollisionSystem(8, BroadPhaseNaive)
	require.NoError(t, err)

	// line created first so the broad phase emits (line, circle)
	l, _ := cs.CreateLineCollider()
	l.SetLine(ThickSegment{
		Segment:   LineSegment{Start: mgl32.Vec2{-10, 5}, End: mgl32.Vec2{10, 5}},
		Thickness: 2,
	})
	c, _ := cs.CreateCircleCollider()
	c.SetCircle(Circle{Center: mgl32.Vec2{0, 0}, Radius: 4})

	cs.GenerateCollisionPairs()
	pairs := cs.CollisionPairs()
	require.Len(t, pairs, 1)

	assert.Equal(t, ColliderCircle, pairs[0].A.Type(), "pair must lead with the circle")
	assert.Equal(t, ColliderLine, pairs[0].B.Type())
	// normal out of the circle: circle sits above the segment (-Y side)
	assert.InDelta(t, -1, pairs[0].Contact.Normal.Y(), 1e-6)
	assert.InDelta(t, 1, pairs[0].Contact.Penetration, 1e-5)
}

func TestGenerateCollisionPairsSkipsLineLine(t *testing.T) {
	cs, err := NewCollisionSystem(8, BroadPhaseNaive)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		l, _ := cs.CreateLineCollider()
		l.SetLine(ThickSegment{
			Segment:   LineSegment{Start: mgl32.Vec2{0, float32(i)}, End: mgl32.Vec2{10, float32(i)}},
			Thickness: 3,
		})
	}

	cs.GenerateCollisionPairs()
	assert.Empty(t, cs.CollisionPairs(), "line/line has no narrow phase")
}

func TestGenerateCollisionPairsNoContactNoPair(t *testing.T) {
	cs, err := NewCollisionSystem(8, BroadPhaseNaive)
	require.NoError(t, err)

	a, _ := cs.CreateCircleCollider()
	a.SetCircle(Circle{Center: mgl32.Vec2{0, 0}, Radius: 1})
	b, _ := cs.CreateCircleCollider()
	b.SetCircle(Circle{Center: mgl32.Vec2{10, 0}, Radius: 1})

	cs.GenerateCollisionPairs()
	assert.Empty(t, cs.CollisionPairs())
}

func TestGenerateCollisionPairsClearsBuffer(t *testing.T) {
	cs, err := NewCollisionSystem(8, BroadPhaseNaive)
	require.NoError(t, err)

	a, _ := cs.CreateCircleCollider()
	a.SetCircle(Circle{Center: mgl32.Vec2{0, 0}, Radius: 5})
	b, _ := cs.CreateCircleCollider()
	b.SetCircle(Circle{Center: mgl32.Vec2{4, 0}, Radius: 5})

	cs.GenerateCollisionPairs()
	require.Len(t, cs.CollisionPairs(), 1)

	// move them apart; the stale pair must not survive the next run
	b.SetCenter(mgl32.Vec2{100, 0})
	cs.GenerateCollisionPairs()
	assert.Empty(t, cs.CollisionPairs())
}

func TestSensorCollidersStillReportPairs(t *testing.T) {
	cs, err := NewCollisionSystem(8, BroadPhaseNaive)
	require.NoError(t, err)

	a, _ := cs.CreateCircleCollider()
	a.SetCircle(Circle{Center: mgl32.Vec2{0, 0}, Radius: 5})
	a.SetSensor(true)
	b, _ := cs.CreateCircleCollider()
	b.SetCircle(Circle{Center: mgl32.Vec2{4, 0}, Radius: 5})

	cs.GenerateCollisionPairs()
	assert.Len(t, cs.CollisionPairs(), 1, "sensors report overlaps")
}
