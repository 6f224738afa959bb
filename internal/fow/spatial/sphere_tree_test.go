package spatial

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func sphereAt(x, y, r float64) Sphere {
	return Sphere{Center: r2.Vec{X: x, Y: y}, Radius: r}
}

func queryInts(tree *SphereTree[int], s Sphere) []int {
	c := NewCollector[int](0)
	tree.Query(s, c)
	out := append([]int(nil), c.Items()...)
	sort.Ints(out)
	return out
}

func TestSphere_IntersectsIsInclusive(t *testing.T) {
	t.Parallel()

	a := sphereAt(0, 0, 1)
	assert.True(t, a.Intersects(sphereAt(3, 0, 2)), "touching spheres intersect")
	assert.False(t, a.Intersects(sphereAt(3.001, 0, 2)))
}

func TestSphereTree_QueryFindsOverlaps(t *testing.T) {
	t.Parallel()

	tree := NewSphereTree[int](10)
	tree.Insert(1, sphereAt(0, 0, 5))
	tree.Insert(2, sphereAt(50, 50, 5))
	tree.Insert(3, sphereAt(-30, 0, 40)) // spans many cells
	tree.Insert(4, sphereAt(12, 0, 1))

	assert.Equal(t, []int{1, 3, 4}, queryInts(tree, sphereAt(8, 0, 4)))
	assert.Equal(t, []int{2}, queryInts(tree, sphereAt(56, 50, 1)))
	assert.Empty(t, queryInts(tree, sphereAt(200, 200, 1)))
	assert.Equal(t, 4, tree.Len())
}

func TestSphereTree_NoDuplicatesAcrossCells(t *testing.T) {
	t.Parallel()

	tree := NewSphereTree[int](1)
	tree.Insert(7, sphereAt(0, 0, 10))
	got := queryInts(tree, sphereAt(0, 0, 10))
	assert.Equal(t, []int{7}, got)
}

func TestSphereTree_UpdateAndRemove(t *testing.T) {
	t.Parallel()

	tree := NewSphereTree[int](10)
	tree.Insert(1, sphereAt(0, 0, 2))
	tree.Update(1, sphereAt(100, 100, 2))

	assert.Empty(t, queryInts(tree, sphereAt(0, 0, 3)))
	assert.Equal(t, []int{1}, queryInts(tree, sphereAt(100, 100, 1)))

	s, ok := tree.Sphere(1)
	require.True(t, ok)
	assert.Equal(t, sphereAt(100, 100, 2), s)

	assert.True(t, tree.Remove(1))
	assert.False(t, tree.Remove(1))
	assert.Empty(t, queryInts(tree, sphereAt(100, 100, 1)))
	assert.Empty(t, tree.cells, "empty buckets are released")
}

func TestSphereTree_NegativeCoordinates(t *testing.T) {
	t.Parallel()

	tree := NewSphereTree[int](16)
	tree.Insert(1, sphereAt(-100, -100, 3))
	tree.Insert(2, sphereAt(-1, 1, 0.5))

	assert.Equal(t, []int{1}, queryInts(tree, sphereAt(-96, -100, 2)))
	assert.Equal(t, []int{2}, queryInts(tree, sphereAt(0, 0, 1)))
}

func TestCollector_TruncatesAtLimit(t *testing.T) {
	t.Parallel()

	tree := NewSphereTree[int](10)
	for i := 0; i < 10; i++ {
		tree.Insert(i, sphereAt(float64(i), 0, 1))
	}

	c := NewCollector[int](4)
	tree.Query(sphereAt(5, 0, 100), c)
	assert.Equal(t, 4, c.Len())
	assert.True(t, c.Truncated())

	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Truncated())

	unbounded := NewCollector[int](0)
	tree.Query(sphereAt(5, 0, 100), unbounded)
	assert.Equal(t, 10, unbounded.Len())
	assert.False(t, unbounded.Truncated())
}

func TestCollector_DuplicatesDoNotTruncate(t *testing.T) {
	t.Parallel()

	c := NewCollector[string](2)
	assert.True(t, c.Add("a"))
	assert.True(t, c.Add("b"))
	assert.False(t, c.Add("a"))
	assert.False(t, c.Truncated())
	assert.False(t, c.Add("c"))
	assert.True(t, c.Truncated())
}

func TestCellKey_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[int64][2]int64)
	for x := int64(-20); x <= 20; x++ {
		for y := int64(-20); y <= 20; y++ {
			k := cellKey(x, y)
			if prev, ok := seen[k]; ok {
				t.Fatalf("key collision: (%d,%d) and (%d,%d)", x, y, prev[0], prev[1])
			}
			seen[k] = [2]int64{x, y}
		}
	}
}
