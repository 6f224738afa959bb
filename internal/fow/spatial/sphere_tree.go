package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sphere is a bounding circle in the XY plane.
type Sphere struct {
	Center r2.Vec
	Radius float64
}

// Intersects reports whether s and o overlap. Touching spheres intersect.
func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return r2.Norm2(r2.Sub(s.Center, o.Center)) <= r*r
}

type cellRange struct {
	minX, minY, maxX, maxY int64
}

type treeEntry struct {
	sphere Sphere
	cells  cellRange
}

// SphereTree indexes items by bounding sphere. The zero value is not usable;
// call NewSphereTree. It is not safe for concurrent mutation, but concurrent
// queries are safe while nothing mutates the tree.
type SphereTree[T comparable] struct {
	cellSize float64
	cells    map[int64][]T
	entries  map[T]treeEntry
}

// NewSphereTree creates an index bucketing spheres into cells of cellSize.
func NewSphereTree[T comparable](cellSize float64) *SphereTree[T] {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SphereTree[T]{
		cellSize: cellSize,
		cells:    make(map[int64][]T),
		entries:  make(map[T]treeEntry),
	}
}

// Insert adds item with the given sphere, replacing any previous sphere.
func (t *SphereTree[T]) Insert(item T, s Sphere) {
	if _, ok := t.entries[item]; ok {
		t.Remove(item)
	}
	cr := t.rangeFor(s)
	for cx := cr.minX; cx <= cr.maxX; cx++ {
		for cy := cr.minY; cy <= cr.maxY; cy++ {
			k := cellKey(cx, cy)
			t.cells[k] = append(t.cells[k], item)
		}
	}
	t.entries[item] = treeEntry{sphere: s, cells: cr}
}

// Update moves item to a new sphere. Unknown items are inserted.
func (t *SphereTree[T]) Update(item T, s Sphere) {
	t.Insert(item, s)
}

// Remove deletes item and reports whether it was present.
func (t *SphereTree[T]) Remove(item T) bool {
	e, ok := t.entries[item]
	if !ok {
		return false
	}
	cr := e.cells
	for cx := cr.minX; cx <= cr.maxX; cx++ {
		for cy := cr.minY; cy <= cr.maxY; cy++ {
			k := cellKey(cx, cy)
			bucket := t.cells[k]
			for i, it := range bucket {
				if it == item {
					bucket[i] = bucket[len(bucket)-1]
					bucket = bucket[:len(bucket)-1]
					break
				}
			}
			if len(bucket) == 0 {
				delete(t.cells, k)
			} else {
				t.cells[k] = bucket
			}
		}
	}
	delete(t.entries, item)
	return true
}

// Sphere returns the sphere stored for item.
func (t *SphereTree[T]) Sphere(item T) (Sphere, bool) {
	e, ok := t.entries[item]
	return e.sphere, ok
}

// Len returns the number of indexed items.
func (t *SphereTree[T]) Len() int { return len(t.entries) }

// Clear removes every item.
func (t *SphereTree[T]) Clear() {
	clear(t.cells)
	clear(t.entries)
}

// Each calls fn for every indexed item in unspecified order.
func (t *SphereTree[T]) Each(fn func(T, Sphere)) {
	for item, e := range t.entries {
		fn(item, e.sphere)
	}
}

// Query adds to c every item whose sphere intersects s.
func (t *SphereTree[T]) Query(s Sphere, c *Collector[T]) {
	cr := t.rangeFor(s)
	for cx := cr.minX; cx <= cr.maxX; cx++ {
		for cy := cr.minY; cy <= cr.maxY; cy++ {
			for _, item := range t.cells[cellKey(cx, cy)] {
				if e := t.entries[item]; e.sphere.Intersects(s) {
					c.Add(item)
				}
			}
		}
	}
}

func (t *SphereTree[T]) rangeFor(s Sphere) cellRange {
	return cellRange{
		minX: int64(math.Floor((s.Center.X - s.Radius) / t.cellSize)),
		minY: int64(math.Floor((s.Center.Y - s.Radius) / t.cellSize)),
		maxX: int64(math.Floor((s.Center.X + s.Radius) / t.cellSize)),
		maxY: int64(math.Floor((s.Center.Y + s.Radius) / t.cellSize)),
	}
}

// cellKey maps signed cell coordinates to a unique key: zigzag encoding to
// non-negative integers followed by Szudzik's pairing function.
func cellKey(cx, cy int64) int64 {
	var a, b int64
	if cx >= 0 {
		a = 2 * cx
	} else {
		a = -2*cx - 1
	}
	if cy >= 0 {
		b = 2 * cy
	} else {
		b = -2*cy - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}
