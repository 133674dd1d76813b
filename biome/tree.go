package biome

import (
	"container/heap"
	"math"
	"slices"

	"github.com/pthm-cable/fogland/geom"
)

const noNode int32 = -1

// node is one entry of the tree arena. Children are arena indices.
type node struct {
	point       int32
	left, right int32
	axis        uint8
	bounds      geom.Rect // bounds of every point in this subtree
}

// Tree is a balanced 2-D KD tree over a fixed point set. Nodes live in a
// single slice and reference each other by index.
type Tree struct {
	points    []Point
	nodes     []node
	root      int32
	weighting Weighting
	radiusSq  float64
}

// NewTree builds the tree by median split on alternating axes.
func NewTree(points []Point, w Weighting) *Tree {
	t := &Tree{
		points:    points,
		nodes:     make([]node, 0, len(points)),
		weighting: w,
	}
	// Widen the cutoff slightly so points whose weight rounds to exactly
	// Epsilon are still visited; Weight makes the final decision.
	c := w.Cutoff()
	t.radiusSq = c * c * (1 + 1e-9)

	idx := make([]int32, len(points))
	for i := range idx {
		idx[i] = int32(i)
	}
	t.root = t.build(idx, 0)
	return t
}

func (t *Tree) build(idx []int32, depth int) int32 {
	if len(idx) == 0 {
		return noNode
	}
	axis := depth % 2
	slices.SortFunc(idx, func(a, b int32) int {
		pa, pb := t.points[a].Pos[axis], t.points[b].Pos[axis]
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		return int(a - b)
	})

	bounds := geom.Rect{Min: t.points[idx[0]].Pos, Max: t.points[idx[0]].Pos}
	for _, i := range idx[1:] {
		bounds = bounds.Extend(t.points[i].Pos)
	}

	m := len(idx) / 2
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{point: idx[m], axis: uint8(axis), bounds: bounds})
	left := t.build(idx[:m], depth+1)
	right := t.build(idx[m+1:], depth+1)
	t.nodes[id].left = left
	t.nodes[id].right = right
	return id
}

func (t *Tree) Points() []Point { return t.points }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Depth returns the height of the tree; an empty tree has depth 0.
func (t *Tree) Depth() int {
	var walk func(n int32) int
	walk = func(n int32) int {
		if n == noNode {
			return 0
		}
		return 1 + max(walk(t.nodes[n].left), walk(t.nodes[n].right))
	}
	return walk(t.root)
}

// Nearest returns the k closest points, best first. Regions are expanded
// in order of their closest possible distance and abandoned once they
// cannot beat the current k-th best.
func (t *Tree) Nearest(pos geom.Vec2, k int) []Point {
	if k <= 0 || t.root == noNode {
		return nil
	}
	best := t.nearest(pos, k)
	out := make([]Point, len(best))
	for i, c := range best {
		out[i] = t.points[c.idx]
	}
	return out
}

func (t *Tree) nearest(pos geom.Vec2, k int) []candidate {
	found := &worstFirst{}
	frontier := &regionQueue{{n: t.root, d: t.boundsDistSq(t.root, pos)}}

	for frontier.Len() > 0 {
		r := heap.Pop(frontier).(region)
		if found.Len() == k && r.d > (*found)[0].d {
			break
		}
		nd := &t.nodes[r.n]
		c := candidate{idx: nd.point, d: geom.DistSq(pos, t.points[nd.point].Pos)}
		switch {
		case found.Len() < k:
			heap.Push(found, c)
		case compareCandidates(c, (*found)[0]) < 0:
			(*found)[0] = c
			heap.Fix(found, 0)
		}
		for _, child := range [2]int32{nd.left, nd.right} {
			if child != noNode {
				heap.Push(frontier, region{n: child, d: t.boundsDistSq(child, pos)})
			}
		}
	}

	out := []candidate(*found)
	slices.SortFunc(out, compareCandidates)
	return out
}

// Weights gathers the points within the weighting cutoff and accumulates
// them in point order, so the sums match Scan exactly.
func (t *Tree) Weights(pos geom.Vec2, dst []float64) Label {
	clear(dst)
	if t.root == noNode {
		return Default
	}

	var hits []candidate
	stack := []int32{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.boundsDistSq(n, pos) > t.radiusSq {
			continue
		}
		nd := &t.nodes[n]
		if d := geom.DistSq(pos, t.points[nd.point].Pos); d <= t.radiusSq {
			hits = append(hits, candidate{idx: nd.point, d: d})
		}
		if nd.left != noNode {
			stack = append(stack, nd.left)
		}
		if nd.right != noNode {
			stack = append(stack, nd.right)
		}
	}

	slices.SortFunc(hits, func(a, b candidate) int { return int(a.idx - b.idx) })
	for _, h := range hits {
		dst[t.points[h.idx].Label] += t.weighting.Weight(h.d)
	}

	nn := t.nearest(pos, 1)
	return t.points[nn[0].idx].Label
}

func (t *Tree) boundsDistSq(n int32, pos geom.Vec2) float64 {
	b := t.nodes[n].bounds
	d := geom.DistSq(b.ClosestPoint(pos), pos)
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}

// region is a subtree waiting to be searched.
type region struct {
	n int32
	d float64 // squared distance from the query to the subtree bounds
}

// regionQueue is a min-heap of regions by distance.
type regionQueue []region

func (q regionQueue) Len() int           { return len(q) }
func (q regionQueue) Less(i, j int) bool { return q[i].d < q[j].d }
func (q regionQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *regionQueue) Push(x any)        { *q = append(*q, x.(region)) }
func (q *regionQueue) Pop() any {
	old := *q
	r := old[len(old)-1]
	*q = old[:len(old)-1]
	return r
}

// worstFirst is a max-heap of candidates; the root is the current k-th best.
type worstFirst []candidate

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return compareCandidates(h[i], h[j]) > 0 }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *worstFirst) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}
