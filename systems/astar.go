package systems

import (
	"container/heap"
	"math"

	"github.com/pthm-cable/fogland/geom"
	"github.com/pthm-cable/fogland/terrain"
)

// defaultMaxIterations bounds a single search.
const defaultMaxIterations = 20000

// tileKey addresses a tile in the global tile lattice.
type tileKey struct {
	X, Y int
}

// astarNode is a node in the A* search.
type astarNode struct {
	key   tileKey
	f     float64 // f = g + h (priority)
	index int     // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// AStarPlanner plans routes over navigable terrain tiles. Tiles in
// ungenerated chunks count as blocked, so routes stay on known ground.
type AStarPlanner struct {
	grid          *terrain.Grid
	tileWidth     float64
	MaxIterations int

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[tileKey]struct{}
	cameFrom  map[tileKey]tileKey
	gScore    map[tileKey]float64
}

// NewAStarPlanner creates a planner over grid.
func NewAStarPlanner(grid *terrain.Grid) *AStarPlanner {
	return &AStarPlanner{
		grid:          grid,
		tileWidth:     grid.Params().TileWidth(),
		MaxIterations: defaultMaxIterations,
		openHeap:      &nodeHeap{},
		closedSet:     make(map[tileKey]struct{}, 256),
		cameFrom:      make(map[tileKey]tileKey, 256),
		gScore:        make(map[tileKey]float64, 256),
	}
}

func (a *AStarPlanner) keyOf(p geom.Vec2) tileKey {
	return tileKey{
		X: int(math.Floor(p[0] / a.tileWidth)),
		Y: int(math.Floor(p[1] / a.tileWidth)),
	}
}

func (a *AStarPlanner) center(k tileKey) geom.Vec2 {
	return geom.V2((float64(k.X)+0.5)*a.tileWidth, (float64(k.Y)+0.5)*a.tileWidth)
}

func (a *AStarPlanner) blocked(k tileKey) bool {
	return !a.grid.Navigable(a.center(k))
}

// FindPath computes a route from start to goal. It returns waypoints at
// tile centers ending at the goal tile, or nil if no route was found
// within MaxIterations.
func (a *AStarPlanner) FindPath(start, goal geom.Vec2) []geom.Vec2 {
	if !geom.Finite(start) || !geom.Finite(goal) {
		return nil
	}
	startK, goalK := a.keyOf(start), a.keyOf(goal)

	// Step off blocked start or goal tiles to the nearest open one
	if a.blocked(startK) {
		var ok bool
		if startK, ok = a.findNearestOpen(startK); !ok {
			return nil
		}
	}
	if a.blocked(goalK) {
		var ok bool
		if goalK, ok = a.findNearestOpen(goalK); !ok {
			return nil
		}
	}

	// Same tile - no search needed
	if startK == goalK {
		return []geom.Vec2{a.center(goalK)}
	}

	*a.openHeap = (*a.openHeap)[:0]
	clear(a.closedSet)
	clear(a.cameFrom)
	clear(a.gScore)

	a.gScore[startK] = 0
	heap.Push(a.openHeap, &astarNode{key: startK, f: heuristic(startK, goalK)})

	for iterations := 0; a.openHeap.Len() > 0 && iterations < a.MaxIterations; iterations++ {
		current := heap.Pop(a.openHeap).(*astarNode).key
		if current == goalK {
			return a.reconstructPath(startK, goalK)
		}
		if _, done := a.closedSet[current]; done {
			continue
		}
		a.closedSet[current] = struct{}{}

		// 8-connected neighbours; cardinals first
		neighbors := [8]tileKey{
			{current.X - 1, current.Y},
			{current.X + 1, current.Y},
			{current.X, current.Y - 1},
			{current.X, current.Y + 1},
			{current.X - 1, current.Y - 1},
			{current.X + 1, current.Y - 1},
			{current.X - 1, current.Y + 1},
			{current.X + 1, current.Y + 1},
		}
		for i, n := range neighbors {
			if _, done := a.closedSet[n]; done || a.blocked(n) {
				continue
			}

			moveCost := 1.0
			if i >= 4 {
				// No corner cutting past blocked tiles
				if a.blocked(tileKey{n.X, current.Y}) || a.blocked(tileKey{current.X, n.Y}) {
					continue
				}
				moveCost = math.Sqrt2
			}

			tentativeG := a.gScore[current] + moveCost
			if existing, ok := a.gScore[n]; ok && tentativeG >= existing {
				continue
			}
			a.cameFrom[n] = current
			a.gScore[n] = tentativeG
			heap.Push(a.openHeap, &astarNode{key: n, f: tentativeG + heuristic(n, goalK)})
		}
	}

	return nil
}

// heuristic is the Euclidean distance in tiles.
func heuristic(a, b tileKey) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// reconstructPath walks cameFrom back from goal and simplifies the result.
func (a *AStarPlanner) reconstructPath(start, goal tileKey) []geom.Vec2 {
	var keys []tileKey
	for current := goal; current != start; {
		keys = append(keys, current)
		prev, ok := a.cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	keys = append(keys, start)

	path := make([]geom.Vec2, len(keys))
	for i := range keys {
		path[i] = a.center(keys[len(keys)-1-i])
	}
	return a.simplifyPath(path)
}

// simplifyPath drops waypoints that can be skipped in a straight line.
func (a *AStarPlanner) simplifyPath(path []geom.Vec2) []geom.Vec2 {
	if len(path) <= 2 {
		return path
	}

	simplified := make([]geom.Vec2, 0, len(path))
	simplified = append(simplified, path[0])
	anchor := path[0]
	for i := 1; i < len(path)-1; i++ {
		if !a.hasLineOfSight(anchor, path[i+1]) {
			simplified = append(simplified, path[i])
			anchor = path[i]
		}
	}
	return append(simplified, path[len(path)-1])
}

// hasLineOfSight checks that every tile along the segment is open.
func (a *AStarPlanner) hasLineOfSight(from, to geom.Vec2) bool {
	d := to.Sub(from)
	dist := d.Len()
	if dist < 1e-9 {
		return true
	}

	step := a.tileWidth * 0.25
	steps := int(dist/step) + 1
	dir := d.Mul(1 / dist)
	for i := 0; i <= steps; i++ {
		p := from.Add(dir.Mul(math.Min(float64(i)*step, dist)))
		if a.blocked(a.keyOf(p)) {
			return false
		}
	}
	return true
}

// findNearestOpen searches outward in square rings for an open tile.
func (a *AStarPlanner) findNearestOpen(k tileKey) (tileKey, bool) {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				n := tileKey{k.X + dx, k.Y + dy}
				if !a.blocked(n) {
					return n, true
				}
			}
		}
	}
	return tileKey{}, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
