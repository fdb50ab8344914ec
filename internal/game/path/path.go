// Package path implements tile pathfinding over walkability masks: A* search
// with octile distance plus a breadth-first nearest-walkable lookup.
package path

import (
	"container/heap"
	"math"

	"github.com/undercroft-game/undercroft/internal/game/grid"
)

// Point addresses a tile by column and row.
type Point struct {
	Col int
	Row int
}

type neighbor struct {
	col      int
	row      int
	cost     float64
	diagonal bool
}

var neighborOffsets = [...]neighbor{
	{col: 0, row: -1, cost: 1, diagonal: false},
	{col: 1, row: 0, cost: 1, diagonal: false},
	{col: 0, row: 1, cost: 1, diagonal: false},
	{col: -1, row: 0, cost: 1, diagonal: false},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

func walkable(g *grid.Grid[bool], col, row int) bool {
	v, ok := g.At(col, row)
	return ok && v
}

// canTraverseDiagonal rejects corner cutting: a diagonal step requires both
// adjacent orthogonal cells to be walkable.
func canTraverseDiagonal(g *grid.Grid[bool], from Point, d neighbor) bool {
	if !d.diagonal {
		return true
	}
	return walkable(g, from.Col+d.col, from.Row) && walkable(g, from.Col, from.Row+d.row)
}

func index(g *grid.Grid[bool], col, row int) int {
	return row*g.Cols() + col
}

// heuristic is the octile distance between a and b: the exact cost of the
// cheapest 8-directional route on an unobstructed grid.
func heuristic(a, b Point) float64 {
	dx := math.Abs(float64(a.Col - b.Col))
	dy := math.Abs(float64(a.Row - b.Row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type node struct {
	point  Point
	g      float64
	f      float64
	index  int
	parent *node
}

type queue []*node

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool { return q[i].f < q[j].f }

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	n := len(*q)
	item := x.(*node)
	item.index = n
	*q = append(*q, item)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// Find searches for a cheapest 8-directional route from start to goal across
// the walkable cells of g. Diagonal steps cost sqrt(2) and never cut corners.
//
// Postcondition: on success the returned points lead from the first step
// after start to goal, start itself excluded; start == goal yields an empty
// path. ok is false when either endpoint is out of bounds or unwalkable, or
// when no route exists.
func Find(g *grid.Grid[bool], start, goal Point) ([]Point, bool) {
	if !walkable(g, start.Col, start.Row) || !walkable(g, goal.Col, goal.Row) {
		return nil, false
	}
	if start == goal {
		return nil, true
	}

	open := &queue{}
	heap.Init(open)
	heap.Push(open, &node{point: start, g: 0, f: heuristic(start, goal)})
	gScore := map[int]float64{index(g, start.Col, start.Row): 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		currIdx := index(g, current.point.Col, current.point.Row)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.point == goal {
			return reconstruct(current), true
		}

		for _, delta := range neighborOffsets {
			if delta.diagonal && !canTraverseDiagonal(g, current.point, delta) {
				continue
			}
			nc := current.point.Col + delta.col
			nr := current.point.Row + delta.row
			if !walkable(g, nc, nr) {
				continue
			}
			idx := index(g, nc, nr)
			if _, seen := closed[idx]; seen {
				continue
			}
			tentativeG := current.g + delta.cost
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			next := Point{Col: nc, Row: nr}
			heap.Push(open, &node{
				point:  next,
				g:      tentativeG,
				f:      tentativeG + heuristic(next, goal),
				parent: current,
			})
		}
	}
	return nil, false
}

// reconstruct walks the parent chain back to the start node and returns the
// route in travel order with the start point dropped.
func reconstruct(end *node) []Point {
	var route []Point
	for n := end; n != nil; n = n.parent {
		route = append(route, n.point)
	}
	for i := 0; i < len(route)/2; i++ {
		j := len(route) - 1 - i
		route[i], route[j] = route[j], route[i]
	}
	return route[1:]
}

// ClosestWalkable searches outward from p in breadth-first order and returns
// the nearest walkable cell.
//
// Postcondition: ok is false when p is out of bounds or g holds no reachable
// walkable cell; when p itself is walkable it is returned unchanged.
func ClosestWalkable(g *grid.Grid[bool], p Point) (Point, bool) {
	if !g.InBounds(p.Col, p.Row) {
		return Point{}, false
	}
	visited := map[int]struct{}{index(g, p.Col, p.Row): {}}
	frontier := []Point{p}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		if walkable(g, current.Col, current.Row) {
			return current, true
		}
		for _, delta := range neighborOffsets {
			if delta.diagonal && !canTraverseDiagonal(g, current, delta) {
				continue
			}
			nc := current.Col + delta.col
			nr := current.Row + delta.row
			if !g.InBounds(nc, nr) {
				continue
			}
			idx := index(g, nc, nr)
			if _, seen := visited[idx]; seen {
				continue
			}
			visited[idx] = struct{}{}
			frontier = append(frontier, Point{Col: nc, Row: nr})
		}
	}
	return Point{}, false
}
