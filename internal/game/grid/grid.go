// Package grid provides a generic dense 2D container addressed by column and
// row. It backs the tile maps of the world package and the walkability masks
// consumed by pathfinding.
package grid

// Grid is a Cols x Rows container of T backed by a flat row-major slice.
//
// Invariant: len(cells) == Cols() * Rows().
type Grid[T any] struct {
	cols, rows int
	cells      []T
}

// New returns a Grid with the given dimensions, every cell holding the zero
// value of T.
//
// Precondition: cols and rows may be any ints; negative values are treated
// as zero.
// Postcondition: Cols() == max(cols, 0) and Rows() == max(rows, 0).
func New[T any](cols, rows int) *Grid[T] {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid[T]{
		cols:  cols,
		rows:  rows,
		cells: make([]T, cols*rows),
	}
}

// Cols returns the number of columns.
func (g *Grid[T]) Cols() int {
	return g.cols
}

// Rows returns the number of rows.
func (g *Grid[T]) Rows() int {
	return g.rows
}

// InBounds reports whether (col, row) addresses a cell.
func (g *Grid[T]) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

func (g *Grid[T]) index(col, row int) int {
	return row*g.cols + col
}

// At returns the value at (col, row).
//
// Postcondition: ok is true iff (col, row) is in bounds; when ok is false
// the returned value is the zero value of T.
func (g *Grid[T]) At(col, row int) (T, bool) {
	if !g.InBounds(col, row) {
		var zero T
		return zero, false
	}
	return g.cells[g.index(col, row)], true
}

// Set stores v at (col, row).
//
// Postcondition: returns true iff (col, row) is in bounds and the cell now
// holds v; out-of-bounds writes are discarded.
func (g *Grid[T]) Set(col, row int, v T) bool {
	if !g.InBounds(col, row) {
		return false
	}
	g.cells[g.index(col, row)] = v
	return true
}

// Fill stores v in every cell.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(col, row int, v T)) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			fn(col, row, g.cells[g.index(col, row)])
		}
	}
}
