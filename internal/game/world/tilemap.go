package world

import (
	"fmt"

	"github.com/undercroft-game/undercroft/internal/game/grid"
	"github.com/undercroft-game/undercroft/internal/game/path"
)

// Tile runes accepted in room layouts.
const (
	tileWall  = '#'
	tileFloor = '.'
)

// TileMap is a room's floor plan parsed from layout strings: '#' is a wall,
// '.' a walkable tile.
type TileMap struct {
	walkable *grid.Grid[bool]
}

// ParseTileMap builds a TileMap from layout rows.
//
// Precondition: rows must be non-empty, all the same width, and contain only
// '#' and '.' runes.
// Postcondition: Returns a TileMap whose mask matches rows, or an error
// describing the first violation.
func ParseTileMap(rows []string) (*TileMap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tile map must have at least one row")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("tile map rows must not be empty")
	}
	mask := grid.New[bool](width, len(rows))
	for r, line := range rows {
		if len(line) != width {
			return nil, fmt.Errorf("tile map row %d is %d wide, want %d", r, len(line), width)
		}
		for c, ch := range line {
			switch ch {
			case tileWall:
				mask.Set(c, r, false)
			case tileFloor:
				mask.Set(c, r, true)
			default:
				return nil, fmt.Errorf("tile map row %d: unknown tile %q at column %d", r, string(ch), c)
			}
		}
	}
	return &TileMap{walkable: mask}, nil
}

// Cols returns the tile map width.
func (t *TileMap) Cols() int {
	return t.walkable.Cols()
}

// Rows returns the tile map height.
func (t *TileMap) Rows() int {
	return t.walkable.Rows()
}

// Walkable reports whether (col, row) is a floor tile.
//
// Postcondition: out-of-bounds coordinates report false.
func (t *TileMap) Walkable(col, row int) bool {
	v, ok := t.walkable.At(col, row)
	return ok && v
}

// Mask exposes the walkability grid for pathfinding.
func (t *TileMap) Mask() *grid.Grid[bool] {
	return t.walkable
}

// FirstWalkable returns the first floor tile in row-major order.
//
// Postcondition: ok is false when the map has no floor tiles.
func (t *TileMap) FirstWalkable() (path.Point, bool) {
	for row := 0; row < t.walkable.Rows(); row++ {
		for col := 0; col < t.walkable.Cols(); col++ {
			if v, _ := t.walkable.At(col, row); v {
				return path.Point{Col: col, Row: row}, true
			}
		}
	}
	return path.Point{}, false
}
