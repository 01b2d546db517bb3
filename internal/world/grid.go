// Package world provides the rectangular grid and the cell occupancy
// index agents move on.
package world

import (
	"fmt"
	"math/rand"
)

// Position represents a cell coordinate on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MooreDirections defines the eight neighbor offsets, clockwise from east.
var MooreDirections = [8]Position{
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
}

// Grid is a bounded rectangular space. A cell holds any number of agents;
// occupancy is kept in insertion order so queries are deterministic.
type Grid struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Torus  bool `json:"torus"` // wrap at the edges instead of clipping

	cells [][]int // occupant ids per cell, indexed y*Width+x
}

// NewGrid creates an empty grid.
func NewGrid(width, height int, torus bool) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Torus:  torus,
		cells:  make([][]int, width*height),
	}
}

// InBounds reports whether pos lies on the grid.
func (g *Grid) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < g.Width && pos.Y >= 0 && pos.Y < g.Height
}

// Place adds id to the cell at pos.
func (g *Grid) Place(id int, pos Position) {
	i := g.index(pos)
	g.cells[i] = append(g.cells[i], id)
}

// Move relocates id from one cell to another, preserving the insertion
// order of the remaining occupants.
func (g *Grid) Move(id int, from, to Position) {
	if from == to {
		return
	}
	g.remove(id, from)
	g.Place(id, to)
}

// Colocated returns the ids of every other agent sharing the cell at pos,
// in insertion order. The result is a fresh slice.
func (g *Grid) Colocated(pos Position, self int) []int {
	cell := g.cells[g.index(pos)]
	others := make([]int, 0, len(cell))
	for _, id := range cell {
		if id != self {
			others = append(others, id)
		}
	}
	return others
}

// Occupants returns the number of agents in the cell at pos.
func (g *Grid) Occupants(pos Position) int {
	return len(g.cells[g.index(pos)])
}

// RandomAdjacent returns a uniformly chosen neighbor cell of pos. The
// candidates are the eight Moore cells; on a torus they wrap, otherwise
// out-of-bounds cells are dropped. Wrapped duplicates and pos itself are
// excluded, so degenerate grids with no distinct neighbor return pos.
func (g *Grid) RandomAdjacent(pos Position, rng *rand.Rand) Position {
	candidates := make([]Position, 0, 8)
	for _, dir := range MooreDirections {
		next := Position{X: pos.X + dir.X, Y: pos.Y + dir.Y}
		if g.Torus {
			next = g.Wrap(next)
		} else if !g.InBounds(next) {
			continue
		}
		if next == pos || containsPosition(candidates, next) {
			continue
		}
		candidates = append(candidates, next)
	}
	if len(candidates) == 0 {
		return pos
	}
	return candidates[rng.Intn(len(candidates))]
}

// RandomPosition returns a uniformly chosen cell. The X coordinate is
// drawn before Y.
func (g *Grid) RandomPosition(rng *rand.Rand) Position {
	x := rng.Intn(g.Width)
	y := rng.Intn(g.Height)
	return Position{X: x, Y: y}
}

// Wrap maps pos onto the torus.
func (g *Grid) Wrap(pos Position) Position {
	x := pos.X % g.Width
	if x < 0 {
		x += g.Width
	}
	y := pos.Y % g.Height
	if y < 0 {
		y += g.Height
	}
	return Position{X: x, Y: y}
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, torus=%v)", g.Width, g.Height, g.Torus)
}

func (g *Grid) index(pos Position) int {
	if !g.InBounds(pos) {
		panic(fmt.Sprintf("world: position (%d,%d) outside %dx%d grid", pos.X, pos.Y, g.Width, g.Height))
	}
	return pos.Y*g.Width + pos.X
}

func (g *Grid) remove(id int, pos Position) {
	i := g.index(pos)
	cell := g.cells[i]
	for j, occupant := range cell {
		if occupant == id {
			g.cells[i] = append(cell[:j], cell[j+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("world: agent %d not in cell (%d,%d)", id, pos.X, pos.Y))
}

func containsPosition(positions []Position, pos Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}
