package battleship

import (
	"fmt"
	"math/bits"
)

const (
	GridSize  = 10
	GridCells = GridSize * GridSize

	ValidLowerBound = 1
	ValidUpperBound = GridSize
)

// Coordinates are 1-indexed: both X and Y live in [1, GridSize].
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

// IsWithinRange reports whether c lies on the board.
func IsWithinRange(c Coordinates) bool {
	return c.X >= ValidLowerBound && c.Y >= ValidLowerBound && c.X <= ValidUpperBound && c.Y <= ValidUpperBound
}

// Index packs c into [0, GridCells). Only meaningful for in-range coordinates.
func (c Coordinates) Index() int {
	return (c.Y-1)*GridSize + (c.X - 1)
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Neighbours returns the in-range axis-aligned neighbours in the order
// +x, -x, -y, +y.
func (c Coordinates) Neighbours() []Coordinates {
	candidates := [4]Coordinates{
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
	}

	neighbours := make([]Coordinates, 0, len(candidates))
	for _, n := range candidates {
		if IsWithinRange(n) {
			neighbours = append(neighbours, n)
		}
	}
	return neighbours
}

func coordinatesFromIndex(i int) Coordinates {
	return Coordinates{X: i%GridSize + 1, Y: i/GridSize + 1}
}

// CoordSet is a fixed-size set of board coordinates. It is a plain value:
// copying a CoordSet copies the set.
type CoordSet struct {
	bits [2]uint64
}

func NewCoordSet(coords ...Coordinates) CoordSet {
	var s CoordSet
	for _, c := range coords {
		s = s.Add(c)
	}
	return s
}

// Add returns s with c included. Out of range coordinates are ignored.
func (s CoordSet) Add(c Coordinates) CoordSet {
	if !IsWithinRange(c) {
		return s
	}
	i := c.Index()
	s.bits[i/64] |= 1 << (i % 64)
	return s
}

func (s CoordSet) Remove(c Coordinates) CoordSet {
	if !IsWithinRange(c) {
		return s
	}
	i := c.Index()
	s.bits[i/64] &^= 1 << (i % 64)
	return s
}

func (s CoordSet) Has(c Coordinates) bool {
	if !IsWithinRange(c) {
		return false
	}
	i := c.Index()
	return s.bits[i/64]&(1<<(i%64)) != 0
}

func (s CoordSet) Len() int {
	return bits.OnesCount64(s.bits[0]) + bits.OnesCount64(s.bits[1])
}

func (s CoordSet) IsEmpty() bool {
	return s.bits[0] == 0 && s.bits[1] == 0
}

func (s CoordSet) Union(other CoordSet) CoordSet {
	s.bits[0] |= other.bits[0]
	s.bits[1] |= other.bits[1]
	return s
}

func (s CoordSet) Difference(other CoordSet) CoordSet {
	s.bits[0] &^= other.bits[0]
	s.bits[1] &^= other.bits[1]
	return s
}

func (s CoordSet) Intersects(other CoordSet) bool {
	return s.bits[0]&other.bits[0] != 0 || s.bits[1]&other.bits[1] != 0
}

// Coordinates lists the members in ascending index order (row by row).
func (s CoordSet) Coordinates() []Coordinates {
	coords := make([]Coordinates, 0, s.Len())
	for word := 0; word < len(s.bits); word++ {
		w := s.bits[word]
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			coords = append(coords, coordinatesFromIndex(word*64+bit))
			w &= w - 1
		}
	}
	return coords
}
