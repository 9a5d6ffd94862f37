package battleship

import "encoding/json"

// Attack grid: what the attacker knows about the opponent's board.
const (
	PositionStateAttackGridEmpty uint8 = iota
	PositionStateAttackGridMiss
	PositionStateAttackGridHit
	PositionStateAttackGridSunk
)

// Defence grid: the owner's view of their own board. Ship cells carry
// the ship kind code.
const (
	PositionStateDefenceGridEmpty uint8 = iota
	PositionStateDefenceGridMiss
	PositionStateDefenceGridHit

	positionStateDefenceShipOffset
)

// DefenceShipCode is the defence grid code of an intact ship cell.
func DefenceShipCode(kind ShipKind) uint8 {
	return positionStateDefenceShipOffset + uint8(kind) - 1
}

// Grid is indexed as Grid[y-1][x-1].
type Grid [][]uint8

// Creates a new default grid
// All indexes are zero/Empty
func NewGrid(gridSize int) Grid {
	grid := make(Grid, gridSize)

	for i := 0; i < gridSize; i++ {
		grid[i] = make([]uint8, gridSize)
	}
	return grid
}

func (g Grid) set(c Coordinates, state uint8) {
	g[c.Y-1][c.X-1] = state
}

func (g Grid) At(c Coordinates) uint8 {
	return g[c.Y-1][c.X-1]
}

// Rows are written as number arrays; a plain []uint8 would be base64.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]int, len(g))
	for i, row := range g {
		rows[i] = make([]int, len(row))
		for j, v := range row {
			rows[i][j] = int(v)
		}
	}
	return json.Marshal(rows)
}

func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		grid[i] = make([]uint8, len(row))
		for j, v := range row {
			grid[i][j] = uint8(v)
		}
	}
	*g = grid
	return nil
}

// DefenceGrid renders the board from its owner's point of view.
func (b Board) DefenceGrid() Grid {
	grid := NewGrid(GridSize)

	for _, ship := range b.ships {
		for _, c := range ship.Positions.Coordinates() {
			grid.set(c, DefenceShipCode(ship.Kind))
		}
	}
	for _, c := range b.attacked.Coordinates() {
		if b.occupied.Has(c) {
			grid.set(c, PositionStateDefenceGridHit)
		} else {
			grid.set(c, PositionStateDefenceGridMiss)
		}
	}
	return grid
}

// AttackGrid renders the board as seen by the opponent: only attacked
// cells are revealed, cells of sunk ships are marked as such.
func (b Board) AttackGrid() Grid {
	grid := NewGrid(GridSize)

	for _, c := range b.attacked.Coordinates() {
		if !b.occupied.Has(c) {
			grid.set(c, PositionStateAttackGridMiss)
			continue
		}

		state := PositionStateAttackGridHit
		if ship, ok := b.ShipAt(c); ok && ship.IsSunk {
			state = PositionStateAttackGridSunk
		}
		grid.set(c, state)
	}
	return grid
}
