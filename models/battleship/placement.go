package battleship

// PlacementIntent describes a ship the player is currently positioning.
// It lives on the Game, never on the Board.
type PlacementIntent struct {
	ShipKind     ShipKind    `json:"ship_kind"`
	Head         Coordinates `json:"head"`
	IsHorizontal bool        `json:"is_horizontal"`
	IsConfirmed  bool        `json:"is_confirmed"`
}

func NewPlacementIntent() PlacementIntent {
	return PlacementIntent{IsHorizontal: true}
}

func (pi PlacementIntent) Rotate() PlacementIntent {
	pi.IsHorizontal = !pi.IsHorizontal
	return pi
}

// Cells extends length steps from the head along +x when horizontal and
// along +y otherwise. Cells may fall off the board; callers validate.
func (pi PlacementIntent) Cells(length int) []Coordinates {
	cells := make([]Coordinates, length)
	for i := 0; i < length; i++ {
		if pi.IsHorizontal {
			cells[i] = Coordinates{X: pi.Head.X + i, Y: pi.Head.Y}
		} else {
			cells[i] = Coordinates{X: pi.Head.X, Y: pi.Head.Y + i}
		}
	}
	return cells
}
