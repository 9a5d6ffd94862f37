package battleship

import "slices"

// Board is one player's side of the game. It is a value: every operation
// that changes it returns a new Board and leaves the receiver intact, so a
// previous Board can be kept around and compared against.
type Board struct {
	ships              [FleetSize]Ship
	occupied           CoordSet
	attacked           CoordSet
	missed             []Coordinates
	survivingShipCount int
}

// AttackOutcome is what an attack reports back to the caller.
// PositionState is PositionStateAttackGridEmpty when the spot was not
// valid (already attacked or off the board).
type AttackOutcome struct {
	Coordinates   Coordinates `json:"coordinates"`
	PositionState uint8       `json:"position_state"`
	ValidSpot     bool        `json:"valid_spot"`
	SunkShip      ShipKind    `json:"sunk_ship"`
}

func (ao AttackOutcome) IsHit() bool {
	return ao.PositionState == PositionStateAttackGridHit
}

func (ao AttackOutcome) IsMiss() bool {
	return ao.PositionState == PositionStateAttackGridMiss
}

func NewBoard() Board {
	var b Board
	for i, kind := range ShipKinds() {
		b.ships[i] = NewShip(kind)
	}
	b.survivingShipCount = FleetSize
	return b
}

func shipSlot(kind ShipKind) int {
	return int(kind) - 1
}

// PlaceShip positions the ship named by the intent. A rejected placement
// (locked ship, off-board or overlapping cells, unknown kind) returns the
// board unchanged; nothing is reported as an error.
func (b Board) PlaceShip(intent PlacementIntent) Board {
	if !intent.ShipKind.IsValid() {
		return b
	}

	slot := shipSlot(intent.ShipKind)
	ship := b.ships[slot]

	// Cells of the ship being repositioned are free for the new position.
	occupied := b.occupied
	if ship.IsPositioned() {
		if ship.IsLocked {
			return b
		}
		occupied = occupied.Difference(ship.Positions)
	}

	var newPositions CoordSet
	for _, c := range intent.Cells(ship.Length) {
		if !IsWithinRange(c) || occupied.Has(c) {
			return b
		}
		newPositions = newPositions.Add(c)
	}

	ship = ship.clearPosition()
	ship.Positions = newPositions
	if intent.IsConfirmed {
		ship = ship.Lock()
	}

	b.ships[slot] = ship
	b.occupied = occupied.Union(newPositions)
	return b
}

// UnpositionedShips returns the kinds still waiting for a full position,
// or nil when the whole fleet is placed.
func (b Board) UnpositionedShips() []ShipKind {
	var kinds []ShipKind
	for _, ship := range b.ships {
		if !ship.IsPositioned() {
			kinds = append(kinds, ship.Kind)
		}
	}
	return kinds
}

func (b Board) ClearAllPositions() Board {
	b.occupied = CoordSet{}
	for i := range b.ships {
		b.ships[i] = b.ships[i].clearPosition()
	}
	return b
}

// LockAllPositions locks every ship, positioned or not.
func (b Board) LockAllPositions() Board {
	for i := range b.ships {
		b.ships[i] = b.ships[i].Lock()
	}
	return b
}

// ReceiveAttack resolves an attack on c. Repeat attacks and off-board
// coordinates leave the board unchanged and report ValidSpot false.
func (b Board) ReceiveAttack(c Coordinates) (Board, AttackOutcome) {
	outcome := AttackOutcome{Coordinates: c}
	if !IsWithinRange(c) || b.attacked.Has(c) {
		return b, outcome
	}

	outcome.ValidSpot = true
	b.attacked = b.attacked.Add(c)

	if !b.occupied.Has(c) {
		// Clip forces append to allocate so earlier boards keep their slice.
		b.missed = append(slices.Clip(b.missed), c)
		outcome.PositionState = PositionStateAttackGridMiss
		return b, outcome
	}

	outcome.PositionState = PositionStateAttackGridHit
	for i, ship := range b.ships {
		if !ship.Positions.Has(c) {
			continue
		}

		wasSunk := ship.IsSunk
		ship = ship.Hit().CheckSunk()
		if ship.IsSunk && !wasSunk {
			b.survivingShipCount--
			outcome.SunkShip = ship.Kind
		}
		b.ships[i] = ship
		break
	}
	return b, outcome
}

func HasNoShipsLeft(survivingShipCount int) bool {
	return survivingShipCount == 0
}

func (b Board) HasNoShipsLeft() bool {
	return HasNoShipsLeft(b.survivingShipCount)
}

func (b Board) Ship(kind ShipKind) (Ship, bool) {
	if !kind.IsValid() {
		return Ship{}, false
	}
	return b.ships[shipSlot(kind)], true
}

// Ships returns the fleet in fixed order.
func (b Board) Ships() []Ship {
	return slices.Clone(b.ships[:])
}

// ShipAt finds the ship occupying c.
func (b Board) ShipAt(c Coordinates) (Ship, bool) {
	if !b.occupied.Has(c) {
		return Ship{}, false
	}
	for _, ship := range b.ships {
		if ship.Positions.Has(c) {
			return ship, true
		}
	}
	return Ship{}, false
}

func (b Board) Occupied() CoordSet {
	return b.occupied
}

func (b Board) Attacked() CoordSet {
	return b.attacked
}

// Missed lists the missed coordinates in the order they were attacked.
func (b Board) Missed() []Coordinates {
	return slices.Clone(b.missed)
}

func (b Board) SurvivingShipCount() int {
	return b.survivingShipCount
}

// IsExhausted reports whether every cell has been attacked.
func (b Board) IsExhausted() bool {
	return b.attacked.Len() == GridCells
}

// SunkShipCoordinates returns the cells of kind once it is sunk.
func (b Board) SunkShipCoordinates(kind ShipKind) []Coordinates {
	ship, ok := b.Ship(kind)
	if !ok || !ship.IsSunk {
		return nil
	}
	return ship.Positions.Coordinates()
}

func (b Board) Equal(other Board) bool {
	return b.ships == other.ships &&
		b.occupied == other.occupied &&
		b.attacked == other.attacked &&
		b.survivingShipCount == other.survivingShipCount &&
		slices.Equal(b.missed, other.missed)
}
