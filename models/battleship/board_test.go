package battleship_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// placeFleet puts every ship horizontally at x=1, one row per ship.
func placeFleet(t *testing.T, board mb.Board, confirm bool) mb.Board {
	t.Helper()

	for i, kind := range mb.ShipKinds() {
		board = board.PlaceShip(mb.PlacementIntent{
			ShipKind:     kind,
			Head:         mb.NewCoordinates(1, i+1),
			IsHorizontal: true,
			IsConfirmed:  confirm,
		})
	}
	if kinds := board.UnpositionedShips(); kinds != nil {
		t.Fatalf("fleet not placed: %v", kinds)
	}
	return board
}

func assertBoardInvariants(t *testing.T, board mb.Board) {
	t.Helper()

	var union mb.CoordSet
	surviving := 0
	for _, ship := range board.Ships() {
		if union.Intersects(ship.Positions) {
			t.Fatalf("%s shares a coordinate with another ship", ship.Kind)
		}
		union = union.Union(ship.Positions)
		if n := ship.Positions.Len(); n != 0 && n != ship.Length {
			t.Fatalf("%s partially positioned: %d cells", ship.Kind, n)
		}
		if !ship.IsSunk {
			surviving++
		}
	}

	if union != board.Occupied() {
		t.Fatal("occupied coordinates differ from the union of ship positions")
	}
	for _, c := range board.Occupied().Coordinates() {
		if !mb.IsWithinRange(c) {
			t.Fatalf("occupied coordinate off the board: %s", c)
		}
	}
	for _, c := range board.Missed() {
		if !board.Attacked().Has(c) {
			t.Fatalf("missed coordinate not attacked: %s", c)
		}
	}
	if surviving != board.SurvivingShipCount() {
		t.Fatalf("surviving ship count: %d\tships afloat: %d", board.SurvivingShipCount(), surviving)
	}
}

func TestNewBoard(t *testing.T) {
	board := mb.NewBoard()

	if board.SurvivingShipCount() != mb.FleetSize {
		t.Fatalf("expected %d surviving ships, got: %d", mb.FleetSize, board.SurvivingShipCount())
	}
	if !board.Occupied().IsEmpty() || !board.Attacked().IsEmpty() || len(board.Missed()) != 0 {
		t.Fatal("expected empty coordinate sets")
	}
	if !reflect.DeepEqual(board.UnpositionedShips(), mb.ShipKinds()) {
		t.Fatalf("expected every ship unpositioned, got: %v", board.UnpositionedShips())
	}
	for _, ship := range board.Ships() {
		if !reflect.DeepEqual(ship, mb.NewShip(ship.Kind)) {
			t.Fatalf("expected fresh %s, got: %+v", ship.Kind, ship)
		}
	}
}

func TestPlaceShip(t *testing.T) {
	base := mb.NewBoard().PlaceShip(mb.PlacementIntent{
		ShipKind:     mb.ShipKindCarrier,
		Head:         mb.NewCoordinates(3, 3),
		IsHorizontal: false,
	})

	tests := []struct {
		name     string
		intent   mb.PlacementIntent
		expected []mb.Coordinates
		rejected bool
	}{
		{
			name:     "horizontal patrol boat",
			intent:   mb.PlacementIntent{ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 1), IsHorizontal: true},
			expected: []mb.Coordinates{{X: 1, Y: 1}, {X: 2, Y: 1}},
		},
		{
			name:     "vertical destroyer",
			intent:   mb.PlacementIntent{ShipKind: mb.ShipKindDestroyer, Head: mb.NewCoordinates(10, 8)},
			expected: []mb.Coordinates{{X: 10, Y: 8}, {X: 10, Y: 9}, {X: 10, Y: 10}},
		},
		{
			name:     "past the right edge",
			intent:   mb.PlacementIntent{ShipKind: mb.ShipKindBattleship, Head: mb.NewCoordinates(8, 1), IsHorizontal: true},
			rejected: true,
		},
		{
			name:     "head off the board",
			intent:   mb.PlacementIntent{ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(0, 1), IsHorizontal: true},
			rejected: true,
		},
		{
			name:     "overlaps the carrier",
			intent:   mb.PlacementIntent{ShipKind: mb.ShipKindSubmarine, Head: mb.NewCoordinates(1, 5), IsHorizontal: true},
			rejected: true,
		},
		{
			name:     "unknown ship",
			intent:   mb.PlacementIntent{ShipKind: mb.ShipKindNone, Head: mb.NewCoordinates(1, 1), IsHorizontal: true},
			rejected: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board := base.PlaceShip(test.intent)

			if test.rejected {
				if !board.Equal(base) {
					t.Fatal("rejected placement changed the board")
				}
				return
			}

			ship, _ := board.Ship(test.intent.ShipKind)
			if got := ship.Positions.Coordinates(); !reflect.DeepEqual(got, test.expected) {
				t.Fatalf("expected positions: %v\tgot: %v", test.expected, got)
			}
			for _, c := range test.expected {
				if !board.Occupied().Has(c) {
					t.Fatalf("occupied spots missing %s", c)
				}
			}
			assertBoardInvariants(t, board)
		})
	}
}

func TestPlaceShipRepositionsUnlockedShip(t *testing.T) {
	board := mb.NewBoard().PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 1), IsHorizontal: true,
	})

	// Overlapping its own old cells is allowed.
	board = board.PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(2, 1), IsHorizontal: true,
	})

	expected := mb.NewCoordSet(mb.NewCoordinates(2, 1), mb.NewCoordinates(3, 1))
	ship, _ := board.Ship(mb.ShipKindPatrolBoat)
	if ship.Positions != expected || board.Occupied() != expected {
		t.Fatalf("expected positions: %v\tgot: %v", expected.Coordinates(), ship.Positions.Coordinates())
	}
	assertBoardInvariants(t, board)
}

func TestPlaceShipFailedRepositionKeepsShip(t *testing.T) {
	board := mb.NewBoard().
		PlaceShip(mb.PlacementIntent{ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 1), IsHorizontal: true}).
		PlaceShip(mb.PlacementIntent{ShipKind: mb.ShipKindDestroyer, Head: mb.NewCoordinates(1, 3), IsHorizontal: true})

	moved := board.PlaceShip(mb.PlacementIntent{ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 2)})
	if !moved.Equal(board) {
		t.Fatal("failed reposition must leave the board as it was")
	}

	ship, _ := moved.Ship(mb.ShipKindPatrolBoat)
	if !ship.IsPositioned() {
		t.Fatal("failed reposition left the ship without a position")
	}
}

func TestPlaceShipLocked(t *testing.T) {
	board := mb.NewBoard().PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 1), IsHorizontal: true, IsConfirmed: true,
	})

	ship, _ := board.Ship(mb.ShipKindPatrolBoat)
	if !ship.IsLocked {
		t.Fatal("confirmed placement must lock the ship")
	}

	again := board.PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(2, 3), IsHorizontal: true,
	})
	if !again.Equal(board) || !reflect.DeepEqual(again, board) {
		t.Fatal("locked ship must not move")
	}
}

func TestClearAndLockAllPositions(t *testing.T) {
	board := placeFleet(t, mb.NewBoard(), true)

	cleared := board.ClearAllPositions()
	if !cleared.Occupied().IsEmpty() {
		t.Fatal("expected no occupied spots after clearing")
	}
	for _, ship := range cleared.Ships() {
		if ship.IsLocked || !ship.Positions.IsEmpty() {
			t.Fatalf("%s still positioned or locked: %+v", ship.Kind, ship)
		}
	}

	// Round trip: everything can be placed again.
	replaced := placeFleet(t, cleared, false)
	if replaced.UnpositionedShips() != nil {
		t.Fatal("expected the whole fleet to be positioned")
	}

	locked := mb.NewBoard().LockAllPositions()
	for _, ship := range locked.Ships() {
		if !ship.IsLocked {
			t.Fatalf("%s not locked", ship.Kind)
		}
	}
}

func TestReceiveAttackSinksPatrolBoat(t *testing.T) {
	board := mb.NewBoard().PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 1), IsHorizontal: true,
	})

	expectedOccupied := mb.NewCoordSet(mb.NewCoordinates(1, 1), mb.NewCoordinates(2, 1))
	if board.Occupied() != expectedOccupied {
		t.Fatalf("unexpected occupied spots: %v", board.Occupied().Coordinates())
	}

	board, outcome := board.ReceiveAttack(mb.NewCoordinates(1, 1))
	if !outcome.ValidSpot || !outcome.IsHit() || outcome.SunkShip != mb.ShipKindNone {
		t.Fatalf("unexpected first outcome: %+v", outcome)
	}
	if board.SurvivingShipCount() != 5 {
		t.Fatalf("expected 5 surviving ships, got: %d", board.SurvivingShipCount())
	}

	board, outcome = board.ReceiveAttack(mb.NewCoordinates(2, 1))
	if !outcome.IsHit() || outcome.SunkShip != mb.ShipKindPatrolBoat {
		t.Fatalf("unexpected second outcome: %+v", outcome)
	}
	if board.SurvivingShipCount() != 4 {
		t.Fatalf("expected 4 surviving ships, got: %d", board.SurvivingShipCount())
	}

	expectedSunk := []mb.Coordinates{{X: 1, Y: 1}, {X: 2, Y: 1}}
	if got := board.SunkShipCoordinates(mb.ShipKindPatrolBoat); !reflect.DeepEqual(got, expectedSunk) {
		t.Fatalf("expected sunk coordinates: %v\tgot: %v", expectedSunk, got)
	}
	assertBoardInvariants(t, board)
}

func TestReceiveAttackInvalidSpots(t *testing.T) {
	board := placeFleet(t, mb.NewBoard(), true)
	board, _ = board.ReceiveAttack(mb.NewCoordinates(9, 9))
	board, _ = board.ReceiveAttack(mb.NewCoordinates(1, 1))

	tests := []struct {
		name   string
		coords mb.Coordinates
	}{
		{name: "x out of range", coords: mb.NewCoordinates(11, 1)},
		{name: "y out of range", coords: mb.NewCoordinates(1, 0)},
		{name: "repeat miss", coords: mb.NewCoordinates(9, 9)},
		{name: "repeat hit", coords: mb.NewCoordinates(1, 1)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			next, outcome := board.ReceiveAttack(test.coords)

			expected := mb.AttackOutcome{
				Coordinates:   test.coords,
				PositionState: mb.PositionStateAttackGridEmpty,
				ValidSpot:     false,
			}
			if outcome != expected {
				t.Fatalf("expected outcome: %+v\tgot: %+v", expected, outcome)
			}
			if !next.Equal(board) {
				t.Fatal("invalid attack changed the board")
			}
		})
	}
}

func TestReceiveAttackMissOrderAndAliasing(t *testing.T) {
	board := placeFleet(t, mb.NewBoard(), true)

	misses := []mb.Coordinates{{X: 10, Y: 10}, {X: 7, Y: 8}, {X: 9, Y: 6}}
	history := []mb.Board{board}
	for _, c := range misses {
		next, outcome := board.ReceiveAttack(c)
		if !outcome.IsMiss() {
			t.Fatalf("expected miss at %s, got: %+v", c, outcome)
		}
		board = next
		history = append(history, board)
	}

	if got := board.Missed(); !reflect.DeepEqual(got, misses) {
		t.Fatalf("expected misses in order: %v\tgot: %v", misses, got)
	}

	// Branching from an older board must not disturb the newer ones.
	branch, _ := history[1].ReceiveAttack(mb.NewCoordinates(8, 10))
	if got := board.Missed(); !reflect.DeepEqual(got, misses) {
		t.Fatalf("newer board changed by a branch: %v", got)
	}
	if len(branch.Missed()) != 2 {
		t.Fatalf("expected 2 misses on the branch, got: %d", len(branch.Missed()))
	}
	assertBoardInvariants(t, board)
}

func TestSurvivingCountDropsOncePerSunkShip(t *testing.T) {
	board := placeFleet(t, mb.NewBoard(), true)

	sunk := 0
	for y := 1; y <= mb.GridSize; y++ {
		for x := 1; x <= mb.GridSize; x++ {
			before := board.SurvivingShipCount()
			next, outcome := board.ReceiveAttack(mb.NewCoordinates(x, y))
			if outcome.SunkShip != mb.ShipKindNone {
				sunk++
				if next.SurvivingShipCount() != before-1 {
					t.Fatalf("expected surviving count %d, got: %d", before-1, next.SurvivingShipCount())
				}
			} else if next.SurvivingShipCount() != before {
				t.Fatalf("surviving count changed without a sinking at %d,%d", x, y)
			}
			board = next
			assertBoardInvariants(t, board)
		}
	}

	if sunk != mb.FleetSize || !mb.HasNoShipsLeft(board.SurvivingShipCount()) || !board.IsExhausted() {
		t.Fatalf("expected the whole fleet sunk on an exhausted board, sunk: %d", sunk)
	}
}

func TestHasNoShipsLeft(t *testing.T) {
	if !mb.HasNoShipsLeft(0) {
		t.Fatal("expected true for zero ships")
	}
	if mb.HasNoShipsLeft(1) {
		t.Fatal("expected false for one ship")
	}
}

func TestGrids(t *testing.T) {
	board := mb.NewBoard().PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(1, 1), IsHorizontal: true,
	})
	board, _ = board.ReceiveAttack(mb.NewCoordinates(1, 1))
	board, _ = board.ReceiveAttack(mb.NewCoordinates(5, 5))

	defence := board.DefenceGrid()
	if defence.At(mb.NewCoordinates(1, 1)) != mb.PositionStateDefenceGridHit {
		t.Fatal("expected a hit on the defence grid")
	}
	if defence.At(mb.NewCoordinates(2, 1)) != mb.DefenceShipCode(mb.ShipKindPatrolBoat) {
		t.Fatal("expected an intact patrol boat cell")
	}
	if defence.At(mb.NewCoordinates(5, 5)) != mb.PositionStateDefenceGridMiss {
		t.Fatal("expected a miss on the defence grid")
	}

	attack := board.AttackGrid()
	if attack.At(mb.NewCoordinates(2, 1)) != mb.PositionStateAttackGridEmpty {
		t.Fatal("attack grid must not reveal unattacked ship cells")
	}
	if attack.At(mb.NewCoordinates(1, 1)) != mb.PositionStateAttackGridHit {
		t.Fatal("expected a hit on the attack grid")
	}

	board, _ = board.ReceiveAttack(mb.NewCoordinates(2, 1))
	if board.AttackGrid().At(mb.NewCoordinates(1, 1)) != mb.PositionStateAttackGridSunk {
		t.Fatal("expected sunk cells on the attack grid")
	}
}

func TestGridJSON(t *testing.T) {
	grid := mb.NewGrid(mb.GridSize)
	data, err := json.Marshal(grid)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "[[0,0,0") {
		t.Fatalf("expected rows of numbers, got: %s", data)
	}

	var decoded mb.Grid
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, grid) {
		t.Fatal("grid changed after a json round trip")
	}
}
