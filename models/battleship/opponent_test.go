package battleship_test

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestTargetingStateIsAStack(t *testing.T) {
	state := mb.TargetingState{}.Push(mb.NewCoordinates(1, 1), mb.NewCoordinates(2, 2))
	state = state.Push(mb.NewCoordinates(3, 3))

	var popped []mb.Coordinates
	for {
		c, next, ok := state.Pop()
		if !ok {
			break
		}
		popped = append(popped, c)
		state = next
	}

	expected := []mb.Coordinates{{X: 3, Y: 3}, {X: 2, Y: 2}, {X: 1, Y: 1}}
	if !reflect.DeepEqual(popped, expected) {
		t.Fatalf("expected pop order: %v\tgot: %v", expected, popped)
	}
	if !state.IsEmpty() {
		t.Fatal("expected an empty state")
	}
}

func TestOpponentFollowsHit(t *testing.T) {
	board := mb.NewBoard().PlaceShip(mb.PlacementIntent{
		ShipKind: mb.ShipKindPatrolBoat, Head: mb.NewCoordinates(5, 5), IsHorizontal: true,
	})
	rng := newTestRand()
	state := mb.TargetingState{Pending: []mb.Coordinates{{X: 5, Y: 5}}}

	board, outcome, state, err := mb.OpponentAttack(board, state, rng)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.IsHit() || outcome.Coordinates != mb.NewCoordinates(5, 5) {
		t.Fatalf("expected a hit at 5,5, got: %+v", outcome)
	}

	neighbours := mb.NewCoordSet(
		mb.NewCoordinates(4, 5), mb.NewCoordinates(6, 5),
		mb.NewCoordinates(5, 4), mb.NewCoordinates(5, 6),
	)
	if mb.NewCoordSet(state.Pending...) != neighbours {
		t.Fatalf("expected the four neighbours pending, got: %v", state.Pending)
	}

	// Most recently discovered neighbours first, the last one hits the
	// rest of the patrol boat.
	expected := []mb.Coordinates{{X: 5, Y: 6}, {X: 5, Y: 4}, {X: 4, Y: 5}, {X: 6, Y: 5}}
	for i, c := range expected {
		board, outcome, state, err = mb.OpponentAttack(board, state, rng)
		if err != nil {
			t.Fatal(err)
		}
		if outcome.Coordinates != c {
			t.Fatalf("attack %d: expected %s, got: %s", i, c, outcome.Coordinates)
		}
	}
	if outcome.SunkShip != mb.ShipKindPatrolBoat {
		t.Fatalf("expected the patrol boat sunk, got: %+v", outcome)
	}

	// 5,5 is pending again but already attacked, so it is skipped.
	expected = []mb.Coordinates{{X: 6, Y: 6}, {X: 6, Y: 4}, {X: 7, Y: 5}}
	for i, c := range expected {
		board, outcome, state, err = mb.OpponentAttack(board, state, rng)
		if err != nil {
			t.Fatal(err)
		}
		if outcome.Coordinates != c || !outcome.IsMiss() {
			t.Fatalf("follow-up %d: expected a miss at %s, got: %+v", i, c, outcome)
		}
	}
	if !state.IsEmpty() {
		t.Fatalf("expected no pending targets, got: %v", state.Pending)
	}

	// Back to random search.
	before := board.Attacked().Len()
	board, outcome, _, err = mb.OpponentAttack(board, state, rng)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.ValidSpot || board.Attacked().Len() != before+1 {
		t.Fatalf("expected one more valid random attack, got: %+v", outcome)
	}
}

func TestOpponentClearsWholeBoard(t *testing.T) {
	board := placeFleet(t, mb.NewBoard(), true)
	rng := newTestRand()

	var (
		state   mb.TargetingState
		outcome mb.AttackOutcome
		err     error
	)
	for i := 0; i < mb.GridCells; i++ {
		before := board.Attacked()
		board, outcome, state, err = mb.OpponentAttack(board, state, rng)
		if err != nil {
			t.Fatalf("attack %d: %v", i, err)
		}
		if !outcome.ValidSpot || before.Has(outcome.Coordinates) {
			t.Fatalf("attack %d landed on an attacked spot: %+v", i, outcome)
		}
	}

	if !board.IsExhausted() || !board.HasNoShipsLeft() {
		t.Fatal("expected an exhausted board with no ships left")
	}

	_, _, _, err = mb.OpponentAttack(board, state, rng)
	if !errors.Is(err, cerr.ErrBoardExhausted) {
		t.Fatalf("expected ErrBoardExhausted, got: %v", err)
	}
}

func TestPositionRandomFleet(t *testing.T) {
	rng := newTestRand()

	for i := 0; i < 50; i++ {
		board := mb.PositionRandomFleet(mb.NewBoard(), rng)
		if kinds := board.UnpositionedShips(); kinds != nil {
			t.Fatalf("run %d: unpositioned ships: %v", i, kinds)
		}
		assertBoardInvariants(t, board)
	}
}

func TestPositionRandomFleetKeepsPlacedShips(t *testing.T) {
	intent := mb.PlacementIntent{ShipKind: mb.ShipKindCarrier, Head: mb.NewCoordinates(1, 10), IsHorizontal: true}
	board := mb.NewBoard().PlaceShip(intent)
	carrier, _ := board.Ship(mb.ShipKindCarrier)

	board = mb.PositionRandomFleet(board, newTestRand())
	after, _ := board.Ship(mb.ShipKindCarrier)
	if after.Positions != carrier.Positions {
		t.Fatal("random fleet moved an already positioned ship")
	}
	assertBoardInvariants(t, board)
}

func TestNilRandIsSeeded(t *testing.T) {
	board := mb.PositionRandomFleet(mb.NewBoard(), nil)
	if kinds := board.UnpositionedShips(); kinds != nil {
		t.Fatalf("unpositioned ships: %v", kinds)
	}
	assertBoardInvariants(t, board)

	board, outcome, _, err := mb.OpponentAttack(board, mb.TargetingState{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.ValidSpot || !board.Attacked().Has(outcome.Coordinates) {
		t.Fatalf("expected a recorded attack, got: %+v", outcome)
	}
}
