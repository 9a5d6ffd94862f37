package battleship

import (
	"math/rand/v2"
	"slices"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// After this many random draws land on attacked cells, the next draw is
// taken among the cells that are still open.
const maxBlindDraws = 32

// TargetingState is the computer's memory of cells next to earlier hits.
// Pending is a stack: the last pushed cell is tried first.
type TargetingState struct {
	Pending []Coordinates `json:"pending"`
}

func (ts TargetingState) Push(coords ...Coordinates) TargetingState {
	pending := make([]Coordinates, 0, len(ts.Pending)+len(coords))
	pending = append(pending, ts.Pending...)
	ts.Pending = append(pending, coords...)
	return ts
}

func (ts TargetingState) Pop() (Coordinates, TargetingState, bool) {
	if len(ts.Pending) == 0 {
		return Coordinates{}, ts, false
	}
	last := len(ts.Pending) - 1
	c := ts.Pending[last]
	ts.Pending = slices.Clip(ts.Pending[:last])
	return c, ts, true
}

func (ts TargetingState) IsEmpty() bool {
	return len(ts.Pending) == 0
}

func randomCoordinates(rng *rand.Rand) Coordinates {
	return Coordinates{
		X: rng.IntN(GridSize) + ValidLowerBound,
		Y: rng.IntN(GridSize) + ValidLowerBound,
	}
}

func randomOpenCoordinates(board Board, rng *rand.Rand) Coordinates {
	var open []Coordinates
	for i := 0; i < GridCells; i++ {
		c := coordinatesFromIndex(i)
		if !board.attacked.Has(c) {
			open = append(open, c)
		}
	}
	return open[rng.IntN(len(open))]
}

// OpponentAttack picks the computer's next target on board and resolves
// it. Pending neighbours of earlier hits are tried before random cells;
// spots that turn out invalid are discarded and the next candidate is
// tried. A hit pushes its in-range neighbours onto the targeting stack.
func OpponentAttack(board Board, state TargetingState, rng *rand.Rand) (Board, AttackOutcome, TargetingState, error) {
	rng = orRandom(rng)
	if board.IsExhausted() {
		return board, AttackOutcome{}, state, cerr.ErrBoardExhausted
	}

	var (
		next       Board
		outcome    AttackOutcome
		blindDraws int
	)

	for {
		target, popped, ok := state.Pop()
		state = popped

		if !ok {
			if blindDraws < maxBlindDraws {
				target = randomCoordinates(rng)
				blindDraws++
			} else {
				target = randomOpenCoordinates(board, rng)
			}
		}

		next, outcome = board.ReceiveAttack(target)
		if outcome.ValidSpot {
			break
		}
	}

	if outcome.IsHit() {
		state = state.Push(outcome.Coordinates.Neighbours()...)
	}
	return next, outcome, state, nil
}
