package battleship

import "math/rand/v2"

const maxPlacementDraws = 200

// orRandom returns rng, or a randomly seeded generator when rng is nil.
func orRandom(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rng
}

// randomPlacement draws a head that keeps the whole ship on the board:
// along the ship's axis the head ranges over [1, GridSize-length+1].
func randomPlacement(kind ShipKind, rng *rand.Rand) PlacementIntent {
	boundary := GridSize - kind.Length() + 1
	intent := PlacementIntent{
		ShipKind:     kind,
		IsHorizontal: rng.IntN(2) == 1,
	}

	if intent.IsHorizontal {
		intent.Head = Coordinates{X: rng.IntN(boundary) + 1, Y: rng.IntN(GridSize) + 1}
	} else {
		intent.Head = Coordinates{X: rng.IntN(GridSize) + 1, Y: rng.IntN(boundary) + 1}
	}
	return intent
}

// openPlacements lists every placement of kind that board would accept.
func openPlacements(board Board, kind ShipKind) []PlacementIntent {
	var intents []PlacementIntent
	for _, horizontal := range []bool{true, false} {
		for i := 0; i < GridCells; i++ {
			intent := PlacementIntent{
				ShipKind:     kind,
				Head:         coordinatesFromIndex(i),
				IsHorizontal: horizontal,
			}
			if placed, _ := board.PlaceShip(intent).Ship(kind); placed.IsPositioned() {
				intents = append(intents, intent)
			}
		}
	}
	return intents
}

// PositionRandomFleet gives every unpositioned ship a random valid position.
// Ships that already have a position keep it. A nil rng is replaced by a
// randomly seeded one.
func PositionRandomFleet(board Board, rng *rand.Rand) Board {
	rng = orRandom(rng)
	for _, kind := range board.UnpositionedShips() {
		placed := false
		for draw := 0; draw < maxPlacementDraws && !placed; draw++ {
			board = board.PlaceShip(randomPlacement(kind, rng))
			ship, _ := board.Ship(kind)
			placed = ship.IsPositioned()
		}
		if placed {
			continue
		}

		if candidates := openPlacements(board, kind); len(candidates) > 0 {
			board = board.PlaceShip(candidates[rng.IntN(len(candidates))])
		}
	}
	return board
}
