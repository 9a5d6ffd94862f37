package battleship

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	GameModeSolo uint8 = iota
	GameModeTwoPlayers
)

const ComputerPlayerName = "computer"

func IsGameModeValid(mode uint8) bool {
	return mode == GameModeSolo || mode == GameModeTwoPlayers
}

// Game is the state of one session: both players' placement-phase boards,
// the snapshot played once combat starts, whose turn it is, the ship being
// positioned and the computer's targeting memory. A Game is owned by a
// single caller at a time; it does no locking of its own.
//
// Reads return values, so callers can never modify the game through what
// they read. Writes replace.
type Game struct {
	uuid       string
	mode       uint8
	isFinished bool
	started    [2]bool

	initial    Players
	inProgress *Players
	turn       PlayerKey
	placement  PlacementIntent
	targeting  TargetingState

	rng *rand.Rand
}

// NewGame sets up a fresh game. In solo mode the computer's fleet
// (player two) is positioned and locked straight away. A nil rng is
// replaced by a randomly seeded one.
func NewGame(uuid string, mode uint8, nameOne, nameTwo string, rng *rand.Rand) *Game {
	rng = orRandom(rng)
	if mode == GameModeSolo && nameTwo == "" {
		nameTwo = ComputerPlayerName
	}

	g := &Game{
		uuid: uuid,
		mode: mode,
		rng:  rng,
	}
	g.reset(NewPlayers(nameOne, nameTwo))
	return g
}

func (g *Game) reset(players Players) {
	g.initial = players
	g.inProgress = nil
	g.isFinished = false
	g.started = [2]bool{}
	g.turn = PlayerKeyOne
	g.placement = NewPlacementIntent()
	g.targeting = TargetingState{}

	if g.mode == GameModeSolo {
		g.PositionComputerFleet()
	}
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Mode() uint8 {
	return g.mode
}

// IsComputer reports whether key is played by the computer in this game.
func (g *Game) IsComputer(key PlayerKey) bool {
	return g.mode == GameModeSolo && key == PlayerKeyTwo
}

func (g *Game) InitialState() Players {
	return g.initial
}

func (g *Game) InitialPlayer(key PlayerKey) Player {
	return g.initial.Get(key)
}

func (g *Game) SetInitialState(players Players) {
	g.initial = players
}

func (g *Game) SetInitialBoard(key PlayerKey, board Board) {
	g.initial = g.initial.WithBoard(key, board)
}

// InProgressState returns the combat snapshot; ok is false before start.
func (g *Game) InProgressState() (players Players, ok bool) {
	if g.inProgress == nil {
		return Players{}, false
	}
	return *g.inProgress, true
}

func (g *Game) InProgressPlayer(key PlayerKey) (Player, bool) {
	players, ok := g.InProgressState()
	if !ok {
		return Player{}, false
	}
	return players.Get(key), true
}

func (g *Game) SetInProgressState(players Players) {
	g.inProgress = &players
}

func (g *Game) SetInProgressBoard(key PlayerKey, board Board) {
	players, _ := g.InProgressState()
	players = players.WithBoard(key, board)
	g.inProgress = &players
}

func (g *Game) IsInProgress() bool {
	return g.inProgress != nil
}

func (g *Game) Placement() PlacementIntent {
	return g.placement
}

func (g *Game) SetPlacement(intent PlacementIntent) {
	g.placement = intent
}

func (g *Game) ResetPlacement() {
	g.placement = NewPlacementIntent()
}

func (g *Game) Targeting() TargetingState {
	return TargetingState{Pending: append([]Coordinates(nil), g.targeting.Pending...)}
}

func (g *Game) SetTargeting(state TargetingState) {
	g.targeting = state
}

func (g *Game) CurrentTurn() PlayerKey {
	return g.turn
}

func (g *Game) SetTurn(key PlayerKey) {
	g.turn = key
}

// PositionComputerFleet places and locks the computer's fleet.
func (g *Game) PositionComputerFleet() {
	board := PositionRandomFleet(g.initial.Two.Board, g.rng)
	g.SetInitialBoard(PlayerKeyTwo, board.LockAllPositions())
	g.started[PlayerKeyTwo-1] = true
}

func (g *Game) checkPlacementPhase(key PlayerKey) error {
	if !key.IsValid() {
		return cerr.ErrInvalidPlayerKey(key.String())
	}
	if g.IsComputer(key) {
		return cerr.ErrPlayerNotInMode(key.String())
	}
	if g.IsInProgress() || g.started[key-1] {
		return cerr.ErrGameAlreadyStarted
	}
	return nil
}

// PlaceShip applies intent to key's placement board. placed is false when
// the board rejected the intent or the ship was already locked.
func (g *Game) PlaceShip(key PlayerKey, intent PlacementIntent) (placed bool, err error) {
	if err := g.checkPlacementPhase(key); err != nil {
		return false, err
	}
	if !intent.ShipKind.IsValid() {
		return false, cerr.ErrInvalidShipKind(intent.ShipKind.String())
	}

	before := g.initial.Get(key).Board
	if current, ok := before.Ship(intent.ShipKind); ok && current.IsLocked {
		return false, nil
	}

	board := before.PlaceShip(intent)
	g.SetInitialBoard(key, board)

	ship, _ := board.Ship(intent.ShipKind)
	wanted := NewCoordSet(intent.Cells(ship.Length)...)
	return ship.IsPositioned() && ship.Positions == wanted, nil
}

// ClearPositions wipes every ship position of key's placement board.
func (g *Game) ClearPositions(key PlayerKey) error {
	if err := g.checkPlacementPhase(key); err != nil {
		return err
	}
	g.SetInitialBoard(key, g.initial.Get(key).Board.ClearAllPositions())
	g.ResetPlacement()
	return nil
}

// Start locks key's fleet. Combat begins once both sides have started;
// begun reports whether this call was the one that began it.
func (g *Game) Start(key PlayerKey) (begun bool, err error) {
	if err := g.checkPlacementPhase(key); err != nil {
		return false, err
	}

	board := g.initial.Get(key).Board
	if kinds := board.UnpositionedShips(); kinds != nil {
		names := make([]string, len(kinds))
		for i, kind := range kinds {
			names[i] = kind.String()
		}
		return false, cerr.ErrUnpositionedShips(names)
	}

	g.SetInitialBoard(key, board.LockAllPositions())
	g.started[key-1] = true
	g.ResetPlacement()

	if !g.started[0] || !g.started[1] {
		return false, nil
	}

	g.SetInProgressState(g.initial)
	g.turn = PlayerKeyOne
	return true, nil
}

func (g *Game) checkCombatPhase() error {
	if !g.IsInProgress() {
		return cerr.ErrGameNotStarted
	}
	if g.isFinished {
		return cerr.ErrGameFinished
	}
	return nil
}

// Attack resolves an attack on target's in-progress board. Turn order is
// left to the caller.
func (g *Game) Attack(target PlayerKey, c Coordinates) (AttackOutcome, error) {
	if err := g.checkCombatPhase(); err != nil {
		return AttackOutcome{}, err
	}
	if !target.IsValid() {
		return AttackOutcome{}, cerr.ErrInvalidPlayerKey(target.String())
	}

	board, outcome := g.inProgress.Get(target).Board.ReceiveAttack(c)
	g.SetInProgressBoard(target, board)
	g.markFinished()
	return outcome, nil
}

// OpponentAttack lets the computer attack target's in-progress board.
func (g *Game) OpponentAttack(target PlayerKey) (AttackOutcome, error) {
	if err := g.checkCombatPhase(); err != nil {
		return AttackOutcome{}, err
	}
	if !target.IsValid() {
		return AttackOutcome{}, cerr.ErrInvalidPlayerKey(target.String())
	}

	board, outcome, state, err := OpponentAttack(g.inProgress.Get(target).Board, g.Targeting(), g.rng)
	if err != nil {
		return AttackOutcome{}, err
	}

	g.SetInProgressBoard(target, board)
	g.SetTargeting(state)
	g.markFinished()
	return outcome, nil
}

func (g *Game) markFinished() {
	if _, ok := g.Winner(); ok {
		g.isFinished = true
	}
}

// Winner is the player whose opponent has no ships left.
func (g *Game) Winner() (PlayerKey, bool) {
	players, ok := g.InProgressState()
	if !ok {
		return 0, false
	}
	if players.Two.Board.HasNoShipsLeft() {
		return PlayerKeyOne, true
	}
	if players.One.Board.HasNoShipsLeft() {
		return PlayerKeyTwo, true
	}
	return 0, false
}

func (g *Game) IsFinished() bool {
	return g.isFinished
}

// Restore brings the game back to a fresh placement phase for a replay,
// keeping the players' names.
func (g *Game) Restore() {
	g.reset(NewPlayers(g.initial.One.Name, g.initial.Two.Name))
}
