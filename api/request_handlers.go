package api

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandleSelectShip(game *mb.Game) mc.Message[mc.RespPlacement]
	HandleRotateShip(game *mb.Game) mc.Message[mc.RespPlacement]
	HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlacement]
	HandleResetPositions(game *mb.Game) mc.Message[mc.RespPlacement]
	HandleStartGame(game *mb.Game) mc.Message[mc.RespStartGame]
	HandleAttack(game *mb.Game) mc.Message[mc.RespAttack]
	HandleReplay(game *mb.Game) mc.Message[mc.RespCreateGame]
}

// Every incoming valid request will have this structure.
// The request then is handled in line with RequestHandler interface.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

// decode unmarshals the request envelope and returns its payload.
func decode[T any](r Request) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(r.payload, &msg); err != nil {
		return msg.Payload, err
	}
	return msg.Payload, nil
}

func (r Request) HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	req, err := decode[mc.ReqCreateGame](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal create game request")
		return nil, resp
	}

	game, err := gm.CreateGame(req.GameMode, req.PlayerOneName, req.PlayerTwoName)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}

	resp.AddPayload(newRespCreateGame(game))
	return game, resp
}

func newRespCreateGame(game *mb.Game) mc.RespCreateGame {
	players := game.InitialState()
	return mc.RespCreateGame{
		GameUuid:      game.Uuid(),
		GameMode:      game.Mode(),
		PlayerOneName: players.One.Name,
		PlayerTwoName: players.Two.Name,
	}
}

func newRespPlacement(game *mb.Game, key mb.PlayerKey, placed bool) mc.RespPlacement {
	board := game.InitialPlayer(key).Board
	return mc.RespPlacement{
		PlayerKey:         key,
		Placed:            placed,
		Intent:            game.Placement(),
		DefenceGrid:       board.DefenceGrid(),
		UnpositionedShips: board.UnpositionedShips(),
	}
}

// placementKey rejects keys that cannot position ships in this game.
func placementKey(game *mb.Game, key mb.PlayerKey) error {
	if !key.IsValid() {
		return cerr.ErrInvalidPlayerKey(key.String())
	}
	if game.IsComputer(key) {
		return cerr.ErrPlayerNotInMode(key.String())
	}
	if game.IsInProgress() {
		return cerr.ErrGameAlreadyStarted
	}
	return nil
}

// Selecting a ship keeps the current orientation so a rotated intent
// survives switching ships.
func (r Request) HandleSelectShip(game *mb.Game) mc.Message[mc.RespPlacement] {
	resp := mc.NewMessage[mc.RespPlacement](mc.CodeSelectShip)

	req, err := decode[mc.ReqSelectShip](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal select ship request")
		return resp
	}
	if err := placementKey(game, req.PlayerKey); err != nil {
		resp.AddError(err.Error(), "cannot select a ship")
		return resp
	}
	if !req.ShipKind.IsValid() {
		resp.AddError(cerr.ErrInvalidShipKind(req.ShipKind.String()).Error(), "cannot select a ship")
		return resp
	}

	intent := game.Placement()
	intent.ShipKind = req.ShipKind
	intent.IsConfirmed = false
	game.SetPlacement(intent)

	resp.AddPayload(newRespPlacement(game, req.PlayerKey, false))
	return resp
}

func (r Request) HandleRotateShip(game *mb.Game) mc.Message[mc.RespPlacement] {
	resp := mc.NewMessage[mc.RespPlacement](mc.CodeRotateShip)

	req, err := decode[mc.ReqRotateShip](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal rotate ship request")
		return resp
	}
	if err := placementKey(game, req.PlayerKey); err != nil {
		resp.AddError(err.Error(), "cannot rotate the ship")
		return resp
	}

	game.SetPlacement(game.Placement().Rotate())
	resp.AddPayload(newRespPlacement(game, req.PlayerKey, false))
	return resp
}

// HandlePlaceShip moves the selected ship to the requested head. An
// unconfirmed place is a preview that can be moved again; a confirmed one
// locks the ship and clears the selection.
func (r Request) HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlacement] {
	resp := mc.NewMessage[mc.RespPlacement](mc.CodePlaceShip)

	req, err := decode[mc.ReqPlaceShip](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal place ship request")
		return resp
	}

	intent := game.Placement()
	intent.Head = mb.NewCoordinates(req.X, req.Y)
	intent.IsConfirmed = req.IsConfirmed

	placed, err := game.PlaceShip(req.PlayerKey, intent)
	if err != nil {
		resp.AddError(err.Error(), "cannot place the ship")
		return resp
	}

	if placed && intent.IsConfirmed {
		game.SetPlacement(mb.PlacementIntent{IsHorizontal: intent.IsHorizontal})
	} else {
		game.SetPlacement(intent)
	}

	resp.AddPayload(newRespPlacement(game, req.PlayerKey, placed))
	return resp
}

func (r Request) HandleResetPositions(game *mb.Game) mc.Message[mc.RespPlacement] {
	resp := mc.NewMessage[mc.RespPlacement](mc.CodeResetPositions)

	req, err := decode[mc.ReqResetPositions](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal reset positions request")
		return resp
	}
	if err := game.ClearPositions(req.PlayerKey); err != nil {
		resp.AddError(err.Error(), "cannot reset positions")
		return resp
	}

	resp.AddPayload(newRespPlacement(game, req.PlayerKey, false))
	return resp
}

func (r Request) HandleStartGame(game *mb.Game) mc.Message[mc.RespStartGame] {
	resp := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)

	req, err := decode[mc.ReqStartGame](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal start game request")
		return resp
	}

	begun, err := game.Start(req.PlayerKey)
	if err != nil {
		resp.AddError(err.Error(), "cannot start the game")
		if req.PlayerKey.IsValid() && !game.IsComputer(req.PlayerKey) {
			resp.AddPayload(mc.RespStartGame{
				PlayerKey:         req.PlayerKey,
				UnpositionedShips: game.InitialPlayer(req.PlayerKey).Board.UnpositionedShips(),
			})
		}
		return resp
	}

	resp.AddPayload(mc.RespStartGame{
		PlayerKey: req.PlayerKey,
		Begun:     begun,
		Turn:      game.CurrentTurn(),
	})
	return resp
}

// HandleAttack resolves the attack of the requesting player on the other
// side. The attacker must own the current turn; the turn passes only when
// the spot was valid.
func (r Request) HandleAttack(game *mb.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := decode[mc.ReqAttack](r)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal attack request")
		return resp
	}

	attacker := req.PlayerKey
	if !attacker.IsValid() {
		resp.AddError(cerr.ErrInvalidPlayerKey(attacker.String()).Error(), "cannot attack")
		return resp
	}
	if !game.IsInProgress() {
		resp.AddError(cerr.ErrGameNotStarted.Error(), "cannot attack")
		return resp
	}
	if game.IsComputer(attacker) || game.CurrentTurn() != attacker {
		resp.AddError(cerr.ErrNotTurnForAttacker(attacker.String()).Error(), "cannot attack")
		return resp
	}

	defender := attacker.Other()
	outcome, err := game.Attack(defender, mb.NewCoordinates(req.X, req.Y))
	if err != nil {
		resp.AddError(err.Error(), "cannot attack")
		return resp
	}

	if outcome.ValidSpot && !game.IsFinished() {
		game.SetTurn(defender)
	}

	board := inProgressBoard(game, defender)
	resp.AddPayload(newRespAttack(attacker, outcome, board, game.CurrentTurn(), board.AttackGrid()))
	return resp
}

// opponentAttack plays the computer's turn against player one and hands
// the turn back.
func opponentAttack(game *mb.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeOpponentAttack)

	outcome, err := game.OpponentAttack(mb.PlayerKeyOne)
	if err != nil {
		resp.AddError(err.Error(), "computer failed to attack")
		return resp
	}
	if !game.IsFinished() {
		game.SetTurn(mb.PlayerKeyOne)
	}

	board := inProgressBoard(game, mb.PlayerKeyOne)
	resp.AddPayload(newRespAttack(mb.PlayerKeyTwo, outcome, board, game.CurrentTurn(), board.DefenceGrid()))
	return resp
}

func inProgressBoard(game *mb.Game, key mb.PlayerKey) mb.Board {
	player, _ := game.InProgressPlayer(key)
	return player.Board
}

func newRespAttack(attacker mb.PlayerKey, outcome mb.AttackOutcome, defenderBoard mb.Board, turn mb.PlayerKey, grid mb.Grid) mc.RespAttack {
	resp := mc.RespAttack{
		Attacker:       attacker,
		X:              outcome.Coordinates.X,
		Y:              outcome.Coordinates.Y,
		PositionState:  outcome.PositionState,
		ValidSpot:      outcome.ValidSpot,
		SunkShip:       outcome.SunkShip,
		SurvivingShips: defenderBoard.SurvivingShipCount(),
		Turn:           turn,
		DefenderGrid:   grid,
	}
	if outcome.SunkShip.IsValid() {
		resp.SunkShipCoords = defenderBoard.SunkShipCoordinates(outcome.SunkShip)
	}
	return resp
}

func newEndGameMessage(game *mb.Game) (mc.Message[mc.RespEndGame], bool) {
	msg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)

	winner, ok := game.Winner()
	if !ok {
		return msg, false
	}
	msg.AddPayload(mc.RespEndGame{
		Winner:     winner,
		WinnerName: game.InitialPlayer(winner).Name,
	})
	return msg, true
}

// HandleReplay puts the finished game back into the placement phase.
func (r Request) HandleReplay(game *mb.Game) mc.Message[mc.RespCreateGame] {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeReplay)
	game.Restore()
	resp.AddPayload(newRespCreateGame(game))
	return resp
}
