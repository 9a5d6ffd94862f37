package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid      string `json:"game_uuid"`
	GameMode      uint8  `json:"game_mode"`
	PlayerOneName string `json:"player_one_name"`
	PlayerTwoName string `json:"player_two_name"`
}

// RespPlacement mirrors the placement board of one player after a
// select, rotate, place or reset request.
type RespPlacement struct {
	PlayerKey         mb.PlayerKey       `json:"player_key"`
	Placed            bool               `json:"placed"`
	Intent            mb.PlacementIntent `json:"intent"`
	DefenceGrid       mb.Grid            `json:"defence_grid"`
	UnpositionedShips []mb.ShipKind      `json:"unpositioned_ships"`
}

type RespStartGame struct {
	PlayerKey         mb.PlayerKey  `json:"player_key"`
	Begun             bool          `json:"begun"`
	Turn              mb.PlayerKey  `json:"turn"`
	UnpositionedShips []mb.ShipKind `json:"unpositioned_ships,omitempty"`
}

type RespAttack struct {
	Attacker       mb.PlayerKey     `json:"attacker"`
	X              int              `json:"x"`
	Y              int              `json:"y"`
	PositionState  uint8            `json:"position_state"`
	ValidSpot      bool             `json:"valid_spot"`
	SunkShip       mb.ShipKind      `json:"sunk_ship"`
	SunkShipCoords []mb.Coordinates `json:"sunk_ship_coords,omitempty"`
	SurvivingShips int              `json:"surviving_ships"`
	Turn           mb.PlayerKey     `json:"turn"`
	DefenderGrid   mb.Grid          `json:"defender_grid"`
}

type RespEndGame struct {
	Winner     mb.PlayerKey `json:"winner"`
	WinnerName string       `json:"winner_name"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
