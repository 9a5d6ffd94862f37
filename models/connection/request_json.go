package connection

import (
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

type ReqCreateGame struct {
	GameMode      uint8  `json:"game_mode"`
	PlayerOneName string `json:"player_one_name"`
	PlayerTwoName string `json:"player_two_name"`
}

type ReqSelectShip struct {
	PlayerKey mb.PlayerKey `json:"player_key"`
	ShipKind  mb.ShipKind  `json:"ship_kind"`
}

type ReqRotateShip struct {
	PlayerKey mb.PlayerKey `json:"player_key"`
}

type ReqPlaceShip struct {
	PlayerKey   mb.PlayerKey `json:"player_key"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	IsConfirmed bool         `json:"is_confirmed"`
}

type ReqResetPositions struct {
	PlayerKey mb.PlayerKey `json:"player_key"`
}

type ReqStartGame struct {
	PlayerKey mb.PlayerKey `json:"player_key"`
}

type ReqAttack struct {
	PlayerKey mb.PlayerKey `json:"player_key"`
	X         int          `json:"x"`
	Y         int          `json:"y"`
}
