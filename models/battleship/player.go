package battleship

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const defaultPlayerName = "anonymous"

type PlayerKey uint8

const (
	PlayerKeyOne PlayerKey = iota + 1
	PlayerKeyTwo
)

func ParsePlayerKey(s string) (PlayerKey, error) {
	switch s {
	case "player1":
		return PlayerKeyOne, nil
	case "player2":
		return PlayerKeyTwo, nil
	default:
		return 0, cerr.ErrInvalidPlayerKey(s)
	}
}

func (k PlayerKey) IsValid() bool {
	return k == PlayerKeyOne || k == PlayerKeyTwo
}

func (k PlayerKey) Other() PlayerKey {
	if k == PlayerKeyOne {
		return PlayerKeyTwo
	}
	return PlayerKeyOne
}

func (k PlayerKey) String() string {
	switch k {
	case PlayerKeyOne:
		return "player1"
	case PlayerKeyTwo:
		return "player2"
	default:
		return "unknown"
	}
}

func (k PlayerKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *PlayerKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "unknown" {
		*k = 0
		return nil
	}

	key, err := ParsePlayerKey(s)
	if err != nil {
		return err
	}
	*k = key
	return nil
}

type Player struct {
	Name  string
	Board Board
}

func NewPlayer(name string) Player {
	if name == "" {
		name = defaultPlayerName
	}
	return Player{
		Name:  name,
		Board: NewBoard(),
	}
}

// Players holds both sides of a game, indexed by PlayerKey.
type Players struct {
	One Player
	Two Player
}

func NewPlayers(nameOne, nameTwo string) Players {
	return Players{
		One: NewPlayer(nameOne),
		Two: NewPlayer(nameTwo),
	}
}

func (p Players) Get(key PlayerKey) Player {
	if key == PlayerKeyTwo {
		return p.Two
	}
	return p.One
}

func (p Players) With(key PlayerKey, player Player) Players {
	if key == PlayerKeyTwo {
		p.Two = player
	} else {
		p.One = player
	}
	return p
}

func (p Players) WithBoard(key PlayerKey, board Board) Players {
	player := p.Get(key)
	player.Board = board
	return p.With(key, player)
}
