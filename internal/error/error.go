package error

import (
	"errors"
	"fmt"
)

var (
	ErrBoardExhausted     = errors.New("every coordinate of the board has already been attacked")
	ErrShipsNotPositioned = errors.New("not all ships are positioned")
	ErrGameNotStarted     = errors.New("game has not started yet")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFinished       = errors.New("game is already finished")
	ErrNotTurn            = errors.New("it is not the turn of this player")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s: %w", gameUuid, ErrNotFound)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s: %w", sessionId, ErrNotFound)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}

func ErrNotTurnForAttacker(playerKey string) error {
	return fmt.Errorf("not the turn of the attacker, player: %s: %w", playerKey, ErrNotTurn)
}

func ErrUnpositionedShips(kinds []string) error {
	return fmt.Errorf("ships waiting for a position: %v: %w", kinds, ErrShipsNotPositioned)
}

func ErrInvalidGameMode(mode uint8) error {
	return fmt.Errorf("invalid game mode: %d: %w", mode, ErrInvalidInput)
}

func ErrInvalidShipKind(kind string) error {
	return fmt.Errorf("invalid ship kind: %q: %w", kind, ErrInvalidInput)
}

func ErrInvalidPlayerKey(key string) error {
	return fmt.Errorf("invalid player key: %q: %w", key, ErrInvalidInput)
}

func ErrPlayerNotInMode(key string) error {
	return fmt.Errorf("player %s is controlled by the computer in this mode: %w", key, ErrInvalidInput)
}

func ErrNoGameInSession(sessionId string) error {
	return fmt.Errorf("session has no game, id: %s: %w", sessionId, ErrNotFound)
}

func ErrGameUuidUnavailable(attempts int) error {
	return fmt.Errorf("no free game uuid after %d attempts: %w", attempts, ErrConflict)
}
