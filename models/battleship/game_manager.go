package battleship

import (
	"sync"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const maxGameUuidAttempts = 8

type GameManager interface {
	CreateGame(mode uint8, nameOne, nameTwo string) (*Game, error)
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

type BattleshipGameManager struct {
	games   map[string]*Game
	newUuid func() string
	mu      sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

type GameManagerOption func(*BattleshipGameManager)

// WithGameUuidFunc replaces the generator of game uuids.
func WithGameUuidFunc(newUuid func() string) GameManagerOption {
	return func(bgm *BattleshipGameManager) {
		bgm.newUuid = newUuid
	}
}

func shortUuid() string {
	return uuid.NewString()[:6]
}

func NewBattleshipGameManager(opts ...GameManagerOption) *BattleshipGameManager {
	bgm := &BattleshipGameManager{
		games:   make(map[string]*Game, 10),
		newUuid: shortUuid,
	}
	for _, opt := range opts {
		opt(bgm)
	}
	return bgm
}

// CreateGame registers a new game under a short uuid. The uuid is drawn
// again while it belongs to a live game.
func (bgm *BattleshipGameManager) CreateGame(mode uint8, nameOne, nameTwo string) (*Game, error) {
	if !IsGameModeValid(mode) {
		return nil, cerr.ErrInvalidGameMode(mode)
	}

	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	for attempt := 0; attempt < maxGameUuidAttempts; attempt++ {
		gameUuid := bgm.newUuid()
		if _, taken := bgm.games[gameUuid]; taken {
			continue
		}

		game := NewGame(gameUuid, mode, nameOne, nameTwo, nil)
		bgm.games[gameUuid] = game
		return game, nil
	}

	return nil, cerr.ErrGameUuidUnavailable(maxGameUuidAttempts)
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
