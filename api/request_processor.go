package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"

	defaultOpponentDelay = time.Millisecond * 500
	defaultEndGameDelay  = time.Second * 3
)

var (
	upgrader = websocket.Upgrader{
		HandshakeTimeout: time.Second * 5,
		ReadBufferSize:   2048,
		WriteBufferSize:  2048,
		CheckOrigin:      func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager

	opponentDelay time.Duration
	endGameDelay  time.Duration
}

type RequestProcessorOption func(*RequestProcessor)

// WithOpponentDelay sets how long the computer "thinks" before attacking.
func WithOpponentDelay(d time.Duration) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		rp.opponentDelay = d
	}
}

// WithEndGameDelay sets the pause between the final attack and the end
// game message.
func WithEndGameDelay(d time.Duration) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		rp.endGameDelay = d
	}
}

func WithAnalytics(analytics *sqlc.AnalyticsManager) RequestProcessorOption {
	return func(rp *RequestProcessor) {
		rp.analytics = analytics
	}
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	opts ...RequestProcessorOption,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		opponentDelay:  defaultOpponentDelay,
		endGameDelay:   defaultEndGameDelay,
	}
	for _, opt := range opts {
		opt(&rp)
	}
	return rp
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("could not open websocket connection")
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		log.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("a new connection established")
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
		return
	}

	// The original session loop keeps running and picks up the new conn.
	if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
		log.Warn().Err(err).Str("session_id", sessionIdQuery).Msg("reconnection refused")
		_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
		conn.Close()
	}
}

func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionId  = session.Id()
		serverInet pqtype.Inet
	)
	if conn := session.Conn(); conn != nil {
		serverInet = sqlc.InetFromAddr(conn.LocalAddr())
	}

	defer func() {
		if game := rp.sessionManager.GetSessionGame(session); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	write := func(msg interface{}) error {
		return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
	}

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := write(resp); err != nil {
		return
	}

	// endGame announces the winner once the last ship went down.
	endGame := func(game *mb.Game) error {
		msg, ok := newEndGameMessage(game)
		if !ok {
			return nil
		}
		pause(rp.endGameDelay)
		rp.analytics.Record(context.Background(), serverInet, rp.analytics.IncrementGamesFinishedCount)
		log.Info().Str("game_uuid", game.Uuid()).Str("winner", msg.Payload.Winner.String()).Msg("game finished")
		return write(msg)
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Retries and the reconnection grace period are already spent.
			break sessionLoop
		}

		var signal mc.Signal
		if err := json.Unmarshal(payload, &signal); err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err := write(msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}
		log.Debug().Str("session_id", sessionId).Uint8("code", signal.Code).Msg("request received")

		sessionGame, gameErr := rp.sessionGame(session)
		if gameErr != nil && isGameSignal(signal.Code) {
			msg := mc.NewMessage[mc.NoPayload](signal.Code)
			msg.AddError(gameErr.Error(), "create a game first")
			if err := write(msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		req := NewRequest(payload)

		switch signal.Code {

		// A new game replaces whatever game this session was playing.
		case mc.CodeCreateGame:
			game, respMsg := req.HandleCreateGame(rp.gameManager)
			if respMsg.Error == nil {
				if sessionGame != nil {
					rp.gameManager.TerminateGame(sessionGame.Uuid())
				}
				rp.sessionManager.SetSessionGame(session, game)
				rp.analytics.Record(context.Background(), serverInet, rp.analytics.IncrementGamesCreatedCount)
				log.Info().Str("session_id", sessionId).Str("game_uuid", game.Uuid()).Uint8("mode", game.Mode()).Msg("game created")
			}
			if err := write(respMsg); err != nil {
				break sessionLoop
			}

		case mc.CodeSelectShip:
			if err := write(req.HandleSelectShip(sessionGame)); err != nil {
				break sessionLoop
			}

		case mc.CodeRotateShip:
			if err := write(req.HandleRotateShip(sessionGame)); err != nil {
				break sessionLoop
			}

		case mc.CodePlaceShip:
			if err := write(req.HandlePlaceShip(sessionGame)); err != nil {
				break sessionLoop
			}

		case mc.CodeResetPositions:
			if err := write(req.HandleResetPositions(sessionGame)); err != nil {
				break sessionLoop
			}

		case mc.CodeStartGame:
			if err := write(req.HandleStartGame(sessionGame)); err != nil {
				break sessionLoop
			}

		// After a valid attack the game either ends or, against the
		// computer, the counter attack follows after a short pause.
		case mc.CodeAttack:
			respMsg := req.HandleAttack(sessionGame)
			if err := write(respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil || !respMsg.Payload.ValidSpot {
				continue sessionLoop
			}

			if sessionGame.IsFinished() {
				if err := endGame(sessionGame); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			if sessionGame.Mode() != mb.GameModeSolo {
				continue sessionLoop
			}

			pause(rp.opponentDelay)
			if err := write(opponentAttack(sessionGame)); err != nil {
				break sessionLoop
			}
			if sessionGame.IsFinished() {
				if err := endGame(sessionGame); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeReplay:
			rp.analytics.Record(context.Background(), serverInet, rp.analytics.IncrementReplayCount)
			if err := write(req.HandleReplay(sessionGame)); err != nil {
				break sessionLoop
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := write(respInvalidSignal); err != nil {
				break sessionLoop
			}
		}
	}
}

// sessionGame resolves the game bound to session. A game the manager no
// longer holds is unbound from the session.
func (rp RequestProcessor) sessionGame(session *mc.Session) (*mb.Game, error) {
	game := rp.sessionManager.GetSessionGame(session)
	if game == nil {
		return nil, cerr.ErrNoGameInSession(session.Id())
	}

	registered, err := rp.gameManager.GetGame(game.Uuid())
	if err != nil || registered != game {
		rp.sessionManager.SetSessionGame(session, nil)
		return nil, cerr.ErrGameNotExists(game.Uuid())
	}
	return registered, nil
}

// isGameSignal reports whether code needs a game in the session.
func isGameSignal(code uint8) bool {
	switch code {
	case mc.CodeSelectShip, mc.CodeRotateShip, mc.CodePlaceShip, mc.CodeResetPositions,
		mc.CodeStartGame, mc.CodeAttack, mc.CodeReplay:
		return true
	}
	return false
}
