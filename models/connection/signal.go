package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame

	// Placement phase
	CodeSelectShip
	CodeRotateShip
	CodePlaceShip
	CodeResetPositions
	CodeStartGame

	// Combat phase
	CodeAttack
	CodeOpponentAttack
	CodeEndGame

	// Throw the finished game away and start placing again
	CodeReplay

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
