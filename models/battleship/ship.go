package battleship

import (
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type ShipKind uint8

const (
	ShipKindNone ShipKind = iota
	ShipKindCarrier
	ShipKindBattleship
	ShipKindDestroyer
	ShipKindSubmarine
	ShipKindPatrolBoat
)

// FleetSize is the number of ships every board starts with.
const FleetSize = 5

var shipKindNames = map[ShipKind]string{
	ShipKindCarrier:    "carrier",
	ShipKindBattleship: "battleship",
	ShipKindDestroyer:  "destroyer",
	ShipKindSubmarine:  "submarine",
	ShipKindPatrolBoat: "patrol_boat",
}

// ShipKinds returns the fleet in its fixed order.
func ShipKinds() []ShipKind {
	return []ShipKind{
		ShipKindCarrier,
		ShipKindBattleship,
		ShipKindDestroyer,
		ShipKindSubmarine,
		ShipKindPatrolBoat,
	}
}

func (k ShipKind) IsValid() bool {
	return k >= ShipKindCarrier && k <= ShipKindPatrolBoat
}

func (k ShipKind) Length() int {
	switch k {
	case ShipKindCarrier:
		return 5
	case ShipKindBattleship:
		return 4
	case ShipKindDestroyer, ShipKindSubmarine:
		return 3
	case ShipKindPatrolBoat:
		return 2
	default:
		return 0
	}
}

func (k ShipKind) String() string {
	if name, ok := shipKindNames[k]; ok {
		return name
	}
	return "none"
}

func ParseShipKind(s string) (ShipKind, error) {
	for kind, name := range shipKindNames {
		if name == s {
			return kind, nil
		}
	}
	return ShipKindNone, cerr.ErrInvalidShipKind(s)
}

func (k ShipKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ShipKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "none" {
		*k = ShipKindNone
		return nil
	}

	kind, err := ParseShipKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Ship is a value: every update returns a new Ship and leaves the
// receiver untouched.
type Ship struct {
	Kind      ShipKind
	Length    int
	HitCount  int
	IsSunk    bool
	Positions CoordSet
	IsLocked  bool
}

func NewShip(kind ShipKind) Ship {
	return Ship{
		Kind:   kind,
		Length: kind.Length(),
	}
}

// Hit saturates at Length.
func (sh Ship) Hit() Ship {
	if sh.HitCount < sh.Length {
		sh.HitCount++
	}
	return sh
}

// CheckSunk recomputes IsSunk from the hit count.
func (sh Ship) CheckSunk() Ship {
	sh.IsSunk = sh.HitCount >= sh.Length
	return sh
}

func (sh Ship) Lock() Ship {
	sh.IsLocked = true
	return sh
}

func (sh Ship) IsPositioned() bool {
	return sh.Positions.Len() == sh.Length
}

func (sh Ship) clearPosition() Ship {
	sh.Positions = CoordSet{}
	sh.IsLocked = false
	return sh
}
