package domain

import (
	"fmt"
	"strings"
)

// TileType - тип местности клетки
type TileType uint8

const (
	TilePlain TileType = iota
	TileRocks
)

// Стоимость прохода по местности
const (
	TileCostPlain  = 1
	TileCostRocks  = 3
	TileCostHazard = 2 // надбавка за огонь / яд / шипы на клетке
)

func (t TileType) Cost() int {
	if t == TileRocks {
		return TileCostRocks
	}
	return TileCostPlain
}

// Weight - насколько тяжело сдвинуть блокер
type Weight uint8

const (
	WeightNormal Weight = iota
	WeightHeavy
	WeightImmovable
)

var weightStringTo = map[string]Weight{
	"normal":    WeightNormal,
	"heavy":     WeightHeavy,
	"immovable": WeightImmovable,
}

var weightToString = map[Weight]string{
	WeightNormal:    "normal",
	WeightHeavy:     "heavy",
	WeightImmovable: "immovable",
}

func (w Weight) String() string {
	if s, ok := weightToString[w]; ok {
		return s
	}
	return "unknown"
}

// ParseWeight конвертирует строку из файла прототипов в Weight
func ParseWeight(s string) (Weight, error) {
	if w, ok := weightStringTo[strings.ToLower(s)]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("unknown weight %q", s)
}

// CanBePushedBy - можно ли сдвинуть блокер с таким весом ударом силы strength
func (w Weight) CanBePushedBy(strength Weight) bool {
	return w != WeightImmovable && strength >= w
}

// WeaponType нужен только рендеру (какую анимацию удара показывать)
type WeaponType uint8

const (
	WeaponSlash WeaponType = iota
	WeaponSmash
	WeaponPierce
	WeaponClaw
)

var weaponStringTo = map[string]WeaponType{
	"slash":  WeaponSlash,
	"smash":  WeaponSmash,
	"pierce": WeaponPierce,
	"claw":   WeaponClaw,
}

var weaponToString = map[WeaponType]string{
	WeaponSlash:  "slash",
	WeaponSmash:  "smash",
	WeaponPierce: "pierce",
	WeaponClaw:   "claw",
}

func (w WeaponType) String() string {
	if s, ok := weaponToString[w]; ok {
		return s
	}
	return "unknown"
}

// ParseWeaponType конвертирует строку в WeaponType
func ParseWeaponType(s string) (WeaponType, error) {
	if w, ok := weaponStringTo[strings.ToLower(s)]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("unknown weapon type %q", s)
}

// BattleResult - итог боя
type BattleResult struct {
	WinnerID      PlayerID `json:"winnerId"`
	SurvivorTypes []string `json:"survivorTypes"`
}

func (w Weight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weight) UnmarshalText(data []byte) error {
	v, err := ParseWeight(string(data))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func (w WeaponType) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *WeaponType) UnmarshalText(data []byte) error {
	v, err := ParseWeaponType(string(data))
	if err != nil {
		return err
	}
	*w = v
	return nil
}
