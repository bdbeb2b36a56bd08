package domain

import "zemeroth-core/pkg/hexmap"

// EffectKind - внутренний числовой идентификатор мгновенного эффекта
type EffectKind uint8

const (
	EffectKindCreate EffectKind = iota
	EffectKindKill
	EffectKindVanish
	EffectKindStun
	EffectKindHeal
	EffectKindWound
	EffectKindKnockback
	EffectKindFlyOff
	EffectKindThrow
	EffectKindDodge
	EffectKindBloodlust
)

var effectToString = map[EffectKind]string{
	EffectKindCreate:    "CREATE",
	EffectKindKill:      "KILL",
	EffectKindVanish:    "VANISH",
	EffectKindStun:      "STUN",
	EffectKindHeal:      "HEAL",
	EffectKindWound:     "WOUND",
	EffectKindKnockback: "KNOCKBACK",
	EffectKindFlyOff:    "FLY_OFF",
	EffectKindThrow:     "THROW",
	EffectKindDodge:     "DODGE",
	EffectKindBloodlust: "BLOODLUST",
}

// String реализует интерфейс Stringer (для логов и метрик)
func (k EffectKind) String() string {
	if s, ok := effectToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Effect - мгновенное изменение одного объекта
type Effect interface {
	Kind() EffectKind
}

// EffectCreate создает объект из готового набора компонентов
type EffectCreate struct {
	Pos        hexmap.PosHex
	Prototype  string
	Components []Component
}

// EffectKill - гибель. Удаляет все компоненты.
type EffectKill struct {
	Pos hexmap.PosHex
}

// EffectVanish - исчезновение без смерти (огонь погас, бомба взорвалась)
type EffectVanish struct{}

// EffectStun обнуляет ходы, атаки и джокеры
type EffectStun struct{}

type EffectHeal struct {
	Strength int
}

type EffectWound struct {
	Damage      int
	ArmorBreak  int
	AttackerPos hexmap.PosHex
}

// EffectKnockback - объект сдвинут ударом. From == To, если сдвинуть не удалось.
type EffectKnockback struct {
	From     hexmap.PosHex
	To       hexmap.PosHex
	Strength Weight
}

// EffectFlyOff - объект отлетел после тяжелого удара
type EffectFlyOff struct {
	From     hexmap.PosHex
	To       hexmap.PosHex
	Strength Weight
}

// EffectThrow - объект брошен (бомба)
type EffectThrow struct {
	From hexmap.PosHex
	To   hexmap.PosHex
}

// EffectDodge - промах, цель увернулась
type EffectDodge struct {
	AttackerPos hexmap.PosHex
}

// EffectBloodlust добавляет джокеры
type EffectBloodlust struct{}

// BloodlustJokers - сколько джокеров дает EffectBloodlust
const BloodlustJokers = 3

func (EffectCreate) Kind() EffectKind    { return EffectKindCreate }
func (EffectKill) Kind() EffectKind      { return EffectKindKill }
func (EffectVanish) Kind() EffectKind    { return EffectKindVanish }
func (EffectStun) Kind() EffectKind      { return EffectKindStun }
func (EffectHeal) Kind() EffectKind      { return EffectKindHeal }
func (EffectWound) Kind() EffectKind     { return EffectKindWound }
func (EffectKnockback) Kind() EffectKind { return EffectKindKnockback }
func (EffectFlyOff) Kind() EffectKind    { return EffectKindFlyOff }
func (EffectThrow) Kind() EffectKind     { return EffectKindThrow }
func (EffectDodge) Kind() EffectKind     { return EffectKindDodge }
func (EffectBloodlust) Kind() EffectKind { return EffectKindBloodlust }

// Lasting - вид длительного эффекта
type Lasting uint8

const (
	LastingPoison Lasting = iota
	LastingStun
	LastingBloodlust
)

var lastingToString = map[Lasting]string{
	LastingPoison:    "poison",
	LastingStun:      "stun",
	LastingBloodlust: "bloodlust",
}

func (l Lasting) String() string {
	if s, ok := lastingToString[l]; ok {
		return s
	}
	return "unknown"
}

// Duration - длительность эффекта в раундах или навсегда
type Duration struct {
	Rounds  int
	Forever bool
}

// IsOver - эффект закончился
func (d Duration) IsOver() bool {
	return !d.Forever && d.Rounds <= 0
}

// Decremented - длительность после одного раунда
func (d Duration) Decremented() Duration {
	if d.Forever {
		return d
	}
	d.Rounds--
	return d
}

// TimedEffect - длительный эффект на объекте.
// Phase - в начале чьего хода эффект срабатывает.
type TimedEffect struct {
	Duration Duration
	Phase    PlayerID
	Effect   Lasting
}
