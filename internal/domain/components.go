package domain

import "zemeroth-core/pkg/hexmap"

// --- КОМПОНЕНТЫ ---
// Каждый компонент принадлежит максимум одной сущности.
// Прототипы хранятся как упорядоченный список компонентов.

// Component - любой компонент, который можно положить в хранилище
type Component interface {
	ComponentName() string
}

// Pos - положение на карте
type Pos struct {
	Pos hexmap.PosHex
}

// Strength - "здоровье". Пока объект существует, Strength > 0.
type Strength struct {
	Strength     int `yaml:"strength"`
	BaseStrength int `yaml:"base_strength"`
}

// Wounds - сколько силы потеряно
func (s Strength) Wounds() int {
	return s.BaseStrength - s.Strength
}

// Armor - броня, поглощает урон
type Armor struct {
	Armor int `yaml:"armor"`
}

// Meta - имя прототипа, из которого создан объект
type Meta struct {
	Name string
}

// BelongsTo - владелец объекта
type BelongsTo struct {
	PlayerID PlayerID
}

// Agent - боевая единица: ходит, атакует, применяет способности
type Agent struct {
	Moves   int `yaml:"moves,omitempty"`
	Attacks int `yaml:"attacks,omitempty"`
	Jokers  int `yaml:"jokers,omitempty"` // можно потратить и на ход, и на атаку

	BaseMoves   int `yaml:"base_moves"`
	BaseAttacks int `yaml:"base_attacks"`
	BaseJokers  int `yaml:"base_jokers"`

	AttackStrength  int        `yaml:"attack_strength"`
	AttackDistance  int        `yaml:"attack_distance"`
	AttackAccuracy  int        `yaml:"attack_accuracy"`
	AttackBreak     int        `yaml:"attack_break"`
	Dodge           int        `yaml:"dodge"`
	MovePoints      int        `yaml:"move_points"`
	ReactiveAttacks int        `yaml:"reactive_attacks"`
	WeaponType      WeaponType `yaml:"weapon_type"`
}

// Blocker - объект занимает клетку целиком
type Blocker struct {
	Weight Weight `yaml:"weight"`
}

// Abilities - активные способности с перезарядкой
type Abilities struct {
	Abilities []RechargeableAbility
}

// PassiveAbilities - пассивки
type PassiveAbilities struct {
	Abilities []PassiveAbility
}

// Effects - длительные эффекты (яд, оглушение, жажда крови)
type Effects struct {
	Effects []TimedEffect
}

// Schedule - запланированные способности
type Schedule struct {
	Planned []PlannedAbility
}

// Summoner - сколько существ призовет следующий Summon
type Summoner struct {
	Count int `yaml:"count"`
}

func (Pos) ComponentName() string              { return "pos" }
func (Strength) ComponentName() string         { return "strength" }
func (Armor) ComponentName() string            { return "armor" }
func (Meta) ComponentName() string             { return "meta" }
func (BelongsTo) ComponentName() string        { return "belongs_to" }
func (Agent) ComponentName() string            { return "agent" }
func (Blocker) ComponentName() string          { return "blocker" }
func (Abilities) ComponentName() string        { return "abilities" }
func (PassiveAbilities) ComponentName() string { return "passive_abilities" }
func (Effects) ComponentName() string          { return "effects" }
func (Schedule) ComponentName() string         { return "schedule" }
func (Summoner) ComponentName() string         { return "summoner" }

// CloneComponent делает глубокую копию компонента (слайсы копируются),
// чтобы объекты не делили память с прототипом.
func CloneComponent(c Component) Component {
	switch v := c.(type) {
	case Abilities:
		v.Abilities = append([]RechargeableAbility(nil), v.Abilities...)
		return v
	case PassiveAbilities:
		v.Abilities = append([]PassiveAbility(nil), v.Abilities...)
		return v
	case Effects:
		v.Effects = append([]TimedEffect(nil), v.Effects...)
		return v
	case Schedule:
		v.Planned = append([]PlannedAbility(nil), v.Planned...)
		return v
	}
	return c
}

// CloneComponents копирует список компонентов
func CloneComponents(list []Component) []Component {
	out := make([]Component, len(list))
	for i, c := range list {
		out[i] = CloneComponent(c)
	}
	return out
}
