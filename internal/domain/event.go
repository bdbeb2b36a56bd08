package domain

import "zemeroth-core/pkg/hexmap"

// EventKind - внутренний числовой идентификатор события
type EventKind uint8

const (
	EventKindCreate EventKind = iota
	EventKindEndBattle
	EventKindEndTurn
	EventKindBeginTurn
	EventKindUseAbility
	EventKindUsePassiveAbility
	EventKindMoveTo
	EventKindAttack
	EventKindEffectTick
	EventKindEffectEnd
)

// Маппинг для логов Domain -> String
var eventToString = map[EventKind]string{
	EventKindCreate:            "CREATE",
	EventKindEndBattle:         "END_BATTLE",
	EventKindEndTurn:           "END_TURN",
	EventKindBeginTurn:         "BEGIN_TURN",
	EventKindUseAbility:        "USE_ABILITY",
	EventKindUsePassiveAbility: "USE_PASSIVE_ABILITY",
	EventKindMoveTo:            "MOVE_TO",
	EventKindAttack:            "ATTACK",
	EventKindEffectTick:        "EFFECT_TICK",
	EventKindEffectEnd:         "EFFECT_END",
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (k EventKind) String() string {
	if s, ok := eventToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ActiveEvent - то, что произошло (причина эффектов)
type ActiveEvent interface {
	Kind() EventKind
}

type EventCreate struct{}

type EventEndBattle struct {
	Result BattleResult
}

type EventEndTurn struct {
	PlayerID PlayerID
}

type EventBeginTurn struct {
	PlayerID PlayerID
}

type EventUseAbility struct {
	ID      ObjID
	Pos     hexmap.PosHex
	Ability Ability
}

type EventUsePassiveAbility struct {
	ID      ObjID
	Pos     hexmap.PosHex
	Ability PassiveAbility
}

// EventMoveTo - один шаг (или весь путь) перемещения.
// Cost - сколько "ходов" списать (только у первого шага пути).
type EventMoveTo struct {
	ID   ObjID
	Path Path
	Cost int
}

// AttackMode - атака по своей инициативе или реакция на чужое действие
type AttackMode uint8

const (
	AttackActive AttackMode = iota
	AttackReactive
)

func (m AttackMode) String() string {
	if m == AttackReactive {
		return "reactive"
	}
	return "active"
}

type EventAttack struct {
	AttackerID ObjID
	TargetID   ObjID
	Mode       AttackMode
	WeaponType WeaponType
}

type EventEffectTick struct {
	ID     ObjID
	Effect Lasting
}

type EventEffectEnd struct {
	ID     ObjID
	Effect Lasting
}

func (EventCreate) Kind() EventKind            { return EventKindCreate }
func (EventEndBattle) Kind() EventKind         { return EventKindEndBattle }
func (EventEndTurn) Kind() EventKind           { return EventKindEndTurn }
func (EventBeginTurn) Kind() EventKind         { return EventKindBeginTurn }
func (EventUseAbility) Kind() EventKind        { return EventKindUseAbility }
func (EventUsePassiveAbility) Kind() EventKind { return EventKindUsePassiveAbility }
func (EventMoveTo) Kind() EventKind            { return EventKindMoveTo }
func (EventAttack) Kind() EventKind            { return EventKindAttack }
func (EventEffectTick) Kind() EventKind        { return EventKindEffectTick }
func (EventEffectEnd) Kind() EventKind         { return EventKindEffectEnd }

// ObjEffects - мгновенные эффекты одного объекта (порядок важен)
type ObjEffects struct {
	ID      ObjID
	Effects []Effect
}

type ObjTimedEffects struct {
	ID      ObjID
	Effects []TimedEffect
}

type ObjPlannedAbilities struct {
	ID      ObjID
	Planned []PlannedAbility
}

// Event - неизменяемая запись того, что произошло, и всех последствий.
type Event struct {
	Active ActiveEvent

	// ActorIDs - объекты, чьи производные характеристики надо обновить
	ActorIDs []ObjID

	InstantEffects     []ObjEffects
	TimedEffects       []ObjTimedEffects
	ScheduledAbilities []ObjPlannedAbilities
}

// NewEvent создает событие без эффектов
func NewEvent(active ActiveEvent, actors ...ObjID) *Event {
	return &Event{Active: active, ActorIDs: actors}
}

// AddInstant добавляет эффекты объекту id, сохраняя порядок первого упоминания
func (e *Event) AddInstant(id ObjID, effects ...Effect) {
	for i := range e.InstantEffects {
		if e.InstantEffects[i].ID == id {
			e.InstantEffects[i].Effects = append(e.InstantEffects[i].Effects, effects...)
			return
		}
	}
	e.InstantEffects = append(e.InstantEffects, ObjEffects{ID: id, Effects: effects})
}

func (e *Event) AddTimed(id ObjID, effects ...TimedEffect) {
	for i := range e.TimedEffects {
		if e.TimedEffects[i].ID == id {
			e.TimedEffects[i].Effects = append(e.TimedEffects[i].Effects, effects...)
			return
		}
	}
	e.TimedEffects = append(e.TimedEffects, ObjTimedEffects{ID: id, Effects: effects})
}

func (e *Event) AddScheduled(id ObjID, planned ...PlannedAbility) {
	for i := range e.ScheduledAbilities {
		if e.ScheduledAbilities[i].ID == id {
			e.ScheduledAbilities[i].Planned = append(e.ScheduledAbilities[i].Planned, planned...)
			return
		}
	}
	e.ScheduledAbilities = append(e.ScheduledAbilities, ObjPlannedAbilities{ID: id, Planned: planned})
}

// InstantFor возвращает мгновенные эффекты объекта
func (e *Event) InstantFor(id ObjID) []Effect {
	for _, oe := range e.InstantEffects {
		if oe.ID == id {
			return oe.Effects
		}
	}
	return nil
}

// Phase - момент вызова наблюдателя: до или после применения события
type Phase uint8

const (
	PhasePre Phase = iota
	PhasePost
)

func (p Phase) String() string {
	if p == PhasePost {
		return "post"
	}
	return "pre"
}
