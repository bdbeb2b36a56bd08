package domain

import "zemeroth-core/pkg/hexmap"

// CommandKind - внутренний числовой идентификатор команды
type CommandKind uint8

const (
	CommandKindCreate CommandKind = iota
	CommandKindAttack
	CommandKindMoveTo
	CommandKindEndTurn
	CommandKindUseAbility
)

// Маппинг для логов Domain -> String
var commandToString = map[CommandKind]string{
	CommandKindCreate:     "CREATE",
	CommandKindAttack:     "ATTACK",
	CommandKindMoveTo:     "MOVE_TO",
	CommandKindEndTurn:    "END_TURN",
	CommandKindUseAbility: "USE_ABILITY",
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (k CommandKind) String() string {
	if s, ok := commandToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Command - намерение игрока или AI. Это вся внешняя поверхность движка.
type Command interface {
	Kind() CommandKind
}

// CommandCreate создает объект из прототипа. Owner == nil - ничей объект.
type CommandCreate struct {
	Owner     *PlayerID
	Pos       hexmap.PosHex
	Prototype string
}

type CommandAttack struct {
	AttackerID ObjID
	TargetID   ObjID
}

type CommandMoveTo struct {
	ID   ObjID
	Path Path
}

type CommandEndTurn struct{}

type CommandUseAbility struct {
	ID      ObjID
	Pos     hexmap.PosHex
	Ability Ability
}

func (CommandCreate) Kind() CommandKind     { return CommandKindCreate }
func (CommandAttack) Kind() CommandKind     { return CommandKindAttack }
func (CommandMoveTo) Kind() CommandKind     { return CommandKindMoveTo }
func (CommandEndTurn) Kind() CommandKind    { return CommandKindEndTurn }
func (CommandUseAbility) Kind() CommandKind { return CommandKindUseAbility }
