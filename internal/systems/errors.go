package systems

import "errors"

// Причины, по которым Checker отклоняет команду.
// Сравнивать через errors.Is: вызывающие оборачивают их через %w.
var (
	ErrBattleEnded              = errors.New("battle already ended")
	ErrBadActorID               = errors.New("bad actor id")
	ErrBadActorType             = errors.New("bad actor type")
	ErrBadTargetID              = errors.New("bad target id")
	ErrBadTargetType            = errors.New("bad target type")
	ErrCannotCommandEnemyAgents = errors.New("can't command enemy agents")
	ErrNotEnoughMoves           = errors.New("not enough moves")
	ErrNotEnoughMovePoints      = errors.New("not enough move points")
	ErrNotEnoughAttacks         = errors.New("not enough attacks")
	ErrDistanceTooBig           = errors.New("distance is too big")
	ErrDistanceTooSmall         = errors.New("distance is too small")
	ErrTileBlocked              = errors.New("tile is blocked")
	ErrBadPos                   = errors.New("bad position")
	ErrBadPath                  = errors.New("bad path")
	ErrNoSuchAbility            = errors.New("no such ability")
	ErrAbilityNotReady          = errors.New("ability is not ready")
	ErrNoTarget                 = errors.New("no target")
	ErrNoSuchPrototype          = errors.New("no such prototype")
	ErrBadPlayerID              = errors.New("bad player id")
)
