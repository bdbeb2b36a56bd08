package systems

import (
	"fmt"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"
)

// Дальности способностей, которые не заданы параметром
const (
	JumpMinDistance   = 2
	HealDistance      = 1
	GreatHealDistance = 1
	BloodlustDistance = 3
	PoisonDistance    = 3
)

// Check - можно ли выполнить команду от имени текущего игрока.
// Ничего не меняет; nil значит, что Executor обязан выполнить команду без ошибок.
func Check(st *state.State, cmd domain.Command) error {
	return CheckAs(st, st.PlayerID(), cmd)
}

// CheckAs - то же, что Check, но от имени игрока player.
// Нужно для реакций: ответный удар наносится в чужой ход.
func CheckAs(st *state.State, player domain.PlayerID, cmd domain.Command) error {
	if st.IsBattleOver() {
		return ErrBattleEnded
	}
	switch c := cmd.(type) {
	case domain.CommandCreate:
		return checkCreate(st, c)
	case domain.CommandAttack:
		return checkAttack(st, player, c, domain.AttackActive)
	case domain.CommandMoveTo:
		return checkMoveTo(st, player, c)
	case domain.CommandEndTurn:
		return nil
	case domain.CommandUseAbility:
		return checkUseAbility(st, player, c)
	default:
		domain.Invariant(false, "unknown command %T", cmd)
	}
	return nil
}

// CheckReactiveAttack - может ли attacker ответить ударом по target прямо сейчас
func CheckReactiveAttack(st *state.State, attackerID, targetID domain.ObjID) error {
	if st.IsBattleOver() {
		return ErrBattleEnded
	}
	owner, ok := st.OwnerOf(attackerID)
	if !ok {
		return ErrBadActorID
	}
	cmd := domain.CommandAttack{AttackerID: attackerID, TargetID: targetID}
	return checkAttack(st, owner, cmd, domain.AttackReactive)
}

func checkCreate(st *state.State, c domain.CommandCreate) error {
	if !st.IsInside(c.Pos) {
		return ErrBadPos
	}
	proto, ok := st.PrototypeFor(c.Prototype)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchPrototype, c.Prototype)
	}
	if c.Owner != nil && (*c.Owner < 0 || int(*c.Owner) >= st.PlayersCount()) {
		return ErrBadPlayerID
	}
	for _, comp := range proto {
		if _, isBlocker := comp.(domain.Blocker); isBlocker && st.IsTileBlocked(c.Pos) {
			return ErrTileBlocked
		}
	}
	return nil
}

// checkOwnAgent - id существует, это агент, и им управляет player
func checkOwnAgent(st *state.State, player domain.PlayerID, id domain.ObjID) error {
	if !st.Parts().IsExist(id) {
		return ErrBadActorID
	}
	if !st.Parts().Agent.Has(id) {
		return ErrBadActorType
	}
	if owner, ok := st.OwnerOf(id); !ok || owner != player {
		return ErrCannotCommandEnemyAgents
	}
	return nil
}

func checkAttack(st *state.State, player domain.PlayerID, c domain.CommandAttack, mode domain.AttackMode) error {
	if err := checkOwnAgent(st, player, c.AttackerID); err != nil {
		return err
	}
	parts := st.Parts()
	if !parts.IsExist(c.TargetID) {
		return ErrBadTargetID
	}
	if !parts.Agent.Has(c.TargetID) || !parts.Strength.Has(c.TargetID) {
		return ErrBadTargetType
	}
	if owner, ok := st.OwnerOf(c.TargetID); ok && owner == player {
		return ErrBadTargetType
	}

	agent := parts.Agent.Get(c.AttackerID)
	if mode == domain.AttackReactive {
		if agent.Attacks <= 0 {
			return ErrNotEnoughAttacks
		}
	} else if agent.Attacks <= 0 && agent.Jokers <= 0 {
		return ErrNotEnoughAttacks
	}

	if hexmap.Distance(st.PosOf(c.AttackerID), st.PosOf(c.TargetID)) > agent.AttackDistance {
		return ErrDistanceTooBig
	}
	return nil
}

func checkMoveTo(st *state.State, player domain.PlayerID, c domain.CommandMoveTo) error {
	if err := checkOwnAgent(st, player, c.ID); err != nil {
		return err
	}
	agent := st.Parts().Agent.Get(c.ID)
	if agent.Moves <= 0 && agent.Jokers <= 0 {
		return ErrNotEnoughMoves
	}
	if c.Path.Len() < 2 || c.Path.From() != st.PosOf(c.ID) {
		return ErrBadPath
	}
	for _, step := range c.Path.Steps() {
		if !hexmap.IsAdjacent(step.From, step.To) {
			return ErrBadPath
		}
		if !st.IsInside(step.To) {
			return ErrBadPos
		}
		if st.IsTileBlocked(step.To) {
			return ErrTileBlocked
		}
	}
	if PathCost(st, c.Path) > agent.MovePoints {
		return ErrNotEnoughMovePoints
	}
	return nil
}

func checkUseAbility(st *state.State, player domain.PlayerID, c domain.CommandUseAbility) error {
	parts := st.Parts()
	if !parts.IsExist(c.ID) || !parts.Pos.Has(c.ID) {
		return ErrBadActorID
	}

	if parts.Agent.Has(c.ID) {
		if err := checkOwnAgent(st, player, c.ID); err != nil {
			return err
		}
		rechargeable, ok := st.FindAbility(c.ID, c.Ability)
		if !ok {
			return ErrNoSuchAbility
		}
		if !rechargeable.IsReady() {
			return ErrAbilityNotReady
		}
		agent := parts.Agent.Get(c.ID)
		if agent.Attacks <= 0 && agent.Jokers <= 0 {
			return ErrNotEnoughAttacks
		}
	} else if !st.IsPlannedDue(c.ID, c.Ability) {
		// Не-агенты (бомбы, огонь) действуют только по расписанию
		return ErrNoSuchAbility
	}

	if !st.IsInside(c.Pos) {
		return ErrBadPos
	}
	return checkAbilityTarget(st, c)
}

// checkAbilityTarget - ограничения конкретной способности на цель
func checkAbilityTarget(st *state.State, c domain.CommandUseAbility) error {
	parts := st.Parts()
	from := st.PosOf(c.ID)
	dist := hexmap.Distance(from, c.Pos)
	owner, hasOwner := st.OwnerOf(c.ID)

	switch c.Ability.Kind {
	case domain.AbilityKnockback:
		if dist > 1 {
			return ErrDistanceTooBig
		}
		if dist < 1 {
			return ErrDistanceTooSmall
		}
		if _, ok := st.BlockerAt(c.Pos); !ok {
			return ErrNoTarget
		}
	case domain.AbilityClub:
		if dist > 1 {
			return ErrDistanceTooBig
		}
		if dist < 1 {
			return ErrDistanceTooSmall
		}
		if _, ok := st.AgentAt(c.Pos); !ok {
			return ErrNoTarget
		}
	case domain.AbilityJump:
		if dist > c.Ability.Distance {
			return ErrDistanceTooBig
		}
		if dist < JumpMinDistance {
			return ErrDistanceTooSmall
		}
		if st.IsTileBlocked(c.Pos) {
			return ErrTileBlocked
		}
	case domain.AbilityDash:
		if dist > 1 {
			return ErrDistanceTooBig
		}
		if dist < 1 {
			return ErrDistanceTooSmall
		}
		if st.IsTileBlocked(c.Pos) {
			return ErrTileBlocked
		}
	case domain.AbilityRage:
		if c.Pos != from {
			return ErrBadPos
		}
		if !parts.Agent.Has(c.ID) {
			return ErrBadActorType
		}
	case domain.AbilityHeal:
		if dist > HealDistance {
			return ErrDistanceTooBig
		}
		target, ok := st.AgentAt(c.Pos)
		if !ok || !parts.Strength.Has(target) {
			return ErrNoTarget
		}
		if targetOwner, _ := st.OwnerOf(target); !hasOwner || targetOwner != owner {
			return ErrBadTargetType
		}
		if parts.Strength.Get(target).Wounds() <= 0 {
			return ErrNoTarget
		}
	case domain.AbilityGreatHeal:
		if c.Pos != from {
			return ErrBadPos
		}
		if len(DamagedAllies(st, c.ID, GreatHealDistance)) == 0 {
			return ErrNoTarget
		}
	case domain.AbilityBloodlust:
		if dist > BloodlustDistance {
			return ErrDistanceTooBig
		}
		target, ok := st.AgentAt(c.Pos)
		if !ok {
			return ErrNoTarget
		}
		if targetOwner, _ := st.OwnerOf(target); !hasOwner || targetOwner != owner {
			return ErrBadTargetType
		}
	case domain.AbilityPoison:
		if dist > PoisonDistance {
			return ErrDistanceTooBig
		}
		target, ok := st.AgentAt(c.Pos)
		if !ok {
			return ErrNoTarget
		}
		if targetOwner, ok := st.OwnerOf(target); ok && hasOwner && targetOwner == owner {
			return ErrBadTargetType
		}
	case domain.AbilitySummon:
		if c.Pos != from {
			return ErrBadPos
		}
		if !parts.Summoner.Has(c.ID) {
			return ErrBadActorType
		}
		if len(FreeNeighbors(st, from)) == 0 {
			return ErrNoTarget
		}
	case domain.AbilityVanish,
		domain.AbilityExplodePush,
		domain.AbilityExplodeDamage,
		domain.AbilityExplodeFire,
		domain.AbilityExplodePoison:
		if c.Pos != from {
			return ErrBadPos
		}
	case domain.AbilityBombPush,
		domain.AbilityBombDamage,
		domain.AbilityBombFire,
		domain.AbilityBombPoison:
		if dist > c.Ability.Distance {
			return ErrDistanceTooBig
		}
		if dist < 1 {
			return ErrDistanceTooSmall
		}
		if st.IsTileBlocked(c.Pos) {
			return ErrTileBlocked
		}
		if _, ok := st.PrototypeFor(c.Ability.Kind.BombPrototype()); !ok {
			return fmt.Errorf("%w: %q", ErrNoSuchPrototype, c.Ability.Kind.BombPrototype())
		}
	default:
		return ErrNoSuchAbility
	}
	return nil
}

// FreeNeighbors - соседние клетки на карте без блокеров, в порядке направлений
func FreeNeighbors(st *state.State, pos hexmap.PosHex) []hexmap.PosHex {
	var out []hexmap.PosHex
	for _, n := range hexmap.Neighbors(pos) {
		if st.IsFree(n) {
			out = append(out, n)
		}
	}
	return out
}

// DamagedAllies - раненые агенты того же владельца в радиусе (включая самого id)
func DamagedAllies(st *state.State, id domain.ObjID, radius int) []domain.ObjID {
	owner, ok := st.OwnerOf(id)
	if !ok {
		return nil
	}
	center := st.PosOf(id)
	var out []domain.ObjID
	for _, ally := range st.AgentIDsOf(owner) {
		if hexmap.Distance(center, st.PosOf(ally)) > radius {
			continue
		}
		if s, ok := st.Parts().Strength.GetOpt(ally); ok && s.Wounds() > 0 {
			out = append(out, ally)
		}
	}
	return out
}

