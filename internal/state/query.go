package state

import (
	"zemeroth-core/internal/domain"
	"zemeroth-core/pkg/hexmap"
)

// ObjectsAt возвращает все объекты на клетке (по возрастанию ID)
func (s *State) ObjectsAt(p hexmap.PosHex) []domain.ObjID {
	var out []domain.ObjID
	for _, id := range s.parts.Pos.IDs() {
		if s.parts.Pos.Get(id).Pos == p {
			out = append(out, id)
		}
	}
	return out
}

// BlockerAt возвращает блокер на клетке
func (s *State) BlockerAt(p hexmap.PosHex) (domain.ObjID, bool) {
	for _, id := range s.ObjectsAt(p) {
		if s.parts.Blocker.Has(id) {
			return id, true
		}
	}
	return domain.NilObjID, false
}

// AgentAt возвращает агента на клетке
func (s *State) AgentAt(p hexmap.PosHex) (domain.ObjID, bool) {
	for _, id := range s.ObjectsAt(p) {
		if s.parts.Agent.Has(id) {
			return id, true
		}
	}
	return domain.NilObjID, false
}

// IsTileBlocked - на клетке стоит блокер
func (s *State) IsTileBlocked(p hexmap.PosHex) bool {
	_, ok := s.BlockerAt(p)
	return ok
}

// IsFree - клетка на карте и не занята
func (s *State) IsFree(p hexmap.PosHex) bool {
	return s.IsInside(p) && !s.IsTileBlocked(p)
}

// PosOf - позиция объекта
func (s *State) PosOf(id domain.ObjID) hexmap.PosHex {
	return s.parts.Pos.Get(id).Pos
}

// OwnerOf возвращает владельца объекта
func (s *State) OwnerOf(id domain.ObjID) (domain.PlayerID, bool) {
	b, ok := s.parts.BelongsTo.GetOpt(id)
	return b.PlayerID, ok
}

// AgentIDsOf - живые агенты игрока
func (s *State) AgentIDsOf(player domain.PlayerID) []domain.ObjID {
	var out []domain.ObjID
	for _, id := range s.parts.Agent.IDs() {
		if owner, ok := s.OwnerOf(id); ok && owner == player {
			out = append(out, id)
		}
	}
	return out
}

// EnemyAgentIDs - агенты всех остальных игроков
func (s *State) EnemyAgentIDs(player domain.PlayerID) []domain.ObjID {
	var out []domain.ObjID
	for _, id := range s.parts.Agent.IDs() {
		if owner, ok := s.OwnerOf(id); ok && owner != player {
			out = append(out, id)
		}
	}
	return out
}

// HazardsAt возвращает объекты-опасности (огонь, яд, шипы) на клетке
func (s *State) HazardsAt(p hexmap.PosHex) []domain.ObjID {
	var out []domain.ObjID
	for _, id := range s.ObjectsAt(p) {
		passives, ok := s.parts.PassiveAbilities.GetOpt(id)
		if !ok {
			continue
		}
		for _, a := range passives.Abilities {
			if a.Kind.IsHazard() {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// FindAbility ищет активную способность объекта
func (s *State) FindAbility(id domain.ObjID, ability domain.Ability) (domain.RechargeableAbility, bool) {
	abilities, ok := s.parts.Abilities.GetOpt(id)
	if !ok {
		return domain.RechargeableAbility{}, false
	}
	for _, r := range abilities.Abilities {
		if r.Ability == ability {
			return r, true
		}
	}
	return domain.RechargeableAbility{}, false
}

// HasPassive - есть ли у объекта пассивка вида kind
func (s *State) HasPassive(id domain.ObjID, kind domain.PassiveKind) bool {
	passives, ok := s.parts.PassiveAbilities.GetOpt(id)
	if !ok {
		return false
	}
	for _, a := range passives.Abilities {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// IsPlannedDue - способности из расписания пора сработать
func (s *State) IsPlannedDue(id domain.ObjID, ability domain.Ability) bool {
	schedule, ok := s.parts.Schedule.GetOpt(id)
	if !ok {
		return false
	}
	for _, p := range schedule.Planned {
		if p.Ability == ability && p.IsDue() {
			return true
		}
	}
	return false
}
