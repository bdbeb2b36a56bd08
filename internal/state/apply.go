package state

import (
	"zemeroth-core/internal/domain"
	"zemeroth-core/pkg/hexmap"
	"zemeroth-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Apply - единственный код, которому разрешено менять State.
// Сначала применяется само событие (учет ресурсов, смена хода),
// затем мгновенные эффекты, длительные эффекты и расписание.
func (s *State) Apply(event *domain.Event) {
	logger.Log.WithFields(logrus.Fields{
		"component": "apply",
		"event":     event.Active.Kind().String(),
		"actors":    event.ActorIDs,
	}).Trace("Applying event")

	s.applyActive(event.Active)

	for _, oe := range event.InstantEffects {
		for _, effect := range oe.Effects {
			s.applyEffect(oe.ID, effect)
		}
	}
	for _, te := range event.TimedEffects {
		for _, effect := range te.Effects {
			s.addTimedEffect(te.ID, effect)
		}
	}
	for _, sa := range event.ScheduledAbilities {
		for _, planned := range sa.Planned {
			s.addPlannedAbility(sa.ID, planned)
		}
	}
}

func (s *State) applyActive(active domain.ActiveEvent) {
	switch e := active.(type) {
	case domain.EventCreate, domain.EventUsePassiveAbility:
		// Всё делают эффекты
	case domain.EventEndBattle:
		result := e.Result
		s.battleResult = &result
	case domain.EventEndTurn:
		s.applyEndTurn(e.PlayerID)
	case domain.EventBeginTurn:
		s.applyBeginTurn(e.PlayerID)
	case domain.EventUseAbility:
		s.applyUseAbility(e)
	case domain.EventMoveTo:
		s.applyMoveTo(e)
	case domain.EventAttack:
		s.applyAttack(e)
	case domain.EventEffectTick:
		s.applyEffectTick(e)
	case domain.EventEffectEnd:
		s.applyEffectEnd(e)
	default:
		domain.Invariant(false, "unknown event %T", active)
	}
}

func (s *State) applyEndTurn(player domain.PlayerID) {
	// Неиспользованные атаки сохраняются, к ним добавляются реакции на ход противника.
	for _, id := range s.AgentIDsOf(player) {
		s.parts.Agent.update(id, func(a *domain.Agent) {
			a.Attacks += a.ReactiveAttacks
		})
	}
}

func (s *State) applyBeginTurn(player domain.PlayerID) {
	s.playerID = player

	for _, id := range s.AgentIDsOf(player) {
		s.parts.Agent.update(id, func(a *domain.Agent) {
			a.Moves = a.BaseMoves
			a.Attacks = a.BaseAttacks
			a.Jokers = a.BaseJokers
		})
	}

	for _, id := range s.parts.Abilities.IDs() {
		if owner, ok := s.OwnerOf(id); !ok || owner != player {
			continue
		}
		s.parts.Abilities.update(id, func(c *domain.Abilities) {
			for i := range c.Abilities {
				if c.Abilities[i].Cooldown > 0 {
					c.Abilities[i].Cooldown--
				}
			}
		})
	}

	for _, id := range s.parts.Schedule.IDs() {
		s.parts.Schedule.update(id, func(c *domain.Schedule) {
			for i := range c.Planned {
				if c.Planned[i].Phase == player {
					c.Planned[i].Rounds--
				}
			}
		})
	}
}

func (s *State) applyUseAbility(e domain.EventUseAbility) {
	if abilities, ok := s.parts.Abilities.GetOpt(e.ID); ok {
		for i := range abilities.Abilities {
			if abilities.Abilities[i].Ability == e.Ability {
				abilities.Abilities[i].Cooldown = abilities.Abilities[i].BaseCooldown
				s.spendAttack(e.ID)
				break
			}
		}
		s.parts.Abilities.set(e.ID, abilities)
	}

	s.removeDuePlanned(e.ID, e.Ability)

	switch e.Ability.Kind {
	case domain.AbilityJump, domain.AbilityDash:
		s.relocate(e.ID, e.Pos)
	case domain.AbilityRage:
		s.parts.Agent.update(e.ID, func(a *domain.Agent) {
			a.Attacks += e.Ability.Attacks
		})
	case domain.AbilitySummon:
		s.parts.Summoner.update(e.ID, func(c *domain.Summoner) {
			c.Count++
		})
	}
}

// removeDuePlanned убирает сработавшую способность из расписания
func (s *State) removeDuePlanned(id domain.ObjID, ability domain.Ability) {
	schedule, ok := s.parts.Schedule.GetOpt(id)
	if !ok {
		return
	}
	for i, p := range schedule.Planned {
		if p.Ability == ability && p.IsDue() {
			schedule.Planned = append(schedule.Planned[:i:i], schedule.Planned[i+1:]...)
			s.parts.Schedule.set(id, schedule)
			return
		}
	}
}

// spendAttack тратит атаку, а если их нет - джокер
func (s *State) spendAttack(id domain.ObjID) {
	agent, ok := s.parts.Agent.GetOpt(id)
	if !ok {
		return
	}
	switch {
	case agent.Attacks > 0:
		agent.Attacks--
	case agent.Jokers > 0:
		agent.Jokers--
	default:
		domain.Invariant(false, "%s has no attacks or jokers left", id)
	}
	s.parts.Agent.set(id, agent)
}

func (s *State) spendMove(id domain.ObjID) {
	agent := s.parts.Agent.Get(id)
	switch {
	case agent.Moves > 0:
		agent.Moves--
	case agent.Jokers > 0:
		agent.Jokers--
	default:
		domain.Invariant(false, "%s has no moves or jokers left", id)
	}
	s.parts.Agent.set(id, agent)
}

func (s *State) applyMoveTo(e domain.EventMoveTo) {
	for i := 0; i < e.Cost; i++ {
		s.spendMove(e.ID)
	}
	s.relocate(e.ID, e.Path.To())
}

func (s *State) applyAttack(e domain.EventAttack) {
	if e.Mode == domain.AttackActive {
		s.spendAttack(e.AttackerID)
		return
	}
	s.parts.Agent.update(e.AttackerID, func(a *domain.Agent) {
		domain.Invariant(a.Attacks > 0, "%s reacts without attacks", e.AttackerID)
		a.Attacks--
	})
}

func (s *State) applyEffectTick(e domain.EventEffectTick) {
	effects, ok := s.parts.Effects.GetOpt(e.ID)
	if !ok {
		return
	}
	for i := range effects.Effects {
		if effects.Effects[i].Effect == e.Effect {
			effects.Effects[i].Duration = effects.Effects[i].Duration.Decremented()
		}
	}
	s.parts.Effects.set(e.ID, effects)
}

func (s *State) applyEffectEnd(e domain.EventEffectEnd) {
	effects, ok := s.parts.Effects.GetOpt(e.ID)
	if !ok {
		return
	}
	kept := effects.Effects[:0:0]
	for _, te := range effects.Effects {
		if te.Effect != e.Effect {
			kept = append(kept, te)
		}
	}
	effects.Effects = kept
	s.parts.Effects.set(e.ID, effects)
}

// relocate перемещает объект, сохраняя правило "один блокер на клетку"
func (s *State) relocate(id domain.ObjID, to hexmap.PosHex) {
	from := s.PosOf(id)
	if from == to {
		return
	}
	domain.Invariant(s.IsInside(to), "%s moves out of the map to %v", id, to)
	if s.parts.Blocker.Has(id) {
		other, blocked := s.BlockerAt(to)
		domain.Invariant(!blocked, "%s moves to %v occupied by %s", id, to, other)
	}
	s.parts.Pos.set(id, domain.Pos{Pos: to})
}

func (s *State) applyEffect(id domain.ObjID, effect domain.Effect) {
	switch e := effect.(type) {
	case domain.EffectCreate:
		s.applyCreate(id, e)
	case domain.EffectKill, domain.EffectVanish:
		domain.Invariant(s.parts.IsExist(id), "%s removed twice", id)
		s.parts.removeAll(id)
	case domain.EffectStun:
		s.parts.Agent.update(id, func(a *domain.Agent) {
			a.Moves = 0
			a.Attacks = 0
			a.Jokers = 0
		})
	case domain.EffectHeal:
		s.parts.Strength.update(id, func(st *domain.Strength) {
			st.Strength = min(st.Strength+e.Strength, st.BaseStrength)
		})
	case domain.EffectWound:
		s.applyWound(id, e)
	case domain.EffectKnockback:
		s.relocate(id, e.To)
	case domain.EffectFlyOff:
		s.relocate(id, e.To)
	case domain.EffectThrow:
		s.relocate(id, e.To)
	case domain.EffectDodge:
		// Ничего не меняется, событие нужно только рендеру
	case domain.EffectBloodlust:
		s.parts.Agent.update(id, func(a *domain.Agent) {
			a.Jokers += domain.BloodlustJokers
		})
	default:
		domain.Invariant(false, "unknown effect %T", effect)
	}
}

func (s *State) applyCreate(id domain.ObjID, e domain.EffectCreate) {
	domain.Invariant(id > s.lastID, "%s is created twice or out of order", id)
	s.lastID = id
	for _, c := range e.Components {
		if _, isBlocker := c.(domain.Blocker); isBlocker {
			other, blocked := s.BlockerAt(e.Pos)
			domain.Invariant(!blocked, "blocker %s created on %v occupied by %s", id, e.Pos, other)
		}
		s.parts.insertComponent(id, domain.CloneComponent(c))
	}
}

func (s *State) applyWound(id domain.ObjID, e domain.EffectWound) {
	if armor, ok := s.parts.Armor.GetOpt(id); ok {
		armor.Armor = max(armor.Armor-e.ArmorBreak, 0)
		s.parts.Armor.set(id, armor)
	}
	s.parts.Strength.update(id, func(st *domain.Strength) {
		st.Strength -= e.Damage
		domain.Invariant(st.Strength > 0, "wound leaves %s with strength %d, expected kill", id, st.Strength)
	})
}

// addTimedEffect - вставка или замена по виду эффекта (второй яд заменяет первый)
func (s *State) addTimedEffect(id domain.ObjID, effect domain.TimedEffect) {
	domain.Invariant(s.parts.IsExist(id), "timed effect for removed %s", id)
	effects, _ := s.parts.Effects.GetOpt(id)
	replaced := false
	for i := range effects.Effects {
		if effects.Effects[i].Effect == effect.Effect {
			effects.Effects[i] = effect
			replaced = true
		}
	}
	if !replaced {
		effects.Effects = append(effects.Effects, effect)
	}
	s.parts.Effects.set(id, effects)
}

// addPlannedAbility - вставка или замена по способности
func (s *State) addPlannedAbility(id domain.ObjID, planned domain.PlannedAbility) {
	domain.Invariant(s.parts.IsExist(id), "planned ability for removed %s", id)
	schedule, _ := s.parts.Schedule.GetOpt(id)
	replaced := false
	for i := range schedule.Planned {
		if schedule.Planned[i].Ability == planned.Ability {
			schedule.Planned[i] = planned
			replaced = true
		}
	}
	if !replaced {
		schedule.Planned = append(schedule.Planned, planned)
	}
	s.parts.Schedule.set(id, schedule)
}
