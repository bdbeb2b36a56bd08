package engine

import (
	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/systems"
	"zemeroth-core/pkg/hexmap"
)

// ExecuteContext - результат разбора способности: кого затронуло и какие эффекты.
// Сливается в одно событие UseAbility.
type ExecuteContext struct {
	Actors          []domain.ObjID // кроме самого использующего
	Moved           []domain.ObjID // сдвинутые: на них сработают опасности клетки
	ReactionTargets []domain.ObjID // кто после применения может получить ответный удар

	effects domain.Event
}

func (c *ExecuteContext) AddInstant(id domain.ObjID, effects ...domain.Effect) {
	c.effects.AddInstant(id, effects...)
}

func (c *ExecuteContext) AddTimed(id domain.ObjID, effects ...domain.TimedEffect) {
	c.effects.AddTimed(id, effects...)
}

func (c *ExecuteContext) AddScheduled(id domain.ObjID, planned ...domain.PlannedAbility) {
	c.effects.AddScheduled(id, planned...)
}

// mergeInto переносит эффекты контекста в событие, сохраняя порядок
func (c *ExecuteContext) mergeInto(ev *domain.Event) {
	for _, oe := range c.effects.InstantEffects {
		ev.AddInstant(oe.ID, oe.Effects...)
	}
	for _, te := range c.effects.TimedEffects {
		ev.AddTimed(te.ID, te.Effects...)
	}
	for _, sa := range c.effects.ScheduledAbilities {
		ev.AddScheduled(sa.ID, sa.Planned...)
	}
}

// abilityResolver - контракт для любой способности.
// Ничего не меняет в состоянии.
type abilityResolver func(r *execution, cmd domain.CommandUseAbility) ExecuteContext

func (x *Executor) registerResolvers() {
	x.resolvers = map[domain.AbilityKind]abilityResolver{
		domain.AbilityKnockback:     resolveKnockback,
		domain.AbilityClub:          resolveClub,
		domain.AbilityJump:          resolveJump,
		domain.AbilityDash:          resolveDash,
		domain.AbilityRage:          resolveNothing,
		domain.AbilityHeal:          resolveHeal,
		domain.AbilityGreatHeal:     resolveGreatHeal,
		domain.AbilityBloodlust:     resolveBloodlust,
		domain.AbilityPoison:        resolvePoison,
		domain.AbilitySummon:        resolveSummon,
		domain.AbilityVanish:        resolveVanish,
		domain.AbilityBombPush:      resolveBomb,
		domain.AbilityBombDamage:    resolveBomb,
		domain.AbilityBombFire:      resolveBomb,
		domain.AbilityBombPoison:    resolveBomb,
		domain.AbilityExplodePush:   withVanish(resolveExplodePush),
		domain.AbilityExplodeDamage: withVanish(resolveExplodeDamage),
		domain.AbilityExplodeFire:   withVanish(spreadProp(FirePrototype)),
		domain.AbilityExplodePoison: withVanish(spreadProp(PoisonCloudPrototype)),
	}
}

// withVanish - взрыв уничтожает саму бомбу до всех остальных последствий
func withVanish(resolver abilityResolver) abilityResolver {
	return func(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
		ctx := ExecuteContext{}
		ctx.AddInstant(cmd.ID, domain.EffectVanish{})
		rest := resolver(r, cmd)
		ctx.Actors = rest.Actors
		ctx.Moved = rest.Moved
		ctx.ReactionTargets = rest.ReactionTargets
		rest.mergeInto(&ctx.effects)
		return ctx
	}
}

// Rage: весь эффект - в учете ресурсов (Apply)
func resolveNothing(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	return ExecuteContext{}
}

func resolveKnockback(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	target, _ := r.st.BlockerAt(cmd.Pos)
	strength := domain.Weight(cmd.Ability.Strength)
	ctx.Actors = append(ctx.Actors, target)

	to, ok := r.pushDestination(r.st.PosOf(cmd.ID), target, strength)
	if !ok {
		ctx.AddInstant(target, domain.EffectKnockback{From: cmd.Pos, To: cmd.Pos, Strength: strength})
		return ctx
	}
	ctx.AddInstant(target, domain.EffectKnockback{From: cmd.Pos, To: to, Strength: strength})
	ctx.Moved = append(ctx.Moved, target)
	return ctx
}

func resolveClub(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	target, _ := r.st.AgentAt(cmd.Pos)
	ctx.Actors = append(ctx.Actors, target)

	ctx.AddInstant(target, domain.EffectStun{})
	ctx.AddTimed(target, r.lasting(target, domain.LastingStun, StunRounds))
	if to, ok := r.pushDestination(r.st.PosOf(cmd.ID), target, domain.WeightNormal); ok {
		ctx.AddInstant(target, domain.EffectFlyOff{From: cmd.Pos, To: to, Strength: domain.WeightNormal})
		ctx.Moved = append(ctx.Moved, target)
	}
	return ctx
}

// resolveJump: актер переносится самим событием; тяжелый прыжок расталкивает соседей
func resolveJump(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{
		Moved:           []domain.ObjID{cmd.ID},
		ReactionTargets: []domain.ObjID{cmd.ID},
	}
	if !r.st.HasPassive(cmd.ID, domain.PassiveHeavyImpact) {
		return ctx
	}
	for _, pos := range hexmap.Neighbors(cmd.Pos) {
		if !r.st.IsInside(pos) {
			continue
		}
		neighbor, ok := r.st.BlockerAt(pos)
		if !ok || neighbor == cmd.ID {
			continue
		}
		to, ok := r.pushDestination(cmd.Pos, neighbor, domain.WeightNormal)
		if !ok {
			continue
		}
		ctx.AddInstant(neighbor, domain.EffectKnockback{From: pos, To: to, Strength: domain.WeightNormal})
		ctx.Actors = append(ctx.Actors, neighbor)
		ctx.Moved = append(ctx.Moved, neighbor)
	}
	return ctx
}

// resolveDash: рывок не провоцирует ответных ударов
func resolveDash(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	return ExecuteContext{Moved: []domain.ObjID{cmd.ID}}
}

func resolveHeal(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	target, _ := r.st.AgentAt(cmd.Pos)
	ctx.Actors = append(ctx.Actors, target)
	ctx.AddInstant(target, domain.EffectHeal{Strength: cmd.Ability.Strength})
	return ctx
}

func resolveGreatHeal(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	for _, ally := range systems.DamagedAllies(r.st, cmd.ID, systems.GreatHealDistance) {
		ctx.Actors = append(ctx.Actors, ally)
		ctx.AddInstant(ally, domain.EffectHeal{Strength: cmd.Ability.Strength})
	}
	return ctx
}

func resolveBloodlust(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	target, _ := r.st.AgentAt(cmd.Pos)
	ctx.Actors = append(ctx.Actors, target)
	ctx.AddInstant(target, domain.EffectBloodlust{})
	ctx.AddTimed(target, r.lasting(target, domain.LastingBloodlust, BloodlustRounds))
	return ctx
}

func resolvePoison(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	target, _ := r.st.AgentAt(cmd.Pos)
	ctx.Actors = append(ctx.Actors, target)
	ctx.AddTimed(target, r.lasting(target, domain.LastingPoison, PoisonRounds))
	return ctx
}

// resolveSummon создает Summoner.Count бесов на случайных свободных соседних клетках.
// Призванные оглушены и действуют только со следующего хода.
func resolveSummon(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}

	var names []string
	for _, name := range SummonPrototypes {
		if _, ok := r.st.PrototypeFor(name); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		r.x.log.Warn("No summonable prototypes, summon does nothing")
		return ctx
	}

	free := systems.FreeNeighbors(r.st, r.st.PosOf(cmd.ID))
	for i := len(free) - 1; i > 0; i-- {
		j := r.x.dice.Intn(i + 1)
		free[i], free[j] = free[j], free[i]
	}

	owner, hasOwner := r.st.OwnerOf(cmd.ID)
	count := min(r.st.Parts().Summoner.Get(cmd.ID).Count, len(free))
	for _, pos := range free[:count] {
		name := names[r.x.dice.Intn(len(names))]
		proto, _ := r.st.PrototypeFor(name)
		id := r.allocID()
		components := append(proto, domain.Pos{Pos: pos}, domain.Meta{Name: name})
		if hasOwner {
			components = append(components, domain.BelongsTo{PlayerID: owner})
		}
		ctx.AddInstant(id, domain.EffectCreate{Pos: pos, Prototype: name, Components: components})
		ctx.AddInstant(id, domain.EffectStun{})
		ctx.Actors = append(ctx.Actors, id)
		ctx.Moved = append(ctx.Moved, id)
	}
	return ctx
}

func resolveVanish(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	ctx.AddInstant(cmd.ID, domain.EffectVanish{})
	return ctx
}

// resolveBomb создает бомбу на целевой клетке и ставит ей взрыв в расписание
func resolveBomb(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	kind := cmd.Ability.Kind
	name := kind.BombPrototype()
	proto, ok := r.st.PrototypeFor(name)
	domain.Invariant(ok, "no bomb prototype %q", name)

	id := r.allocID()
	components := append(proto, domain.Pos{Pos: cmd.Pos}, domain.Meta{Name: name})
	ctx.AddInstant(id,
		domain.EffectCreate{Pos: cmd.Pos, Prototype: name, Components: components},
		domain.EffectThrow{From: r.st.PosOf(cmd.ID), To: cmd.Pos},
	)
	ctx.AddScheduled(id, domain.PlannedAbility{
		Rounds:  kind.BombFuse(),
		Phase:   r.st.PlayerID(),
		Ability: kind.BombExplosion(),
	})
	ctx.Actors = append(ctx.Actors, id)
	return ctx
}

func resolveExplodePush(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	for _, pos := range hexmap.Neighbors(cmd.Pos) {
		if !r.st.IsInside(pos) {
			continue
		}
		target, ok := r.st.BlockerAt(pos)
		if !ok {
			continue
		}
		to, ok := r.pushDestination(cmd.Pos, target, domain.WeightNormal)
		if !ok {
			continue
		}
		ctx.AddInstant(target, domain.EffectKnockback{From: pos, To: to, Strength: domain.WeightNormal})
		ctx.Actors = append(ctx.Actors, target)
		ctx.Moved = append(ctx.Moved, target)
	}
	return ctx
}

func resolveExplodeDamage(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
	ctx := ExecuteContext{}
	for _, pos := range hexmap.Neighbors(cmd.Pos) {
		if !r.st.IsInside(pos) {
			continue
		}
		for _, id := range r.st.ObjectsAt(pos) {
			if !r.st.Parts().Strength.Has(id) {
				continue
			}
			r.woundOrKill(&ctx, id, ExplosionDamage, cmd.Pos)
			ctx.Actors = append(ctx.Actors, id)
		}
	}
	return ctx
}

// spreadProp покрывает клетку взрыва и соседние огнем или ядом
func spreadProp(name string) abilityResolver {
	return func(r *execution, cmd domain.CommandUseAbility) ExecuteContext {
		ctx := ExecuteContext{}
		tiles := []hexmap.PosHex{cmd.Pos}
		for _, pos := range hexmap.Neighbors(cmd.Pos) {
			tiles = append(tiles, pos)
		}
		for _, pos := range tiles {
			if !r.st.IsInside(pos) || r.hasProp(pos, name) {
				continue
			}
			if id := r.createProp(&ctx, name, pos); id != domain.NilObjID {
				ctx.Actors = append(ctx.Actors, id)
			}
		}
		return ctx
	}
}

// hasProp - на клетке уже есть объект этого прототипа
func (r *execution) hasProp(pos hexmap.PosHex, name string) bool {
	for _, id := range r.st.ObjectsAt(pos) {
		if meta, ok := r.st.Parts().Meta.GetOpt(id); ok && meta.Name == name {
			return true
		}
	}
	return false
}
