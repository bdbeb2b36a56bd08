package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/internal/systems"
	"zemeroth-core/pkg/hexmap"
	"zemeroth-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrStateCorrupted - исполнение прервано нарушением инварианта.
// Состояние после этой ошибки недостоверно.
var ErrStateCorrupted = errors.New("battle state corrupted")

// Параметры последствий, которые не задаются прототипами
const (
	HazardDamage    = 1
	PoisonDamage    = 1
	ExplosionDamage = 2
	PoisonRounds    = 2
	StunRounds      = 1
	BloodlustRounds = 3
	PropLifetime    = 2 // через сколько раундов гаснет огонь и рассеивается ядовитое облако

	FirePrototype        = "fire"
	PoisonCloudPrototype = "poison_cloud"
)

// SummonPrototypes - из кого выбирает Summon (отсутствующие в таблице пропускаются)
var SummonPrototypes = []string{"imp", "toxic_imp", "imp_bomber"}

// Observer вызывается дважды на каждое событие: до и после Apply.
// Может читать состояние, но не менять его.
type Observer func(st *state.State, event *domain.Event, phase domain.Phase)

// Executor превращает проверенную команду в цепочку событий и применяет их.
type Executor struct {
	dice      systems.Dice
	metrics   *Metrics
	recover   bool
	resolvers map[domain.AbilityKind]abilityResolver
	log       *logrus.Entry
}

func NewExecutor(cfg Config, metrics *Metrics) *Executor {
	x := &Executor{
		dice:    rand.New(rand.NewSource(cfg.diceSeed())),
		metrics: metrics,
		recover: cfg.RecoverInvariants,
		log:     logger.Log.WithField("component", "executor"),
	}
	x.registerResolvers()
	return x
}

// Execute проверяет команду и, если она допустима, выполняет ее целиком:
// реакции, пассивки, запланированные способности и проверку конца боя.
// Возвращает все примененные события по порядку.
func (x *Executor) Execute(st *state.State, cmd domain.Command, observer Observer) (events []domain.Event, err error) {
	start := time.Now()
	cmdLogger := x.log.WithField("command", cmd.Kind().String())

	if err := systems.Check(st, cmd); err != nil {
		cmdLogger.WithError(err).Info("Command rejected")
		x.metrics.observeCommand(cmd.Kind(), resultRejected, time.Since(start))
		return nil, fmt.Errorf("%s: %w", cmd.Kind(), err)
	}

	run := &execution{x: x, st: st, observer: observer}
	if x.recover {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			violation, ok := r.(*domain.InvariantViolation)
			if !ok {
				panic(r)
			}
			cmdLogger.WithFields(logrus.Fields{
				"violation":      violation.Msg,
				"events_applied": len(run.events),
				"player_id":      st.PlayerID(),
			}).Error("Invariant violated, state is corrupted")
			x.metrics.observeViolation()
			x.metrics.observeCommand(cmd.Kind(), resultCorrupt, time.Since(start))
			events = run.events
			err = fmt.Errorf("%w: %s", ErrStateCorrupted, violation.Msg)
		}()
	}

	run.command(cmd)
	run.scheduledAbilities()
	if cmd.Kind() != domain.CommandKindCreate {
		run.checkEndBattle()
	}

	x.metrics.observeCommand(cmd.Kind(), resultOK, time.Since(start))
	x.metrics.setObjects(st.Parts().Pos.Len())
	cmdLogger.WithField("events", len(run.events)).Debug("Command executed")
	return run.events, nil
}

// execution - контекст одного вызова Execute
type execution struct {
	x        *Executor
	st       *state.State
	observer Observer
	events   []domain.Event
	nextID   domain.ObjID
}

// allocID выдает ID для еще не примененного Create.
// В одном событии может родиться несколько объектов.
func (r *execution) allocID() domain.ObjID {
	id := max(r.nextID, r.st.NextID())
	r.nextID = id + 1
	return id
}

// do применяет событие и уведомляет наблюдателя
func (r *execution) do(ev *domain.Event) {
	if r.observer != nil {
		r.observer(r.st, ev, domain.PhasePre)
	}
	r.st.Apply(ev)
	if r.observer != nil {
		r.observer(r.st, ev, domain.PhasePost)
	}
	r.events = append(r.events, *ev)
	r.x.metrics.observeEvent(ev)
	r.x.log.WithFields(logrus.Fields{
		"event":  ev.Active.Kind().String(),
		"actors": ev.ActorIDs,
	}).Debug("Event applied")
}

func (r *execution) exists(id domain.ObjID) bool {
	return r.st.Parts().IsExist(id)
}

func (r *execution) command(cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.CommandCreate:
		r.executeCreate(c)
	case domain.CommandAttack:
		r.executeAttack(c)
	case domain.CommandMoveTo:
		r.executeMoveTo(c)
	case domain.CommandEndTurn:
		r.executeEndTurn()
	case domain.CommandUseAbility:
		r.executeUseAbility(c)
	default:
		domain.Invariant(false, "unknown command %T", cmd)
	}
}

func (r *execution) executeCreate(c domain.CommandCreate) {
	proto, ok := r.st.PrototypeFor(c.Prototype)
	domain.Invariant(ok, "no prototype %q", c.Prototype)

	id := r.allocID()
	components := append(proto, domain.Pos{Pos: c.Pos}, domain.Meta{Name: c.Prototype})
	if c.Owner != nil {
		components = append(components, domain.BelongsTo{PlayerID: *c.Owner})
	}
	ev := domain.NewEvent(domain.EventCreate{}, id)
	ev.AddInstant(id, domain.EffectCreate{Pos: c.Pos, Prototype: c.Prototype, Components: components})
	r.do(ev)
}

// executeMoveTo двигает агента по шагу. Попадание реакции обрывает путь.
func (r *execution) executeMoveTo(c domain.CommandMoveTo) {
	for i, step := range c.Path.Steps() {
		if !r.exists(c.ID) {
			return
		}
		cost := 0
		if i == 0 {
			cost = 1
		}
		ev := domain.NewEvent(domain.EventMoveTo{
			ID:   c.ID,
			Path: domain.NewPath([]hexmap.PosHex{step.From, step.To}),
			Cost: cost,
		}, c.ID)
		r.do(ev)

		r.hazardTick(c.ID)
		if !r.exists(c.ID) {
			return
		}
		if r.reactionAttacks(c.ID) {
			return
		}
	}
}

func (r *execution) executeAttack(c domain.CommandAttack) {
	r.attack(c.AttackerID, c.TargetID, domain.AttackActive)
	if r.exists(c.AttackerID) {
		r.reactionAttacks(c.AttackerID)
	}
}

// attack разыгрывает один удар и возвращает его исход
func (r *execution) attack(attackerID, targetID domain.ObjID, mode domain.AttackMode) domain.Effect {
	agent := r.st.Parts().Agent.Get(attackerID)
	ev := domain.NewEvent(domain.EventAttack{
		AttackerID: attackerID,
		TargetID:   targetID,
		Mode:       mode,
		WeaponType: agent.WeaponType,
	}, attackerID, targetID)

	effect := systems.TryAttack(r.st, r.x.dice, attackerID, targetID)
	flew := false
	switch e := effect.(type) {
	case domain.EffectKill:
		r.addKill(ev, targetID)
	case domain.EffectWound:
		ev.AddInstant(targetID, e)
		if e.Damage <= 0 {
			break
		}
		if r.st.HasPassive(attackerID, domain.PassivePoisonAttack) {
			ev.AddTimed(targetID, r.lasting(targetID, domain.LastingPoison, PoisonRounds))
		}
		if r.st.HasPassive(attackerID, domain.PassiveHeavyImpact) {
			from := r.st.PosOf(targetID)
			if to, ok := r.pushDestination(r.st.PosOf(attackerID), targetID, domain.WeightHeavy); ok {
				ev.AddInstant(targetID, domain.EffectFlyOff{From: from, To: to, Strength: domain.WeightHeavy})
				flew = true
			}
		}
	default:
		ev.AddInstant(targetID, effect)
	}
	r.do(ev)

	if flew {
		r.hazardTick(targetID)
	}
	return effect
}

// reactionAttacks дает каждому врагу target шанс ответить ударом.
// Бьют все, кто может; true - хоть один попал (или target погиб),
// и его действие прерывается.
func (r *execution) reactionAttacks(targetID domain.ObjID) bool {
	owner, ok := r.st.OwnerOf(targetID)
	if !ok {
		return false
	}
	interrupted := false
	for _, enemy := range r.st.EnemyAgentIDs(owner) {
		if !r.exists(targetID) {
			break
		}
		if !r.exists(enemy) || systems.CheckReactiveAttack(r.st, enemy, targetID) != nil {
			continue
		}
		if systems.IsHit(r.attack(enemy, targetID, domain.AttackReactive)) {
			interrupted = true
		}
	}
	return interrupted || !r.exists(targetID)
}

// pushDestination - клетка позади target по линии from -> target,
// если она свободна и target можно сдвинуть силой strength
func (r *execution) pushDestination(from hexmap.PosHex, targetID domain.ObjID, strength domain.Weight) (hexmap.PosHex, bool) {
	pos := r.st.PosOf(targetID)
	dir, ok := hexmap.DirTo(from, pos)
	if !ok {
		return hexmap.PosHex{}, false
	}
	if blocker, ok := r.st.Parts().Blocker.GetOpt(targetID); ok && !blocker.Weight.CanBePushedBy(strength) {
		return hexmap.PosHex{}, false
	}
	to := hexmap.Neighbor(pos, dir)
	if !r.st.IsFree(to) {
		return hexmap.PosHex{}, false
	}
	return to, true
}

// lasting - длительный эффект, который срабатывает в начале хода владельца цели
func (r *execution) lasting(id domain.ObjID, effect domain.Lasting, rounds int) domain.TimedEffect {
	phase, ok := r.st.OwnerOf(id)
	if !ok {
		phase = r.st.PlayerID()
	}
	return domain.TimedEffect{
		Duration: domain.Duration{Rounds: rounds},
		Phase:    phase,
		Effect:   effect,
	}
}

// effectSink - куда складывать эффекты: событие или контекст способности
type effectSink interface {
	AddInstant(id domain.ObjID, effects ...domain.Effect)
	AddTimed(id domain.ObjID, effects ...domain.TimedEffect)
	AddScheduled(id domain.ObjID, planned ...domain.PlannedAbility)
}

// addKill добавляет гибель и ее посмертные последствия
func (r *execution) addKill(sink effectSink, id domain.ObjID) {
	pos := r.st.PosOf(id)
	sink.AddInstant(id, domain.EffectKill{Pos: pos})
	if r.st.HasPassive(id, domain.PassiveSpawnPoisonCloudOnDeath) {
		r.createProp(sink, PoisonCloudPrototype, pos)
	}
}

// woundOrKill наносит урон без броска кубика (огонь, яд, взрыв)
func (r *execution) woundOrKill(sink effectSink, id domain.ObjID, damage int, source hexmap.PosHex) {
	strength, ok := r.st.Parts().Strength.GetOpt(id)
	if !ok {
		return
	}
	if damage >= strength.Strength {
		r.addKill(sink, id)
		return
	}
	sink.AddInstant(id, domain.EffectWound{Damage: damage, AttackerPos: source})
}

// createProp создает временный объект (огонь, облако), который исчезнет сам.
// Возвращает NilObjID, если прототипа нет или клетка занята.
func (r *execution) createProp(sink effectSink, name string, pos hexmap.PosHex) domain.ObjID {
	proto, ok := r.st.PrototypeFor(name)
	if !ok {
		r.x.log.WithField("prototype", name).Warn("Prop prototype is missing, skipped")
		return domain.NilObjID
	}
	for _, c := range proto {
		if _, isBlocker := c.(domain.Blocker); isBlocker && r.st.IsTileBlocked(pos) {
			return domain.NilObjID
		}
	}
	id := r.allocID()
	components := append(proto, domain.Pos{Pos: pos}, domain.Meta{Name: name})
	sink.AddInstant(id, domain.EffectCreate{Pos: pos, Prototype: name, Components: components})
	sink.AddScheduled(id, domain.PlannedAbility{
		Rounds:  PropLifetime,
		Phase:   r.st.PlayerID(),
		Ability: domain.Ability{Kind: domain.AbilityVanish},
	})
	return id
}

// hazardTick - опасности клетки срабатывают на агенте, который на ней стоит
func (r *execution) hazardTick(id domain.ObjID) {
	if !r.exists(id) || !r.st.Parts().Agent.Has(id) {
		return
	}
	pos := r.st.PosOf(id)
	for _, hazard := range r.st.HazardsAt(pos) {
		if hazard == id {
			continue
		}
		passives, _ := r.st.Parts().PassiveAbilities.GetOpt(hazard)
		for _, passive := range passives.Abilities {
			if !passive.Kind.IsHazard() {
				continue
			}
			if !r.exists(id) || !r.exists(hazard) {
				return
			}
			ev := domain.NewEvent(domain.EventUsePassiveAbility{ID: hazard, Pos: pos, Ability: passive}, hazard, id)
			switch passive.Kind {
			case domain.PassiveBurn, domain.PassiveSpikeTrap:
				r.woundOrKill(ev, id, HazardDamage, pos)
			case domain.PassivePoison:
				ev.AddTimed(id, r.lasting(id, domain.LastingPoison, PoisonRounds))
			}
			r.do(ev)
		}
	}
}

func (r *execution) executeEndTurn() {
	current := r.st.PlayerID()
	r.do(domain.NewEvent(domain.EventEndTurn{PlayerID: current}))

	next := r.st.NextPlayerID()
	r.do(domain.NewEvent(domain.EventBeginTurn{PlayerID: next}))

	r.tickLastingEffects(next)
	r.beginTurnPassives(next)
}

// tickLastingEffects - яд, оглушение и жажда крови срабатывают в начале хода
func (r *execution) tickLastingEffects(player domain.PlayerID) {
	for _, id := range r.st.Parts().Effects.IDs() {
		effects, ok := r.st.Parts().Effects.GetOpt(id)
		if !ok {
			continue
		}
		for _, te := range slices.Clone(effects.Effects) {
			if te.Phase != player || !r.exists(id) {
				continue
			}
			r.tickEffect(id, te)
		}
	}
}

func (r *execution) tickEffect(id domain.ObjID, te domain.TimedEffect) {
	// Яд не убивает: на последней единице силы он просто заканчивается
	if te.Effect == domain.LastingPoison {
		if s, ok := r.st.Parts().Strength.GetOpt(id); !ok || s.Strength <= PoisonDamage {
			r.do(domain.NewEvent(domain.EventEffectEnd{ID: id, Effect: te.Effect}, id))
			return
		}
	}

	ev := domain.NewEvent(domain.EventEffectTick{ID: id, Effect: te.Effect}, id)
	switch te.Effect {
	case domain.LastingPoison:
		ev.AddInstant(id, domain.EffectWound{Damage: PoisonDamage, AttackerPos: r.st.PosOf(id)})
	case domain.LastingStun:
		ev.AddInstant(id, domain.EffectStun{})
	case domain.LastingBloodlust:
		ev.AddInstant(id, domain.EffectBloodlust{})
	}
	r.do(ev)

	effects, _ := r.st.Parts().Effects.GetOpt(id)
	for _, cur := range effects.Effects {
		if cur.Effect == te.Effect && cur.Duration.IsOver() {
			r.do(domain.NewEvent(domain.EventEffectEnd{ID: id, Effect: te.Effect}, id))
			return
		}
	}
}

// beginTurnPassives - регенерация и опасности под агентами игрока
func (r *execution) beginTurnPassives(player domain.PlayerID) {
	parts := r.st.Parts()
	for _, id := range parts.PassiveAbilities.IDs() {
		if owner, ok := r.st.OwnerOf(id); !ok || owner != player {
			continue
		}
		for _, passive := range parts.PassiveAbilities.Get(id).Abilities {
			if passive.Kind != domain.PassiveRegenerate {
				continue
			}
			strength, ok := parts.Strength.GetOpt(id)
			if !ok || strength.Wounds() <= 0 {
				continue
			}
			ev := domain.NewEvent(domain.EventUsePassiveAbility{ID: id, Pos: r.st.PosOf(id), Ability: passive}, id)
			ev.AddInstant(id, domain.EffectHeal{Strength: min(passive.Strength, strength.Wounds())})
			r.do(ev)
		}
	}

	for _, id := range r.st.AgentIDsOf(player) {
		r.hazardTick(id)
	}
}

func (r *execution) executeUseAbility(c domain.CommandUseAbility) {
	resolve, ok := r.x.resolvers[c.Ability.Kind]
	domain.Invariant(ok, "no resolver for ability %s", c.Ability.Kind)

	ctx := resolve(r, c)
	ev := domain.NewEvent(domain.EventUseAbility{ID: c.ID, Pos: c.Pos, Ability: c.Ability}, append([]domain.ObjID{c.ID}, ctx.Actors...)...)
	ctx.mergeInto(ev)
	r.do(ev)

	for _, id := range ctx.Moved {
		r.hazardTick(id)
	}
	for _, id := range ctx.ReactionTargets {
		if r.exists(id) {
			r.reactionAttacks(id)
		}
	}
}

// scheduledAbilities запускает все созревшие способности из расписания
func (r *execution) scheduledAbilities() {
	for !r.st.IsBattleOver() {
		id, ability, ok := r.nextDue()
		if !ok {
			return
		}
		cmd := domain.CommandUseAbility{ID: id, Pos: r.st.PosOf(id), Ability: ability}
		err := systems.Check(r.st, cmd)
		domain.Invariant(err == nil, "scheduled %s of %s rejected: %v", ability, id, err)
		r.executeUseAbility(cmd)
	}
}

func (r *execution) nextDue() (domain.ObjID, domain.Ability, bool) {
	for _, id := range r.st.Parts().Schedule.IDs() {
		if !r.st.Parts().Pos.Has(id) {
			continue
		}
		for _, planned := range r.st.Parts().Schedule.Get(id).Planned {
			if planned.IsDue() {
				return id, planned.Ability, true
			}
		}
	}
	return domain.NilObjID, domain.Ability{}, false
}

// checkEndBattle завершает бой, если у кого-то не осталось агентов
func (r *execution) checkEndBattle() {
	if r.st.IsBattleOver() {
		return
	}
	count := r.st.PlayersCount()
	loser := -1
	for p := 0; p < count; p++ {
		if len(r.st.AgentIDsOf(domain.PlayerID(p))) == 0 {
			loser = p
			break
		}
	}
	if loser < 0 {
		return
	}

	// Победитель - следующий после проигравшего игрок, у которого остались агенты
	winner := r.st.PlayerID()
	candidate := domain.PlayerID(loser)
	for i := 1; i < count; i++ {
		candidate = candidate.Next(count)
		if len(r.st.AgentIDsOf(candidate)) > 0 {
			winner = candidate
			break
		}
	}

	survivors := make([]string, 0)
	for _, id := range r.st.AgentIDsOf(winner) {
		if meta, ok := r.st.Parts().Meta.GetOpt(id); ok {
			survivors = append(survivors, meta.Name)
		}
	}
	slices.Sort(survivors)

	result := domain.BattleResult{WinnerID: winner, SurvivorTypes: survivors}
	r.x.log.WithFields(logrus.Fields{
		"winner":    winner,
		"survivors": survivors,
	}).Info("Battle ended")
	r.do(domain.NewEvent(domain.EventEndBattle{Result: result}))
}
