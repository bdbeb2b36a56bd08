package engine

import (
	"testing"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"
)

const testRadius = 4

var (
	bombAbility      = domain.Ability{Kind: domain.AbilityBombDamage, Distance: 3}
	knockbackAbility = domain.Ability{Kind: domain.AbilityKnockback, Strength: int(domain.WeightNormal)}

	clubAbility      = domain.Ability{Kind: domain.AbilityClub}
	jumpAbility      = domain.Ability{Kind: domain.AbilityJump, Distance: 2}
	dashAbility      = domain.Ability{Kind: domain.AbilityDash}
	rageAbility      = domain.Ability{Kind: domain.AbilityRage, Attacks: 2}
	healAbility      = domain.Ability{Kind: domain.AbilityHeal, Strength: 2}
	greatHealAbility = domain.Ability{Kind: domain.AbilityGreatHeal, Strength: 1}
	bloodlustAbility = domain.Ability{Kind: domain.AbilityBloodlust}
	poisonAbility    = domain.Ability{Kind: domain.AbilityPoison}
	vanishAbility    = domain.Ability{Kind: domain.AbilityVanish}
	summonAbility    = domain.Ability{Kind: domain.AbilitySummon}

	bombPushAbility   = domain.Ability{Kind: domain.AbilityBombPush, Distance: 3}
	bombFireAbility   = domain.Ability{Kind: domain.AbilityBombFire, Distance: 3}
	bombPoisonAbility = domain.Ability{Kind: domain.AbilityBombPoison, Distance: 3}
)

func fighter(attackStrength int) []domain.Component {
	return []domain.Component{
		domain.Strength{Strength: 3, BaseStrength: 3},
		domain.Agent{
			Moves: 1, Attacks: 1,
			BaseMoves: 1, BaseAttacks: 1,
			AttackStrength:  attackStrength,
			AttackDistance:  1,
			AttackAccuracy:  20,
			MovePoints:      3,
			ReactiveAttacks: 1,
		},
		domain.Blocker{},
	}
}

// withStrength заменяет силу бойца (раненые, живучие)
func withStrength(comps []domain.Component, strength, base int) []domain.Component {
	comps[0] = domain.Strength{Strength: strength, BaseStrength: base}
	return comps
}

func withAbilities(comps []domain.Component, abilities ...domain.Ability) []domain.Component {
	list := make([]domain.RechargeableAbility, len(abilities))
	for i, a := range abilities {
		list[i] = domain.RechargeableAbility{Ability: a, BaseCooldown: 2}
	}
	return append(comps, domain.Abilities{Abilities: list})
}

func withPassives(comps []domain.Component, passives ...domain.PassiveKind) []domain.Component {
	list := make([]domain.PassiveAbility, len(passives))
	for i, kind := range passives {
		list[i] = domain.PassiveAbility{Kind: kind, Strength: 2}
	}
	return append(comps, domain.PassiveAbilities{Abilities: list})
}

func hazard(kind domain.PassiveKind) []domain.Component {
	return []domain.Component{domain.PassiveAbilities{Abilities: []domain.PassiveAbility{{Kind: kind}}}}
}

func testPrototypes() state.Prototypes {
	bomber := append(fighter(1), domain.Abilities{Abilities: []domain.RechargeableAbility{
		{Ability: bombAbility, BaseCooldown: 2},
	}})
	return state.Prototypes{
		"swordsman":   fighter(2),
		"brute":       fighter(3),
		"bomber":      bomber,
		"bomb_damage": {domain.Blocker{}},
		"boulder":     {domain.Blocker{Weight: domain.WeightHeavy}},
		"pusher": append(fighter(1), domain.Abilities{Abilities: []domain.RechargeableAbility{
			{Ability: knockbackAbility, BaseCooldown: 1},
		}}),
		"tank":    withStrength(fighter(2), 7, 7),
		"wounded": withStrength(fighter(1), 1, 3),
		"adept": withAbilities(fighter(1),
			clubAbility, jumpAbility, dashAbility, rageAbility, healAbility,
			greatHealAbility, bloodlustAbility, poisonAbility, vanishAbility,
		),
		"leaper":   withPassives(withAbilities(fighter(1), jumpAbility), domain.PassiveHeavyImpact),
		"summoner": append(withAbilities(fighter(1), summonAbility), domain.Summoner{Count: 2}),
		"imp":      fighter(1),
		"thrower":  withAbilities(fighter(1), bombPushAbility, bombFireAbility, bombPoisonAbility),
		"troll":    withPassives(withStrength(fighter(1), 1, 3), domain.PassiveRegenerate),
		"stinker":  withPassives(fighter(1), domain.PassiveSpawnPoisonCloudOnDeath),
		"viper":    withPassives(fighter(1), domain.PassivePoisonAttack),

		"bomb_push":    {domain.Blocker{}},
		"bomb_fire":    {domain.Blocker{}},
		"bomb_poison":  {domain.Blocker{}},
		"fire":         hazard(domain.PassiveBurn),
		"poison_cloud": hazard(domain.PassivePoison),
		"spikes":       hazard(domain.PassiveSpikeTrap),

		// Прыжок на собственную клетку невозможен: срабатывание ломает состояние
		"cursed": {domain.Schedule{Planned: []domain.PlannedAbility{
			{Rounds: 1, Phase: 1, Ability: domain.Ability{Kind: domain.AbilityJump, Distance: 3}},
		}}},
	}
}

func newTestState() *state.State {
	return state.New(state.Config{
		Tiles:         hexmap.New[domain.TileType](testRadius),
		PlayersCount:  2,
		Prototypes:    testPrototypes(),
		Deterministic: true,
	})
}

func newTestExecutor(t *testing.T, metrics *Metrics) *Executor {
	t.Helper()
	cfg := NewConfig()
	cfg.Seed = 42
	return NewExecutor(cfg, metrics)
}

func owner(p domain.PlayerID) *domain.PlayerID {
	return &p
}

// create выполняет CommandCreate и возвращает ID нового объекта
func create(t *testing.T, x *Executor, st *state.State, player *domain.PlayerID, pos hexmap.PosHex, proto string) domain.ObjID {
	t.Helper()
	events, err := x.Execute(st, domain.CommandCreate{Owner: player, Pos: pos, Prototype: proto}, nil)
	if err != nil {
		t.Fatalf("create %s at %v: %v", proto, pos, err)
	}
	if len(events) != 1 || len(events[0].ActorIDs) != 1 {
		t.Fatalf("create %s: unexpected events %+v", proto, events)
	}
	return events[0].ActorIDs[0]
}

func eventKinds(events []domain.Event) []domain.EventKind {
	kinds := make([]domain.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Active.Kind()
	}
	return kinds
}

func mustExecute(t *testing.T, x *Executor, st *state.State, cmd domain.Command) []domain.Event {
	t.Helper()
	events, err := x.Execute(st, cmd, nil)
	if err != nil {
		t.Fatalf("execute %s: %v", cmd.Kind(), err)
	}
	return events
}

// countNamed - сколько живых объектов созданы из прототипа name
func countNamed(st *state.State, name string) int {
	n := 0
	for _, id := range st.Parts().Meta.IDs() {
		if st.Parts().Meta.Get(id).Name == name {
			n++
		}
	}
	return n
}

func effectKinds(effects []domain.Effect) []domain.EffectKind {
	kinds := make([]domain.EffectKind, len(effects))
	for i, e := range effects {
		kinds[i] = e.Kind()
	}
	return kinds
}
