package engine

import (
	"slices"
	"testing"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"
)

// scene - объекты, расставленные для одного случая
type scene struct {
	actor, target, other domain.ObjID
}

func TestAbilityResolvers(t *testing.T) {
	origin := hexmap.PosHex{}
	east := hexmap.PosHex{Q: 1, R: 0}

	tests := []struct {
		name  string
		setup func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility)
		want  []domain.EventKind
		check func(t *testing.T, st *state.State, sc scene, ev domain.Event)
	}{
		{
			name: "club stuns and throws the target back",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(1), east, "swordsman"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: east, Ability: clubAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				want := []domain.EffectKind{domain.EffectKindStun, domain.EffectKindFlyOff}
				if got := effectKinds(ev.InstantFor(sc.target)); !slices.Equal(got, want) {
					t.Errorf("target effects = %v, want %v", got, want)
				}
				if got := st.PosOf(sc.target); got != (hexmap.PosHex{Q: 2, R: 0}) {
					t.Errorf("target pos = %v, want (2,0)", got)
				}
				if a := st.Parts().Agent.Get(sc.target); a.Moves != 0 || a.Attacks != 0 {
					t.Errorf("stunned target still has moves=%d attacks=%d", a.Moves, a.Attacks)
				}
				effects := st.Parts().Effects.Get(sc.target).Effects
				wantStun := domain.TimedEffect{Duration: domain.Duration{Rounds: StunRounds}, Phase: 1, Effect: domain.LastingStun}
				if len(effects) != 1 || effects[0] != wantStun {
					t.Errorf("target lasting effects = %+v, want %+v", effects, wantStun)
				}
			},
		},
		{
			name: "jump next to an enemy provokes a reaction",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(1), hexmap.PosHex{Q: 3, R: 0}, "swordsman"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: hexmap.PosHex{Q: 2, R: 0}, Ability: jumpAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility, domain.EventKindAttack},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				if got := st.PosOf(sc.actor); got != (hexmap.PosHex{Q: 2, R: 0}) {
					t.Errorf("jumper pos = %v, want (2,0)", got)
				}
				if got := st.Parts().Strength.Get(sc.actor).Strength; got != 1 {
					t.Errorf("jumper strength = %d, want 1 after the reaction", got)
				}
			},
		},
		{
			name: "heavy jump knocks movable neighbours away",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "leaper"),
					target: create(t, x, st, owner(1), hexmap.PosHex{Q: 3, R: 0}, "swordsman"),
					other:  create(t, x, st, nil, hexmap.PosHex{Q: 2, R: -1}, "boulder"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: hexmap.PosHex{Q: 2, R: 0}, Ability: jumpAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				effects := ev.InstantFor(sc.target)
				want := domain.EffectKnockback{From: hexmap.PosHex{Q: 3, R: 0}, To: hexmap.PosHex{Q: 4, R: 0}, Strength: domain.WeightNormal}
				if len(effects) != 1 || effects[0] != want {
					t.Errorf("neighbour effects = %+v, want %+v", effects, want)
				}
				if got := st.PosOf(sc.target); got != (hexmap.PosHex{Q: 4, R: 0}) {
					t.Errorf("neighbour pos = %v, want (4,0)", got)
				}
				if got := st.PosOf(sc.other); got != (hexmap.PosHex{Q: 2, R: -1}) {
					t.Errorf("boulder moved to %v", got)
				}
			},
		},
		{
			name: "dash does not provoke reactions",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(1), hexmap.PosHex{Q: 2, R: 0}, "swordsman"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: east, Ability: dashAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				if got := st.PosOf(sc.actor); got != east {
					t.Errorf("dasher pos = %v, want %v", got, east)
				}
				if got := st.Parts().Strength.Get(sc.actor).Strength; got != 3 {
					t.Errorf("dasher strength = %d, want 3", got)
				}
			},
		},
		{
			name: "rage adds attacks",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{actor: create(t, x, st, owner(0), origin, "adept")}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: origin, Ability: rageAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				// одна атака потрачена на саму ярость
				if got := st.Parts().Agent.Get(sc.actor).Attacks; got != 2 {
					t.Errorf("attacks = %d, want 2", got)
				}
				if r, _ := st.FindAbility(sc.actor, rageAbility); r.Cooldown != 2 {
					t.Errorf("rage cooldown = %d, want 2", r.Cooldown)
				}
			},
		},
		{
			name: "heal restores an adjacent ally",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(0), east, "wounded"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: east, Ability: healAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				if got := st.Parts().Strength.Get(sc.target).Strength; got != 3 {
					t.Errorf("healed strength = %d, want 3", got)
				}
			},
		},
		{
			name: "great heal touches only damaged allies nearby",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(0), east, "wounded"),
					other:  create(t, x, st, owner(0), hexmap.PosHex{Q: 3, R: 0}, "wounded"),
				}
				create(t, x, st, owner(0), hexmap.PosHex{Q: -1, R: 0}, "wounded")
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: origin, Ability: greatHealAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				if len(ev.InstantEffects) != 2 {
					t.Errorf("healed %d objects, want 2", len(ev.InstantEffects))
				}
				if got := st.Parts().Strength.Get(sc.target).Strength; got != 2 {
					t.Errorf("near ally strength = %d, want 2", got)
				}
				if got := st.Parts().Strength.Get(sc.other).Strength; got != 1 {
					t.Errorf("far ally strength = %d, want 1", got)
				}
			},
		},
		{
			name: "bloodlust gives jokers and a lasting effect",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(0), hexmap.PosHex{Q: 2, R: 0}, "swordsman"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: hexmap.PosHex{Q: 2, R: 0}, Ability: bloodlustAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				if got := st.Parts().Agent.Get(sc.target).Jokers; got != domain.BloodlustJokers {
					t.Errorf("jokers = %d, want %d", got, domain.BloodlustJokers)
				}
				effects := st.Parts().Effects.Get(sc.target).Effects
				if len(effects) != 1 || effects[0].Effect != domain.LastingBloodlust || effects[0].Duration.Rounds != BloodlustRounds {
					t.Errorf("lasting effects = %+v, want bloodlust for %d rounds", effects, BloodlustRounds)
				}
			},
		},
		{
			name: "poison lasts on the enemy's turns",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{
					actor:  create(t, x, st, owner(0), origin, "adept"),
					target: create(t, x, st, owner(1), hexmap.PosHex{Q: 3, R: 0}, "swordsman"),
				}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: hexmap.PosHex{Q: 3, R: 0}, Ability: poisonAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				want := domain.TimedEffect{Duration: domain.Duration{Rounds: PoisonRounds}, Phase: 1, Effect: domain.LastingPoison}
				effects := st.Parts().Effects.Get(sc.target).Effects
				if len(effects) != 1 || effects[0] != want {
					t.Errorf("lasting effects = %+v, want %+v", effects, want)
				}
				if got := st.Parts().Strength.Get(sc.target).Strength; got != 3 {
					t.Errorf("poison hurt immediately: strength = %d", got)
				}
			},
		},
		{
			name: "vanish removes the user",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{actor: create(t, x, st, owner(0), origin, "adept")}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: origin, Ability: vanishAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				if st.Parts().IsExist(sc.actor) {
					t.Error("vanished object still has components")
				}
			},
		},
		{
			name: "summon creates stunned imps around the summoner",
			setup: func(t *testing.T, x *Executor, st *state.State) (scene, domain.CommandUseAbility) {
				sc := scene{actor: create(t, x, st, owner(0), origin, "summoner")}
				return sc, domain.CommandUseAbility{ID: sc.actor, Pos: origin, Ability: summonAbility}
			},
			want: []domain.EventKind{domain.EventKindUseAbility},
			check: func(t *testing.T, st *state.State, sc scene, ev domain.Event) {
				imps := ev.ActorIDs[1:]
				if len(imps) != 2 {
					t.Fatalf("summoned %v, want 2 imps", imps)
				}
				for _, id := range imps {
					if got := st.Parts().Meta.Get(id).Name; got != "imp" {
						t.Errorf("summoned %q, want imp", got)
					}
					if owner, _ := st.OwnerOf(id); owner != 0 {
						t.Errorf("imp %s belongs to %v, want 0", id, owner)
					}
					if !hexmap.IsAdjacent(st.PosOf(id), origin) {
						t.Errorf("imp %s at %v is not next to the summoner", id, st.PosOf(id))
					}
					if a := st.Parts().Agent.Get(id); a.Moves != 0 || a.Attacks != 0 {
						t.Errorf("imp %s is not stunned: %+v", id, a)
					}
				}
				if got := st.Parts().Summoner.Get(sc.actor).Count; got != 3 {
					t.Errorf("summoner count = %d, want 3", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestState()
			x := newTestExecutor(t, nil)
			// дальние бойцы не дают бою закончиться
			create(t, x, st, owner(0), hexmap.PosHex{Q: -4, R: 4}, "swordsman")
			create(t, x, st, owner(1), hexmap.PosHex{Q: -4, R: 0}, "swordsman")

			sc, cmd := tt.setup(t, x, st)
			events := mustExecute(t, x, st, cmd)
			if got := eventKinds(events); !slices.Equal(got, tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			if a, ok := events[0].Active.(domain.EventUseAbility); !ok || a.Ability != cmd.Ability {
				t.Fatalf("first event = %+v, want %s", events[0].Active, cmd.Ability)
			}
			tt.check(t, st, sc, events[0])
		})
	}
}

func TestBombExplosions(t *testing.T) {
	landing := hexmap.PosHex{Q: 2, R: 0}

	t.Run("push bomb explodes at once", func(t *testing.T) {
		st := newTestState()
		x := newTestExecutor(t, nil)
		thrower := create(t, x, st, owner(0), hexmap.PosHex{}, "thrower")
		enemy := create(t, x, st, owner(1), hexmap.PosHex{Q: 3, R: 0}, "swordsman")

		events := mustExecute(t, x, st, domain.CommandUseAbility{ID: thrower, Pos: landing, Ability: bombPushAbility})
		want := []domain.EventKind{domain.EventKindUseAbility, domain.EventKindUseAbility}
		if got := eventKinds(events); !slices.Equal(got, want) {
			t.Fatalf("events = %v, want %v", got, want)
		}
		explosion := events[1].Active.(domain.EventUseAbility)
		if explosion.Ability.Kind != domain.AbilityExplodePush || explosion.Pos != landing {
			t.Errorf("second event = %+v, want explode_push at %v", explosion, landing)
		}
		if countNamed(st, "bomb_push") != 0 {
			t.Error("bomb survived its explosion")
		}
		if got := st.PosOf(enemy); got != (hexmap.PosHex{Q: 4, R: 0}) {
			t.Errorf("enemy pos = %v, want (4,0)", got)
		}
	})

	props := []struct {
		name    string
		ability domain.Ability
		bomb    string
		prop    string
	}{
		{"fire bomb", bombFireAbility, "bomb_fire", FirePrototype},
		{"poison bomb", bombPoisonAbility, "bomb_poison", PoisonCloudPrototype},
	}
	for _, tt := range props {
		t.Run(tt.name+" covers the area and the cover fades", func(t *testing.T) {
			st := newTestState()
			x := newTestExecutor(t, nil)
			thrower := create(t, x, st, owner(0), hexmap.PosHex{}, "thrower")
			create(t, x, st, owner(1), hexmap.PosHex{Q: -4, R: 0}, "swordsman")

			mustExecute(t, x, st, domain.CommandUseAbility{ID: thrower, Pos: landing, Ability: tt.ability})
			mustExecute(t, x, st, domain.CommandEndTurn{})
			mustExecute(t, x, st, domain.CommandEndTurn{})

			if countNamed(st, tt.bomb) != 0 {
				t.Fatal("bomb did not explode on the thrower's turn")
			}
			if got := countNamed(st, tt.prop); got != 7 {
				t.Fatalf("%s count = %d, want 7 (center and neighbours)", tt.prop, got)
			}
			for _, id := range st.Parts().Meta.IDs() {
				if st.Parts().Meta.Get(id).Name != tt.prop {
					continue
				}
				if d := hexmap.Distance(st.PosOf(id), landing); d > 1 {
					t.Errorf("%s at %v is %d tiles from the explosion", tt.prop, st.PosOf(id), d)
				}
			}

			// гаснет через PropLifetime раундов
			for round := 1; round <= PropLifetime; round++ {
				mustExecute(t, x, st, domain.CommandEndTurn{})
				mustExecute(t, x, st, domain.CommandEndTurn{})
				want := 7
				if round == PropLifetime {
					want = 0
				}
				if got := countNamed(st, tt.prop); got != want {
					t.Errorf("round %d: %s count = %d, want %d", round, tt.prop, got, want)
				}
			}
		})
	}
}
