package systems

import (
	"math/rand"
	"testing"

	"zemeroth-core/internal/domain"
	"zemeroth-core/pkg/hexmap"
)

func newTestAI() *AI {
	return NewAI(0, testRadius, rand.New(rand.NewSource(1)))
}

func TestAIAttacksAdjacentEnemy(t *testing.T) {
	st := newTestState(false)
	hero := spawn(st, 0, hexmap.PosHex{}, swordsman()...)
	enemy := spawn(st, 1, hexmap.PosHex{Q: 1, R: 0}, swordsman()...)

	cmd := newTestAI().Command(st)
	attack, ok := cmd.(domain.CommandAttack)
	if !ok {
		t.Fatalf("expected an attack, got %s", cmd.Kind())
	}
	if attack.AttackerID != hero || attack.TargetID != enemy {
		t.Errorf("attack %s -> %s, want %s -> %s", attack.AttackerID, attack.TargetID, hero, enemy)
	}
}

func TestAIMovesTowardEnemy(t *testing.T) {
	st := newTestState(false)
	hero := spawn(st, 0, hexmap.PosHex{Q: -3, R: 0}, swordsman()...)
	enemy := spawn(st, 1, hexmap.PosHex{Q: 3, R: 0}, swordsman()...)

	cmd := newTestAI().Command(st)
	move, ok := cmd.(domain.CommandMoveTo)
	if !ok {
		t.Fatalf("expected a move, got %s", cmd.Kind())
	}
	if move.ID != hero {
		t.Errorf("moving %s, want %s", move.ID, hero)
	}
	if err := Check(st, move); err != nil {
		t.Fatalf("AI produced an illegal move: %v", err)
	}
	before := hexmap.Distance(st.PosOf(hero), st.PosOf(enemy))
	after := hexmap.Distance(move.Path.To(), st.PosOf(enemy))
	if after >= before {
		t.Errorf("move does not approach the enemy: %d -> %d", before, after)
	}
}

func TestAIEndsTurnWhenExhausted(t *testing.T) {
	st := newTestState(false)
	spawn(st, 0, hexmap.PosHex{Q: -3, R: 0}, withAgent(swordsman(), func(a *domain.Agent) {
		a.Moves = 0
		a.Attacks = 0
	})...)
	spawn(st, 1, hexmap.PosHex{Q: 3, R: 0}, swordsman()...)

	if cmd := newTestAI().Command(st); cmd.Kind() != domain.CommandKindEndTurn {
		t.Errorf("expected END_TURN, got %s", cmd.Kind())
	}
}

func TestAIOnForeignTurn(t *testing.T) {
	st := newTestState(false)
	spawn(st, 0, hexmap.PosHex{}, swordsman()...)
	spawn(st, 1, hexmap.PosHex{Q: 1, R: 0}, swordsman()...)

	ai := NewAI(1, testRadius, rand.New(rand.NewSource(1)))
	if cmd := ai.Command(st); cmd.Kind() != domain.CommandKindEndTurn {
		t.Errorf("expected END_TURN on the other player's turn, got %s", cmd.Kind())
	}
}

func TestAIFrontUnitActsFirst(t *testing.T) {
	st := newTestState(false)
	// ID меньше, но дальше от врага
	spawn(st, 0, hexmap.PosHex{Q: -4, R: 0}, swordsman()...)
	front := spawn(st, 0, hexmap.PosHex{Q: 0, R: 0}, swordsman()...)
	spawn(st, 1, hexmap.PosHex{Q: 2, R: 0}, swordsman()...)

	cmd := newTestAI().Command(st)
	move, ok := cmd.(domain.CommandMoveTo)
	if !ok {
		t.Fatalf("expected a move, got %s", cmd.Kind())
	}
	if move.ID != front {
		t.Errorf("first mover is %s, want the front unit %s", move.ID, front)
	}
}

func TestAISummonsFirst(t *testing.T) {
	st := newTestState(false)
	summon := domain.Ability{Kind: domain.AbilitySummon}
	shaman := spawn(st, 0, hexmap.PosHex{}, append(swordsman(),
		domain.Abilities{Abilities: []domain.RechargeableAbility{{Ability: summon, BaseCooldown: 3}}},
		domain.Summoner{Count: 2},
	)...)
	spawn(st, 1, hexmap.PosHex{Q: 1, R: 0}, swordsman()...)

	cmd := newTestAI().Command(st)
	use, ok := cmd.(domain.CommandUseAbility)
	if !ok {
		t.Fatalf("expected an ability, got %s", cmd.Kind())
	}
	if use.ID != shaman || use.Ability != summon || use.Pos != st.PosOf(shaman) {
		t.Errorf("unexpected summon command %+v", use)
	}
}

func TestAIRangedKeepsDistance(t *testing.T) {
	st := newTestState(false)
	archer := spawn(st, 0, hexmap.PosHex{}, withAgent(swordsman(), func(a *domain.Agent) {
		a.Attacks = 0
		a.AttackDistance = 3
	})...)
	spawn(st, 1, hexmap.PosHex{Q: 1, R: 0}, swordsman()...)

	band, ok := BandFor(st, archer)
	if !ok || band.Min != 2 || band.Max != 3 {
		t.Fatalf("BandFor() = %+v, %t", band, ok)
	}

	cmd := newTestAI().Command(st)
	move, ok := cmd.(domain.CommandMoveTo)
	if !ok {
		t.Fatalf("expected a retreat, got %s", cmd.Kind())
	}
	dist := hexmap.Distance(move.Path.To(), hexmap.PosHex{Q: 1, R: 0})
	if dist < band.Min || dist > band.Max {
		t.Errorf("archer ends %d tiles from the enemy, want within %+v", dist, band)
	}
}

func TestAIIsDeterministicForSeed(t *testing.T) {
	build := func() domain.Command {
		st := newTestState(false)
		spawn(st, 0, hexmap.PosHex{Q: -2, R: 0}, swordsman()...)
		spawn(st, 1, hexmap.PosHex{Q: 2, R: -1}, swordsman()...)
		spawn(st, 1, hexmap.PosHex{Q: 2, R: 1}, swordsman()...)
		return newTestAI().Command(st)
	}
	first, second := build(), build()
	m1, ok1 := first.(domain.CommandMoveTo)
	m2, ok2 := second.(domain.CommandMoveTo)
	if !ok1 || !ok2 {
		t.Fatalf("expected moves, got %s and %s", first.Kind(), second.Kind())
	}
	if m1.Path.To() != m2.Path.To() || m1.Path.Len() != m2.Path.Len() {
		t.Errorf("same seed, different moves: %v vs %v", m1.Path.Tiles, m2.Path.Tiles)
	}
}
