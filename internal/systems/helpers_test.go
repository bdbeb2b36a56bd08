package systems

import (
	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"
)

const testRadius = 4

func newTestState(deterministic bool) *state.State {
	return state.New(state.Config{
		Tiles:         hexmap.New[domain.TileType](testRadius),
		PlayersCount:  2,
		Prototypes:    testPrototypes(),
		Deterministic: deterministic,
	})
}

func testPrototypes() state.Prototypes {
	return state.Prototypes{
		"swordsman":   swordsman(),
		"bomb_damage": {domain.Blocker{}},
	}
}

func swordsman() []domain.Component {
	return []domain.Component{
		domain.Strength{Strength: 3, BaseStrength: 3},
		domain.Agent{
			Moves: 1, Attacks: 1,
			BaseMoves: 1, BaseAttacks: 1,
			AttackStrength:  2,
			AttackDistance:  1,
			AttackAccuracy:  11,
			MovePoints:      3,
			ReactiveAttacks: 1,
		},
		domain.Blocker{},
	}
}

// spawn кладет объект прямо через Apply, минуя исполнителя
func spawn(st *state.State, owner domain.PlayerID, pos hexmap.PosHex, comps ...domain.Component) domain.ObjID {
	id := st.NextID()
	all := append(domain.CloneComponents(comps),
		domain.Pos{Pos: pos},
		domain.Meta{Name: "test"},
		domain.BelongsTo{PlayerID: owner},
	)
	ev := domain.NewEvent(domain.EventCreate{}, id)
	ev.AddInstant(id, domain.EffectCreate{Pos: pos, Prototype: "test", Components: all})
	st.Apply(ev)
	return id
}

// spawnProp - ничейный объект (камень, огонь)
func spawnProp(st *state.State, pos hexmap.PosHex, comps ...domain.Component) domain.ObjID {
	id := st.NextID()
	all := append(domain.CloneComponents(comps), domain.Pos{Pos: pos})
	ev := domain.NewEvent(domain.EventCreate{}, id)
	ev.AddInstant(id, domain.EffectCreate{Pos: pos, Prototype: "prop", Components: all})
	st.Apply(ev)
	return id
}

func withAgent(comps []domain.Component, fn func(a *domain.Agent)) []domain.Component {
	out := domain.CloneComponents(comps)
	for i, c := range out {
		if a, ok := c.(domain.Agent); ok {
			fn(&a)
			out[i] = a
		}
	}
	return out
}

// fixedDice всегда выбрасывает одно и то же
type fixedDice int

func (d fixedDice) Intn(n int) int {
	return int(d) % n
}

func newTestStateWithTiles(tiles *hexmap.HexMap[domain.TileType]) *state.State {
	return state.New(state.Config{
		Tiles:        tiles,
		PlayersCount: 2,
		Prototypes:   testPrototypes(),
	})
}
