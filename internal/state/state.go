package state

import (
	"zemeroth-core/internal/domain"
	"zemeroth-core/pkg/hexmap"
)

// Prototypes - шаблоны объектов: имя типа -> упорядоченный список компонентов
type Prototypes map[string][]domain.Component

// Config - параметры создания состояния боя
type Config struct {
	Tiles         *hexmap.HexMap[domain.TileType]
	PlayersCount  int
	Prototypes    Prototypes
	Deterministic bool // тестовый режим: каждый бросок обязан быть однозначным
}

// State - единственный источник правды о бое.
// Меняется только через Apply.
type State struct {
	parts        *Parts
	tiles        *hexmap.HexMap[domain.TileType]
	playerID     domain.PlayerID
	playersCount int
	battleResult *domain.BattleResult
	prototypes   Prototypes

	deterministic bool
	lastID        domain.ObjID
}

func New(cfg Config) *State {
	domain.Invariant(cfg.Tiles != nil, "state requires a map")
	domain.Invariant(cfg.PlayersCount > 0, "state requires players")
	return &State{
		parts:         newParts(),
		tiles:         cfg.Tiles,
		playersCount:  cfg.PlayersCount,
		prototypes:    cfg.Prototypes,
		deterministic: cfg.Deterministic,
	}
}

// Parts - доступ к компонентам только для чтения
func (s *State) Parts() *Parts {
	return s.parts
}

// PlayerID - чей сейчас ход
func (s *State) PlayerID() domain.PlayerID {
	return s.playerID
}

func (s *State) PlayersCount() int {
	return s.playersCount
}

// NextPlayerID - кто ходит после текущего игрока
func (s *State) NextPlayerID() domain.PlayerID {
	return s.playerID.Next(s.playersCount)
}

// BattleResult возвращает итог, если бой окончен
func (s *State) BattleResult() (domain.BattleResult, bool) {
	if s.battleResult == nil {
		return domain.BattleResult{}, false
	}
	return *s.battleResult, true
}

func (s *State) IsBattleOver() bool {
	return s.battleResult != nil
}

func (s *State) IsDeterministic() bool {
	return s.deterministic
}

// NextID - первый ID, которого еще не было в бою.
// Счетчик двигает только Apply при создании объекта.
func (s *State) NextID() domain.ObjID {
	return s.lastID + 1
}

// IDs - все когда-либо созданные ID (в том числе уже удаленные)
func (s *State) IDs() []domain.ObjID {
	ids := make([]domain.ObjID, 0, s.lastID)
	for id := domain.ObjID(1); id <= s.lastID; id++ {
		ids = append(ids, id)
	}
	return ids
}

// PrototypeFor возвращает копию шаблона объекта
func (s *State) PrototypeFor(name string) ([]domain.Component, bool) {
	proto, ok := s.prototypes[name]
	if !ok {
		return nil, false
	}
	return domain.CloneComponents(proto), true
}

// --- КАРТА ---

func (s *State) MapRadius() int {
	return s.tiles.Radius()
}

func (s *State) IsInside(p hexmap.PosHex) bool {
	return s.tiles.IsInside(p)
}

func (s *State) TileType(p hexmap.PosHex) domain.TileType {
	return s.tiles.Get(p)
}

// Positions - все клетки карты в детерминированном порядке
func (s *State) Positions() []hexmap.PosHex {
	return s.tiles.Iter()
}
