package scenario

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"

	"gopkg.in/yaml.v3"
)

const (
	MinMapRadius = 3
	PlayersCount = 2 // поддерживаются только бои двух игроков
)

var (
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrNoFreeTile      = errors.New("no free tile for object")
)

// Validator - интерфейс, который реализуют загружаемые описания
type Validator interface {
	Validate() error
}

// Line - в какой полосе карты ставить группу объектов
type Line uint8

const (
	LineAny Line = iota
	LineFront
	LineMiddle
)

var lineStringTo = map[string]Line{
	"any":    LineAny,
	"front":  LineFront,
	"middle": LineMiddle,
}

func (l Line) String() string {
	for s, v := range lineStringTo {
		if v == l {
			return s
		}
	}
	return "unknown"
}

func (l *Line) UnmarshalText(data []byte) error {
	v, ok := lineStringTo[strings.ToLower(string(data))]
	if !ok {
		return fmt.Errorf("unknown line %q", data)
	}
	*l = v
	return nil
}

// ObjectsGroup - Count объектов одного прототипа на случайных клетках линии
type ObjectsGroup struct {
	Owner     *domain.PlayerID `yaml:"owner"`
	Prototype string           `yaml:"prototype"`
	Line      Line             `yaml:"line"`
	Count     int              `yaml:"count"`
}

// Placement - объект на заранее известной клетке
type Placement struct {
	Owner     *domain.PlayerID `yaml:"owner"`
	Prototype string           `yaml:"prototype"`
	Pos       hexmap.PosHex    `yaml:"pos"`
}

// Scenario - стартовая расстановка боя
type Scenario struct {
	MapRadius    int               `yaml:"map_radius"`
	PlayersCount int               `yaml:"players_count"`
	Rocks        int               `yaml:"rocks"` // сколько клеток сделать каменистыми
	Objects      []ObjectsGroup    `yaml:"objects"`
	ExactObjects []Placement       `yaml:"exact_objects"`
	AIPlayers    []domain.PlayerID `yaml:"ai_players"`
}

// Generated - карта и команды Create, готовые для исполнителя
type Generated struct {
	Tiles   *hexmap.HexMap[domain.TileType]
	Creates []domain.CommandCreate
}

func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Load(data)
}

func Load(data []byte) (*Scenario, error) {
	var s Scenario
	if err := decodeStrict(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// decodeStrict разбирает YAML без неизвестных полей и сразу валидирует
func decodeStrict(data []byte, out Validator) error {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	return out.Validate()
}

// Validate проверяет структуру сценария без учета прототипов
func (s *Scenario) Validate() error {
	if s.MapRadius < MinMapRadius {
		return fmt.Errorf("%w: map radius %d is less than %d", ErrInvalidScenario, s.MapRadius, MinMapRadius)
	}
	if s.PlayersCount != PlayersCount {
		return fmt.Errorf("%w: %d players, only %d are supported", ErrInvalidScenario, s.PlayersCount, PlayersCount)
	}
	if s.Rocks < 0 {
		return fmt.Errorf("%w: negative rocks count", ErrInvalidScenario)
	}
	for i, g := range s.Objects {
		if g.Prototype == "" || g.Count < 0 {
			return fmt.Errorf("%w: objects group #%d needs a prototype and a non-negative count", ErrInvalidScenario, i)
		}
		if err := s.checkOwner(g.Owner); err != nil {
			return fmt.Errorf("objects group #%d: %w", i, err)
		}
	}
	for i, p := range s.ExactObjects {
		if p.Prototype == "" {
			return fmt.Errorf("%w: exact object #%d needs a prototype", ErrInvalidScenario, i)
		}
		if hexmap.Distance(hexmap.PosHex{}, p.Pos) > s.MapRadius {
			return fmt.Errorf("%w: exact object #%d at %v is off the map", ErrInvalidScenario, i, p.Pos)
		}
		if err := s.checkOwner(p.Owner); err != nil {
			return fmt.Errorf("exact object #%d: %w", i, err)
		}
	}
	for _, p := range s.AIPlayers {
		if err := s.checkOwner(&p); err != nil {
			return fmt.Errorf("ai player: %w", err)
		}
	}
	return nil
}

func (s *Scenario) checkOwner(owner *domain.PlayerID) error {
	if owner != nil && (*owner < 0 || int(*owner) >= s.PlayersCount) {
		return fmt.Errorf("%w: bad player id %d", ErrInvalidScenario, *owner)
	}
	return nil
}

// CheckPrototypes - все прототипы есть в таблице и у каждого игрока будут агенты
func (s *Scenario) CheckPrototypes(protos state.Prototypes) error {
	hasAgents := make([]bool, s.PlayersCount)
	mark := func(owner *domain.PlayerID, name string, count int) error {
		components, ok := protos[name]
		if !ok {
			return fmt.Errorf("%w: unknown prototype %q", ErrInvalidScenario, name)
		}
		if owner == nil || count == 0 {
			return nil
		}
		for _, c := range components {
			if _, isAgent := c.(domain.Agent); isAgent {
				hasAgents[*owner] = true
			}
		}
		return nil
	}
	for _, g := range s.Objects {
		if err := mark(g.Owner, g.Prototype, g.Count); err != nil {
			return err
		}
	}
	for _, p := range s.ExactObjects {
		if err := mark(p.Owner, p.Prototype, 1); err != nil {
			return err
		}
	}
	for player, ok := range hasAgents {
		if !ok {
			return fmt.Errorf("%w: player %d has no agents", ErrInvalidScenario, player)
		}
	}
	return nil
}

// Generate строит карту и расстановку. Одинаковое зерно дает одинаковый результат.
func (s *Scenario) Generate(rng *rand.Rand, protos state.Prototypes) (*Generated, error) {
	if err := s.CheckPrototypes(protos); err != nil {
		return nil, err
	}

	tiles := hexmap.NewFilled(s.MapRadius, domain.TilePlain)
	occupied := make(map[hexmap.PosHex]bool)
	gen := &Generated{Tiles: tiles}

	for _, p := range s.ExactObjects {
		if occupied[p.Pos] {
			return nil, fmt.Errorf("%w: two exact objects at %v", ErrInvalidScenario, p.Pos)
		}
		occupied[p.Pos] = true
		gen.Creates = append(gen.Creates, domain.CommandCreate{Owner: p.Owner, Pos: p.Pos, Prototype: p.Prototype})
	}

	positions := tiles.Iter()
	for range min(s.Rocks, len(positions)) {
		tiles.Set(positions[rng.Intn(len(positions))], domain.TileRocks)
	}

	for _, g := range s.Objects {
		for range g.Count {
			pos, ok := randomFreePos(rng, tiles, occupied, g.Owner, g.Line)
			if !ok {
				return nil, fmt.Errorf("%w: %s on line %s", ErrNoFreeTile, g.Prototype, g.Line)
			}
			occupied[pos] = true
			gen.Creates = append(gen.Creates, domain.CommandCreate{Owner: g.Owner, Pos: pos, Prototype: g.Prototype})
		}
	}
	return gen, nil
}

func randomFreePos(rng *rand.Rand, tiles *hexmap.HexMap[domain.TileType], occupied map[hexmap.PosHex]bool, owner *domain.PlayerID, line Line) (hexmap.PosHex, bool) {
	var candidates []hexmap.PosHex
	for _, pos := range tiles.Iter() {
		if !occupied[pos] && onLine(pos, tiles.Radius(), owner, line) {
			candidates = append(candidates, pos)
		}
	}
	if len(candidates) == 0 {
		return hexmap.PosHex{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// onLine: игрок 0 стоит на стороне отрицательных Q, игрок 1 - положительных.
// Front - две ближайшие к центру колонки своей половины, Middle - центральная полоса.
func onLine(pos hexmap.PosHex, radius int, owner *domain.PlayerID, line Line) bool {
	if line == LineMiddle {
		return pos.Q >= -1 && pos.Q <= 1
	}
	if owner == nil {
		return line == LineAny || (pos.Q >= -1 && pos.Q <= 1)
	}
	side := pos.Q
	if *owner == 0 {
		side = -pos.Q
	}
	switch line {
	case LineFront:
		return side >= 2 && side <= min(3, radius)
	default:
		return side >= 2
	}
}
