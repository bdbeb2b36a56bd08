package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/internal/systems"
	"zemeroth-core/pkg/hexmap"
	"zemeroth-core/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrCommandLimit = errors.New("command limit reached")
	ErrNotAITurn    = errors.New("current player is not controlled by AI")
)

// Setup - стартовые условия боя: карта, прототипы, расстановка и кто играет за AI
type Setup struct {
	Tiles        *hexmap.HexMap[domain.TileType]
	PlayersCount int
	Prototypes   state.Prototypes
	Creates      []domain.CommandCreate
	AIPlayers    []domain.PlayerID
}

// Battle - сессия одного боя: состояние, исполнитель, AI и журнал.
type Battle struct {
	ID uuid.UUID

	cfg      Config
	state    *state.State
	executor *Executor
	ais      map[domain.PlayerID]*systems.AI
	observer Observer

	events   []domain.Event
	commands []domain.Command // команды после расстановки

	log *logrus.Entry
}

// NewBattle создает состояние и расставляет объекты командами Create
func NewBattle(cfg Config, setup Setup, metrics *Metrics) (*Battle, error) {
	if cfg.MaxCommands <= 0 {
		cfg.MaxCommands = DefaultMaxCommands
	}
	id := uuid.New()
	b := &Battle{
		ID:  id,
		cfg: cfg,
		state: state.New(state.Config{
			Tiles:         setup.Tiles,
			PlayersCount:  setup.PlayersCount,
			Prototypes:    setup.Prototypes,
			Deterministic: cfg.DeterministicMode,
		}),
		executor: NewExecutor(cfg, metrics),
		ais:      make(map[domain.PlayerID]*systems.AI),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "battle",
			"battle_id": id.String(),
			"seed":      cfg.Seed,
		}),
	}

	for _, player := range setup.AIPlayers {
		rng := rand.New(rand.NewSource(cfg.aiSeed(int(player))))
		b.ais[player] = systems.NewAI(player, setup.Tiles.Radius(), rng)
	}

	for i, cmd := range setup.Creates {
		events, err := b.executor.Execute(b.state, cmd, nil)
		if err != nil {
			return nil, fmt.Errorf("placement %d (%s at %v): %w", i, cmd.Prototype, cmd.Pos, err)
		}
		b.events = append(b.events, events...)
	}

	b.log.WithFields(logrus.Fields{
		"objects": b.state.Parts().Pos.Len(),
		"ai":      setup.AIPlayers,
	}).Info("Battle created")
	return b, nil
}

// SetObserver подключает наблюдателя ко всем следующим командам
func (b *Battle) SetObserver(o Observer) {
	b.observer = o
}

// State - состояние только для чтения
func (b *Battle) State() *state.State {
	return b.state
}

func (b *Battle) Events() []domain.Event {
	return b.events
}

func (b *Battle) Commands() []domain.Command {
	return b.commands
}

func (b *Battle) Result() (domain.BattleResult, bool) {
	return b.state.BattleResult()
}

// Execute выполняет команду игрока. Отклоненные команды в журнал не попадают.
func (b *Battle) Execute(cmd domain.Command) ([]domain.Event, error) {
	events, err := b.executor.Execute(b.state, cmd, b.observer)
	b.events = append(b.events, events...)
	if err != nil && !errors.Is(err, ErrStateCorrupted) {
		return nil, err
	}
	b.commands = append(b.commands, cmd)
	return events, err
}

// IsAITurn - ходит игрок под управлением AI
func (b *Battle) IsAITurn() bool {
	_, ok := b.ais[b.state.PlayerID()]
	return ok && !b.state.IsBattleOver()
}

// RunAI выполняет команды AI, пока ход у AI-игрока и бой не окончен
func (b *Battle) RunAI() error {
	for b.IsAITurn() {
		if len(b.commands) >= b.cfg.MaxCommands {
			b.log.WithField("max_commands", b.cfg.MaxCommands).Warn("Battle stopped by command limit")
			return ErrCommandLimit
		}
		cmd := b.ais[b.state.PlayerID()].Command(b.state)
		if _, err := b.Execute(cmd); err != nil {
			return fmt.Errorf("ai %s: %w", b.state.PlayerID(), err)
		}
	}
	return nil
}

// StepAI выполняет одну команду AI
func (b *Battle) StepAI() ([]domain.Event, error) {
	if !b.IsAITurn() {
		return nil, ErrNotAITurn
	}
	return b.Execute(b.ais[b.state.PlayerID()].Command(b.state))
}
