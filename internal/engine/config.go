package engine

import "time"

// DefaultMaxCommands - предохранитель от бесконечного боя двух AI
const DefaultMaxCommands = 5000

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят генерация сценария, кубики и решения AI.
	Seed int64
	// DeterministicMode - каждый бросок обязан быть однозначным (тесты)
	DeterministicMode bool
	// RecoverInvariants - нарушение инварианта превращается в ErrStateCorrupted
	// и отчет в логе, а не в падение процесса
	RecoverInvariants bool
	// MaxCommands - сколько команд Battle.RunAI выполнит, прежде чем сдаться
	MaxCommands int
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:              time.Now().UnixNano(),
		RecoverInvariants: true,
		MaxCommands:       DefaultMaxCommands,
	}
}

// Производные зерна: у каждого потребителя случайности свой генератор,
// чтобы решения AI не сдвигали кубики и наоборот.
// ScenarioSeed - зерно генерации карты и расстановки
func (c Config) ScenarioSeed() int64 { return c.Seed }

func (c Config) diceSeed() int64 { return c.Seed + 1 }

func (c Config) aiSeed(player int) int64 { return c.Seed + 2 + int64(player) }
