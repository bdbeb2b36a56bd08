package scenario

import (
	_ "embed"

	"zemeroth-core/internal/state"
)

var (
	//go:embed data/objects.yaml
	defaultPrototypes []byte

	//go:embed data/scenario.yaml
	defaultScenario []byte
)

// DefaultPrototypes - встроенная таблица прототипов
func DefaultPrototypes() (state.Prototypes, error) {
	return LoadPrototypes(defaultPrototypes)
}

// DefaultScenario - встроенный сценарий: две армии на карте радиуса 5
func DefaultScenario() (*Scenario, error) {
	return Load(defaultScenario)
}
