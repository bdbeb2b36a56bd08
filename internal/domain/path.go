package domain

import "zemeroth-core/pkg/hexmap"

// Step - один шаг пути между соседними гексами
type Step struct {
	From hexmap.PosHex
	To   hexmap.PosHex
}

// CostFunc - стоимость шага для конкретного ходящего
type CostFunc func(from, to hexmap.PosHex) int

// Path - путь от текущей позиции (первая клетка) до цели (последняя)
type Path struct {
	Tiles []hexmap.PosHex
}

func NewPath(tiles []hexmap.PosHex) Path {
	return Path{Tiles: tiles}
}

func (p Path) Len() int {
	return len(p.Tiles)
}

func (p Path) From() hexmap.PosHex {
	return p.Tiles[0]
}

func (p Path) To() hexmap.PosHex {
	return p.Tiles[len(p.Tiles)-1]
}

// Steps разбивает путь на шаги
func (p Path) Steps() []Step {
	if len(p.Tiles) < 2 {
		return nil
	}
	steps := make([]Step, 0, len(p.Tiles)-1)
	for i := 1; i < len(p.Tiles); i++ {
		steps = append(steps, Step{From: p.Tiles[i-1], To: p.Tiles[i]})
	}
	return steps
}

// CostFor - суммарная стоимость всех шагов
func (p Path) CostFor(cost CostFunc) int {
	total := 0
	for _, step := range p.Steps() {
		total += cost(step.From, step.To)
	}
	return total
}

// Truncate оставляет самый длинный префикс, который укладывается в movePoints.
// false, если после обрезки двигаться некуда (осталась одна клетка).
func (p Path) Truncate(cost CostFunc, movePoints int) (Path, bool) {
	if len(p.Tiles) == 0 {
		return Path{}, false
	}
	tiles := []hexmap.PosHex{p.Tiles[0]}
	total := 0
	for _, step := range p.Steps() {
		total += cost(step.From, step.To)
		if total > movePoints {
			break
		}
		tiles = append(tiles, step.To)
	}
	if len(tiles) < 2 {
		return Path{}, false
	}
	return Path{Tiles: tiles}, true
}
