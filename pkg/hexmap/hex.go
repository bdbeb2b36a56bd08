// pkg/hexmap/hex.go
package hexmap

import "fmt"

// PosHex - позиция гекса в осевых координатах (Q, R)
type PosHex struct {
	Q int `yaml:"q" json:"q"`
	R int `yaml:"r" json:"r"`
}

func (p PosHex) String() string {
	return fmt.Sprintf("(%d,%d)", p.Q, p.R)
}

// Add возвращает сумму двух гексов
func (p PosHex) Add(other PosHex) PosHex {
	return PosHex{Q: p.Q + other.Q, R: p.R + other.R}
}

// Sub возвращает разность двух гексов
func (p PosHex) Sub(other PosHex) PosHex {
	return PosHex{Q: p.Q - other.Q, R: p.R - other.R}
}

// Dir - одно из шести направлений соседства
type Dir uint8

const (
	DirEast Dir = iota
	DirNorthEast
	DirNorthWest
	DirWest
	DirSouthWest
	DirSouthEast
)

// Порядок важен: повороты считаются по индексу.
var dirOffsets = [6]PosHex{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// Dirs возвращает все направления в фиксированном порядке
func Dirs() [6]Dir {
	return [6]Dir{DirEast, DirNorthEast, DirNorthWest, DirWest, DirSouthWest, DirSouthEast}
}

// Offset - смещение для направления
func (d Dir) Offset() PosHex {
	return dirOffsets[d]
}

// Opposite - противоположное направление
func (d Dir) Opposite() Dir {
	return (d + 3) % 6
}

// DirTo возвращает направление от from к соседнему гексу to.
// Второе значение false, если гексы не соседи.
func DirTo(from, to PosHex) (Dir, bool) {
	diff := to.Sub(from)
	for i, off := range dirOffsets {
		if off == diff {
			return Dir(i), true
		}
	}
	return 0, false
}

// Neighbor возвращает соседа в заданном направлении (без проверки границ карты)
func Neighbor(p PosHex, d Dir) PosHex {
	return p.Add(d.Offset())
}

// Neighbors возвращает всех возможных соседей гекса
func Neighbors(p PosHex) [6]PosHex {
	var out [6]PosHex
	for i, off := range dirOffsets {
		out[i] = p.Add(off)
	}
	return out
}

// cube - кубические координаты (x + y + z == 0)
type cube struct {
	X, Y, Z int
}

func toCube(p PosHex) cube {
	return cube{X: p.Q, Y: -p.Q - p.R, Z: p.R}
}

// Distance вычисляет расстояние между гексами через кубические координаты
func Distance(a, b PosHex) int {
	ca, cb := toCube(a), toCube(b)
	return (abs(ca.X-cb.X) + abs(ca.Y-cb.Y) + abs(ca.Z-cb.Z)) / 2
}

// IsAdjacent - true, если гексы соседи
func IsAdjacent(a, b PosHex) bool {
	return Distance(a, b) == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
