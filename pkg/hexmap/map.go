// pkg/hexmap/map.go
package hexmap

// HexMap - плотный массив значений T для всех гексов в пределах радиуса.
// Хранится квадратом (2r+1)^2, клетки вне радиуса просто не используются.
type HexMap[T any] struct {
	radius int
	size   int
	tiles  []T

	// Детерминированный порядок обхода: по Q, затем по R.
	order []PosHex
}

// New создает карту, заполненную нулевыми значениями T
func New[T any](radius int) *HexMap[T] {
	size := radius*2 + 1
	m := &HexMap[T]{
		radius: radius,
		size:   size,
		tiles:  make([]T, size*size),
	}
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			p := PosHex{Q: q, R: r}
			if m.IsInside(p) {
				m.order = append(m.order, p)
			}
		}
	}
	return m
}

// NewFilled создает карту, где каждая клетка равна value
func NewFilled[T any](radius int, value T) *HexMap[T] {
	m := New[T](radius)
	m.Fill(value)
	return m
}

func (m *HexMap[T]) Radius() int {
	return m.radius
}

// IsInside проверяет, что позиция лежит в пределах радиуса карты
func (m *HexMap[T]) IsInside(p PosHex) bool {
	return Distance(PosHex{}, p) <= m.radius
}

func (m *HexMap[T]) index(p PosHex) int {
	if !m.IsInside(p) {
		panic("hexmap: position " + p.String() + " is out of bounds")
	}
	return (p.Q+m.radius)*m.size + (p.R + m.radius)
}

// Get возвращает значение клетки. Паникует, если позиция вне карты.
func (m *HexMap[T]) Get(p PosHex) T {
	return m.tiles[m.index(p)]
}

// Set записывает значение клетки. Паникует, если позиция вне карты.
func (m *HexMap[T]) Set(p PosHex, v T) {
	m.tiles[m.index(p)] = v
}

// Fill записывает value во все клетки
func (m *HexMap[T]) Fill(value T) {
	for i := range m.tiles {
		m.tiles[i] = value
	}
}

// Iter возвращает все позиции карты в фиксированном порядке.
// Слайс общий, его нельзя менять.
func (m *HexMap[T]) Iter() []PosHex {
	return m.order
}

// Len - количество клеток в пределах радиуса
func (m *HexMap[T]) Len() int {
	return len(m.order)
}
