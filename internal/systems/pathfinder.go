package systems

import (
	"container/heap"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"
)

// unreachable - стоимость клетки, до которой не добраться
const unreachable = int(^uint(0) >> 1)

// pathTile - клетка карты стоимостей
type pathTile struct {
	cost      int
	parent    hexmap.Dir // направление, откуда пришли
	hasParent bool
}

// Pathfinder хранит карту стоимостей последнего FillMap.
// Карта принадлежит искателю и переиспользуется между вызовами.
type Pathfinder struct {
	start hexmap.PosHex
	tiles *hexmap.HexMap[pathTile]
	queue pathQueue
	seq   int
}

func NewPathfinder(radius int) *Pathfinder {
	return &Pathfinder{tiles: hexmap.New[pathTile](radius)}
}

// TileCost - цена шага на клетку to: местность плюс надбавка за опасность
func TileCost(st *state.State, from, to hexmap.PosHex) int {
	cost := st.TileType(to).Cost()
	if len(st.HazardsAt(to)) > 0 {
		cost += domain.TileCostHazard
	}
	return cost
}

// CostFunc привязывает TileCost к состоянию
func CostFunc(st *state.State) domain.CostFunc {
	return func(from, to hexmap.PosHex) int {
		return TileCost(st, from, to)
	}
}

// PathCost - стоимость всего пути в текущем состоянии
func PathCost(st *state.State, path domain.Path) int {
	return path.CostFor(CostFunc(st))
}

// TruncatePath обрезает путь под очки движения агента
func TruncatePath(st *state.State, id domain.ObjID, path domain.Path) (domain.Path, bool) {
	agent := st.Parts().Agent.Get(id)
	return path.Truncate(CostFunc(st), agent.MovePoints)
}

// FillMap считает минимальную стоимость пути от позиции id до каждой клетки.
// Клетки с блокерами непроходимы.
func (p *Pathfinder) FillMap(st *state.State, id domain.ObjID) {
	domain.Invariant(st.MapRadius() == p.tiles.Radius(), "pathfinder radius %d != map radius %d", p.tiles.Radius(), st.MapRadius())

	p.tiles.Fill(pathTile{cost: unreachable})
	p.queue = p.queue[:0]
	p.seq = 0

	p.start = st.PosOf(id)
	p.tiles.Set(p.start, pathTile{cost: 0})
	p.push(p.start, 0)

	for p.queue.Len() > 0 {
		item := heap.Pop(&p.queue).(*pathItem)
		current := p.tiles.Get(item.pos)
		if item.cost > current.cost {
			continue // устаревшая запись
		}
		for _, dir := range hexmap.Dirs() {
			next := hexmap.Neighbor(item.pos, dir)
			if !st.IsInside(next) || st.IsTileBlocked(next) {
				continue
			}
			cost := current.cost + TileCost(st, item.pos, next)
			if cost < p.tiles.Get(next).cost {
				p.tiles.Set(next, pathTile{cost: cost, parent: dir.Opposite(), hasParent: true})
				p.push(next, cost)
			}
		}
	}
}

// Cost - стоимость пути до клетки по последнему FillMap
func (p *Pathfinder) Cost(pos hexmap.PosHex) (int, bool) {
	if !p.tiles.IsInside(pos) {
		return 0, false
	}
	cost := p.tiles.Get(pos).cost
	return cost, cost != unreachable
}

// Path восстанавливает путь до dest по карте последнего FillMap
func (p *Pathfinder) Path(dest hexmap.PosHex) (domain.Path, bool) {
	if _, ok := p.Cost(dest); !ok {
		return domain.Path{}, false
	}
	tiles := []hexmap.PosHex{dest}
	pos := dest
	for pos != p.start {
		tile := p.tiles.Get(pos)
		domain.Invariant(tile.hasParent, "broken path map at %v", pos)
		pos = hexmap.Neighbor(pos, tile.parent)
		tiles = append(tiles, pos)
	}
	for i, j := 0, len(tiles)-1; i < j; i, j = i+1, j-1 {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
	return domain.NewPath(tiles), true
}

func (p *Pathfinder) push(pos hexmap.PosHex, cost int) {
	p.seq++
	heap.Push(&p.queue, &pathItem{pos: pos, cost: cost, seq: p.seq})
}

// pathItem - запись очереди с приоритетом по стоимости.
// seq разрешает ничьи в порядке добавления, иначе путь зависел бы от кучи.
type pathItem struct {
	pos  hexmap.PosHex
	cost int
	seq  int
}

type pathQueue []*pathItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x interface{}) {
	*q = append(*q, x.(*pathItem))
}

func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return item
}
