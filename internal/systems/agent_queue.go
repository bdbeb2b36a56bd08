package systems

import (
	"container/heap"

	"zemeroth-core/internal/domain"
)

// AgentItem обертка для элемента очереди приоритетов
type AgentItem struct {
	ID       domain.ObjID
	Priority int // Расстояние до ближайшего врага. Чем меньше, тем раньше ход.
}

// AgentQueue реализует heap.Interface: передовые агенты ходят первыми.
type AgentQueue []*AgentItem

func (pq AgentQueue) Len() int { return len(pq) }

func (pq AgentQueue) Less(i, j int) bool {
	// MinHeap; при равном расстоянии - по ID, чтобы порядок не зависел от кучи
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].ID < pq[j].ID
}

func (pq AgentQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *AgentQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*AgentItem))
}

func (pq *AgentQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// Drain выталкивает все ID в порядке приоритета
func (pq *AgentQueue) Drain() []domain.ObjID {
	out := make([]domain.ObjID, 0, pq.Len())
	for pq.Len() > 0 {
		out = append(out, heap.Pop(pq).(*AgentItem).ID)
	}
	return out
}
