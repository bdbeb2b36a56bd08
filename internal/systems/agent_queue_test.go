package systems

import (
	"container/heap"
	"testing"

	"zemeroth-core/internal/domain"
)

func TestAgentQueue(t *testing.T) {
	pq := make(AgentQueue, 0)
	heap.Init(&pq)

	item1 := &AgentItem{ID: 1, Priority: 3}
	item2 := &AgentItem{ID: 2, Priority: 1}
	item3 := &AgentItem{ID: 3, Priority: 5}

	heap.Push(&pq, item1)
	heap.Push(&pq, item2)
	heap.Push(&pq, item3)

	if pq.Len() != 3 {
		t.Errorf("Expected length 3, got %d", pq.Len())
	}

	// Ближе всех к врагу #2
	first := heap.Pop(&pq).(*AgentItem)
	if first.ID != 2 {
		t.Errorf("Expected #2, got %s", first.ID)
	}

	second := heap.Pop(&pq).(*AgentItem)
	if second.ID != 1 {
		t.Errorf("Expected #1 (distance 3), got %s", second.ID)
	}

	third := heap.Pop(&pq).(*AgentItem)
	if third.ID != 3 {
		t.Errorf("Expected #3 (distance 5), got %s", third.ID)
	}
}

func TestAgentQueueTiesByID(t *testing.T) {
	pq := make(AgentQueue, 0)
	for _, id := range []domain.ObjID{5, 2, 9, 1} {
		heap.Push(&pq, &AgentItem{ID: id, Priority: 2})
	}
	heap.Push(&pq, &AgentItem{ID: 7, Priority: 1})

	got := pq.Drain()
	want := []domain.ObjID{7, 1, 2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("Drain() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain() = %v, want %v", got, want)
		}
	}
	if pq.Len() != 0 {
		t.Errorf("queue is not empty after Drain: %d", pq.Len())
	}
}
