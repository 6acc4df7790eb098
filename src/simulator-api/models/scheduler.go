package models

import "container/heap"

type ScheduledFunc func()

type scheduledItem struct {
	due   uint64
	seq   uint64
	label string
	fn    ScheduledFunc
}

type scheduledHeap []*scheduledItem

func (h scheduledHeap) Len() int { return len(h) }

func (h scheduledHeap) Less(i, j int) bool {
	if h[i].due == h[j].due {
		return h[i].seq < h[j].seq
	}

	return h[i].due < h[j].due
}

func (h scheduledHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scheduledHeap) Push(x any) {
	*h = append(*h, x.(*scheduledItem))
}

func (h *scheduledHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Scheduler is a min-heap of deferred callbacks keyed by the tick they are
// due on. Callbacks due on the same tick run in the order they were scheduled.
type Scheduler struct {
	items scheduledHeap
	seq   uint64
}

func (s *Scheduler) Schedule(due uint64, label string, fn ScheduledFunc) {
	s.seq++
	heap.Push(&s.items, &scheduledItem{
		due:   due,
		seq:   s.seq,
		label: label,
		fn:    fn,
	})
}

// RunDue pops and runs every callback due at or before tick and returns how
// many ran.
func (s *Scheduler) RunDue(tick uint64) int {
	count := 0
	for len(s.items) > 0 && s.items[0].due <= tick {
		item := heap.Pop(&s.items).(*scheduledItem)
		item.fn()
		count++
	}

	return count
}

func (s *Scheduler) NextDue() (uint64, bool) {
	if len(s.items) == 0 {
		return 0, false
	}

	return s.items[0].due, true
}

func (s *Scheduler) Len() int {
	return len(s.items)
}

// Clear drops every pending callback without running it.
func (s *Scheduler) Clear() {
	s.items = nil
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}
