// Package events carries research notifications from the progression
// driver to whoever surfaces them to players.
package events

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/napolitain/techtree/internal/models"
)

// Kind represents the type of research event
type Kind int

const (
	KindDiscovery    Kind = iota // a technology was granted
	KindLevelAdvance             // a category's level rose with nothing left to draw
)

// String returns a string representation of the event kind
func (k Kind) String() string {
	switch k {
	case KindDiscovery:
		return "Discovery"
	case KindLevelAdvance:
		return "LevelAdvance"
	default:
		return "Unknown"
	}
}

// Priority returns the processing priority for this kind.
// Lower priority = delivered first within a turn and realm.
func (k Kind) Priority() int {
	switch k {
	case KindDiscovery:
		return 0
	case KindLevelAdvance:
		return 1
	default:
		return 99
	}
}

// Event is one research notification
type Event struct {
	Turn     int
	Realm    int
	Kind     Kind
	Name     string // technology name, empty for level advances
	Category models.Category
	Level    int   // slot level of the discovery, or the new level
	Sequence int64 // insertion order within the feed
}

// String returns a one-line description
func (e Event) String() string {
	switch e.Kind {
	case KindDiscovery:
		return fmt.Sprintf("turn %d realm %d: discovered %s (%s %d)", e.Turn, e.Realm, e.Name, e.Category, e.Level)
	case KindLevelAdvance:
		return fmt.Sprintf("turn %d realm %d: %s advanced to level %d", e.Turn, e.Realm, e.Category, e.Level)
	default:
		return fmt.Sprintf("turn %d realm %d: %s", e.Turn, e.Realm, e.Kind)
	}
}

// eventHeap implements heap.Interface for min-heap of Events
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Turn != h[j].Turn {
		return h[i].Turn < h[j].Turn
	}
	if h[i].Realm != h[j].Realm {
		return h[i].Realm < h[j].Realm
	}
	if h[i].Kind.Priority() != h[j].Kind.Priority() {
		return h[i].Kind.Priority() < h[j].Kind.Priority()
	}
	return h[i].Sequence < h[j].Sequence
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Feed is an ordered event sink. Events come out sorted by
// (Turn, Realm, Priority, Sequence), so realms running in parallel still
// produce a deterministic stream. Safe for concurrent use.
type Feed struct {
	mu  sync.Mutex
	h   eventHeap
	seq int64
}

// NewFeed creates a new empty feed
func NewFeed() *Feed {
	f := &Feed{h: make(eventHeap, 0)}
	heap.Init(&f.h)
	return f
}

// Notify adds an event, assigning its sequence number
func (f *Feed) Notify(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.Sequence = f.seq
	heap.Push(&f.h, e)
}

// Pop removes and returns the first event. ok is false on an empty feed.
func (f *Feed) Pop() (e Event, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.h) == 0 {
		return Event{}, false
	}
	return heap.Pop(&f.h).(Event), true
}

// Peek returns the first event without removing it
func (f *Feed) Peek() (e Event, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.h) == 0 {
		return Event{}, false
	}
	return f.h[0], true
}

// Drain removes and returns every event in order
func (f *Feed) Drain() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, 0, len(f.h))
	for len(f.h) > 0 {
		out = append(out, heap.Pop(&f.h).(Event))
	}
	return out
}

// Len returns the number of pending events
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.h)
}

// Empty returns true if the feed has no events
func (f *Feed) Empty() bool {
	return f.Len() == 0
}

// Clear removes all events
func (f *Feed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.h = f.h[:0]
}
