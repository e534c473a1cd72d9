package history

import (
	"sync"

	"task-tracker-api/internal/models"
)

const nilHandle = -1

// node is one arena slot. prev/next are handles into Tracker.nodes.
type node struct {
	item models.Item
	prev int
	next int
}

// Options controls construction of a Tracker.
type Options struct {
	// Capacity bounds the number of entries; the least recently viewed entry is evicted first.
	// Zero or negative means unbounded.
	Capacity int

	// ConcurrencySafe guards every operation with a mutex. Leave it off when the owner already
	// serializes access.
	ConcurrencySafe bool
}

// Tracker keeps snapshots of recently viewed items, one per id, ordered by recency.
// It is a doubly linked list laid out in an arena with an id -> handle index, so appending,
// moving an entry to the tail and removing an arbitrary entry are all O(1).
type Tracker struct {
	// If muPtr is nil, the tracker is NOT goroutine-safe.
	muPtr *sync.Mutex

	capacity int
	nodes    []node
	free     []int
	index    map[int]int
	head     int // least recently viewed
	tail     int // most recently viewed
}

func New(opts Options) *Tracker {
	var mu *sync.Mutex
	if opts.ConcurrencySafe {
		mu = &sync.Mutex{}
	}
	return &Tracker{
		muPtr:    mu,
		capacity: opts.Capacity,
		index:    make(map[int]int),
		head:     nilHandle,
		tail:     nilHandle,
	}
}

func (t *Tracker) lock() func() {
	if t.muPtr == nil {
		return func() {}
	}
	t.muPtr.Lock()
	return t.muPtr.Unlock
}

// Record stores a snapshot of item as the most recently viewed entry, replacing any earlier
// entry with the same id.
func (t *Tracker) Record(item models.Item) {
	if item == nil {
		return
	}
	unlock := t.lock()
	defer unlock()

	snap := item.Snapshot()
	t.unlink(snap.Identity())
	t.linkLast(snap)

	if t.capacity > 0 && len(t.index) > t.capacity {
		t.unlink(t.nodes[t.head].item.Identity())
	}
}

// Remove drops the entry for id. Unknown ids are ignored.
func (t *Tracker) Remove(id int) {
	unlock := t.lock()
	defer unlock()
	t.unlink(id)
}

// List returns the entries most recent first. The returned items are copies.
func (t *Tracker) List() []models.Item {
	unlock := t.lock()
	defer unlock()

	out := make([]models.Item, 0, len(t.index))
	for h := t.tail; h != nilHandle; h = t.nodes[h].prev {
		out = append(out, t.nodes[h].item.Snapshot())
	}
	return out
}

func (t *Tracker) Len() int {
	unlock := t.lock()
	defer unlock()
	return len(t.index)
}

// Clear drops every entry and releases the arena.
func (t *Tracker) Clear() {
	unlock := t.lock()
	defer unlock()
	t.nodes = nil
	t.free = nil
	t.index = make(map[int]int)
	t.head = nilHandle
	t.tail = nilHandle
}

func (t *Tracker) linkLast(item models.Item) {
	h := t.alloc(node{item: item, prev: t.tail, next: nilHandle})
	if t.tail == nilHandle {
		t.head = h
	} else {
		t.nodes[t.tail].next = h
	}
	t.tail = h
	t.index[item.Identity()] = h
}

func (t *Tracker) unlink(id int) {
	h, ok := t.index[id]
	if !ok {
		return
	}
	n := t.nodes[h]

	if n.prev == nilHandle {
		t.head = n.next
	} else {
		t.nodes[n.prev].next = n.next
	}
	if n.next == nilHandle {
		t.tail = n.prev
	} else {
		t.nodes[n.next].prev = n.prev
	}

	delete(t.index, id)
	t.release(h)
}

func (t *Tracker) alloc(n node) int {
	if k := len(t.free); k > 0 {
		h := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tracker) release(h int) {
	t.nodes[h] = node{prev: nilHandle, next: nilHandle}
	t.free = append(t.free, h)
}
