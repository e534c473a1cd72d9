package schedule

import (
	"time"

	"task-tracker-api/internal/models"

	"github.com/google/btree"
)

const degree = 8

type entry struct {
	start time.Time
	id    int
	item  models.Item
}

func less(a, b entry) bool {
	if !a.start.Equal(b.start) {
		return a.start.Before(b.start)
	}
	return a.id < b.id
}

// Index keeps every scheduled item ordered by start time, ties broken by id.
// An item is a member iff it has both a start time and a duration.
//
// Index is not safe for concurrent use; the owning store serializes access.
type Index struct {
	tree *btree.BTreeG[entry]
	byID map[int]entry
}

func New() *Index {
	return &Index{
		tree: btree.NewG[entry](degree, less),
		byID: make(map[int]entry),
	}
}

// Put removes any entry with the item's id, then inserts the item if it is scheduled.
func (x *Index) Put(item models.Item) {
	if item == nil {
		return
	}
	x.Remove(item.Identity())

	sch := item.Timing()
	if !sch.Scheduled() {
		return
	}
	e := entry{start: *sch.Start, id: item.Identity(), item: item}
	x.tree.ReplaceOrInsert(e)
	x.byID[e.id] = e
}

// Remove drops the entry for id, if any.
func (x *Index) Remove(id int) {
	e, ok := x.byID[id]
	if !ok {
		return
	}
	x.tree.Delete(e)
	delete(x.byID, id)
}

func (x *Index) Contains(id int) bool {
	_, ok := x.byID[id]
	return ok
}

func (x *Index) Len() int { return x.tree.Len() }

func (x *Index) Clear() {
	x.tree.Clear(false)
	x.byID = make(map[int]entry)
}

// Ascend returns the indexed items, earliest start first.
func (x *Index) Ascend() []models.Item {
	out := make([]models.Item, 0, x.tree.Len())
	x.tree.Ascend(func(e entry) bool {
		out = append(out, e.item)
		return true
	})
	return out
}

// Overlaps reports whether candidate's interval intersects any indexed item other than
// candidate itself (matched by id). Candidates without a full schedule never overlap.
func (x *Index) Overlaps(candidate models.Item) bool {
	if candidate == nil {
		return false
	}
	sch := candidate.Timing()
	if !sch.Scheduled() {
		return false
	}
	end, _ := sch.End()

	found := false
	x.tree.Ascend(func(e entry) bool {
		if e.start.After(end) {
			// every later entry starts after the candidate ends
			return false
		}
		if e.id == candidate.Identity() {
			return true
		}
		if sch.Overlaps(e.item.Timing()) {
			found = true
			return false
		}
		return true
	})
	return found
}
