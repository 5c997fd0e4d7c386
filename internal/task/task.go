package task

import (
	"strings"
	"time"
)

// Task represents a single entry in the to-do list.
type Task struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// List is an ordered to-do list. Insertion order is preserved and IDs are
// unique within a list. Mutating operations return a new List and leave the
// receiver untouched.
type List []Task

// Allocator issues unique task IDs derived from the current time in
// milliseconds. Two allocations in the same millisecond never collide: the
// second is bumped to one past the last issued value.
type Allocator struct {
	now  func() time.Time
	last int64
}

// NewAllocator returns an Allocator using the real clock.
func NewAllocator() *Allocator {
	return &Allocator{now: time.Now}
}

// NewAllocatorWithClock returns an Allocator using the given clock.
func NewAllocatorWithClock(now func() time.Time) *Allocator {
	return &Allocator{now: now}
}

// Now returns the allocator's current clock reading in UTC.
func (a *Allocator) Now() time.Time {
	return a.now().UTC()
}

// Next returns a fresh unique ID.
func (a *Allocator) Next() int64 {
	id := a.now().UnixMilli()
	if id <= a.last {
		id = a.last + 1
	}
	a.last = id
	return id
}

// Observe records an existing ID so future allocations never reuse it.
// Call it for every task hydrated from storage.
func (a *Allocator) Observe(id int64) {
	if id > a.last {
		a.last = id
	}
}

// Add appends a new incomplete task with the given text. Leading and
// trailing whitespace is trimmed; if nothing remains, the list is returned
// unchanged and ok is false. An empty submission is not an error.
func (l List) Add(alloc *Allocator, text string) (next List, added Task, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return l, Task{}, false
	}
	now := alloc.Now()
	added = Task{
		ID:        alloc.Next(),
		Text:      text,
		CreatedAt: &now,
	}
	next = make(List, 0, len(l)+1)
	next = append(next, l...)
	next = append(next, added)
	return next, added, true
}

// Toggle flips the completed flag of the task with the given ID. If no task
// has that ID the list is returned unchanged and ok is false.
func (l List) Toggle(id int64) (next List, ok bool) {
	i := l.index(id)
	if i < 0 {
		return l, false
	}
	next = make(List, len(l))
	copy(next, l)
	next[i].Completed = !next[i].Completed
	return next, true
}

// Remove drops the task with the given ID. If no task has that ID the list
// is returned unchanged and ok is false.
func (l List) Remove(id int64) (next List, ok bool) {
	i := l.index(id)
	if i < 0 {
		return l, false
	}
	next = make(List, 0, len(l)-1)
	next = append(next, l[:i]...)
	next = append(next, l[i+1:]...)
	return next, true
}

// Get returns the task with the given ID, or nil if not found. The returned
// pointer aliases the list; treat it as read-only.
func (l List) Get(id int64) *Task {
	i := l.index(id)
	if i < 0 {
		return nil
	}
	return &l[i]
}

// Len returns the number of tasks.
func (l List) Len() int {
	return len(l)
}

// Counts returns the number of active and completed tasks.
func (l List) Counts() (active, completed int) {
	for i := range l {
		if l[i].Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

func (l List) index(id int64) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
