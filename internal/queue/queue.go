// Package queue holds the ordered list of scenes the viewer plays.
package queue

import (
	"math/rand/v2"

	"github.com/olivier-w/fieldviz/internal/scene"
)

// EntryState represents the playback state of a scene entry.
type EntryState int

const (
	Queued EntryState = iota
	Playing
	Played
)

// Entry is a single scene in the queue.
type Entry struct {
	Scene *scene.Scene
	State EntryState
}

// Title returns the display title of the entry.
func (e Entry) Title() string {
	return e.Scene.Title
}

// Queue manages an ordered list of scenes.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	entries      []Entry
	current      int
	shuffleOrder []int // maps shuffle position → entry index
	shufflePos   int
	shuffled     bool
	rng          *rand.Rand
}

// New creates a Queue from the given scenes with the first one current.
func New(scenes []*scene.Scene) *Queue {
	entries := make([]Entry, len(scenes))
	for i, s := range scenes {
		entries[i] = Entry{Scene: s}
	}
	if len(entries) > 0 {
		entries[0].State = Playing
	}
	return &Queue{entries: entries, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// SetRand replaces the shuffle source.
func (q *Queue) SetRand(r *rand.Rand) { q.rng = r }

// Current returns the current entry, or nil if empty.
func (q *Queue) Current() *Entry {
	return q.Entry(q.current)
}

// Next returns the entry after the current one in playback order, or nil at
// the end.
func (q *Queue) Next() *Entry {
	if q.shuffled {
		if q.shufflePos+1 >= len(q.shuffleOrder) {
			return nil
		}
		return q.Entry(q.shuffleOrder[q.shufflePos+1])
	}
	return q.Entry(q.current + 1)
}

// Advance moves to the next entry in playback order. Returns false if
// already at the end.
func (q *Queue) Advance() bool {
	if q.shuffled {
		if q.shufflePos+1 >= len(q.shuffleOrder) {
			return false
		}
		q.move(q.shuffleOrder[q.shufflePos+1])
		q.shufflePos++
		return true
	}
	if q.current+1 >= len(q.entries) {
		return false
	}
	q.move(q.current + 1)
	return true
}

// Previous moves back one entry in playback order. Returns false if already
// at the start.
func (q *Queue) Previous() bool {
	if q.shuffled {
		if q.shufflePos <= 0 {
			return false
		}
		q.shufflePos--
		q.move(q.shuffleOrder[q.shufflePos])
		return true
	}
	if q.current <= 0 {
		return false
	}
	q.move(q.current - 1)
	return true
}

func (q *Queue) move(i int) {
	if e := q.Entry(q.current); e != nil && e.State == Playing {
		e.State = Played
	}
	q.current = i
	if e := q.Entry(i); e != nil {
		e.State = Playing
	}
}

// Peek returns up to n entries after the current one.
func (q *Queue) Peek(n int) []Entry {
	start := q.current + 1
	if start >= len(q.entries) {
		return nil
	}
	end := min(start+n, len(q.entries))
	result := make([]Entry, end-start)
	copy(result, q.entries[start:end])
	return result
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// CurrentIndex returns the zero-based index of the current entry.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetCurrentIndex jumps to entry i and syncs the shuffle position.
func (q *Queue) SetCurrentIndex(i int) {
	if i < 0 || i >= len(q.entries) {
		return
	}
	q.move(i)
	for pos, idx := range q.shuffleOrder {
		if idx == i {
			q.shufflePos = pos
		}
	}
}

// IndexOf returns the index of the scene called name, or -1.
func (q *Queue) IndexOf(name string) int {
	for i, e := range q.entries {
		if e.Scene.Name == name {
			return i
		}
	}
	return -1
}

// WrapToStart positions the queue so that Advance moves to the first entry
// in playback order. Used for RepeatAll wrap-around.
func (q *Queue) WrapToStart() {
	if e := q.Entry(q.current); e != nil && e.State == Playing {
		e.State = Played
	}
	if q.shuffled {
		q.shufflePos = -1
		return
	}
	q.current = -1
}

// Entry returns the entry at index i, or nil if out of range.
func (q *Queue) Entry(i int) *Entry {
	if i < 0 || i >= len(q.entries) {
		return nil
	}
	return &q.entries[i]
}

// IsShuffled returns whether shuffle mode is active.
func (q *Queue) IsShuffled() bool {
	return q.shuffled
}

// EnableShuffle activates shuffle mode. The current entry stays first in the
// shuffle order and the rest are permuted.
func (q *Queue) EnableShuffle() {
	n := len(q.entries)
	if n <= 1 {
		return
	}
	q.current = max(q.current, 0)
	rest := make([]int, 0, n-1)
	for i := range n {
		if i != q.current {
			rest = append(rest, i)
		}
	}
	q.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	q.shuffleOrder = append([]int{q.current}, rest...)
	q.shufflePos = 0
	q.shuffled = true
}

// DisableShuffle deactivates shuffle mode, keeping the current entry.
func (q *Queue) DisableShuffle() {
	q.shuffled = false
	q.shuffleOrder = nil
	q.shufflePos = 0
}
