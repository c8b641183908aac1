// Package history is an undo/redo checkpoint store for editor state.
// It is an explicit value, not a global: each editing context owns its
// own List.
package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gekko3d/rigkit"
)

type CheckpointId string

// State is what a checkpoint stores: a value that can deep-copy
// itself. Restoring always hands out a fresh copy, so later edits to
// the live state never reach into stored checkpoints.
type State[T any] interface {
	Clone() T
}

// Checkpoint is an immutable snapshot: the state, when it was taken,
// and the events that led to it since the previous checkpoint.
type Checkpoint[T State[T]] struct {
	id        CheckpointId
	timestamp time.Time
	state     T
	events    []string
}

func newCheckpoint[T State[T]](live T, events []string) *Checkpoint[T] {
	c := &Checkpoint[T]{
		id:        CheckpointId(uuid.NewString()),
		timestamp: time.Now(),
		state:     live.Clone(),
	}
	c.events = append(c.events, events...)
	return c
}

func (c *Checkpoint[T]) Id() CheckpointId {
	return c.id
}

func (c *Checkpoint[T]) Timestamp() time.Time {
	return c.timestamp
}

// Events lists what happened since the previous checkpoint.
func (c *Checkpoint[T]) Events() []string {
	out := make([]string, len(c.events))
	copy(out, c.events)
	return out
}

// Restore returns a fresh copy of the stored state.
func (c *Checkpoint[T]) Restore() T {
	return c.state.Clone()
}

// List is an edit history: checkpoint slots plus a cursor (the next
// slot to fill). Slots at or past the cursor are "vulnerable" - they
// are the redo stack, and adding a new checkpoint discards them.
type List[T State[T]] struct {
	mu        sync.Mutex
	log       rigkit.Logger
	autoAdd   bool
	nextIndex int
	slots     []*Checkpoint[T]
	events    []string
}

// NewList starts an empty history with auto-add enabled. A nil logger
// is replaced with a no-op one.
func NewList[T State[T]](log rigkit.Logger) *List[T] {
	if log == nil {
		log = rigkit.NewNopLogger()
	}
	return &List[T]{log: log, autoAdd: true}
}

// Add checkpoints the live state into the next slot, discarding any
// vulnerable checkpoints so the new one is also the last. Returns the
// new checkpoint's slot index.
func (l *List[T]) Add(live T) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(live)
}

func (l *List[T]) add(live T) int {
	for len(l.slots) > l.nextIndex {
		last := len(l.slots) - 1
		l.slots = l.slots[:last]
		l.log.Infof("discard checkpoint [%d]", last)
	}

	l.slots = append(l.slots, newCheckpoint(live, l.events))
	l.events = nil
	l.log.Infof("add checkpoint [%d]", l.nextIndex)

	result := l.nextIndex
	l.nextIndex++
	return result
}

// AutoAdd checkpoints the live state only when auto-add mode is on.
// Callers invoke it before every destructive edit.
func (l *List[T]) AutoAdd(live T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.autoAdd {
		l.add(live)
	}
}

// AddEvent records a description of an edit since the last checkpoint.
func (l *List[T]) AddEvent(description string) {
	if description == "" {
		panic("empty event description")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.Infof("%s", description)
	l.events = append(l.events, description)
}

// RecentEvents lists the events recorded since the last checkpoint.
func (l *List[T]) RecentEvents() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// Undo restores the checkpoint before the cursor. Undoing from the tip
// (no vulnerable checkpoints) first snapshots the live state so the
// position can be redone to.
func (l *List[T]) Undo(live T) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	noneVulnerable := len(l.slots) == l.nextIndex
	if l.nextIndex > 1 || (noneVulnerable && l.nextIndex > 0) {
		if noneVulnerable {
			l.slots = append(l.slots, newCheckpoint(live, l.events))
			l.log.Infof("add checkpoint [%d]", l.nextIndex)
		} else {
			l.nextIndex--
		}
		getIndex := l.nextIndex - 1
		l.events = nil
		l.log.Infof("undo to [%d]", getIndex)
		return l.slots[getIndex].Restore(), true
	}

	l.log.Infof("nothing to undo")
	var zero T
	return zero, false
}

// Redo restores the checkpoint at the cursor, if there is one, and
// advances past it.
func (l *List[T]) Redo() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.slots) > l.nextIndex {
		c := l.slots[l.nextIndex]
		l.events = nil
		l.log.Infof("redo to [%d]", l.nextIndex)
		l.nextIndex++
		return c.Restore(), true
	}

	l.log.Infof("nothing to redo")
	var zero T
	return zero, false
}

// RedoAll restores the final checkpoint and moves the cursor past it.
func (l *List[T]) RedoAll() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.slots) > l.nextIndex {
		last := len(l.slots) - 1
		l.events = nil
		l.log.Infof("redo to [%d]", last)
		l.nextIndex = len(l.slots)
		return l.slots[last].Restore(), true
	}

	l.log.Infof("nothing to redo")
	var zero T
	return zero, false
}

// Clear discards all checkpoints and pending events.
func (l *List[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextIndex = 0
	l.slots = nil
	l.events = nil
}

func (l *List[T]) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// NextIndex is the cursor: the slot the next checkpoint will fill.
func (l *List[T]) NextIndex() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextIndex
}

// HasVulnerable reports whether Add would discard any checkpoints.
func (l *List[T]) HasVulnerable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots) > l.nextIndex
}

// Checkpoint accesses a slot by index.
func (l *List[T]) Checkpoint(index int) *Checkpoint[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.slots) {
		panic(fmt.Sprintf("checkpoint index out of range: %d (history has %d)", index, len(l.slots)))
	}
	return l.slots[index]
}

func (l *List[T]) IsAutoAdd() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autoAdd
}

// SetAutoAdd switches between checkpointing before every edit and
// checkpointing only on demand.
func (l *List[T]) SetAutoAdd(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoAdd = enabled
}
