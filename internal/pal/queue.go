// Package pal serializes the companion's narration so only one message is
// ever on screen, emulating the typewriter presentation of the original UI.
package pal

import (
	"sync"
	"time"
)

type Category string

const (
	CategoryGreeting      Category = "greeting"
	CategoryEncouragement Category = "encouragement"
	CategoryReminder      Category = "reminder"
	CategorySuggestion    Category = "suggestion"
	CategoryInfo          Category = "info"
	CategoryAskResponse   Category = "askResponse"
)

type Message struct {
	Text     string
	Category Category
	At       time.Time
}

const (
	// TypingSpeed is the per-character display cost of the typewriter effect.
	TypingSpeed = 20 * time.Millisecond
	// PostTypingPause holds the finished message on screen before the slot
	// frees.
	PostTypingPause = 2 * time.Second
	// MinDisplay is the floor for very short messages.
	MinDisplay = time.Second
	// MaxLogEntries bounds the history ring; oldest entries are evicted.
	MaxLogEntries = 50
)

// Timer is the cancellable handle the queue holds while a message is shown.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the presenter by hand.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Queue holds pending narration. Enqueued messages accumulate without bound;
// the single display slot drains them one at a time, each shown for a
// duration sized to its text. The history ring keeps the last MaxLogEntries
// messages for the log panel.
type Queue struct {
	mu      sync.Mutex
	clock   Clock
	pending []Message
	history []Message
	current *Message
	timer   Timer

	subMu  sync.Mutex
	nextID int
	subs   map[int]func()
}

func NewQueue() *Queue {
	return NewQueueWithClock(realClock{})
}

func NewQueueWithClock(c Clock) *Queue {
	return &Queue{clock: c, subs: map[int]func(){}}
}

// Enqueue appends a message to the history log and the display queue. If the
// display slot is free the message presents immediately.
func (q *Queue) Enqueue(text string, category Category) {
	m := Message{Text: text, Category: category, At: q.clock.Now()}

	q.mu.Lock()
	q.history = append(q.history, m)
	if len(q.history) > MaxLogEntries {
		q.history = q.history[len(q.history)-MaxLogEntries:]
	}
	q.pending = append(q.pending, m)
	q.presentLocked()
	q.mu.Unlock()

	q.notify()
}

// Current returns the message occupying the display slot, or nil.
func (q *Queue) Current() *Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return nil
	}
	m := *q.current
	return &m
}

// History returns the retained log, oldest first.
func (q *Queue) History() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, len(q.history))
	copy(out, q.history)
	return out
}

// Pending reports how many messages are queued behind the display slot.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Subscribe registers fn to run whenever the display slot changes.
func (q *Queue) Subscribe(fn func()) (cancel func()) {
	q.subMu.Lock()
	defer q.subMu.Unlock()
	id := q.nextID
	q.nextID++
	q.subs[id] = fn
	return func() {
		q.subMu.Lock()
		defer q.subMu.Unlock()
		delete(q.subs, id)
	}
}

// Close stops the in-flight display timer. Queued messages are discarded
// with the session.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.current = nil
	q.pending = nil
}

// DisplayDuration sizes the slot hold time to the message length.
func DisplayDuration(text string) time.Duration {
	d := time.Duration(len(text)) * TypingSpeed
	if d < MinDisplay {
		d = MinDisplay
	}
	return d + PostTypingPause
}

// presentLocked moves the queue head into the display slot when it is free.
// An in-progress display is never interrupted.
func (q *Queue) presentLocked() {
	if q.current != nil || len(q.pending) == 0 {
		return
	}
	head := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &head

	q.timer = q.clock.AfterFunc(DisplayDuration(head.Text), func() {
		q.mu.Lock()
		q.current = nil
		q.timer = nil
		q.presentLocked()
		q.mu.Unlock()
		q.notify()
	})
}

func (q *Queue) notify() {
	q.subMu.Lock()
	subs := make([]func(), 0, len(q.subs))
	for _, fn := range q.subs {
		subs = append(subs, fn)
	}
	q.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
