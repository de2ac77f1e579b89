package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
)

// fakeClock drives quest timers by hand.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) timerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

// Advance moves time forward and fires due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	deadline := c.now
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(deadline) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next != nil {
			next.fired = true
		}
		c.mu.Unlock()

		if next == nil {
			return
		}
		next.fn()
	}
}

// flakyStore injects write failures around a real store.
type flakyStore struct {
	Store
	failMarkCompleted bool
	failSaveProfile   bool
	failClearStarted  bool
	failUpdateContent bool
	failDelete        bool
}

var errInjected = errors.New("injected store failure")

func (f *flakyStore) MarkCompleted(ctx context.Context, id string, done bool) error {
	if f.failMarkCompleted {
		return errInjected
	}
	return f.Store.MarkCompleted(ctx, id, done)
}

func (f *flakyStore) SaveProfile(ctx context.Context, p *storage.Profile) error {
	if f.failSaveProfile {
		return errInjected
	}
	return f.Store.SaveProfile(ctx, p)
}

func (f *flakyStore) ClearStarted(ctx context.Context, id string) error {
	if f.failClearStarted {
		return errInjected
	}
	return f.Store.ClearStarted(ctx, id)
}

func (f *flakyStore) UpdateContent(ctx context.Context, id string, title string, minutes int, due string, xp int) error {
	if f.failUpdateContent {
		return errInjected
	}
	return f.Store.UpdateContent(ctx, id, title, minutes, due, xp)
}

func (f *flakyStore) DeleteQuest(ctx context.Context, id string) error {
	if f.failDelete {
		return errInjected
	}
	return f.Store.DeleteQuest(ctx, id)
}

type testSession struct {
	*Session
	store *flakyStore
	clock *fakeClock
	pal   *pal.Queue
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	return newTestSessionGen(t, llm.NewStatic())
}

func newTestSessionGen(t *testing.T, gen llm.Client) *testSession {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	db, err := storage.Open(ctx, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	fs := &flakyStore{Store: storage.NewStore(db, nil)}
	fc := newFakeClock()
	q := pal.NewQueue()
	t.Cleanup(q.Close)

	s, err := openWithClock(ctx, fs, gen, q, nil, fc)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(s.Close)

	return &testSession{Session: s, store: fs, clock: fc, pal: q}
}

func mustCreate(t *testing.T, s *testSession, title string, minutes int, due string) *storage.Quest {
	t.Helper()
	q, err := s.CreateQuest(context.Background(), title, minutes, due)
	if err != nil {
		t.Fatalf("CreateQuest %q: %v", title, err)
	}
	return q
}

func palCategories(q *pal.Queue) []pal.Category {
	hist := q.History()
	out := make([]pal.Category, 0, len(hist))
	for _, m := range hist {
		out = append(out, m.Category)
	}
	return out
}

func hasCategory(q *pal.Queue, want pal.Category) bool {
	for _, c := range palCategories(q) {
		if c == want {
			return true
		}
	}
	return false
}

func sortedIDs(quests []storage.Quest) []string {
	ids := make([]string, 0, len(quests))
	for _, q := range quests {
		ids = append(ids, q.ID)
	}
	sort.Strings(ids)
	return ids
}
