package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
)

// Store is the persistence surface the session needs. *storage.Store
// satisfies it; tests wrap it to inject write failures.
type Store interface {
	GetProfile(ctx context.Context) (*storage.Profile, error)
	SaveProfile(ctx context.Context, p *storage.Profile) error
	ListQuests(ctx context.Context) ([]storage.Quest, error)
	GetQuest(ctx context.Context, id string) (*storage.Quest, error)
	InsertQuest(ctx context.Context, in storage.QuestInsert) (*storage.Quest, error)
	MarkStarted(ctx context.Context, id string, start time.Time) error
	ClearStarted(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, done bool) error
	UpdateContent(ctx context.Context, id string, title string, minutes int, due string, xp int) error
	DeleteQuest(ctx context.Context, id string) error
	SubscribeQuests(fn func([]storage.Quest)) (cancel func())
	SubscribeProfile(fn func(storage.Profile)) (cancel func())
}

// Session is the living game state: the cached profile and quest list,
// the running quest timers, and the companion queue. All mutations go
// through the session, which applies them locally first, persists them,
// and reverts the local change if the write fails. Store snapshots
// received through Watch replace the caches wholesale.
type Session struct {
	mu    sync.Mutex
	store Store
	gen   llm.Client
	pal   *pal.Queue
	log   *slog.Logger
	clock clock

	profile *storage.Profile
	quests  []storage.Quest
	timers  map[string]timerHandle
	unsubs  []func()
}

// Open loads the hero profile and quest list and reconciles any drift
// between stored XP and level.
func Open(ctx context.Context, store Store, gen llm.Client, q *pal.Queue, log *slog.Logger) (*Session, error) {
	return openWithClock(ctx, store, gen, q, log, systemClock{})
}

func openWithClock(ctx context.Context, store Store, gen llm.Client, q *pal.Queue, log *slog.Logger, c clock) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		store:  store,
		gen:    gen,
		pal:    q,
		log:    log,
		clock:  c,
		timers: map[string]timerHandle{},
	}

	p, err := store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if len(p.UnlockedCosmetics) == 0 {
		p.UnlockedCosmetics = InitialUnlocks()
	}
	if lvl := LevelForXP(p.XP); lvl != p.Level {
		p.Level = lvl
		if err := store.SaveProfile(ctx, p); err != nil {
			log.Warn("level reconcile save failed", "err", err)
		}
	}
	s.profile = p

	quests, err := store.ListQuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading quests: %w", err)
	}
	s.quests = quests
	return s, nil
}

// Watch subscribes the session's caches to store snapshots. Call once
// for long-lived sessions such as the board UI.
func (s *Session) Watch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubs = append(s.unsubs,
		s.store.SubscribeQuests(func(quests []storage.Quest) {
			s.mu.Lock()
			s.quests = quests
			s.mu.Unlock()
		}),
		s.store.SubscribeProfile(func(p storage.Profile) {
			s.mu.Lock()
			s.profile = &p
			s.mu.Unlock()
		}),
	)
}

// ResumeTimers reschedules timers for quests that were already running
// when the session opened. Quests whose deadline has passed complete
// immediately through the timer path.
func (s *Session) ResumeTimers(ctx context.Context) {
	s.mu.Lock()
	type due struct {
		id        string
		remaining time.Duration
	}
	var pending []due
	for _, q := range s.quests {
		if !q.IsStarted || q.IsCompleted || q.StartTime == nil {
			continue
		}
		if _, ok := s.timers[q.ID]; ok {
			continue
		}
		deadline := q.StartTime.Add(time.Duration(q.DurationMinutes) * time.Minute)
		remaining := deadline.Sub(s.clock.Now())
		if remaining < 0 {
			remaining = 0
		}
		pending = append(pending, due{id: q.ID, remaining: remaining})
	}
	for _, d := range pending {
		id := d.id
		s.timers[id] = s.clock.AfterFunc(d.remaining, func() {
			if _, err := s.complete(context.Background(), id, true); err != nil && !IsRefusal(err) {
				s.log.Warn("timer completion failed", "quest", id, "err", err)
			}
		})
	}
	s.mu.Unlock()
}

// Close stops all quest timers and detaches store subscriptions. Running
// quests stay started in the store and resume on the next session.
func (s *Session) Close() {
	s.mu.Lock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, cancel := range unsubs {
		cancel()
	}
}

// Profile returns a copy of the cached profile.
func (s *Session) Profile() storage.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.profile
}

// Quests returns a copy of the cached quest list, newest first.
func (s *Session) Quests() []storage.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storage.Quest, len(s.quests))
	copy(out, s.quests)
	return out
}

// Pal exposes the companion queue for the UI layers.
func (s *Session) Pal() *pal.Queue { return s.pal }

// Welcome enqueues the session greeting and, when quests are due today
// or overdue, a reminder naming how many.
func (s *Session) Welcome() {
	s.mu.Lock()
	name := s.profile.DisplayName
	today := s.clock.Now().Format(dateLayout)
	due := 0
	for _, q := range s.quests {
		if !q.IsCompleted && q.DueDate != "" && q.DueDate <= today {
			due++
		}
	}
	s.mu.Unlock()

	s.say(fmt.Sprintf("Welcome back, %s! Ready to get things done?", name), pal.CategoryGreeting)
	switch {
	case due == 1:
		s.say("Heads up: one quest is due today. No pressure. Some pressure.", pal.CategoryReminder)
	case due > 1:
		s.say(fmt.Sprintf("Heads up: %d quests are due today. The pile notices you.", due), pal.CategoryReminder)
	}
}

func (s *Session) say(text string, cat pal.Category) {
	if s.pal != nil {
		s.pal.Enqueue(text, cat)
	}
}

func (s *Session) findQuestLocked(id string) (int, *storage.Quest) {
	for i := range s.quests {
		if s.quests[i].ID == id {
			return i, &s.quests[i]
		}
	}
	return -1, nil
}
