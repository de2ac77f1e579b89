package engine

import (
	"context"
	"testing"
	"time"

	"pixeldue/internal/pal"
)

func TestCompleteAwardsXPAndPersists(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Fold laundry", 20, "")
	before := s.Profile().XP

	res, err := s.CompleteQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if res.Kind != CompletionManual {
		t.Fatalf("kind=%q, want %q", res.Kind, CompletionManual)
	}
	if got := s.Profile().XP; got != before+q.XPReward {
		t.Fatalf("xp=%d, want %d", got, before+q.XPReward)
	}

	stored, err := s.store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if !stored.IsCompleted {
		t.Fatalf("quest not completed in store")
	}
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.XP != before+q.XPReward {
		t.Fatalf("stored xp=%d, want %d", p.XP, before+q.XPReward)
	}
}

func TestCompleteTwiceIsRefused(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Water plants", 10, "")
	if _, err := s.CompleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	xpAfter := s.Profile().XP

	_, err := s.CompleteQuest(ctx, q.ID)
	if !IsRefusal(err) {
		t.Fatalf("second complete err=%v, want refusal", err)
	}
	if got := s.Profile().XP; got != xpAfter {
		t.Fatalf("xp changed on refused complete: %d != %d", got, xpAfter)
	}
}

func TestStartRejections(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	done := mustCreate(t, s, "Already done", 10, "")
	if _, err := s.CompleteQuest(ctx, done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.StartQuest(ctx, done.ID); !IsRefusal(err) {
		t.Fatalf("start completed err=%v, want refusal", err)
	}

	q := mustCreate(t, s, "Running", 30, "")
	if err := s.StartQuest(ctx, q.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.StartQuest(ctx, q.ID); !IsRefusal(err) {
		t.Fatalf("double start err=%v, want refusal", err)
	}

	if err := s.StartQuest(ctx, "nope"); !IsRefusal(err) {
		t.Fatalf("start unknown err=%v, want refusal", err)
	}
}

func TestTimerAutoCompletes(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Deep work block", 45, "")
	if err := s.StartQuest(ctx, q.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	before := s.Profile().XP

	s.clock.Advance(45 * time.Minute)

	stored, err := s.store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if !stored.IsCompleted {
		t.Fatalf("quest not auto-completed")
	}
	if stored.IsStarted || stored.StartTime != nil {
		t.Fatalf("started flags not cleared: %+v", stored)
	}
	if got := s.Profile().XP; got != before+q.XPReward {
		t.Fatalf("xp=%d, want %d", got, before+q.XPReward)
	}
}

func TestManualCompleteWhileRunning(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	early := mustCreate(t, s, "Hour of practice", 60, "")
	if err := s.StartQuest(ctx, early.ID); err != nil {
		t.Fatalf("start early: %v", err)
	}
	s.clock.Advance(5 * time.Minute)
	res, err := s.CompleteQuest(ctx, early.ID)
	if err != nil {
		t.Fatalf("complete early: %v", err)
	}
	if res.Kind != CompletionEarly {
		t.Fatalf("kind=%q, want %q", res.Kind, CompletionEarly)
	}

	skipped := mustCreate(t, s, "Another hour", 60, "")
	if err := s.StartQuest(ctx, skipped.ID); err != nil {
		t.Fatalf("start skipped: %v", err)
	}
	s.clock.Advance(30 * time.Minute)
	res, err = s.CompleteQuest(ctx, skipped.ID)
	if err != nil {
		t.Fatalf("complete skipped: %v", err)
	}
	if res.Kind != CompletionSkipped {
		t.Fatalf("kind=%q, want %q", res.Kind, CompletionSkipped)
	}
}

func TestCancelStopsTimerAndReturnsToPending(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Short sprint", 15, "")
	if err := s.StartQuest(ctx, q.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.CancelQuest(ctx, q.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// A cancelled timer must not fire.
	s.clock.Advance(time.Hour)

	stored, err := s.store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if stored.IsCompleted || stored.IsStarted || stored.StartTime != nil {
		t.Fatalf("quest not back to pending: %+v", stored)
	}

	if err := s.CancelQuest(ctx, q.ID); !IsRefusal(err) {
		t.Fatalf("cancel pending err=%v, want refusal", err)
	}
}

func TestUncompleteKeepsProgression(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Read a chapter", 30, "")
	if _, err := s.CompleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	xpAfter := s.Profile().XP
	creditsAfter := s.Profile().Credits

	if err := s.UncompleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if err := s.UncompleteQuest(ctx, q.ID); !IsRefusal(err) {
		t.Fatalf("uncomplete pending err=%v, want refusal", err)
	}

	p := s.Profile()
	if p.XP != xpAfter || p.Credits != creditsAfter {
		t.Fatalf("progression changed on uncomplete: xp=%d credits=%d", p.XP, p.Credits)
	}
	stored, err := s.store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if stored.IsCompleted {
		t.Fatalf("quest still completed in store")
	}
}

func TestEditRevaluesXP(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Do a thing", 15, "")
	if err := s.EditQuest(ctx, q.ID, "Practice guitar", 60, "2026-03-20"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	stored, err := s.store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if stored.Title != "Practice guitar" || stored.DurationMinutes != 60 || stored.DueDate != "2026-03-20" {
		t.Fatalf("content not updated: %+v", stored)
	}
	if stored.XPReward == q.XPReward {
		t.Fatalf("xp not re-valued: still %d", stored.XPReward)
	}
}

func TestEditAndDeleteProtections(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if _, err := s.EnsureDailyBounties(ctx); err != nil {
		t.Fatalf("bounties: %v", err)
	}
	var bountyID string
	for _, q := range s.Quests() {
		if q.IsBounty {
			bountyID = q.ID
			break
		}
	}
	if bountyID == "" {
		t.Fatalf("no bounty found")
	}

	if err := s.EditQuest(ctx, bountyID, "Renamed", 20, ""); !IsRefusal(err) {
		t.Fatalf("edit bounty err=%v, want refusal", err)
	}
	if err := s.DeleteQuest(ctx, bountyID); !IsRefusal(err) {
		t.Fatalf("delete bounty err=%v, want refusal", err)
	}

	running := mustCreate(t, s, "Busy", 30, "")
	if err := s.StartQuest(ctx, running.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.EditQuest(ctx, running.ID, "Renamed", 20, ""); !IsRefusal(err) {
		t.Fatalf("edit running err=%v, want refusal", err)
	}
	if err := s.DeleteQuest(ctx, running.ID); !IsRefusal(err) {
		t.Fatalf("delete running err=%v, want refusal", err)
	}
}

func TestDeleteRemovesQuest(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Disposable", 10, "")
	if err := s.DeleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, err := s.store.GetQuest(ctx, q.ID); err == nil && got != nil {
		t.Fatalf("quest still present after delete")
	}
	for _, cached := range s.Quests() {
		if cached.ID == q.ID {
			t.Fatalf("quest still cached after delete")
		}
	}
}

func TestDeleteStopsStrayTimer(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Raced", 30, "")
	if err := s.StartQuest(ctx, q.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Simulate a store snapshot clearing the started flag while the timer
	// handle is still registered.
	s.mu.Lock()
	if _, cached := s.findQuestLocked(q.ID); cached != nil {
		cached.IsStarted = false
		cached.StartTime = nil
	}
	s.mu.Unlock()

	if err := s.DeleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	s.mu.Lock()
	_, live := s.timers[q.ID]
	s.mu.Unlock()
	if live {
		t.Fatalf("timer handle survived delete")
	}

	// A late fire must not resurrect the quest.
	s.clock.Advance(time.Hour)
	if got, err := s.store.GetQuest(ctx, q.ID); err != nil || got != nil {
		t.Fatalf("quest came back after delete: %+v, err=%v", got, err)
	}
}

func TestCompleteRollsBackOnStoreFailure(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Flaky path", 20, "")
	before := s.Profile()

	s.store.failMarkCompleted = true
	if _, err := s.CompleteQuest(ctx, q.ID); err == nil {
		t.Fatalf("expected error from failing store")
	}
	s.store.failMarkCompleted = false

	after := s.Profile()
	if after.XP != before.XP || after.Credits != before.Credits {
		t.Fatalf("profile mutated despite store failure")
	}

	// The quest reverts locally and was never completed in the store, so a
	// retry succeeds.
	if _, err := s.CompleteQuest(ctx, q.ID); err != nil {
		t.Fatalf("retry complete: %v", err)
	}
}

func TestCompleteRevertsProfileOnSaveFailure(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Half landed", 20, "")
	before := s.Profile()

	s.store.failSaveProfile = true
	if _, err := s.CompleteQuest(ctx, q.ID); err == nil {
		t.Fatalf("expected error from failing profile save")
	}
	s.store.failSaveProfile = false

	after := s.Profile()
	if after.XP != before.XP {
		t.Fatalf("local profile kept unsaved xp: %d", after.XP)
	}
}

func TestResumeTimersPicksUpRunningQuests(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	q := mustCreate(t, s, "Left running", 30, "")
	if err := s.StartQuest(ctx, q.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Drop the in-memory timer, as if the process had exited.
	s.mu.Lock()
	s.timers[q.ID].Stop()
	delete(s.timers, q.ID)
	s.mu.Unlock()

	s.ResumeTimers(ctx)
	s.clock.Advance(30 * time.Minute)

	stored, err := s.store.GetQuest(ctx, q.ID)
	if err != nil {
		t.Fatalf("get quest: %v", err)
	}
	if !stored.IsCompleted {
		t.Fatalf("resumed timer did not complete quest")
	}
}

func TestWelcomeRemindsAboutDueQuests(t *testing.T) {
	s := newTestSession(t)

	today := s.clock.Now().Format("2006-01-02")
	mustCreate(t, s, "Due thing", 20, today)
	mustCreate(t, s, "Overdue thing", 20, "2026-01-01")

	s.Welcome()

	if !hasCategory(s.pal, pal.CategoryGreeting) {
		t.Fatalf("no greeting enqueued")
	}
	if !hasCategory(s.pal, pal.CategoryReminder) {
		t.Fatalf("no due-today reminder enqueued")
	}
}
