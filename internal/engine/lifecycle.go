package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
)

// CompletionKind classifies how a quest reached completion; narration
// branches on it.
type CompletionKind string

const (
	// CompletionAuto fires when the quest timer runs out.
	CompletionAuto CompletionKind = "auto"
	// CompletionEarly is a manual completion of a running quest before a
	// quarter of its duration has elapsed.
	CompletionEarly CompletionKind = "early"
	// CompletionSkipped is a manual completion of a running quest with the
	// timer still going past the early window.
	CompletionSkipped CompletionKind = "skipped"
	// CompletionManual is an ordinary completion of a quest that was never
	// started.
	CompletionManual CompletionKind = "manual"
)

type CompleteResult struct {
	Quest storage.Quest
	Kind  CompletionKind
	Delta ProgressDelta
}

// CreateQuest values the title through the generator and inserts the
// quest. A failed valuation falls back to the default reward rather than
// blocking creation.
func (s *Session) CreateQuest(ctx context.Context, title string, durationMinutes int, due string) (*storage.Quest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if durationMinutes <= 0 {
		return nil, ValidationError{Field: "duration", Reason: "must be positive"}
	}
	if due != "" {
		if _, err := time.Parse(dateLayout, due); err != nil {
			return nil, ValidationError{Field: "due", Reason: "must be YYYY-MM-DD"}
		}
	}

	xp, err := s.gen.QuestXP(ctx, title, durationMinutes)
	if err != nil || xp < MinQuestXP || xp > MaxQuestXP {
		if err != nil {
			s.log.Warn("xp valuation failed, using default", "err", err)
		}
		xp = DefaultQuestXP
	}

	q, err := s.store.InsertQuest(ctx, storage.QuestInsert{
		Title:           title,
		DurationMinutes: durationMinutes,
		DueDate:         due,
		XPReward:        xp,
	})
	if err != nil {
		return nil, fmt.Errorf("creating quest: %w", err)
	}

	s.mu.Lock()
	s.quests = append([]storage.Quest{*q}, s.quests...)
	s.mu.Unlock()

	s.say(fmt.Sprintf("New quest logged: %q. Worth %d XP. Go get it.", title, xp), pal.CategoryEncouragement)
	return q, nil
}

// StartQuest marks the quest active and schedules its timer; when the
// timer fires the quest auto-completes.
func (s *Session) StartQuest(ctx context.Context, id string) error {
	s.mu.Lock()
	_, q := s.findQuestLocked(id)
	if q == nil {
		s.mu.Unlock()
		return Refusal{Reason: fmt.Sprintf("no quest with id %s", id)}
	}
	if q.IsCompleted {
		s.mu.Unlock()
		return Refusal{Reason: "quest is already completed"}
	}
	if q.IsStarted {
		s.mu.Unlock()
		return Refusal{Reason: "quest is already running"}
	}
	if q.DurationMinutes <= 0 {
		s.mu.Unlock()
		return Refusal{Reason: "quest has no duration to time"}
	}

	now := s.clock.Now()
	q.IsStarted = true
	q.StartTime = &now
	title := q.Title
	minutes := q.DurationMinutes
	duration := time.Duration(minutes) * time.Minute
	s.mu.Unlock()

	if err := s.store.MarkStarted(ctx, id, now); err != nil {
		s.mu.Lock()
		if _, q := s.findQuestLocked(id); q != nil {
			q.IsStarted = false
			q.StartTime = nil
		}
		s.mu.Unlock()
		return fmt.Errorf("starting quest: %w", err)
	}

	s.mu.Lock()
	s.timers[id] = s.clock.AfterFunc(duration, func() {
		if _, err := s.complete(context.Background(), id, true); err != nil && !IsRefusal(err) {
			s.log.Warn("timer completion failed", "quest", id, "err", err)
		}
	})
	s.mu.Unlock()

	s.say(fmt.Sprintf("Timer running on %q. %d minutes. Focus!", title, minutes), pal.CategoryEncouragement)
	return nil
}

// CancelQuest stops a running quest and returns it to pending. No reward
// or penalty applies.
func (s *Session) CancelQuest(ctx context.Context, id string) error {
	s.mu.Lock()
	_, q := s.findQuestLocked(id)
	if q == nil {
		s.mu.Unlock()
		return Refusal{Reason: fmt.Sprintf("no quest with id %s", id)}
	}
	if !q.IsStarted {
		s.mu.Unlock()
		return Refusal{Reason: "quest is not running"}
	}

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	prevStart := q.StartTime
	q.IsStarted = false
	q.StartTime = nil
	s.mu.Unlock()

	if err := s.store.ClearStarted(ctx, id); err != nil {
		s.mu.Lock()
		if _, q := s.findQuestLocked(id); q != nil {
			q.IsStarted = true
			q.StartTime = prevStart
		}
		s.mu.Unlock()
		return fmt.Errorf("cancelling quest: %w", err)
	}

	s.say("Timer stopped. The quest will wait. It always waits.", pal.CategoryInfo)
	return nil
}

// CompleteQuest completes a quest by hand. Running quests are judged on
// elapsed time; the timer path goes through the scheduled callback
// instead.
func (s *Session) CompleteQuest(ctx context.Context, id string) (*CompleteResult, error) {
	return s.complete(ctx, id, false)
}

func (s *Session) complete(ctx context.Context, id string, timerDriven bool) (*CompleteResult, error) {
	s.mu.Lock()
	_, q := s.findQuestLocked(id)
	if q == nil {
		s.mu.Unlock()
		return nil, Refusal{Reason: fmt.Sprintf("no quest with id %s", id)}
	}
	if q.IsCompleted {
		s.mu.Unlock()
		return nil, Refusal{Reason: "quest is already completed"}
	}

	kind := CompletionManual
	if timerDriven {
		kind = CompletionAuto
	} else if q.IsStarted && q.StartTime != nil {
		elapsed := s.clock.Now().Sub(*q.StartTime)
		total := time.Duration(q.DurationMinutes) * time.Minute
		if total > 0 && elapsed < total/4 {
			kind = CompletionEarly
		} else {
			kind = CompletionSkipped
		}
	}

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}

	prev := *q
	q.IsCompleted = true
	q.IsStarted = false
	q.StartTime = nil
	snapshot := *q

	delta := ApplyCompletion(*s.profile, snapshot)
	s.mu.Unlock()

	if err := s.store.MarkCompleted(ctx, id, true); err != nil {
		s.mu.Lock()
		if _, q := s.findQuestLocked(id); q != nil {
			*q = prev
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("completing quest: %w", err)
	}

	s.mu.Lock()
	prevProfile := *s.profile
	s.profile.XP = delta.XP
	s.profile.Level = delta.Level
	s.profile.Credits = delta.Credits
	s.profile.UnlockedCosmetics = delta.Unlocked
	saved := *s.profile
	s.mu.Unlock()

	if err := s.store.SaveProfile(ctx, &saved); err != nil {
		s.mu.Lock()
		*s.profile = prevProfile
		s.mu.Unlock()
		return nil, fmt.Errorf("saving progression: %w", err)
	}

	s.narrateCompletion(snapshot, kind, delta)
	return &CompleteResult{Quest: snapshot, Kind: kind, Delta: delta}, nil
}

func (s *Session) narrateCompletion(q storage.Quest, kind CompletionKind, delta ProgressDelta) {
	switch kind {
	case CompletionAuto:
		s.say(fmt.Sprintf("Timer done! %q is in the books. +%d XP.", q.Title, q.XPReward), pal.CategoryEncouragement)
	case CompletionEarly:
		s.say(fmt.Sprintf("Done already? That was suspiciously fast. Fine. +%d XP.", q.XPReward), pal.CategoryEncouragement)
	case CompletionSkipped:
		s.say(fmt.Sprintf("Skipping the timer, I see. Bold move. +%d XP.", q.XPReward), pal.CategoryEncouragement)
	default:
		s.say(fmt.Sprintf("%q complete! +%d XP. Nicely done.", q.Title, q.XPReward), pal.CategoryEncouragement)
	}
	if q.IsBounty {
		s.say(fmt.Sprintf("Bounty claimed! +%d credits.", q.BountyCreditReward), pal.CategoryInfo)
	}
	if delta.LeveledUp {
		bonus := ""
		if delta.BonusCreditsGained > 0 {
			bonus = fmt.Sprintf(" Milestone bonus: +%d credits.", delta.BonusCreditsGained)
		}
		s.say(fmt.Sprintf("LEVEL UP! You're level %d now. +%d credits.%s", delta.Level, delta.LevelsGained*CreditsPerLevelUp, bonus), pal.CategoryInfo)
	}
}

// UncompleteQuest returns a completed quest to pending. Earned XP and
// credits stay earned; progression never runs backwards.
func (s *Session) UncompleteQuest(ctx context.Context, id string) error {
	s.mu.Lock()
	_, q := s.findQuestLocked(id)
	if q == nil {
		s.mu.Unlock()
		return Refusal{Reason: fmt.Sprintf("no quest with id %s", id)}
	}
	if !q.IsCompleted {
		s.mu.Unlock()
		return Refusal{Reason: "quest is not completed"}
	}

	q.IsCompleted = false
	s.mu.Unlock()

	if err := s.store.MarkCompleted(ctx, id, false); err != nil {
		s.mu.Lock()
		if _, q := s.findQuestLocked(id); q != nil {
			q.IsCompleted = true
		}
		s.mu.Unlock()
		return fmt.Errorf("reopening quest: %w", err)
	}

	s.say("Back on the board it goes. The XP stays, though. I'm generous like that.", pal.CategoryInfo)
	return nil
}

// EditQuest rewrites a pending quest's content and re-values its XP.
// Valuation failure keeps the old reward.
func (s *Session) EditQuest(ctx context.Context, id string, title string, durationMinutes int, due string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if durationMinutes <= 0 {
		return ValidationError{Field: "duration", Reason: "must be positive"}
	}
	if due != "" {
		if _, err := time.Parse(dateLayout, due); err != nil {
			return ValidationError{Field: "due", Reason: "must be YYYY-MM-DD"}
		}
	}

	s.mu.Lock()
	_, q := s.findQuestLocked(id)
	if q == nil {
		s.mu.Unlock()
		return Refusal{Reason: fmt.Sprintf("no quest with id %s", id)}
	}
	if q.IsBounty {
		s.mu.Unlock()
		return Refusal{Reason: "bounties cannot be edited"}
	}
	if q.IsStarted {
		s.mu.Unlock()
		return Refusal{Reason: "stop the quest before editing it"}
	}
	if q.IsCompleted {
		s.mu.Unlock()
		return Refusal{Reason: "completed quests cannot be edited"}
	}
	prev := *q
	s.mu.Unlock()

	xp := prev.XPReward
	if newXP, err := s.gen.QuestXP(ctx, title, durationMinutes); err == nil && newXP >= MinQuestXP && newXP <= MaxQuestXP {
		xp = newXP
	} else if err != nil {
		s.log.Warn("xp re-valuation failed, keeping old reward", "err", err)
	}

	s.mu.Lock()
	if _, q := s.findQuestLocked(id); q != nil {
		q.Title = title
		q.DurationMinutes = durationMinutes
		q.DueDate = due
		q.XPReward = xp
	}
	s.mu.Unlock()

	if err := s.store.UpdateContent(ctx, id, title, durationMinutes, due, xp); err != nil {
		s.mu.Lock()
		if _, q := s.findQuestLocked(id); q != nil {
			*q = prev
		}
		s.mu.Unlock()
		return fmt.Errorf("editing quest: %w", err)
	}

	s.say(fmt.Sprintf("Quest updated. Now worth %d XP.", xp), pal.CategoryInfo)
	return nil
}

// DeleteQuest removes a quest for good. Bounties and running quests are
// protected.
func (s *Session) DeleteQuest(ctx context.Context, id string) error {
	s.mu.Lock()
	idx, q := s.findQuestLocked(id)
	if q == nil {
		s.mu.Unlock()
		return Refusal{Reason: fmt.Sprintf("no quest with id %s", id)}
	}
	if q.IsBounty {
		s.mu.Unlock()
		return Refusal{Reason: "bounties cannot be deleted"}
	}
	if q.IsStarted {
		s.mu.Unlock()
		return Refusal{Reason: "stop the quest before deleting it"}
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	removed := *q
	s.quests = append(s.quests[:idx], s.quests[idx+1:]...)
	s.mu.Unlock()

	if err := s.store.DeleteQuest(ctx, id); err != nil {
		s.mu.Lock()
		s.quests = append(s.quests, removed)
		s.mu.Unlock()
		return fmt.Errorf("deleting quest: %w", err)
	}

	s.say(fmt.Sprintf("%q erased. We shall never speak of it again.", removed.Title), pal.CategoryInfo)
	return nil
}
