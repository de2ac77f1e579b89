package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
)

// brokenGen fails bounty generation; everything else defers to the
// static backend.
type brokenGen struct {
	*llm.Static
}

func (brokenGen) DailyBounties(ctx context.Context) ([]llm.BountyDef, error) {
	return nil, errors.New("generator down")
}

// shortGen replies with fewer bounties than the daily quota.
type shortGen struct {
	*llm.Static
}

func (shortGen) DailyBounties(ctx context.Context) ([]llm.BountyDef, error) {
	return []llm.BountyDef{
		{Title: "One", DurationMinutes: 20},
		{Title: "Two", DurationMinutes: 20},
		{Title: "Three", DurationMinutes: 20},
	}, nil
}

func countBounties(s *testSession) int {
	n := 0
	for _, q := range s.Quests() {
		if q.IsBounty {
			n++
		}
	}
	return n
}

func TestEnsureDailyBountiesOncePerDay(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	created, err := s.EnsureDailyBounties(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if created != NumDailyBounties {
		t.Fatalf("created=%d, want %d", created, NumDailyBounties)
	}

	logBefore := len(s.pal.History())
	created, err = s.EnsureDailyBounties(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if created != 0 {
		t.Fatalf("same-day rerun created %d bounties", created)
	}
	history := s.pal.History()
	if len(history) != logBefore+1 {
		t.Fatalf("same-day rerun enqueued %d messages, want 1", len(history)-logBefore)
	}
	if got := history[len(history)-1].Category; got != pal.CategoryInfo {
		t.Fatalf("same-day rerun narrated category %q, want %q", got, pal.CategoryInfo)
	}
	if got := countBounties(s); got != NumDailyBounties {
		t.Fatalf("bounty count=%d, want %d", got, NumDailyBounties)
	}

	today := s.clock.Now().Format("2006-01-02")
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.LastBountiesGeneratedDate != today {
		t.Fatalf("stamp=%q, want %q", p.LastBountiesGeneratedDate, today)
	}
	for _, q := range s.Quests() {
		if q.IsBounty && q.BountyGenerationDate != today {
			t.Fatalf("bounty stamped %q, want %q", q.BountyGenerationDate, today)
		}
	}
}

func TestEnsureDailyBountiesNextDayGeneratesAgain(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if _, err := s.EnsureDailyBounties(ctx); err != nil {
		t.Fatalf("day one: %v", err)
	}
	s.clock.Advance(24 * time.Hour)

	created, err := s.EnsureDailyBounties(ctx)
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	if created != NumDailyBounties {
		t.Fatalf("day two created=%d, want %d", created, NumDailyBounties)
	}
	if got := countBounties(s); got != 2*NumDailyBounties {
		t.Fatalf("bounty count=%d, want %d", got, 2*NumDailyBounties)
	}
}

func TestEnsureDailyBountiesFallsBackWhenGeneratorFails(t *testing.T) {
	s := newTestSessionGen(t, brokenGen{llm.NewStatic()})
	ctx := context.Background()

	created, err := s.EnsureDailyBounties(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if created != NumDailyBounties {
		t.Fatalf("fallback created=%d, want %d", created, NumDailyBounties)
	}
	for _, q := range s.Quests() {
		if !q.IsBounty {
			continue
		}
		if q.XPReward != BountyXPReward || q.BountyCreditReward != BountyCreditReward {
			t.Fatalf("bounty rewards wrong: %+v", q)
		}
	}
}

func TestEnsureDailyBountiesReplacesShortBatch(t *testing.T) {
	s := newTestSessionGen(t, shortGen{llm.NewStatic()})
	ctx := context.Background()

	created, err := s.EnsureDailyBounties(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if created != NumDailyBounties {
		t.Fatalf("short reply materialized %d bounties, want %d", created, NumDailyBounties)
	}
	if got := countBounties(s); got != NumDailyBounties {
		t.Fatalf("bounty count=%d, want %d", got, NumDailyBounties)
	}
}

func TestEnsureDailyBountiesStampFailureAllowsRetry(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	s.store.failSaveProfile = true
	if _, err := s.EnsureDailyBounties(ctx); err == nil {
		t.Fatalf("expected stamp error")
	}
	if s.Profile().LastBountiesGeneratedDate != "" {
		t.Fatalf("stamp set despite save failure")
	}
	s.store.failSaveProfile = false

	// Retry posts a fresh batch; the failed day's bounties are kept.
	created, err := s.EnsureDailyBounties(ctx)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if created != NumDailyBounties {
		t.Fatalf("retry created=%d, want %d", created, NumDailyBounties)
	}
	if got := countBounties(s); got != 2*NumDailyBounties {
		t.Fatalf("bounty count=%d, want %d", got, 2*NumDailyBounties)
	}
}

func TestNormalizeBounties(t *testing.T) {
	defs := []llm.BountyDef{
		{Title: "  ", DurationMinutes: 20},
		{Title: "Too short", DurationMinutes: 5},
		{Title: "Too long", DurationMinutes: 90},
		{Title: "Fine", DurationMinutes: 25},
		{Title: "Four", DurationMinutes: 20},
		{Title: "Five", DurationMinutes: 20},
		{Title: "Six", DurationMinutes: 20},
		{Title: "Seven", DurationMinutes: 20},
	}

	out := normalizeBounties(defs)
	if len(out) != NumDailyBounties {
		t.Fatalf("len=%d, want %d", len(out), NumDailyBounties)
	}
	if out[0].Title != "Too short" || out[0].DurationMinutes != MinBountyMinutes {
		t.Fatalf("short bounty not clamped: %+v", out[0])
	}
	if out[1].DurationMinutes != MaxBountyMinutes {
		t.Fatalf("long bounty not clamped: %+v", out[1])
	}

	if got := normalizeBounties(nil); len(got) != NumDailyBounties {
		t.Fatalf("empty batch fallback len=%d, want %d", len(got), NumDailyBounties)
	}

	// A batch below the quota is replaced wholesale, never padded.
	short := []llm.BountyDef{
		{Title: "Only one", DurationMinutes: 20},
	}
	got := normalizeBounties(short)
	if len(got) != NumDailyBounties {
		t.Fatalf("short batch len=%d, want %d", len(got), NumDailyBounties)
	}
	for _, def := range got {
		if def.Title == "Only one" {
			t.Fatalf("short batch was padded instead of replaced")
		}
	}
}
