package engine

import (
	"context"
	"fmt"
	"strings"

	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
)

// FallbackBounties is the fixed batch used when the generator is
// unavailable. Its size always matches the daily quota.
func FallbackBounties() []llm.BountyDef {
	return []llm.BountyDef{
		{Title: "Tidy your workspace", DurationMinutes: 15},
		{Title: "Take a 20-minute walk", DurationMinutes: 20},
		{Title: "Write down three things you're grateful for", DurationMinutes: 15},
		{Title: "Clear out your inbox", DurationMinutes: 25},
		{Title: "Stretch and breathe", DurationMinutes: 15},
	}
}

// EnsureDailyBounties generates today's bounty batch exactly once per
// calendar day, keyed on the profile stamp. Repeat calls on the same day
// are no-ops. The stamp is written after the bounties; if that write
// fails a retry can post a duplicate batch, which we accept over
// swallowing a failed day.
func (s *Session) EnsureDailyBounties(ctx context.Context) (int, error) {
	today := s.clock.Now().Format(dateLayout)

	s.mu.Lock()
	if s.profile.LastBountiesGeneratedDate == today {
		s.mu.Unlock()
		s.say("Today's bounties are already on the board. Scroll down, hero.", pal.CategoryInfo)
		return 0, nil
	}
	s.mu.Unlock()

	defs, err := s.gen.DailyBounties(ctx)
	if err != nil {
		s.log.Warn("bounty generation failed, using fallback batch", "err", err)
		defs = FallbackBounties()
	}
	defs = normalizeBounties(defs)

	created := 0
	for _, def := range defs {
		q, err := s.store.InsertQuest(ctx, storage.QuestInsert{
			Title:                def.Title,
			DurationMinutes:      def.DurationMinutes,
			XPReward:             BountyXPReward,
			IsBounty:             true,
			BountyCreditReward:   BountyCreditReward,
			BountyGenerationDate: today,
		})
		if err != nil {
			return created, fmt.Errorf("posting bounty %q: %w", def.Title, err)
		}
		created++

		s.mu.Lock()
		s.quests = append([]storage.Quest{*q}, s.quests...)
		s.mu.Unlock()
	}

	s.mu.Lock()
	prevStamp := s.profile.LastBountiesGeneratedDate
	s.profile.LastBountiesGeneratedDate = today
	saved := *s.profile
	s.mu.Unlock()

	if err := s.store.SaveProfile(ctx, &saved); err != nil {
		s.mu.Lock()
		s.profile.LastBountiesGeneratedDate = prevStamp
		s.mu.Unlock()
		return created, fmt.Errorf("stamping bounty day: %w", err)
	}

	s.say(fmt.Sprintf("Fresh bounties posted! %d new ways to earn credits today.", created), pal.CategoryInfo)
	return created, nil
}

// normalizeBounties trims the batch to the daily quota, drops blank
// titles, and clamps durations to the bounty window. Anything short of
// the full quota is replaced with the fixed batch; the day is stamped
// once, so a short batch would permanently short that day.
func normalizeBounties(defs []llm.BountyDef) []llm.BountyDef {
	out := make([]llm.BountyDef, 0, NumDailyBounties)
	for _, def := range defs {
		def.Title = strings.TrimSpace(def.Title)
		if def.Title == "" {
			continue
		}
		if def.DurationMinutes < MinBountyMinutes {
			def.DurationMinutes = MinBountyMinutes
		}
		if def.DurationMinutes > MaxBountyMinutes {
			def.DurationMinutes = MaxBountyMinutes
		}
		out = append(out, def)
		if len(out) == NumDailyBounties {
			break
		}
	}
	if len(out) < NumDailyBounties {
		return FallbackBounties()
	}
	return out
}
