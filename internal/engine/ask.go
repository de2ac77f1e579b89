package engine

import (
	"context"
	"fmt"
	"strings"

	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
)

const askFallback = "Ugh, my circuits just fizzled. Hold that thought and ask again later. No refunds, though."

// Ask spends one credit and puts the question to the companion. The
// credit is gone the moment the debit persists; a failed generation
// yields the canned apology, not a refund.
func (s *Session) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ValidationError{Field: "query", Reason: "must not be empty"}
	}

	s.mu.Lock()
	prevCredits := s.profile.Credits
	if !DebitCredits(s.profile, AskPalCost) {
		s.mu.Unlock()
		return "", Refusal{Reason: "not enough credits, complete a quest or two first"}
	}
	saved := *s.profile
	persona := llm.Persona{
		Sarcasm:     s.profile.Sarcasm,
		Helpfulness: s.profile.Helpfulness,
		Chattiness:  s.profile.Chattiness,
	}
	s.mu.Unlock()

	if err := s.store.SaveProfile(ctx, &saved); err != nil {
		s.mu.Lock()
		s.profile.Credits = prevCredits
		s.mu.Unlock()
		return "", fmt.Errorf("debiting credit: %w", err)
	}

	text, err := s.gen.Comment(ctx, query, persona)
	if err != nil {
		s.log.Warn("companion comment failed", "err", err)
		text = askFallback
	}

	s.say(text, pal.CategoryAskResponse)
	return text, nil
}

// AddCredits grants credits outright, for testing personas and cosmetics
// without grinding.
func (s *Session) AddCredits(ctx context.Context, amount int) error {
	if amount <= 0 {
		return ValidationError{Field: "amount", Reason: "must be positive"}
	}

	s.mu.Lock()
	prev := s.profile.Credits
	s.profile.Credits += amount
	saved := *s.profile
	s.mu.Unlock()

	if err := s.store.SaveProfile(ctx, &saved); err != nil {
		s.mu.Lock()
		s.profile.Credits = prev
		s.mu.Unlock()
		return fmt.Errorf("adding credits: %w", err)
	}

	s.say(fmt.Sprintf("+%d credits, just like that. Easy money.", amount), pal.CategoryInfo)
	return nil
}

// Suggest asks the generator for quest ideas. Generation failure falls
// back to a fixed trio so the command always offers something.
func (s *Session) Suggest(ctx context.Context) []string {
	ideas, err := s.gen.SuggestQuests(ctx)
	if err != nil || len(ideas) == 0 {
		if err != nil {
			s.log.Warn("suggestion generation failed, using fallback", "err", err)
		}
		ideas = []string{
			"Plan tomorrow in five bullet points",
			"Clear one surface that's been bugging you",
			"Message someone you've been meaning to reach",
		}
	}
	s.say("I had some ideas. Free of charge, even.", pal.CategorySuggestion)
	return ideas
}

// AdoptSuggestion turns a suggestion into a regular half-hour quest.
func (s *Session) AdoptSuggestion(ctx context.Context, title string) (*storage.Quest, error) {
	return s.CreateQuest(ctx, title, 30, "")
}
