package engine

import (
	"context"
	"errors"
	"testing"

	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
)

type muteGen struct {
	*llm.Static
}

func (muteGen) Comment(ctx context.Context, query string, p llm.Persona) (string, error) {
	return "", errors.New("model unavailable")
}

func TestAskDebitsOneCredit(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	before := s.Profile().Credits
	text, err := s.Ask(ctx, "What should I do first?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if text == "" {
		t.Fatalf("empty answer")
	}
	if got := s.Profile().Credits; got != before-AskPalCost {
		t.Fatalf("credits=%d, want %d", got, before-AskPalCost)
	}
	if !hasCategory(s.pal, pal.CategoryAskResponse) {
		t.Fatalf("answer not narrated")
	}

	p, err := s.store.GetProfile(ctx)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.Credits != before-AskPalCost {
		t.Fatalf("stored credits=%d, want %d", p.Credits, before-AskPalCost)
	}
}

func TestAskRefusedWhenBroke(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	for s.Profile().Credits > 0 {
		if _, err := s.Ask(ctx, "burn a credit"); err != nil {
			t.Fatalf("Ask: %v", err)
		}
	}

	if _, err := s.Ask(ctx, "one more?"); !IsRefusal(err) {
		t.Fatalf("broke ask err=%v, want refusal", err)
	}
}

func TestAskKeepsDebitOnGenerationFailure(t *testing.T) {
	s := newTestSessionGen(t, muteGen{llm.NewStatic()})
	ctx := context.Background()

	before := s.Profile().Credits
	text, err := s.Ask(ctx, "hello?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if text != askFallback {
		t.Fatalf("text=%q, want fallback apology", text)
	}
	if got := s.Profile().Credits; got != before-AskPalCost {
		t.Fatalf("credit refunded on failure: %d", got)
	}
}

func TestAskRevertsDebitWhenSaveFails(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	before := s.Profile().Credits
	s.store.failSaveProfile = true
	if _, err := s.Ask(ctx, "anyone home?"); err == nil {
		t.Fatalf("expected save error")
	}
	if got := s.Profile().Credits; got != before {
		t.Fatalf("credits=%d, want %d after revert", got, before)
	}
}

func TestAddCredits(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	before := s.Profile().Credits
	if err := s.AddCredits(ctx, 10); err != nil {
		t.Fatalf("AddCredits: %v", err)
	}
	if got := s.Profile().Credits; got != before+10 {
		t.Fatalf("credits=%d, want %d", got, before+10)
	}

	if err := s.AddCredits(ctx, 0); err == nil {
		t.Fatalf("expected validation error for zero amount")
	}
}

func TestSuggestAlwaysOffersSomething(t *testing.T) {
	s := newTestSession(t)
	if ideas := s.Suggest(context.Background()); len(ideas) == 0 {
		t.Fatalf("no suggestions")
	}

	broken := newTestSessionGen(t, suggestlessGen{llm.NewStatic()})
	if ideas := broken.Suggest(context.Background()); len(ideas) == 0 {
		t.Fatalf("no fallback suggestions")
	}
}

type suggestlessGen struct {
	*llm.Static
}

func (suggestlessGen) SuggestQuests(ctx context.Context) ([]string, error) {
	return nil, errors.New("model unavailable")
}
