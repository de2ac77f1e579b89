// Package llm is the boundary to the generative-text collaborator that
// values quest XP, invents daily bounties, and voices the Pal. The engine
// treats every call as fallible and substitutes documented fallbacks, so no
// implementation here may block the quest lifecycle.
package llm

import "context"

// Persona is the profile's three opaque dialogue sliders (0-100 each).
type Persona struct {
	Sarcasm     int
	Helpfulness int
	Chattiness  int
}

// BountyDef is one generated daily bounty: a title and a duration the
// scheduler clamps into the allowed range.
type BountyDef struct {
	Title           string
	DurationMinutes int
}

type Client interface {
	// QuestXP values a quest at creation/edit time. The result is expected
	// in 1..100; callers clamp regardless.
	QuestXP(ctx context.Context, title string, durationMinutes int) (int, error)

	// DailyBounties returns the day's bounty definitions. Callers verify the
	// cardinality and substitute a fallback batch when it is wrong.
	DailyBounties(ctx context.Context) ([]BountyDef, error)

	// Comment answers a paid Ask-Pal query in the persona's voice.
	Comment(ctx context.Context, query string, p Persona) (string, error)

	// SuggestQuests proposes quest titles for the user to adopt.
	SuggestQuests(ctx context.Context) ([]string, error)
}
