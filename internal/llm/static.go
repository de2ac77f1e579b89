package llm

import (
	"context"
	"hash/fnv"
	"strings"
)

// Static is the offline collaborator: deterministic heuristics standing in
// for the generative service. It is the default backend and the test double.
type Static struct{}

func NewStatic() *Static { return &Static{} }

var productiveHints = []string{
	"learn", "study", "write", "practice", "build", "design", "code",
	"read", "research", "plan", "exercise", "workout", "solve",
}

// QuestXP mirrors the valuation rubric the generative prompt encodes:
// base 5, a boost for skill-building work, roughly one point per quarter
// hour, capped at 50.
func (s *Static) QuestXP(ctx context.Context, title string, durationMinutes int) (int, error) {
	xp := 5
	lower := strings.ToLower(title)
	for _, hint := range productiveHints {
		if strings.Contains(lower, hint) {
			xp += 15
			break
		}
	}
	if durationMinutes > 0 {
		xp += durationMinutes / 15
	}
	if xp > 50 {
		xp = 50
	}
	return xp, nil
}

func (s *Static) DailyBounties(ctx context.Context) ([]BountyDef, error) {
	return []BountyDef{
		{Title: "15 minutes of focused reading", DurationMinutes: 15},
		{Title: "Tidy your workspace", DurationMinutes: 20},
		{Title: "Plan tomorrow's top three", DurationMinutes: 15},
		{Title: "Take a walk outside", DurationMinutes: 25},
		{Title: "Brainstorm one new idea", DurationMinutes: 30},
	}, nil
}

var cannedComments = []string{
	"Oh, you're asking ME for wisdom? Bold move. I respect it.",
	"Another credit well spent. My insight: fewer tabs, more quests.",
	"I'd tell you the secret to productivity, but you'd just add it to the list.",
	"My circuits say: start the timer. The rest sorts itself out.",
	"You again? Good. I was getting bored watching the quest log.",
}

func (s *Static) Comment(ctx context.Context, query string, p Persona) (string, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(query))
	return cannedComments[int(h.Sum32())%len(cannedComments)], nil
}

func (s *Static) SuggestQuests(ctx context.Context) ([]string, error) {
	return []string{
		"Clear your inbox to zero",
		"Sketch an idea for 20 minutes",
		"Stretch for 15 minutes",
	}, nil
}
