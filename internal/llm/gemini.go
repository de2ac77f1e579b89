package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini backs the collaborator with Vertex AI. Every method asks for a
// strict JSON body and fails loudly on malformed output; the engine's
// fallbacks absorb those failures.
type Gemini struct {
	client    *genai.Client
	modelName string
}

type GeminiConfig struct {
	Project  string
	Location string
	Model    string
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("gemini backend requires project and location")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, modelName: model}, nil
}

func (g *Gemini) generateJSON(ctx context.Context, prompt string, out any) error {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return fmt.Errorf("gemini generate content: %w", err)
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return fmt.Errorf("gemini returned empty text")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("gemini response decode: %w", err)
	}
	return nil
}

func (g *Gemini) QuestXP(ctx context.Context, title string, durationMinutes int) (int, error) {
	prompt := fmt.Sprintf(
		`You assign experience points for a gamified to-do app. Value the task
below between 1 and 100 XP: base 5 XP, more for skill-building or creative
work, roughly 1 XP per 15 minutes of duration, capped at 50.
Title: %q
Duration minutes: %d
Reply with JSON only: {"xp": <integer>}`, title, durationMinutes)

	var out struct {
		XP int `json:"xp"`
	}
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return 0, err
	}
	if out.XP < 1 || out.XP > 100 {
		return 0, fmt.Errorf("gemini xp out of range: %d", out.XP)
	}
	return out.XP, nil
}

func (g *Gemini) DailyBounties(ctx context.Context) ([]BountyDef, error) {
	prompt := `Generate 5 short, varied daily bounty tasks for a gamified
to-do app: a mix of productivity, well-being, organization and creative
tasks, each 15 to 30 minutes long.
Reply with JSON only: {"bounties": [{"title": "...", "duration": <15-30>}]}`

	var out struct {
		Bounties []struct {
			Title    string `json:"title"`
			Duration int    `json:"duration"`
		} `json:"bounties"`
	}
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}

	defs := make([]BountyDef, 0, len(out.Bounties))
	for _, b := range out.Bounties {
		defs = append(defs, BountyDef{Title: b.Title, DurationMinutes: b.Duration})
	}
	return defs, nil
}

func (g *Gemini) Comment(ctx context.Context, query string, p Persona) (string, error) {
	prompt := fmt.Sprintf(
		`You are Pixel Pal, the witty companion in a gamified to-do app.
Persona sliders (0-100): sarcasm=%d helpfulness=%d chattiness=%d.
Answer the user's question in one or two short sentences, in character.
Question: %q
Reply with JSON only: {"comment": "..."}`, p.Sarcasm, p.Helpfulness, p.Chattiness, query)

	var out struct {
		Comment string `json:"comment"`
	}
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Comment) == "" {
		return "", fmt.Errorf("gemini returned empty comment")
	}
	return out.Comment, nil
}

func (g *Gemini) SuggestQuests(ctx context.Context) ([]string, error) {
	prompt := `Suggest 3 concrete, actionable quest titles for a personal
to-do app. Reply with JSON only: {"suggestions": ["...", "...", "..."]}`

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}
