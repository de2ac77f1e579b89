package storage

import "time"

// MainProfileKey is the single local profile. Multi-user lives behind the
// auth layer, which this tool does not own.
const MainProfileKey = "hero"

// Quest is a single quest document. Completed/started flags plus startTime
// encode the lifecycle state; the engine derives the enum from them.
type Quest struct {
	ID              string
	Title           string
	DurationMinutes int
	DueDate         string // YYYY-MM-DD, empty when undated
	CreatedAt       time.Time
	IsCompleted     bool
	IsStarted       bool
	StartTime       *time.Time
	XPReward        int

	IsBounty             bool
	BountyCreditReward   int
	BountyGenerationDate string // YYYY-MM-DD, empty for ordinary quests
}

// Profile is the hero document: progression state, credit balance, the Pal
// persona sliders, and cosmetic entitlements.
type Profile struct {
	Key         string
	DisplayName string
	XP          int
	Level       int
	Credits     int

	// Persona sliders (0-100), passed opaquely to the dialogue collaborator.
	Sarcasm     int
	Helpfulness int
	Chattiness  int

	PalColorID        string
	EquippedHat       string
	EquippedAccessory string
	UnlockedCosmetics []string

	LastBountiesGeneratedDate string // YYYY-MM-DD, empty until first batch
}

// QuestInsert carries the fields the store needs to mint a new quest
// document. The id is store-assigned.
type QuestInsert struct {
	Title           string
	DurationMinutes int
	DueDate         string
	XPReward        int

	IsBounty             bool
	BountyCreditReward   int
	BountyGenerationDate string
}
