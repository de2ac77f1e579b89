package engine

import "pixeldue/internal/storage"

// LevelThresholds maps level index to the cumulative XP required to hold
// that level: index 0 is level 1 (0 XP), index 1 is level 2, and so on.
// The table is the single source of truth for leveling; MaxLevel is its
// length and XP past the final threshold yields no further level-ups.
var LevelThresholds = []int{0, 50, 120, 200, 300, 450, 600, 800, 1000, 1250}

const (
	// DefaultQuestXP is used when the XP valuation collaborator fails.
	DefaultQuestXP = 10

	MinQuestXP = 1
	MaxQuestXP = 100

	CreditsPerLevelUp      = 20
	BonusCreditsPer5Levels = 25
	AskPalCost             = 1

	BountyXPReward     = 25
	BountyCreditReward = 5
	NumDailyBounties   = 5

	MinBountyMinutes = 15
	MaxBountyMinutes = 30
)

func MaxLevel() int { return len(LevelThresholds) }

// LevelForXP returns the largest level L with xp >= LevelThresholds[L-1],
// clamped to MaxLevel.
func LevelForXP(xp int) int {
	level := 1
	for level < MaxLevel() && xp >= LevelThresholds[level] {
		level++
	}
	return level
}

// ThresholdForLevel returns the cumulative XP required to hold the given
// level. Out-of-range levels clamp to the table's edges.
func ThresholdForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel() {
		level = MaxLevel()
	}
	return LevelThresholds[level-1]
}

// ProgressDelta is the outcome of applying a completion to a profile. The
// caller copies the new values onto the profile and persists them; the
// summary fields feed narration.
type ProgressDelta struct {
	XP       int
	Level    int
	Credits  int
	Unlocked []string

	LeveledUp          bool
	LevelsGained       int
	CreditsGained      int
	BonusCreditsGained int
}

// ApplyCompletion awards the quest's XP to the profile and resolves
// cascading level-ups one level at a time. Each level gained grants the
// flat credit bonus, a milestone bonus on every fifth level, and one
// unclaimed cosmetic per category. Bounty quests additionally pay their
// fixed credit reward.
func ApplyCompletion(p storage.Profile, q storage.Quest) ProgressDelta {
	d := ProgressDelta{
		XP:       p.XP + q.XPReward,
		Level:    p.Level,
		Credits:  p.Credits,
		Unlocked: append([]string(nil), p.UnlockedCosmetics...),
	}

	for d.Level < MaxLevel() && d.XP >= LevelThresholds[d.Level] {
		d.Level++
		d.LevelsGained++
		d.CreditsGained += CreditsPerLevelUp
		if d.Level%5 == 0 {
			d.BonusCreditsGained += BonusCreditsPer5Levels
		}
		d.Unlocked, _ = UnlockNext(d.Unlocked)
	}
	d.LeveledUp = d.LevelsGained > 0

	if q.IsBounty {
		d.CreditsGained += q.BountyCreditReward
	}
	d.Credits += d.CreditsGained + d.BonusCreditsGained
	return d
}

// DebitCredits removes amount from the profile's balance. It refuses
// without mutating when the balance is short; the floor at zero is
// defensive only.
func DebitCredits(p *storage.Profile, amount int) bool {
	if amount <= 0 {
		return true
	}
	if p.Credits < amount {
		return false
	}
	p.Credits -= amount
	if p.Credits < 0 {
		p.Credits = 0
	}
	return true
}
