package engine

type CosmeticKind string

const (
	KindHat       CosmeticKind = "hat"
	KindAccessory CosmeticKind = "accessory"
	KindColor     CosmeticKind = "color"
)

type Cosmetic struct {
	ID   string
	Name string
	Kind CosmeticKind
}

// Catalog order is unlock order: level-ups claim the first still-locked
// item of each category.
var (
	Hats = []Cosmetic{
		{ID: "no_hat", Name: "Bare", Kind: KindHat},
		{ID: "cap", Name: "Adventurer's Cap", Kind: KindHat},
		{ID: "wizard_hat", Name: "Wizard Hat", Kind: KindHat},
		{ID: "crown", Name: "Pixel Crown", Kind: KindHat},
		{ID: "halo", Name: "Halo", Kind: KindHat},
	}

	Accessories = []Cosmetic{
		{ID: "no_accessory", Name: "None", Kind: KindAccessory},
		{ID: "scarf", Name: "Cozy Scarf", Kind: KindAccessory},
		{ID: "shades", Name: "Cool Shades", Kind: KindAccessory},
		{ID: "cape", Name: "Hero Cape", Kind: KindAccessory},
		{ID: "amulet", Name: "Glow Amulet", Kind: KindAccessory},
	}

	PalColors = []Cosmetic{
		{ID: "default", Name: "Default", Kind: KindColor},
		{ID: "rose", Name: "Rose", Kind: KindColor},
		{ID: "sky", Name: "Sky", Kind: KindColor},
		{ID: "forest", Name: "Forest", Kind: KindColor},
	}
)

// InitialUnlocks is the entitlement set of a brand-new profile.
func InitialUnlocks() []string {
	return []string{"no_hat", "no_accessory", "default"}
}

// UnlockNext claims the first locked item of each category, returning the
// grown set and the ids gained. Exhausted categories grant nothing.
func UnlockNext(unlocked []string) (next []string, gained []string) {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	next = unlocked
	for _, catalog := range [][]Cosmetic{Hats, Accessories, PalColors} {
		for _, c := range catalog {
			if !have[c.ID] {
				next = append(next, c.ID)
				gained = append(gained, c.ID)
				have[c.ID] = true
				break
			}
		}
	}
	return next, gained
}
