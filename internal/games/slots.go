package games

import "strings"

// SlotSymbols are the reel faces. The web demo spins the same five.
var SlotSymbols = []string{"🍒", "🔔", "🍋", "⭐", "7️⃣"}

// SlotsPayouts holds the prize for three of a kind and for a pair.
type SlotsPayouts struct {
	Triple int64
	Pair   int64
}

// SlotsResult is one pull of the machine.
type SlotsResult struct {
	Reels  [3]string `json:"reels"`
	Reward int64     `json:"reward"`
}

// SpinSlots pulls the lever: three independent reels, scored against
// the given payouts.
func SpinSlots(p SlotsPayouts) SlotsResult {
	var reels [3]string
	for i := range reels {
		reels[i] = SlotSymbols[roll(len(SlotSymbols))]
	}
	return scoreSlots(reels, p)
}

// scoreSlots pays the triple prize for three matching reels, the pair
// prize for any two matching, nothing otherwise.
func scoreSlots(reels [3]string, p SlotsPayouts) SlotsResult {
	r := SlotsResult{Reels: reels}
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		r.Reward = p.Triple
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		r.Reward = p.Pair
	}
	return r
}

// Won reports whether the pull paid anything.
func (r SlotsResult) Won() bool {
	return r.Reward > 0
}

// Display renders the reels as the bot shows them: |🍒|🔔|🍋|
func (r SlotsResult) Display() string {
	return "|" + strings.Join(r.Reels[:], "|") + "|"
}
