package games

// DiceRewards maps roll tiers to prizes. Every roll pays something.
type DiceRewards struct {
	High int64 // 5-6
	Mid  int64 // 3-4
	Low  int64 // 1-2
}

// DiceReward scores a Telegram dice roll (1-6).
func DiceReward(value int, r DiceRewards) int64 {
	switch {
	case value >= 5:
		return r.High
	case value >= 3:
		return r.Mid
	default:
		return r.Low
	}
}
