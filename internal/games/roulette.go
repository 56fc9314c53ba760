package games

import "errors"

// Roulette wheel bounds, European single-zero layout.
const (
	RouletteMin = 0
	RouletteMax = 36
)

var (
	ErrBadNumber = errors.New("number out of range")
	ErrBadBet    = errors.New("bet must be positive")
)

// RouletteResult is one spin against a straight-up bet.
type RouletteResult struct {
	Number int   `json:"number"` // player's pick
	Spin   int   `json:"spin"`
	Bet    int64 `json:"bet"`
	Payout int64 `json:"payout"` // zero on a miss
}

// Hit reports whether the ball landed on the player's number.
func (r RouletteResult) Hit() bool {
	return r.Spin == r.Number
}

// SpinRoulette spins the wheel against a straight-up bet on number.
// A hit pays bet times factor; the caller settles the stake.
func SpinRoulette(number int, bet, factor int64) (RouletteResult, error) {
	if number < RouletteMin || number > RouletteMax {
		return RouletteResult{}, ErrBadNumber
	}
	if bet <= 0 {
		return RouletteResult{}, ErrBadBet
	}
	return scoreRoulette(number, roll(RouletteMax+1), bet, factor), nil
}

func scoreRoulette(number, spin int, bet, factor int64) RouletteResult {
	r := RouletteResult{Number: number, Spin: spin, Bet: bet}
	if r.Hit() {
		r.Payout = bet * factor
	}
	return r
}
