// Package games implements the hub's chat games: slots, roulette,
// dice and the quiz. Game logic is pure; rolls use crypto/rand so
// outcomes cannot be predicted from a seed.
package games

import (
	"crypto/rand"
	"math/big"
)

// roll returns a uniform number in [0, n).
func roll(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// Reader only fails when the OS entropy source is broken.
		return 0
	}
	return int(v.Int64())
}
