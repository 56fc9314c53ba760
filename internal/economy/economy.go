// Package economy defines the OWC coin constants and conversion math.
package economy

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Symbol is the coin ticker shown to users.
const Symbol = "OWC"

// TotalSupply is the number of OWC minted into the treasury on first
// run. The ledger only moves coins between accounts after that.
const TotalSupply int64 = 1_000_000_000_000

// FromWei converts a BNB deposit in wei to whole OWC at the given
// OWC-per-BNB rate. Fractional coins are truncated.
func FromWei(wei *big.Int, rate int64) int64 {
	if wei == nil || wei.Sign() <= 0 || rate <= 0 {
		return 0
	}
	bnb := decimal.NewFromBigInt(wei, -18)
	return bnb.Mul(decimal.NewFromInt(rate)).IntPart()
}

// Convert values an OWC balance in external units at the given rate.
func Convert(balance, rate int64) decimal.Decimal {
	if rate <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(balance).Div(decimal.NewFromInt(rate))
}
