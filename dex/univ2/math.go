package univ2

import (
	"math/big"

	mathutil "github.com/michaelpento.lv/sandwichsim/utils/math"
)

// Swap fee of 0.3%, applied as an integer multiplier the way the pair
// contract does. Promote to a parameter if more fee tiers are ever needed.
var (
	feeNumerator   = big.NewInt(997)
	feeDenominator = big.NewInt(1000)
)

// PoolState holds the reserves of the two pooled assets immediately before
// a hypothetical swap.
type PoolState struct {
	ReserveA *big.Int
	ReserveB *big.Int
}

// SwapResult is the outcome of simulating one swap against a pool. Exactly
// one of AmountIn/AmountOut is set depending on which direction was queried.
// NewReserveA is the input-side reserve after the swap, NewReserveB the
// output side.
type SwapResult struct {
	AmountIn    *big.Int
	AmountOut   *big.Int
	NewReserveA *big.Int
	NewReserveB *big.Int
}

// SwapExactIn computes the output amount and resulting reserves for swapping
// amountIn against a constant-product pool. All arithmetic is exact; output
// rounding is floor division, matching on-chain behavior to the wei.
//
// Pathological inputs never fail: a drained output reserve is clamped to 1
// and an input reserve beyond the EVM word range saturates at MaxUint256.
func SwapExactIn(amountIn, reserveIn, reserveOut *big.Int) SwapResult {
	amountInWithFee := new(big.Int).Mul(amountIn, feeNumerator)

	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Add(
		new(big.Int).Mul(reserveIn, feeDenominator),
		amountInWithFee,
	)

	amountOut := new(big.Int)
	if denominator.Sign() != 0 {
		amountOut.Div(numerator, denominator)
	}

	newReserveOut := new(big.Int).Sub(reserveOut, amountOut)
	if newReserveOut.Sign() <= 0 || newReserveOut.Cmp(reserveOut) > 0 {
		newReserveOut = new(big.Int).Set(mathutil.MinReserve)
	}

	newReserveIn := new(big.Int).Add(reserveIn, amountIn)
	newReserveIn = mathutil.ClampCeiling(newReserveIn)

	return SwapResult{
		AmountOut:   amountOut,
		NewReserveA: newReserveIn,
		NewReserveB: newReserveOut,
	}
}

// SwapExactOut computes the input amount required to receive amountOut from
// a constant-product pool, plus the resulting reserves. The +1 rounds the
// required input in the pool's favor: the payer must always supply at least
// the exact amount, never less.
func SwapExactOut(amountOut, reserveIn, reserveOut *big.Int) SwapResult {
	newReserveOut := new(big.Int).Sub(reserveOut, amountOut)
	if newReserveOut.Sign() <= 0 || newReserveOut.Cmp(reserveOut) > 0 {
		newReserveOut = new(big.Int).Set(mathutil.MinReserve)
	}

	numerator := new(big.Int).Mul(
		new(big.Int).Mul(reserveIn, amountOut),
		feeDenominator,
	)
	denominator := new(big.Int).Mul(newReserveOut, feeNumerator)

	amountIn := new(big.Int).Div(numerator, denominator)
	amountIn.Add(amountIn, big.NewInt(1))

	newReserveIn := new(big.Int).Add(reserveIn, amountIn)
	newReserveIn = mathutil.ClampCeiling(newReserveIn)

	return SwapResult{
		AmountIn:    amountIn,
		NewReserveA: newReserveIn,
		NewReserveB: newReserveOut,
	}
}
