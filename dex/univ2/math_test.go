package univ2

import (
	"math/big"
	"testing"

	mathutil "github.com/michaelpento.lv/sandwichsim/utils/math"
)

func TestSwapMath(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"TestSwapExactInBalancedPool", testSwapExactInBalancedPool},
		{"TestSwapExactInZeroInput", testSwapExactInZeroInput},
		{"TestSwapExactInClampBoundary", testSwapExactInClampBoundary},
		{"TestSwapExactInReserveCeiling", testSwapExactInReserveCeiling},
		{"TestSwapExactOutFavorsPool", testSwapExactOutFavorsPool},
		{"TestSwapExactOutDrainClamp", testSwapExactOutDrainClamp},
		{"TestInvariantConservation", testInvariantConservation},
		{"TestRoundTripBound", testRoundTripBound},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.fn)
	}
}

func testSwapExactInBalancedPool(t *testing.T) {
	// 1000 in against a 1M/1M pool: 997000*1000000/(997000+1000000000) = 996.
	res := SwapExactIn(big.NewInt(1000), big.NewInt(1_000_000), big.NewInt(1_000_000))

	if res.AmountOut.Int64() != 996 {
		t.Errorf("AmountOut = %v; want 996", res.AmountOut)
	}
	if res.NewReserveA.Int64() != 1_001_000 {
		t.Errorf("NewReserveA = %v; want 1001000", res.NewReserveA)
	}
	if res.NewReserveB.Int64() != 999_004 {
		t.Errorf("NewReserveB = %v; want 999004", res.NewReserveB)
	}
}

func testSwapExactInZeroInput(t *testing.T) {
	res := SwapExactIn(big.NewInt(0), big.NewInt(1_000_000), big.NewInt(1_000_000))

	if res.AmountOut.Sign() != 0 {
		t.Errorf("AmountOut = %v; want 0", res.AmountOut)
	}
	if res.NewReserveA.Int64() != 1_000_000 || res.NewReserveB.Int64() != 1_000_000 {
		t.Errorf("reserves moved on zero input: %v / %v", res.NewReserveA, res.NewReserveB)
	}
}

func testSwapExactInClampBoundary(t *testing.T) {
	// Near-drained pool: the output reserve must never fall below 1.
	amounts := []int64{1, 2, 1000, 1_000_000_000}
	for _, a := range amounts {
		res := SwapExactIn(big.NewInt(a), big.NewInt(1), big.NewInt(1))
		if res.NewReserveB.Cmp(big.NewInt(1)) < 0 {
			t.Errorf("SwapExactIn(%d, 1, 1) drained NewReserveB to %v", a, res.NewReserveB)
		}
	}
}

func testSwapExactInReserveCeiling(t *testing.T) {
	// An input pushing the reserve past the EVM word range saturates.
	res := SwapExactIn(mathutil.MaxUint256, mathutil.MaxUint256, big.NewInt(1_000_000))
	if res.NewReserveA.Cmp(mathutil.MaxUint256) != 0 {
		t.Errorf("NewReserveA = %v; want MaxUint256", res.NewReserveA)
	}
}

func testSwapExactOutFavorsPool(t *testing.T) {
	rIn := big.NewInt(1_000_000)
	rOut := big.NewInt(1_000_000)

	res := SwapExactOut(big.NewInt(996), rIn, rOut)

	// Re-running the required input forward must deliver at least the
	// requested output.
	forward := SwapExactIn(res.AmountIn, rIn, rOut)
	if forward.AmountOut.Cmp(big.NewInt(996)) < 0 {
		t.Errorf("input %v delivers only %v; want >= 996", res.AmountIn, forward.AmountOut)
	}
}

func testSwapExactOutDrainClamp(t *testing.T) {
	// Requesting the entire output reserve (or more) clamps it to 1 instead
	// of underflowing.
	for _, out := range []int64{1_000_000, 2_000_000} {
		res := SwapExactOut(big.NewInt(out), big.NewInt(1_000_000), big.NewInt(1_000_000))
		if res.NewReserveB.Int64() != 1 {
			t.Errorf("SwapExactOut(%d) NewReserveB = %v; want 1", out, res.NewReserveB)
		}
		if res.AmountIn.Sign() <= 0 {
			t.Errorf("SwapExactOut(%d) AmountIn = %v; want > 0", out, res.AmountIn)
		}
	}
}

func testInvariantConservation(t *testing.T) {
	tests := []struct {
		amountIn, reserveIn, reserveOut int64
	}{
		{1000, 1_000_000, 1_000_000},
		{1, 1_000_000, 500},
		{123_456, 10_000_000, 3_333_333},
		{999_999, 1_000_000, 1_000_000},
	}

	for _, tt := range tests {
		res := SwapExactIn(big.NewInt(tt.amountIn), big.NewInt(tt.reserveIn), big.NewInt(tt.reserveOut))

		before := new(big.Int).Mul(big.NewInt(tt.reserveIn), big.NewInt(tt.reserveOut))
		after := new(big.Int).Mul(res.NewReserveA, res.NewReserveB)

		if after.Cmp(before) < 0 {
			t.Errorf("SwapExactIn(%d, %d, %d) shrank the invariant: %v < %v",
				tt.amountIn, tt.reserveIn, tt.reserveOut, after, before)
		}
	}
}

func testRoundTripBound(t *testing.T) {
	tests := []struct {
		amountIn, reserveIn, reserveOut int64
	}{
		{1000, 1_000_000, 1_000_000},
		{500, 750_000, 2_000_000},
		{98_765, 10_000_000, 10_000_000},
	}

	for _, tt := range tests {
		rIn := big.NewInt(tt.reserveIn)
		rOut := big.NewInt(tt.reserveOut)

		out := SwapExactIn(big.NewInt(tt.amountIn), rIn, rOut).AmountOut
		back := SwapExactOut(out, rIn, rOut).AmountIn

		// Rounding always favors the pool, never the trader.
		if back.Cmp(big.NewInt(tt.amountIn)) < 0 {
			t.Errorf("round trip of %d returned cheaper input %v", tt.amountIn, back)
		}
	}
}

func BenchmarkSwapExactIn(b *testing.B) {
	amountIn := big.NewInt(1_000_000)
	reserveIn, _ := new(big.Int).SetString("5000000000000000000000", 10)
	reserveOut, _ := new(big.Int).SetString("12000000000000000000000000", 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SwapExactIn(amountIn, reserveIn, reserveOut)
	}
}
