// Package search provides the numeric root search used to size frontrun
// trades: a bisection over a monotonic objective function.
package search

import (
	"math/big"

	mathutil "github.com/michaelpento.lv/sandwichsim/utils/math"
)

// DefaultToleranceBps is the relative convergence threshold used when the
// caller has no stronger requirement: 100 basis points (1%) of the bracket
// midpoint.
const DefaultToleranceBps = 100

// Bisect locates the boundary where accept flips from true to false, assuming
// objective is monotonically non-increasing over [low, high] and accept holds
// at low but not at high.
//
// The bracket is halved until its span is within toleranceBps of the midpoint
// magnitude (never less than one indivisible unit, so integer brackets always
// terminate). The returned value satisfies accept and lies within the final
// bracket; a negative result is mapped to zero.
//
// Supplying a bracket on which objective is not monotonic, or on which accept
// never (or always) holds, is a caller error: the search still terminates but
// the result is unspecified. That precondition is deliberately not validated,
// since checking it would require evaluating objective everywhere.
//
// Bisect is pure and deterministic; it performs O(log(range/tolerance))
// objective evaluations and is safe for concurrent use.
func Bisect(low, high *big.Int, objective func(*big.Int) *big.Int, accept func(*big.Int) bool, toleranceBps int64) *big.Int {
	lo := new(big.Int).Set(low)
	hi := new(big.Int).Set(high)

	for {
		mid := mathutil.Mid(lo, hi)

		span := new(big.Int).Sub(hi, lo)
		limit := mathutil.Bps(mid, toleranceBps)
		if limit.Sign() <= 0 {
			limit = big.NewInt(1)
		}

		if span.Cmp(limit) <= 0 {
			if mid.Sign() < 0 {
				return big.NewInt(0)
			}
			// One closing evaluation: hand back the midpoint only if it
			// is on the accepted side of the boundary, otherwise the
			// tightest accepted bound found so far.
			if accept(objective(mid)) {
				return mid
			}
			if lo.Sign() < 0 {
				return big.NewInt(0)
			}
			return lo
		}

		if accept(objective(mid)) {
			lo = mid
		} else {
			hi = mid
		}
	}
}
