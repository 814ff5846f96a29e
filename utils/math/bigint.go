package math

import (
	"math/big"

	ethmath "github.com/ethereum/go-ethereum/common/math"
)

var (
	// MaxUint256 mirrors the EVM word ceiling. Reserves saturate here
	// instead of wrapping when an input exceeds the representable range.
	MaxUint256 = new(big.Int).Set(ethmath.MaxBig256)

	// MinReserve is the floor a pool reserve is clamped to. A drained pool
	// keeps one indivisible unit so follow-up quotes stay well defined.
	MinReserve = big.NewInt(1)
)

// Min returns a copy of the smaller of x and y.
func Min(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Set(y)
}

// Max returns a copy of the larger of x and y.
func Max(x, y *big.Int) *big.Int {
	if x.Cmp(y) >= 0 {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Set(y)
}

// Mid returns floor((lo+hi)/2).
func Mid(lo, hi *big.Int) *big.Int {
	mid := new(big.Int).Add(lo, hi)
	return mid.Rsh(mid, 1)
}

// Bps returns floor(x*bps/10000), the basis-point fraction of x.
func Bps(x *big.Int, bps int64) *big.Int {
	f := new(big.Int).Mul(x, big.NewInt(bps))
	return f.Div(f, big.NewInt(10000))
}

// ClampFloor returns r, or MinReserve when r has dropped to zero or below.
func ClampFloor(r *big.Int) *big.Int {
	if r.Cmp(MinReserve) < 0 {
		return new(big.Int).Set(MinReserve)
	}
	return r
}

// ClampCeiling returns r, or MaxUint256 when r exceeds the representable range.
func ClampCeiling(r *big.Int) *big.Int {
	if r.Cmp(MaxUint256) > 0 {
		return new(big.Int).Set(MaxUint256)
	}
	return r
}
