package types

import (
	"errors"
	"math/big"
)

// Query describes a pending victim trade against a single pool: the victim's
// declared input, the minimum output below which their transaction reverts,
// and the pool reserves as of the latest chain read. Reserves are oriented
// from the victim's point of view (ReserveIn holds the asset the victim pays).
type Query struct {
	UserAmountIn *big.Int
	UserMinRecv  *big.Int
	ReserveIn    *big.Int
	ReserveOut   *big.Int
}

// Plan is the output of the frontrun sizing search.
type Plan struct {
	OptimalAttackerIn *big.Int
}

var (
	ErrNilAmount       = errors.New("amount must not be nil")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrInvalidReserves = errors.New("pool reserves must be positive")
)

// Validate rejects malformed queries at the boundary. Pool arithmetic further
// down clamps pathological values instead of failing, but nil, negative, or
// zero-reserve inputs are caller mistakes and are reported as errors here.
func (q *Query) Validate() error {
	for _, v := range []*big.Int{q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut} {
		if v == nil {
			return ErrNilAmount
		}
	}
	if q.UserAmountIn.Sign() < 0 || q.UserMinRecv.Sign() < 0 {
		return ErrNegativeAmount
	}
	if q.ReserveIn.Sign() <= 0 || q.ReserveOut.Sign() <= 0 {
		return ErrInvalidReserves
	}
	return nil
}
