package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Source provides pool reserves for token pairs on one exchange.
type Source interface {
	// GetName returns the exchange name
	GetName() string

	// GetRouterAddress returns the router contract whose pending calls are
	// sandwich candidates
	GetRouterAddress() common.Address

	// GetReserves returns the pair reserves oriented from the trader's side:
	// ReserveIn holds tokenIn, ReserveOut holds tokenOut
	GetReserves(ctx context.Context, tokenIn, tokenOut common.Address) (*Reserves, error)
}

// Reserves represents token pair reserves
type Reserves struct {
	ReserveIn   *big.Int
	ReserveOut  *big.Int
	Pair        common.Address
	BlockNumber uint64
}
