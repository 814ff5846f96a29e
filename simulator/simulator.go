package simulator

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/sandwichsim/utils"
)

// SimulationResult is the node's verdict on a candidate swap call.
type SimulationResult struct {
	Success bool
	GasUsed uint64
	Error   error
}

// Simulator checks swap calls against a live node before they are trusted as
// sandwich inputs. The pool model assumes the victim's transaction is well
// formed; a call the node rejects outright (bad allowance, expired deadline)
// never reaches the pool and is not worth planning around.
type Simulator struct {
	client  *ethclient.Client
	decoder *utils.TransactionDecoder
	logger  *zap.Logger
}

// NewSimulator creates a swap call simulator.
func NewSimulator(client *ethclient.Client, logger *zap.Logger) (*Simulator, error) {
	if client == nil {
		return nil, fmt.Errorf("eth client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	decoder, err := utils.NewTransactionDecoder(logger)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		client:  client,
		decoder: decoder,
		logger:  logger,
	}, nil
}

// SimulateSwap replays the victim's swap as an eth_call from their address
// and reports whether the node accepts it, along with the gas estimate.
func (s *Simulator) SimulateSwap(ctx context.Context, from, router common.Address, params *utils.SwapParams) (*SimulationResult, error) {
	if params == nil {
		return nil, fmt.Errorf("swap params are required")
	}

	callData, err := s.decoder.EncodeSwapExactTokensForTokens(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap call: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	msg := ethereum.CallMsg{
		From:     from,
		To:       &router,
		Gas:      300_000,
		GasPrice: gasPrice,
		Value:    big.NewInt(0),
		Data:     callData,
	}

	gasUsed, err := s.client.EstimateGas(ctx, msg)
	if err != nil {
		s.logger.Debug("swap call rejected at gas estimation", zap.Error(err))
		return &SimulationResult{Success: false, GasUsed: gasUsed, Error: err}, nil
	}

	if _, err := s.client.CallContract(ctx, msg, nil); err != nil {
		s.logger.Debug("swap call reverted", zap.Error(err))
		return &SimulationResult{Success: false, GasUsed: gasUsed, Error: err}, nil
	}

	return &SimulationResult{Success: true, GasUsed: gasUsed}, nil
}

// FreshDeadline reports whether the swap's deadline still leaves room for
// inclusion in the next block.
func FreshDeadline(params *utils.SwapParams, now time.Time) bool {
	if params == nil || params.Deadline == nil {
		return false
	}
	// One block of headroom.
	return params.Deadline.Cmp(big.NewInt(now.Unix()+12)) >= 0
}
