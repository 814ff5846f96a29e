package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/sandwichsim/types"
)

const UniswapV2RouterABI = `[{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}]`

// SwapParams are the decoded arguments of a router swap call: the victim's
// declared input, their revert floor, and the token path they trade along.
type SwapParams struct {
	TokenIn      common.Address
	TokenOut     common.Address
	AmountIn     *big.Int
	AmountOutMin *big.Int
	Path         []common.Address
	To           common.Address
	Deadline     *big.Int
}

// TransactionDecoder extracts victim swap parameters from raw calldata.
type TransactionDecoder struct {
	uniswapV2Router abi.ABI
	logger          *zap.Logger
}

// NewTransactionDecoder creates a new transaction decoder
func NewTransactionDecoder(logger *zap.Logger) (*TransactionDecoder, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	v2Router, err := abi.JSON(strings.NewReader(UniswapV2RouterABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse UniswapV2Router ABI: %w", err)
	}

	return &TransactionDecoder{
		uniswapV2Router: v2Router,
		logger:          logger,
	}, nil
}

// DecodeSwap decodes swapExactTokensForTokens calldata.
func (d *TransactionDecoder) DecodeSwap(data []byte) (*SwapParams, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("invalid data length")
	}

	method, err := d.uniswapV2Router.MethodById(data[:4])
	if err != nil {
		return nil, fmt.Errorf("failed to decode method: %w", err)
	}

	params := make(map[string]interface{})
	if err := method.Inputs.UnpackIntoMap(params, data[4:]); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}

	path, ok := params["path"].([]common.Address)
	if !ok || len(path) < 2 {
		return nil, fmt.Errorf("invalid path")
	}

	amountIn, ok := params["amountIn"].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid amountIn")
	}

	amountOutMin, ok := params["amountOutMin"].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid amountOutMin")
	}

	to, ok := params["to"].(common.Address)
	if !ok {
		return nil, fmt.Errorf("invalid to address")
	}

	deadline, ok := params["deadline"].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid deadline")
	}

	return &SwapParams{
		TokenIn:      path[0],
		TokenOut:     path[len(path)-1],
		AmountIn:     amountIn,
		AmountOutMin: amountOutMin,
		Path:         path,
		To:           to,
		Deadline:     deadline,
	}, nil
}

// DecodeTransaction decodes a pending transaction addressed to the given
// router. Transactions to other contracts are not swap candidates.
func (d *TransactionDecoder) DecodeTransaction(tx *ethtypes.Transaction, router common.Address) (*SwapParams, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is nil")
	}
	if tx.To() == nil || *tx.To() != router {
		return nil, fmt.Errorf("transaction is not addressed to the router")
	}
	return d.DecodeSwap(tx.Data())
}

// EncodeSwapExactTokensForTokens encodes parameters for swapExactTokensForTokens
func (d *TransactionDecoder) EncodeSwapExactTokensForTokens(params *SwapParams) ([]byte, error) {
	if params == nil {
		return nil, fmt.Errorf("params cannot be nil")
	}

	return d.uniswapV2Router.Pack(
		"swapExactTokensForTokens",
		params.AmountIn,
		params.AmountOutMin,
		params.Path,
		params.To,
		params.Deadline,
	)
}

// ToQuery pairs decoded swap parameters with current pool reserves, oriented
// from the victim's side, producing the input of a sandwich evaluation. Only
// single-hop swaps map onto one pool's reserves.
func (p *SwapParams) ToQuery(reserveIn, reserveOut *big.Int) (*types.Query, error) {
	if len(p.Path) != 2 {
		return nil, fmt.Errorf("multi-hop path of length %d cannot target a single pool", len(p.Path))
	}
	q := &types.Query{
		UserAmountIn: p.AmountIn,
		UserMinRecv:  p.AmountOutMin,
		ReserveIn:    reserveIn,
		ReserveOut:   reserveOut,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
