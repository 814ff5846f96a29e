package gas

import (
	"math/big"
	"math/rand"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/sandwichsim/utils/metrics"
)

// Per-leg gas limits for a sandwich bundle. A router swap through one pair
// costs roughly 100k gas on top of the 21k transaction base; the backrun
// includes an extra approval-path allowance check.
const (
	FrontrunGasLimit uint64 = 125_000
	BackrunGasLimit  uint64 = 135_000
)

// Predictor computes the next block's base fee from the parent block header.
// The randomness source is injected so simulations can be made deterministic.
type Predictor struct {
	logger  *zap.Logger
	rng     *rand.Rand
	metrics *metrics.GasMetrics
}

// NewPredictor creates a predictor. A nil rng gets a time-seeded source.
func NewPredictor(logger *zap.Logger, rng *rand.Rand) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Predictor{logger: logger, rng: rng}
}

// WithMetrics attaches prometheus collectors; pass nil to disable recording.
func (p *Predictor) WithMetrics(m *metrics.GasMetrics) *Predictor {
	p.metrics = m
	return p
}

// PredictBaseFee computes the next block's base fee from the parent block's
// base fee and gas usage, per the fee market rules: the fee moves toward the
// half-full gas target by up to 1/8 per block. A random 0-9 wei is added so
// the prediction matches bundles priced against a small spread of outcomes
// rather than one exact value.
func (p *Predictor) PredictBaseFee(parentBaseFee *big.Int, parentGasUsed, parentGasLimit uint64) *big.Int {
	if parentBaseFee == nil {
		return nil
	}
	target := parentGasLimit / 2
	if target == 0 {
		return new(big.Int).Set(parentBaseFee)
	}

	delta := new(big.Int).Sub(
		new(big.Int).SetUint64(parentGasUsed),
		new(big.Int).SetUint64(target),
	)
	adjustment := new(big.Int).Mul(parentBaseFee, delta)
	adjustment.Quo(adjustment, new(big.Int).SetUint64(target))
	adjustment.Quo(adjustment, big.NewInt(8))

	next := new(big.Int).Add(parentBaseFee, adjustment)
	next.Add(next, big.NewInt(int64(p.rng.Intn(10))))

	if p.metrics != nil {
		p.metrics.Predictions.Inc()
		fee, _ := new(big.Float).SetInt(next).Float64()
		p.metrics.PredictedBaseFee.Observe(fee)
	}
	p.logger.Debug("predicted base fee",
		zap.String("parent_base_fee", parentBaseFee.String()),
		zap.Uint64("parent_gas_used", parentGasUsed),
		zap.Uint64("parent_gas_limit", parentGasLimit),
		zap.String("next_base_fee", next.String()),
	)
	return next
}

// PredictFromHeader is PredictBaseFee fed from a chain block header.
func (p *Predictor) PredictFromHeader(header *ethtypes.Header) *big.Int {
	if header == nil || header.BaseFee == nil {
		return nil
	}
	return p.PredictBaseFee(header.BaseFee, header.GasUsed, header.GasLimit)
}

// SandwichGasCost returns the attacker's total gas spend for the two bundle
// legs at the given fee levels. The victim pays their own gas.
func SandwichGasCost(baseFee, priorityFee *big.Int) *big.Int {
	gasPrice := new(big.Int).Add(baseFee, priorityFee)
	totalGas := new(big.Int).SetUint64(FrontrunGasLimit + BackrunGasLimit)
	return gasPrice.Mul(gasPrice, totalGas)
}
