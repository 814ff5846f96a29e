// Package sandwich sizes and evaluates three-transaction sandwich plans
// (frontrun buy, victim trade, backrun sell) against a constant-product pool.
//
// Everything here is exact integer simulation: no floating point, no chain
// access, no shared state. Calls are independently re-entrant and may be run
// concurrently across candidate pools.
package sandwich

import (
	"fmt"
	"math/big"

	"github.com/michaelpento.lv/sandwichsim/config"
	"github.com/michaelpento.lv/sandwichsim/dex/univ2"
	"github.com/michaelpento.lv/sandwichsim/search"
	"github.com/michaelpento.lv/sandwichsim/types"
	"github.com/michaelpento.lv/sandwichsim/utils/metrics"

	"go.uber.org/zap"
)

// DefaultBracketHigh bounds the frontrun sizing search at 100 units of the
// pool's native asset in 18-decimal fixed point.
var DefaultBracketHigh = new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))

// Outcome is the full trace of one simulated sandwich. Revenue is the
// attacker's backrun proceeds minus their frontrun cost and may be negative:
// a losing plan is a reportable result, not a failure.
type Outcome struct {
	Revenue      *big.Int
	AttackerIn   *big.Int
	UserAmountIn *big.Int
	UserMinRecv  *big.Int
	ReserveState univ2.PoolState
	Frontrun     univ2.SwapResult
	Victim       univ2.SwapResult
	Backrun      univ2.SwapResult
}

// Evaluator runs sandwich simulations with config-supplied search settings.
type Evaluator struct {
	bracketHigh  *big.Int
	toleranceBps int64
	logger       *zap.Logger
	metrics      *metrics.SandwichMetrics
}

// New creates an evaluator from the given configuration.
func New(cfg *config.Config) (*Evaluator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	bracket := cfg.SearchBracketHigh
	if bracket == nil || bracket.Sign() <= 0 {
		bracket = DefaultBracketHigh
	}
	tolerance := cfg.SearchToleranceBps
	if tolerance <= 0 {
		tolerance = search.DefaultToleranceBps
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		bracketHigh:  bracket,
		toleranceBps: tolerance,
		logger:       logger,
	}, nil
}

// WithMetrics attaches prometheus collectors; pass nil to disable recording.
func (e *Evaluator) WithMetrics(m *metrics.SandwichMetrics) *Evaluator {
	e.metrics = m
	return e
}

// Plan searches for the optimal frontrun input for the given victim trade.
func (e *Evaluator) Plan(q *types.Query) (*types.Plan, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	attackerIn := findOptimalFrontrunIn(
		q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut,
		e.bracketHigh, e.toleranceBps,
	)

	if e.metrics != nil {
		e.metrics.PlansComputed.Inc()
	}
	e.logger.Debug("sized frontrun",
		zap.String("attacker_in", attackerIn.String()),
		zap.String("user_amount_in", q.UserAmountIn.String()),
		zap.String("user_min_recv", q.UserMinRecv.String()),
	)

	return &types.Plan{OptimalAttackerIn: attackerIn}, nil
}

// Evaluate materializes the three-leg trace for a given attacker input size.
// A nil outcome with nil error means the plan is invalid: the victim's trade
// would have reverted at this attacker size.
func (e *Evaluator) Evaluate(q *types.Query, attackerIn *big.Int) (*Outcome, error) {
	outcome, err := EvaluateSandwich(attackerIn, q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		if outcome == nil {
			e.metrics.OutcomesInvalid.Inc()
		} else {
			e.metrics.OutcomesValid.Inc()
			rev, _ := new(big.Float).SetInt(outcome.Revenue).Float64()
			e.metrics.LastRevenueWei.Set(rev)
		}
	}
	return outcome, nil
}

// FindOptimalFrontrunIn returns the largest attacker input (within the default
// 1% relative tolerance) that still lets the victim clear their minimum-output
// constraint over the default [0, 100e18] bracket. Extracting right up to the
// revert boundary is the point: a reverted victim trade yields no sandwich.
func FindOptimalFrontrunIn(userAmountIn, userMinRecv, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	q := &types.Query{
		UserAmountIn: userAmountIn,
		UserMinRecv:  userMinRecv,
		ReserveIn:    reserveIn,
		ReserveOut:   reserveOut,
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	return findOptimalFrontrunIn(
		userAmountIn, userMinRecv, reserveIn, reserveOut,
		DefaultBracketHigh, search.DefaultToleranceBps,
	), nil
}

func findOptimalFrontrunIn(userAmountIn, userMinRecv, reserveIn, reserveOut, bracketHigh *big.Int, toleranceBps int64) *big.Int {
	// Victim output as a function of the attacker's frontrun size. Larger
	// frontruns leave the victim less to receive, so this is monotonically
	// non-increasing: exactly the shape the bisection requires.
	objective := func(attackerIn *big.Int) *big.Int {
		frontrun := univ2.SwapExactIn(attackerIn, reserveIn, reserveOut)
		victim := univ2.SwapExactIn(userAmountIn, frontrun.NewReserveA, frontrun.NewReserveB)
		return victim.AmountOut
	}
	accept := func(victimOut *big.Int) bool {
		return victimOut.Cmp(userMinRecv) >= 0
	}

	return search.Bisect(big.NewInt(0), bracketHigh, objective, accept, toleranceBps)
}

// EvaluateSandwich simulates the full sandwich at a fixed attacker size:
// frontrun, victim trade, then the backrun selling back exactly the frontrun
// proceeds against the post-victim reserves. The three legs are strictly
// ordered, each feeding its reserves to the next.
//
// Returns (nil, nil) when the simulated victim output falls below their
// minimum: the victim's transaction would never have been accepted on-chain
// at this attacker size, which is a common and expected result, not an error.
func EvaluateSandwich(attackerIn, userAmountIn, userMinRecv, reserveIn, reserveOut *big.Int) (*Outcome, error) {
	q := &types.Query{
		UserAmountIn: userAmountIn,
		UserMinRecv:  userMinRecv,
		ReserveIn:    reserveIn,
		ReserveOut:   reserveOut,
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	if attackerIn == nil {
		return nil, types.ErrNilAmount
	}
	if attackerIn.Sign() < 0 {
		return nil, types.ErrNegativeAmount
	}

	frontrun := univ2.SwapExactIn(attackerIn, reserveIn, reserveOut)
	victim := univ2.SwapExactIn(userAmountIn, frontrun.NewReserveA, frontrun.NewReserveB)
	// The attacker sells back what the frontrun bought, with the reserve
	// roles swapped relative to the first leg.
	backrun := univ2.SwapExactIn(frontrun.AmountOut, victim.NewReserveB, victim.NewReserveA)

	if victim.AmountOut.Cmp(userMinRecv) < 0 {
		return nil, nil
	}

	return &Outcome{
		Revenue:      new(big.Int).Sub(backrun.AmountOut, attackerIn),
		AttackerIn:   new(big.Int).Set(attackerIn),
		UserAmountIn: new(big.Int).Set(userAmountIn),
		UserMinRecv:  new(big.Int).Set(userMinRecv),
		ReserveState: univ2.PoolState{
			ReserveA: new(big.Int).Set(reserveIn),
			ReserveB: new(big.Int).Set(reserveOut),
		},
		Frontrun: frontrun,
		Victim:   victim,
		Backrun:  backrun,
	}, nil
}
