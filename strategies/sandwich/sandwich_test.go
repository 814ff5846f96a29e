package sandwich

import (
	"math/big"
	"testing"

	"github.com/michaelpento.lv/sandwichsim/config"
	"github.com/michaelpento.lv/sandwichsim/dex/univ2"
	"github.com/michaelpento.lv/sandwichsim/types"
	"github.com/michaelpento.lv/sandwichsim/utils/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference scenario: a balanced 1M/1M pool, a victim swapping 1000 with a
// minimum output of 900. Without interference the victim would receive 996,
// leaving roughly 10% of slack for the attacker to consume.
func referenceQuery() *types.Query {
	return &types.Query{
		UserAmountIn: big.NewInt(1000),
		UserMinRecv:  big.NewInt(900),
		ReserveIn:    big.NewInt(1_000_000),
		ReserveOut:   big.NewInt(1_000_000),
	}
}

func TestEvaluateSandwichZeroAttacker(t *testing.T) {
	q := referenceQuery()

	outcome, err := EvaluateSandwich(big.NewInt(0), q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	// With no frontrun the victim trades against untouched reserves.
	assert.Equal(t, int64(996), outcome.Victim.AmountOut.Int64())
	// Nothing bought means nothing to sell back.
	assert.Zero(t, outcome.Frontrun.AmountOut.Sign())
	assert.Zero(t, outcome.Backrun.AmountOut.Sign())
	assert.Zero(t, outcome.Revenue.Sign())
}

func TestEvaluateSandwichInvalidPlanIsNilNotError(t *testing.T) {
	q := referenceQuery()

	// A 200k frontrun against a 1M pool moves the price far enough that the
	// victim's output drops below their minimum and their trade reverts.
	outcome, err := EvaluateSandwich(big.NewInt(200_000), q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	assert.Nil(t, outcome)
}

func TestEvaluateSandwichRevenueCanBeNegative(t *testing.T) {
	q := referenceQuery()

	// 50k is inside the valid region but the victim's tiny trade cannot move
	// the price enough to cover two rounds of swap fees plus slippage.
	outcome, err := EvaluateSandwich(big.NewInt(50_000), q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.GreaterOrEqual(t, outcome.Victim.AmountOut.Int64(), int64(900))
	assert.Negative(t, outcome.Revenue.Sign(), "expected a losing sandwich, got revenue %v", outcome.Revenue)
}

func TestEvaluateSandwichLegOrdering(t *testing.T) {
	q := referenceQuery()
	attackerIn := big.NewInt(10_000)

	outcome, err := EvaluateSandwich(attackerIn, q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	// Each leg must trade against the reserves its predecessor left behind.
	frontrun := univ2.SwapExactIn(attackerIn, q.ReserveIn, q.ReserveOut)
	assert.Zero(t, outcome.Frontrun.AmountOut.Cmp(frontrun.AmountOut))

	victim := univ2.SwapExactIn(q.UserAmountIn, frontrun.NewReserveA, frontrun.NewReserveB)
	assert.Zero(t, outcome.Victim.AmountOut.Cmp(victim.AmountOut))

	// The backrun sells the frontrun proceeds in the opposite direction.
	backrun := univ2.SwapExactIn(frontrun.AmountOut, victim.NewReserveB, victim.NewReserveA)
	assert.Zero(t, outcome.Backrun.AmountOut.Cmp(backrun.AmountOut))
	assert.Zero(t, outcome.Revenue.Cmp(new(big.Int).Sub(backrun.AmountOut, attackerIn)))
}

func TestVictimOutputMonotoneInAttackerSize(t *testing.T) {
	q := referenceQuery()

	victimOut := func(attackerIn int64) *big.Int {
		frontrun := univ2.SwapExactIn(big.NewInt(attackerIn), q.ReserveIn, q.ReserveOut)
		victim := univ2.SwapExactIn(q.UserAmountIn, frontrun.NewReserveA, frontrun.NewReserveB)
		return victim.AmountOut
	}

	prev := victimOut(0)
	for _, attackerIn := range []int64{1, 100, 1000, 10_000, 50_000, 100_000, 500_000} {
		cur := victimOut(attackerIn)
		assert.LessOrEqual(t, cur.Cmp(prev), 0,
			"victim output rose from %v to %v at attacker size %d", prev, cur, attackerIn)
		prev = cur
	}
}

func TestFindOptimalFrontrunIn(t *testing.T) {
	q := referenceQuery()

	attackerIn, err := FindOptimalFrontrunIn(q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	require.NotNil(t, attackerIn)

	// The optimum must itself produce a valid sandwich.
	outcome, err := EvaluateSandwich(attackerIn, q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	require.NotNil(t, outcome, "search returned %v but the plan is invalid there", attackerIn)

	// It should sit near the revert boundary: the victim barely clears their
	// minimum and a meaningful fraction of the pool was bought up front.
	assert.GreaterOrEqual(t, outcome.Victim.AmountOut.Int64(), int64(900))
	assert.LessOrEqual(t, outcome.Victim.AmountOut.Int64(), int64(905))
	assert.Greater(t, attackerIn.Int64(), int64(10_000))
}

func TestFindOptimalFrontrunInDeterministic(t *testing.T) {
	q := referenceQuery()

	first, err := FindOptimalFrontrunIn(q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	second, err := FindOptimalFrontrunIn(q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)

	require.Zero(t, first.Cmp(second), "identical inputs must produce identical sizing")
}

func TestFindOptimalFrontrunInUnsatisfiableMinimum(t *testing.T) {
	q := referenceQuery()
	// Even an untouched pool cannot pay out more than ~996 for this trade.
	q.UserMinRecv = big.NewInt(2000)

	attackerIn, err := FindOptimalFrontrunIn(q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	require.NotNil(t, attackerIn)
	assert.GreaterOrEqual(t, attackerIn.Sign(), 0)

	outcome, err := EvaluateSandwich(attackerIn, q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	require.NoError(t, err)
	assert.Nil(t, outcome, "no attacker size can make an unsatisfiable minimum valid")
}

func TestEvaluateSandwichValidation(t *testing.T) {
	q := referenceQuery()

	_, err := EvaluateSandwich(nil, q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	assert.ErrorIs(t, err, types.ErrNilAmount)

	_, err = EvaluateSandwich(big.NewInt(-1), q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	assert.ErrorIs(t, err, types.ErrNegativeAmount)

	_, err = EvaluateSandwich(big.NewInt(0), big.NewInt(-5), q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	assert.ErrorIs(t, err, types.ErrNegativeAmount)

	_, err = EvaluateSandwich(big.NewInt(0), q.UserAmountIn, q.UserMinRecv, big.NewInt(0), q.ReserveOut)
	assert.ErrorIs(t, err, types.ErrInvalidReserves)

	_, err = FindOptimalFrontrunIn(q.UserAmountIn, nil, q.ReserveIn, q.ReserveOut)
	assert.ErrorIs(t, err, types.ErrNilAmount)
}

func TestEvaluatorPlanAndEvaluate(t *testing.T) {
	evaluator, err := New(config.DefaultConfig())
	require.NoError(t, err)
	evaluator.WithMetrics(metrics.NewSandwichMetrics("test_sandwich_evaluator"))

	q := referenceQuery()

	plan, err := evaluator.Plan(q)
	require.NoError(t, err)
	require.NotNil(t, plan.OptimalAttackerIn)

	outcome, err := evaluator.Evaluate(q, plan.OptimalAttackerIn)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.GreaterOrEqual(t, outcome.Victim.AmountOut.Cmp(q.UserMinRecv), 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(evaluator.metrics.PlansComputed))
	assert.Equal(t, float64(1), testutil.ToFloat64(evaluator.metrics.OutcomesValid))
}

func TestEvaluatorRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func BenchmarkFindOptimalFrontrunIn(b *testing.B) {
	q := referenceQuery()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = FindOptimalFrontrunIn(q.UserAmountIn, q.UserMinRecv, q.ReserveIn, q.ReserveOut)
	}
}
