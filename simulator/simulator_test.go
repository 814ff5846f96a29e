package simulator

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/sandwichsim/utils"
)

func TestNewSimulatorRequiresClient(t *testing.T) {
	_, err := NewSimulator(nil, zap.NewNop())
	assert.Error(t, err)
}

func TestSimulateSwapRequiresParams(t *testing.T) {
	s := &Simulator{logger: zap.NewNop()}
	decoder, err := utils.NewTransactionDecoder(zap.NewNop())
	require.NoError(t, err)
	s.decoder = decoder

	_, err = s.SimulateSwap(context.Background(), common.Address{}, common.Address{}, nil)
	assert.Error(t, err)
}

func TestFreshDeadline(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	params := &utils.SwapParams{Deadline: big.NewInt(1_700_000_600)}

	assert.True(t, FreshDeadline(params, now))

	// A deadline inside the next block window is as good as expired.
	params.Deadline = big.NewInt(1_700_000_005)
	assert.False(t, FreshDeadline(params, now))

	assert.False(t, FreshDeadline(nil, now))
	assert.False(t, FreshDeadline(&utils.SwapParams{}, now))
}
