package testutils

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/sandwichsim/utils"
)

// CreateMockTransaction creates a signed transfer transaction for testing
func CreateMockTransaction(t *testing.T) *ethtypes.Transaction {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	signer := ethtypes.NewEIP155Signer(big.NewInt(1))

	tx := ethtypes.NewTransaction(
		0, // nonce
		common.HexToAddress("0x1234567890123456789012345678901234567890"),
		big.NewInt(1000000000000000000), // 1 ETH
		21000,
		big.NewInt(20000000000),
		nil,
	)

	signedTx, err := ethtypes.SignTx(tx, signer, privateKey)
	require.NoError(t, err)

	return signedTx
}

// CreateSwapTransaction creates a signed router swap carrying the given
// victim parameters, usable as a realistic decoder input.
func CreateSwapTransaction(t *testing.T, router common.Address, params *utils.SwapParams) *ethtypes.Transaction {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	decoder, err := utils.NewTransactionDecoder(zap.NewNop())
	require.NoError(t, err)
	data, err := decoder.EncodeSwapExactTokensForTokens(params)
	require.NoError(t, err)

	signer := ethtypes.NewEIP155Signer(big.NewInt(1))
	tx := ethtypes.NewTransaction(
		0,
		router,
		big.NewInt(0),
		200_000,
		big.NewInt(20000000000),
		data,
	)

	signedTx, err := ethtypes.SignTx(tx, signer, privateKey)
	require.NoError(t, err)

	return signedTx
}
