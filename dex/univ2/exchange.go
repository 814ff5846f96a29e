package univ2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/michaelpento.lv/sandwichsim/config"
	"github.com/michaelpento.lv/sandwichsim/dex"
	"github.com/michaelpento.lv/sandwichsim/utils"
	"github.com/michaelpento.lv/sandwichsim/utils/metrics"
)

// Contract addresses
var (
	MainnetRouter  = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	MainnetFactory = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	WETHAddress    = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

var pairInitCodeHash = common.FromHex("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")

var ErrTokenBlocked = errors.New("token is blocklisted")

// Exchange reads pool reserves from the chain. Pair bindings are cached and
// all RPC traffic runs through one rate limiter so concurrent evaluations
// cannot starve the endpoint.
type Exchange struct {
	client      *ethclient.Client
	factory     common.Address
	router      common.Address
	pairs       *lru.Cache
	limiter     *rate.Limiter
	waitTimeout time.Duration
	blocklist   []string
	logger      *zap.Logger
	metrics     *metrics.SourceMetrics
}

// NewExchange creates a reserve source backed by the given RPC client.
func NewExchange(client *ethclient.Client, cfg *config.Config) (*Exchange, error) {
	if client == nil {
		return nil, fmt.Errorf("eth client is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	cache, err := lru.New(cfg.PairCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pair cache: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Exchange{
		client:      client,
		factory:     MainnetFactory,
		router:      MainnetRouter,
		pairs:       cache,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RPCRateLimit.RequestsPerSecond), cfg.RPCRateLimit.BurstSize),
		waitTimeout: time.Duration(cfg.RPCRateLimit.WaitTimeout),
		blocklist:   cfg.BlacklistedTokens,
		logger:      logger,
	}, nil
}

// WithMetrics attaches prometheus collectors; pass nil to disable recording.
func (e *Exchange) WithMetrics(m *metrics.SourceMetrics) *Exchange {
	e.metrics = m
	return e
}

// GetName returns the exchange name
func (e *Exchange) GetName() string {
	return "UniswapV2"
}

// GetRouterAddress returns the router contract address
func (e *Exchange) GetRouterAddress() common.Address {
	return e.router
}

// SortTokens returns the pair's tokens in contract storage order, which is
// ascending byte order of the addresses.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// PairFor derives the pair contract address without a chain call, using the
// factory's deterministic deployment scheme.
func (e *Exchange) PairFor(tokenA, tokenB common.Address) common.Address {
	token0, token1 := SortTokens(tokenA, tokenB)

	salt := crypto.Keccak256(token0.Bytes(), token1.Bytes())
	payload := make([]byte, 0, 1+20+32+32)
	payload = append(payload, 0xff)
	payload = append(payload, e.factory.Bytes()...)
	payload = append(payload, salt...)
	payload = append(payload, pairInitCodeHash...)

	return common.BytesToAddress(crypto.Keccak256(payload)[12:])
}

// GetReserves returns the pair reserves oriented from the trader's side.
func (e *Exchange) GetReserves(ctx context.Context, tokenIn, tokenOut common.Address) (*dex.Reserves, error) {
	if utils.ContainsAddress(e.blocklist, tokenIn) || utils.ContainsAddress(e.blocklist, tokenOut) {
		return nil, ErrTokenBlocked
	}

	pair, err := e.pair(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}

	if err := e.waitForSlot(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	reserve0, reserve1, err := pair.GetReserves(&bind.CallOpts{Context: ctx})
	if e.metrics != nil {
		e.metrics.Requests.Inc()
		e.metrics.RequestLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			e.metrics.Errors.Inc()
		}
	}
	if err != nil {
		return nil, err
	}

	blockNumber, err := e.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}

	// Contract storage holds reserves in token0/token1 order; flip when the
	// trader pays token1.
	token0, _ := SortTokens(tokenIn, tokenOut)
	reserveIn, reserveOut := reserve0, reserve1
	if tokenIn != token0 {
		reserveIn, reserveOut = reserve1, reserve0
	}

	e.logger.Debug("read reserves",
		zap.String("pair", pair.Address().Hex()),
		zap.String("reserve_in", reserveIn.String()),
		zap.String("reserve_out", reserveOut.String()),
		zap.Uint64("block", blockNumber),
	)

	return &dex.Reserves{
		ReserveIn:   reserveIn,
		ReserveOut:  reserveOut,
		Pair:        pair.Address(),
		BlockNumber: blockNumber,
	}, nil
}

// pair returns the cached contract binding for a token pair, creating and
// caching it on first use.
func (e *Exchange) pair(tokenA, tokenB common.Address) (*Pair, error) {
	token0, token1 := SortTokens(tokenA, tokenB)

	digest := xxhash.New()
	_, _ = digest.Write(token0.Bytes())
	_, _ = digest.Write(token1.Bytes())
	key := digest.Sum64()

	if cached, ok := e.pairs.Get(key); ok {
		if e.metrics != nil {
			e.metrics.CacheHits.Inc()
		}
		return cached.(*Pair), nil
	}
	if e.metrics != nil {
		e.metrics.CacheMisses.Inc()
	}

	pair, err := NewPair(e.PairFor(token0, token1), e.client)
	if err != nil {
		return nil, err
	}
	e.pairs.Add(key, pair)
	return pair, nil
}

// waitForSlot blocks until the rate limiter admits one request or the wait
// budget runs out.
func (e *Exchange) waitForSlot(ctx context.Context) error {
	if e.limiter.Allow() {
		return nil
	}
	if e.metrics != nil {
		e.metrics.RateLimited.Inc()
	}

	waitCtx, cancel := context.WithTimeout(ctx, e.waitTimeout)
	defer cancel()
	if err := e.limiter.Wait(waitCtx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}
