package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/michaelpento.lv/sandwichsim/config"
	"github.com/michaelpento.lv/sandwichsim/dex/univ2"
	"github.com/michaelpento.lv/sandwichsim/gas"
	"github.com/michaelpento.lv/sandwichsim/simulator"
	"github.com/michaelpento.lv/sandwichsim/strategies/sandwich"
	"github.com/michaelpento.lv/sandwichsim/types"
	"github.com/michaelpento.lv/sandwichsim/utils"
	"github.com/michaelpento.lv/sandwichsim/utils/metrics"
)

var (
	quoteTokenIn  string
	quoteTokenOut string
	quoteAmountIn string
	quoteMinRecv  string
	quoteTxData   string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Size a sandwich against live pool reserves",
	Long: `Fetch current pair reserves over RPC and run the full sizing search
and evaluation for a victim trade. The victim trade is given either as
explicit amounts or as raw swapExactTokensForTokens calldata via --tx-data.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		client, err := ethclient.Dial(cfg.RPCEndpoint)
		if err != nil {
			return fmt.Errorf("failed to connect to RPC endpoint: %w", err)
		}
		defer client.Close()

		exchange, err := univ2.NewExchange(client, cfg)
		if err != nil {
			return fmt.Errorf("failed to create exchange: %w", err)
		}
		if cfg.PrometheusEnabled {
			exchange.WithMetrics(metrics.NewSourceMetrics("sandwichsim_source"))
		}

		tokenIn := common.HexToAddress(quoteTokenIn)
		tokenOut := common.HexToAddress(quoteTokenOut)
		var amountIn, minRecv *big.Int

		if quoteTxData != "" {
			decoder, err := utils.NewTransactionDecoder(log)
			if err != nil {
				return err
			}
			params, err := decoder.DecodeSwap(common.FromHex(quoteTxData))
			if err != nil {
				return fmt.Errorf("failed to decode calldata: %w", err)
			}
			if !simulator.FreshDeadline(params, time.Now()) {
				return fmt.Errorf("victim swap deadline has passed; nothing to sandwich")
			}
			tokenIn, tokenOut = params.TokenIn, params.TokenOut
			amountIn, minRecv = params.AmountIn, params.AmountOutMin
		} else {
			if amountIn, err = parseBig("amount-in", quoteAmountIn); err != nil {
				return err
			}
			if minRecv, err = parseBig("min-recv", quoteMinRecv); err != nil {
				return err
			}
		}

		reserves, err := exchange.GetReserves(cmd.Context(), tokenIn, tokenOut)
		if err != nil {
			return fmt.Errorf("failed to read reserves: %w", err)
		}
		log.Info("read pool state",
			zap.String("pair", reserves.Pair.Hex()),
			zap.Uint64("block", reserves.BlockNumber),
		)

		q := &types.Query{
			UserAmountIn: amountIn,
			UserMinRecv:  minRecv,
			ReserveIn:    reserves.ReserveIn,
			ReserveOut:   reserves.ReserveOut,
		}

		evaluator, err := sandwich.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create evaluator: %w", err)
		}
		plan, err := evaluator.Plan(q)
		if err != nil {
			return fmt.Errorf("sizing search failed: %w", err)
		}

		outcome, err := evaluator.Evaluate(q, plan.OptimalAttackerIn)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
		if outcome == nil {
			fmt.Println("null")
			return nil
		}

		// Net the revenue against the predicted gas spend for both bundle
		// legs before calling the plan profitable.
		header, err := client.HeaderByNumber(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("failed to get latest header: %w", err)
		}
		predictor := gas.NewPredictor(log, nil)
		if nextBaseFee := predictor.PredictFromHeader(header); nextBaseFee != nil {
			gasCost := gas.SandwichGasCost(nextBaseFee, big.NewInt(0))
			net := new(big.Int).Sub(outcome.Revenue, gasCost)
			log.Info("netted outcome",
				zap.String("revenue", outcome.Revenue.String()),
				zap.String("gas_cost", gasCost.String()),
				zap.String("net", net.String()),
			)
			if cfg.MinProfitThreshold != nil && net.Cmp(cfg.MinProfitThreshold) < 0 {
				log.Warn("net profit below threshold",
					zap.String("net", net.String()),
					zap.String("threshold", cfg.MinProfitThreshold.String()),
				)
			}
		}

		out, err := json.MarshalIndent(utils.StringifyBigInts(outcome), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render outcome: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().StringVar(&quoteTokenIn, "token-in", "", "victim input token address")
	quoteCmd.Flags().StringVar(&quoteTokenOut, "token-out", "", "victim output token address")
	quoteCmd.Flags().StringVar(&quoteAmountIn, "amount-in", "", "victim input amount in wei")
	quoteCmd.Flags().StringVar(&quoteMinRecv, "min-recv", "", "victim minimum output in wei")
	quoteCmd.Flags().StringVar(&quoteTxData, "tx-data", "", "raw router swap calldata; overrides the amount and token flags")
}
