package cmd

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/michaelpento.lv/sandwichsim/config"
	"github.com/michaelpento.lv/sandwichsim/strategies/sandwich"
	"github.com/michaelpento.lv/sandwichsim/types"
	"github.com/michaelpento.lv/sandwichsim/utils"
	"github.com/michaelpento.lv/sandwichsim/utils/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	simAmountIn   string
	simMinRecv    string
	simReserveIn  string
	simReserveOut string
	simAttackerIn string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a sandwich against explicit pool reserves",
	Long: `Simulate a sandwich attack fully offline. The victim trade and pool
reserves are given on the command line; no chain access is needed. Without
--attacker-in the optimal frontrun size is searched first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		q := &types.Query{}
		if q.UserAmountIn, err = parseBig("amount-in", simAmountIn); err != nil {
			return err
		}
		if q.UserMinRecv, err = parseBig("min-recv", simMinRecv); err != nil {
			return err
		}
		if q.ReserveIn, err = parseBig("reserve-in", simReserveIn); err != nil {
			return err
		}
		if q.ReserveOut, err = parseBig("reserve-out", simReserveOut); err != nil {
			return err
		}

		evaluator, err := sandwich.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create evaluator: %w", err)
		}
		if cfg.PrometheusEnabled {
			evaluator.WithMetrics(metrics.NewSandwichMetrics("sandwichsim"))
		}

		var attackerIn *big.Int
		if simAttackerIn != "" {
			if attackerIn, err = parseBig("attacker-in", simAttackerIn); err != nil {
				return err
			}
		} else {
			plan, err := evaluator.Plan(q)
			if err != nil {
				return fmt.Errorf("sizing search failed: %w", err)
			}
			attackerIn = plan.OptimalAttackerIn
			log.Info("sized frontrun", zap.String("attacker_in", attackerIn.String()))
		}

		outcome, err := evaluator.Evaluate(q, attackerIn)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
		if outcome == nil {
			log.Warn("plan is invalid at this attacker size: the victim trade would revert",
				zap.String("attacker_in", attackerIn.String()))
			fmt.Println("null")
			return nil
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
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simAmountIn, "amount-in", "", "victim input amount in wei (required)")
	simulateCmd.Flags().StringVar(&simMinRecv, "min-recv", "", "victim minimum output in wei (required)")
	simulateCmd.Flags().StringVar(&simReserveIn, "reserve-in", "", "pool reserve of the victim's input token (required)")
	simulateCmd.Flags().StringVar(&simReserveOut, "reserve-out", "", "pool reserve of the victim's output token (required)")
	simulateCmd.Flags().StringVar(&simAttackerIn, "attacker-in", "", "fixed attacker input; omit to search for the optimum")
	_ = simulateCmd.MarkFlagRequired("amount-in")
	_ = simulateCmd.MarkFlagRequired("min-recv")
	_ = simulateCmd.MarkFlagRequired("reserve-in")
	_ = simulateCmd.MarkFlagRequired("reserve-out")
}
