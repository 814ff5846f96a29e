package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/michaelpento.lv/sandwichsim/utils"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "sandwichsim",
	Short: "A sandwich attack simulation engine for constant-product pools",
	Long: `A simulation engine that sizes and evaluates sandwich attacks against
constant-product AMM pools: exact integer swap math, bisection search for the
largest viable frontrun, and full three-leg outcome traces.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	utils.InitLogger(debug)
}

// parseBig parses a decimal amount flag.
func parseBig(flag, value string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid --%s value: %q", flag, value)
	}
	return v, nil
}
