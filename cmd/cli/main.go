package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	baseURL string
	timeout time.Duration
	asJSON  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "tripcost",
		Short:         "Trip cost CLI tool",
		Long:          `A command line interface for forecasting, tracking and settling shared trip costs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the tripcost API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		forecastCmd(opts),
		actualsCmd(opts),
		settlementCmd(opts),
		ratesCmd(opts),
	)

	return rootCmd
}
