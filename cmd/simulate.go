// File: cmd/simulate.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/macrokey/internal/observability"
	"github.com/xkilldash9x/macrokey/internal/simulation"
)

func newSimulateCmd() *cobra.Command {
	var (
		mode     string
		duration time.Duration
		tick     time.Duration
		seed     uint32
		format   string
		events   bool
	)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Runs one session offline in virtual time and reports the holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			table, err := cfg.PolicyTable()
			if err != nil {
				return err
			}

			if mode == "" {
				mode = cfg.Host().StartMode
			}
			if mode == "" {
				mode = table.Name(1)
			}
			if !cmd.Flags().Changed("seed") && cfg.Engine().Seed != 0 {
				seed = cfg.Engine().Seed
			}

			report, err := simulation.Run(cfg.HumanoidConfig(), table, simulation.Options{
				Mode:       mode,
				Duration:   duration,
				Tick:       tick,
				Seed:       seed,
				KeepEvents: events,
			}, observability.Component("simulation"))
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			return simulation.Encode(cmd.OutOrStdout(), report, format)
		},
	}

	simulateCmd.Flags().StringVarP(&mode, "mode", "m", "", "mode to simulate (default: host.start_mode or the first mode)")
	simulateCmd.Flags().DurationVarP(&duration, "duration", "d", 30*time.Second, "virtual time to simulate")
	simulateCmd.Flags().DurationVar(&tick, "tick", time.Millisecond, "scan tick interval")
	simulateCmd.Flags().Uint32Var(&seed, "seed", 1, "entropy mixed into the generator at session start")
	simulateCmd.Flags().StringVarP(&format, "format", "f", simulation.FormatJSON, "output format: json or yaml")
	simulateCmd.Flags().BoolVar(&events, "events", false, "include the full key event trace")
	return simulateCmd
}
