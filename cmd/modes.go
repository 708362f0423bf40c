// File: cmd/modes.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "Lists the configured modes and their hold phases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			table, err := cfg.PolicyTable()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODE\tPHASE\tKEY\tMEAN_MS\tSTDDEV_MS")
			for m := 1; m <= table.Len(); m++ {
				p, _ := table.Policy(humanoid.Mode(m))
				for i, ph := range p.Phases {
					fmt.Fprintf(w, "%s\t%d\t%s\t%.0f\t%.0f\n", p.Name, i+1, ph.Key, ph.MeanMs, ph.StdDevMs)
				}
			}
			return w.Flush()
		},
	}
}
