// File: cmd/scenarios.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/folio/internal/scenario"
)

func newScenariosCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios that run selects from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sc := range scenario.Catalog(st.cfg) {
				fmt.Fprintf(w, "%s\t%s\n", sc.Name(), sc.Description())
			}
			return w.Flush()
		},
	}
}
