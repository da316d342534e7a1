package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List subjects, grades, phases and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			c := app.Catalog
			fmt.Fprintf(out, "Asignaturas: %s\n", strings.Join(c.Subjects, ", "))
			fmt.Fprintf(out, "Grados:      %s\n", strings.Join(c.Grades, ", "))
			fmt.Fprintf(out, "Fases:       %s\n", strings.Join(c.Phases, ", "))
			fmt.Fprintf(out, "Duraciones:  %s\n", strings.Join(c.Durations, ", "))
			fmt.Fprintln(out, "Modelos:")
			for _, m := range c.Models {
				fmt.Fprintf(out, "  %-24s %s\n", m.ID, m.Label)
			}
			return nil
		},
	}
}
