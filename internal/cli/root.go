// Package cli implements the planea command line: lesson plans generated
// and exported from the terminal without running the server.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/services"
)

// App holds the services used by CLI commands.
type App struct {
	Catalog *config.Catalog
	Lessons services.LessonService
	Exports services.ExportService
}

// NewRootCmd creates the top-level "planea" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planea",
		Short:         "Lesson plan and classroom material generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPlanCmd(app),
		newCatalogCmd(app),
	)
	return root
}
