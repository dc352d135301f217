// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the call dashboard and account graph generation
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/harperreed/callcoach/viz"
)

// VizAccountsCommand generates the account map: companies, contacts, and
// their last call outcome.
func VizAccountsCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz accounts", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(db).GenerateAccountGraph()
	if err != nil {
		return err
	}
	return writeOutput(*output, dot)
}

func VizDashboardCommand(database *sql.DB, args []string) error {
	stats, err := viz.GenerateDashboardStats(database)
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}
