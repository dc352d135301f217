// ABOUTME: Web UI subcommand
// ABOUTME: Serves the dashboard and call pages, reloading documents on change
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/web"
)

// WebCommand starts the web server
func WebCommand(ctx context.Context, c *coach.Coach, docsDir string, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	watch := fs.String("watch", docsDir, "Document directory to watch for changes")
	_ = fs.Parse(args)

	server, err := web.NewServer(c)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx, *addr)
	})
	if *watch != "" {
		log.Info("watching documents", "dir", *watch)
		g.Go(func() error {
			return server.WatchDocs(ctx, *watch)
		})
	}
	return g.Wait()
}
