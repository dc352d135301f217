// ABOUTME: Google Contacts sync CLI commands
// ABOUTME: Handles OAuth setup, contact import, and import status
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/sync"
	"golang.org/x/oauth2"
)

// SyncInitCommand handles OAuth setup
func SyncInitCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync init", flag.ExitOnError)
	_ = fs.Parse(args)

	config, err := sync.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to get OAuth config: %w", err)
	}

	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(sync.CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: sync.CallbackAddr(), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := config.AuthCodeURL("state", oauth2.AccessTypeOffline)

	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := sync.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Printf("\n✓ Authenticated successfully\n")
		fmt.Printf("✓ Tokens saved to %s\n\n", sync.TokenPath())
		fmt.Println("Ready to sync! Run 'callcoach sync contacts' to import contacts.")
		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)

	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return ctx.Err()
	}
}

// SyncContactsCommand imports Google Contacts as call contacts
func SyncContactsCommand(ctx context.Context, database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync contacts", flag.ExitOnError)
	initial := fs.Bool("initial", false, "Full import (ignore the stored sync token)")
	_ = fs.Parse(args)

	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'callcoach sync init' first: %w", err)
	}

	client, err := sync.NewPeopleClient(ctx, token)
	if err != nil {
		return err
	}

	fmt.Println("Syncing Google Contacts...")
	summary, err := sync.ImportContacts(ctx, database, client, *initial)
	if err != nil {
		return fmt.Errorf("contacts sync failed (try --initial if the sync token expired): %w", err)
	}

	fmt.Printf("\n✓ Fetched %d contacts from Google\n", summary.Fetched)
	if summary.Created+summary.Updated == 0 {
		fmt.Println("  ✓ No new contacts to import (all up to date)")
	}
	if summary.Created > 0 {
		fmt.Printf("  ✓ Created %d new contacts\n", summary.Created)
	}
	if summary.Updated > 0 {
		fmt.Printf("  ✓ Updated %d existing contacts\n", summary.Updated)
	}
	if summary.Failed > 0 {
		fmt.Printf("  ✗ %d contacts failed to import\n", summary.Failed)
	}
	return nil
}

// SyncStatusCommand shows the import state per service.
func SyncStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ExitOnError)
	_ = fs.Parse(args)

	states, err := db.GetAllSyncStates(database)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		fmt.Println("Nothing imported yet. Run 'callcoach sync init' then 'callcoach sync contacts'.")
		return nil
	}

	for _, s := range states {
		last := "never"
		if s.LastSyncTime != nil {
			last = s.LastSyncTime.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-10s %-8s last sync: %s\n", s.Service, s.Status, last)
		if s.ErrorMessage != nil {
			fmt.Printf("           error: %s\n", *s.ErrorMessage)
		}
	}
	return nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
