// ABOUTME: Call log CLI commands
// ABOUTME: Records call outcomes and lists recent calls
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

// LogCallCommand records a call; flags come before the contact ID.
func LogCallCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("log-call", flag.ExitOnError)
	outcome := fs.String("outcome", "", "connected, voicemail, no_answer, meeting_set, not_interested, or follow_up (required)")
	product := fs.String("product", "", "Product pitched")
	approach := fs.String("approach", "", "Approach used")
	notes := fs.String("notes", "", "What happened")
	duration := fs.Duration("duration", 0, "Call length, e.g. 4m30s")
	at := fs.String("at", "", "When the call happened (RFC3339, default now)")
	_ = fs.Parse(args)

	contactID, err := idArg(fs, "contact")
	if err != nil {
		return err
	}
	if !models.ValidOutcome(*outcome) {
		return fmt.Errorf("invalid --outcome %q", *outcome)
	}

	call := &models.CallLog{
		ContactID:       contactID,
		Product:         *product,
		Approach:        *approach,
		Outcome:         *outcome,
		Notes:           *notes,
		DurationSeconds: int(duration.Seconds()),
	}
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		call.CalledAt = t
	}

	if err := c.LogCall(call); err != nil {
		return fmt.Errorf("failed to log call: %w", err)
	}

	fmt.Printf("✓ Call logged: %s (ID: %s)\n", call.Outcome, call.ID)
	return nil
}

// ListCallsCommand lists recent calls, optionally for one contact.
func ListCallsCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("list-calls", flag.ExitOnError)
	contact := fs.String("contact", "", "Only calls with this contact ID")
	limit := fs.Int("limit", 20, "Maximum results")
	_ = fs.Parse(args)

	var contactID *uuid.UUID
	if *contact != "" {
		id, err := uuid.Parse(*contact)
		if err != nil {
			return fmt.Errorf("invalid contact ID: %w", err)
		}
		contactID = &id
	}

	calls, err := db.ListCallLogs(c.DB, contactID, *limit)
	if err != nil {
		return fmt.Errorf("failed to list calls: %w", err)
	}
	if len(calls) == 0 {
		fmt.Println("No calls logged")
		return nil
	}

	names := map[uuid.UUID]string{}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tCONTACT\tOUTCOME\tPRODUCT\tNOTES")
	_, _ = fmt.Fprintln(w, "----\t-------\t-------\t-------\t-----")
	for _, call := range calls {
		name, ok := names[call.ContactID]
		if !ok {
			name = call.ContactID.String()[:8]
			if ct, err := db.GetContact(c.DB, call.ContactID); err == nil && ct != nil {
				name = ct.DisplayName()
			}
			names[call.ContactID] = name
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			call.CalledAt.Format("2006-01-02 15:04"), name, call.Outcome, dash(call.Product), truncate(call.Notes, 50))
	}
	_ = w.Flush()
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return dash(s)
	}
	return string(r[:n-1]) + "…"
}
