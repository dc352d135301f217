// ABOUTME: Live call command
// ABOUTME: Opens the call assistant TUI, or prints the whole flow when stdout is not a terminal
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/tui"
)

// CallCommand starts a call with an optional contact preselected.
func CallCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("call", flag.ExitOnError)
	contact := fs.String("contact", "", "Contact ID to call")
	sel := addFlowFlags(fs)
	notes := fs.String("notes", "", "Call notes for plain output")
	plain := fs.Bool("plain", false, "Print the script instead of opening the assistant")
	_ = fs.Parse(args)

	if !*plain && term.IsTerminal(int(os.Stdout.Fd())) {
		opts := tui.Options{FlowID: *sel.id, Product: *sel.product, Approach: *sel.approach}
		if *contact != "" {
			id, err := uuid.Parse(*contact)
			if err != nil {
				return fmt.Errorf("invalid contact ID: %w", err)
			}
			opts.ContactID = &id
		}
		return tui.Run(c, opts)
	}

	flow, err := sel.selectFlow(ctx, c)
	if err != nil {
		return err
	}
	tc, err := templateFor(c, *contact, flow.Product, *notes)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s / %s)\n", flow.Name, flow.Product, flow.Approach)
	for _, section := range coach.Sections {
		rendered, err := coach.Render(flow, section, "", tc)
		if err != nil {
			return err
		}
		if len(rendered.Items) == 0 {
			continue
		}
		fmt.Printf("\n%s\n%s\n%s\n", strings.ToUpper(strings.ReplaceAll(section, "_", " ")), strings.Repeat("─", len(section)), rendered.Text())
	}
	return nil
}
