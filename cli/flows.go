// ABOUTME: Call-flow CLI commands
// ABOUTME: Lists, shows, renders, and graphs the merged call flows, and writes custom pitches
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/viz"
)

// flowFlags are the selector flags shared by flow commands.
type flowFlags struct {
	id       *string
	product  *string
	approach *string
}

func addFlowFlags(fs *flag.FlagSet) flowFlags {
	return flowFlags{
		id:       fs.String("flow", "", "Flow ID from 'flow list'"),
		product:  fs.String("product", "", "Product (default from settings)"),
		approach: fs.String("approach", "", "Approach, e.g. HIM"),
	}
}

func (f flowFlags) selectFlow(ctx context.Context, c *coach.Coach) (*callflow.CallFlow, error) {
	return c.SelectFlow(ctx, *f.id, *f.product, *f.approach)
}

// templateFor builds the substitution context for an optional contact ID.
func templateFor(c *coach.Coach, contact, product, notes string) (callflow.TemplateContext, error) {
	var contactID *uuid.UUID
	if contact != "" {
		id, err := uuid.Parse(contact)
		if err != nil {
			return callflow.TemplateContext{}, fmt.Errorf("invalid contact ID: %w", err)
		}
		contactID = &id
	}
	return c.TemplateContext(contactID, product, notes)
}

// FlowListCommand lists the loaded flows.
func FlowListCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("flow list", flag.ExitOnError)
	_ = fs.Parse(args)

	lib, err := c.Flows(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPRODUCT\tAPPROACH\tVERSION\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t-------\t--")
	for _, f := range lib.Flows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", f.Name, f.Product, f.Approach, f.Version, f.ID)
	}
	_ = w.Flush()

	for _, m := range lib.Missing {
		fmt.Printf("✗ not loaded: %s\n", m)
	}
	fmt.Printf("\nTotal: %d flow(s), loaded %s\n", len(lib.Flows), lib.LoadedAt.Format("15:04:05"))
	return nil
}

// FlowShowCommand prints a merged flow as JSON.
func FlowShowCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("flow show", flag.ExitOnError)
	sel := addFlowFlags(fs)
	_ = fs.Parse(args)

	flow, err := sel.selectFlow(ctx, c)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(flow)
}

// FlowRenderCommand prints one section with variables substituted.
func FlowRenderCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("flow render", flag.ExitOnError)
	sel := addFlowFlags(fs)
	contact := fs.String("contact", "", "Contact ID to fill {{contact.*}}")
	notes := fs.String("notes", "", "Call notes, e.g. \"dms: OnBase\"")
	competitor := fs.String("competitor", "", "Narrow competitor_objection to one competitor")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("section is required (one of %s)", strings.Join(coach.Sections, ", "))
	}

	flow, err := sel.selectFlow(ctx, c)
	if err != nil {
		return err
	}
	tc, err := templateFor(c, *contact, flow.Product, *notes)
	if err != nil {
		return err
	}

	rendered, err := coach.Render(flow, fs.Arg(0), *competitor, tc)
	if err != nil {
		return err
	}
	for _, item := range rendered.Items {
		c.RecordUsage(item.Origin)
	}

	fmt.Printf("%s · %s\n\n", rendered.FlowName, rendered.Section)
	if len(rendered.Items) == 0 {
		fmt.Println("(no content)")
		return nil
	}
	fmt.Println(rendered.Text())
	return nil
}

// FlowCompetitorsCommand lists competitors, or matches a system name.
func FlowCompetitorsCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("flow competitors", flag.ExitOnError)
	match := fs.String("match", "", "System name to match, e.g. \"OnBase 18\"")
	_ = fs.Parse(args)

	var competitors []callflow.Competitor
	if *match != "" {
		matches, err := c.MatchCompetitor(ctx, *match)
		if err != nil {
			return err
		}
		competitors = matches
	} else {
		lib, err := c.Flows(ctx)
		if err != nil {
			return err
		}
		if lib.Competitors != nil {
			competitors = lib.Competitors.Competitors
		}
	}

	if len(competitors) == 0 {
		fmt.Println("No competitors found")
		return nil
	}
	for _, comp := range competitors {
		fmt.Printf("%s (%d sub-objections)\n", comp.Name, len(comp.SubObjections))
		if comp.BottomLine != "" {
			fmt.Printf("  Bottom line: %s\n", comp.BottomLine)
		}
	}
	return nil
}

// FlowGraphCommand writes a flow as GraphViz DOT.
func FlowGraphCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("flow graph", flag.ExitOnError)
	sel := addFlowFlags(fs)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	flow, err := sel.selectFlow(ctx, c)
	if err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(c.DB).GenerateFlowGraph(flow)
	if err != nil {
		return err
	}
	return writeOutput(*output, dot)
}

// PitchCommand writes a custom pitch with the language model.
func PitchCommand(ctx context.Context, c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("pitch", flag.ExitOnError)
	sel := addFlowFlags(fs)
	contact := fs.String("contact", "", "Contact the pitch is for")
	notes := fs.String("notes", "", "Call notes to tailor the pitch")
	focus := fs.String("focus", "", "Angle to lead with")
	_ = fs.Parse(args)

	flow, err := sel.selectFlow(ctx, c)
	if err != nil {
		return err
	}
	tc, err := templateFor(c, *contact, flow.Product, *notes)
	if err != nil {
		return err
	}

	pitch, usage, err := c.GeneratePitch(ctx, flow, tc, *notes, *focus)
	if err != nil {
		return err
	}

	fmt.Println(pitch)
	fmt.Printf("\n(%d tokens)\n", usage.Total)
	return nil
}

func writeOutput(path, content string) error {
	if path != "" {
		return os.WriteFile(path, []byte(content), 0644)
	}
	fmt.Println(content)
	return nil
}
