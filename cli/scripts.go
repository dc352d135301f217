// ABOUTME: Script and objection library CLI commands
// ABOUTME: Authors script blocks and objections that merge into the call flows
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/models"
)

// stringList collects a repeated flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseVariations turns "Label: text" flag values into variations. A value
// without a colon is unlabelled.
func parseVariations(values []string) []callflow.Variation {
	out := make([]callflow.Variation, 0, len(values))
	for _, v := range values {
		label, text, found := strings.Cut(v, ":")
		if !found || strings.ContainsAny(label, "{}") {
			out = append(out, callflow.Variation{Content: strings.TrimSpace(v)})
			continue
		}
		out = append(out, callflow.Variation{Label: strings.TrimSpace(label), Content: strings.TrimSpace(text)})
	}
	return out
}

// AddScriptCommand authors a script block.
func AddScriptCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("add-script", flag.ExitOnError)
	name := fs.String("name", "", "Script name (required)")
	product := fs.String("product", "", "Product, e.g. Dexit (required)")
	approach := fs.String("approach", "", "Audience, e.g. HIM")
	section := fs.String("section", "", "Section type, e.g. opening or objections (required)")
	trigger := fs.String("trigger", "", "Trigger label for transition sections")
	competitor := fs.String("competitor", "", "Competitor name for competitor_objection scripts")
	file := fs.String("file", "", "Read raw content from this file")
	inactive := fs.Bool("inactive", false, "Create the script switched off")
	var versions stringList
	fs.Var(&versions, "version", "Variation as \"Label: text\" (repeatable)")
	_ = fs.Parse(args)

	if *name == "" || *product == "" || *section == "" {
		return fmt.Errorf("--name, --product, and --section are required")
	}

	var content string
	switch {
	case len(versions) > 0:
		content = callflow.FormatVariations(parseVariations(versions), *section)
	case *file != "":
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", *file, err)
		}
		content = string(data)
	default:
		return fmt.Errorf("either --version or --file is required")
	}

	script := &models.Script{
		Name:        *name,
		Product:     *product,
		Approach:    *approach,
		SectionType: *section,
		TriggerType: *trigger,
		Competitor:  *competitor,
		Content:     content,
		IsActive:    !*inactive,
	}
	if *competitor != "" {
		script.CompetitorID = callflow.Slugify(*competitor)
	}

	if err := db.CreateScript(c.DB, script); err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}
	c.Invalidate()

	fmt.Printf("✓ Script created: %s (ID: %s)\n", script.Name, script.ID)
	fmt.Printf("  Section: %s\n", script.SectionType)
	return nil
}

// ListScriptsCommand lists authored scripts.
func ListScriptsCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("list-scripts", flag.ExitOnError)
	product := fs.String("product", "", "Filter by product")
	approach := fs.String("approach", "", "Filter by approach")
	section := fs.String("section", "", "Filter by section type")
	activeOnly := fs.Bool("active", false, "Only active scripts")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	scripts, err := db.ListScripts(c.DB, db.ScriptFilter{
		Product:     *product,
		Approach:    *approach,
		SectionType: *section,
		ActiveOnly:  *activeOnly,
		Limit:       *limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list scripts: %w", err)
	}
	if len(scripts) == 0 {
		fmt.Println("No scripts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPRODUCT\tAPPROACH\tSECTION\tACTIVE\tUSED\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t-------\t------\t----\t--")
	for _, s := range scripts {
		active := "yes"
		if !s.IsActive {
			active = "no"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.Name, s.Product, dash(s.Approach), s.SectionType, active, s.UsageCount, s.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d script(s)\n", len(scripts))
	return nil
}

// SetScriptActiveCommand switches a script on or off.
func SetScriptActiveCommand(c *coach.Coach, args []string, active bool) error {
	fs := flag.NewFlagSet("set-script-active", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "script")
	if err != nil {
		return err
	}
	if err := db.SetScriptActive(c.DB, id, active); err != nil {
		return err
	}
	c.Invalidate()

	state := "enabled"
	if !active {
		state = "disabled"
	}
	fmt.Printf("✓ Script %s: %s\n", state, id)
	return nil
}

func DeleteScriptCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("delete-script", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "script")
	if err != nil {
		return err
	}
	if err := db.DeleteScript(c.DB, id); err != nil {
		return err
	}
	c.Invalidate()

	fmt.Printf("✓ Script deleted: %s\n", id)
	return nil
}

// AddObjectionCommand adds an objection and response to the library.
func AddObjectionCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("add-objection", flag.ExitOnError)
	objection := fs.String("objection", "", "What the prospect says (required)")
	response := fs.String("response", "", "What to say back (required)")
	category := fs.String("category", "", "Category, e.g. budget or timing")
	product := fs.String("product", "", "Product the objection applies to")
	approach := fs.String("approach", "", "Audience the objection applies to")
	competitor := fs.String("competitor", "", "Competitor this objection is about")
	var alternatives stringList
	fs.Var(&alternatives, "alt", "Alternative response (repeatable)")
	_ = fs.Parse(args)

	if *objection == "" || *response == "" {
		return fmt.Errorf("--objection and --response are required")
	}

	obj := &models.Objection{
		Objection:    *objection,
		Response:     *response,
		Alternatives: alternatives,
		Category:     *category,
		Product:      *product,
		Approach:     *approach,
		Competitor:   *competitor,
		IsActive:     true,
	}
	if err := db.CreateObjection(c.DB, obj); err != nil {
		return fmt.Errorf("failed to create objection: %w", err)
	}
	c.Invalidate()

	fmt.Printf("✓ Objection added (ID: %s)\n", obj.ID)
	return nil
}

// ListObjectionsCommand searches the objection library, most used first.
func ListObjectionsCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("list-objections", flag.ExitOnError)
	query := fs.String("query", "", "Search objection and response text")
	product := fs.String("product", "", "Filter by product")
	limit := fs.Int("limit", 20, "Maximum results")
	_ = fs.Parse(args)

	objections, err := db.FindObjections(c.DB, *query, *product, *limit)
	if err != nil {
		return fmt.Errorf("failed to find objections: %w", err)
	}
	if len(objections) == 0 {
		fmt.Println("No objections found")
		return nil
	}

	for _, o := range objections {
		fmt.Printf("%s  %q (used %d)\n", o.ID.String()[:8], o.Objection, o.UsageCount)
		fmt.Printf("    → %s\n", o.Response)
		for _, alt := range o.Alternatives {
			fmt.Printf("    or %s\n", alt)
		}
	}
	return nil
}

func DeleteObjectionCommand(c *coach.Coach, args []string) error {
	fs := flag.NewFlagSet("delete-objection", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "objection")
	if err != nil {
		return err
	}
	if err := db.DeleteObjection(c.DB, id); err != nil {
		return err
	}
	c.Invalidate()

	fmt.Printf("✓ Objection deleted: %s\n", id)
	return nil
}
