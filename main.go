// ABOUTME: Entry point for the callcoach CLI, MCP server, TUI, and web UI
// ABOUTME: Routes to subcommands based on arguments
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harperreed/callcoach/cli"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/llm"
	"github.com/harperreed/callcoach/settings"
)

const version = "0.2.0"

func main() {
	_ = godotenv.Load()
	configureLogging()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/callcoach/callcoach.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("callcoach version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finalDBPath := getDatabasePath(*dbPath)

	if *initOnly {
		database := openDatabase(finalDBPath)
		_ = database.Close()
		log.Info("database initialized", "path", finalDBPath)
		return
	}

	command := args[0]
	commandArgs := args[1:]

	if err := run(ctx, command, commandArgs, finalDBPath); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, command string, args []string, dbPath string) error {
	switch command {
	case "mcp":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		return cli.MCPCommand(ctx, c, version)

	case "crm":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		log.Debug("crm database", "path", dbPath)
		return runCRM(c, args)

	case "flow":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		return runFlow(ctx, c, args)

	case "call":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		return cli.CallCommand(ctx, c, args)

	case "pitch":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		return cli.PitchCommand(ctx, c, args)

	case "settings":
		return runSettings(args)

	case "sync":
		return runSync(ctx, dbPath, args)

	case "viz":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		return runViz(ctx, c, args)

	case "web":
		c, cleanup := openCoach(ctx, dbPath)
		defer cleanup()
		return cli.WebCommand(ctx, c, watchDir(os.Getenv("CALLCOACH_DOCS")), args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	return nil
}

func runCRM(c *coach.Coach, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: crm requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	database := c.DB

	switch sub {
	// Contact commands
	case "add-contact":
		return cli.AddContactCommand(database, subArgs)
	case "list-contacts":
		return cli.ListContactsCommand(database, subArgs)
	case "update-contact":
		return cli.UpdateContactCommand(database, subArgs)
	case "delete-contact":
		return cli.DeleteContactCommand(database, subArgs)
	case "add-note":
		return cli.AddNoteCommand(database, subArgs)
	case "list-notes":
		return cli.ListNotesCommand(database, subArgs)

	// Company commands
	case "add-company":
		return cli.AddCompanyCommand(database, subArgs)
	case "list-companies":
		return cli.ListCompaniesCommand(database, subArgs)
	case "update-company":
		return cli.UpdateCompanyCommand(database, subArgs)
	case "delete-company":
		return cli.DeleteCompanyCommand(database, subArgs)

	// Script commands
	case "add-script":
		return cli.AddScriptCommand(c, subArgs)
	case "list-scripts":
		return cli.ListScriptsCommand(c, subArgs)
	case "activate-script":
		return cli.SetScriptActiveCommand(c, subArgs, true)
	case "deactivate-script":
		return cli.SetScriptActiveCommand(c, subArgs, false)
	case "delete-script":
		return cli.DeleteScriptCommand(c, subArgs)

	// Objection commands
	case "add-objection":
		return cli.AddObjectionCommand(c, subArgs)
	case "list-objections":
		return cli.ListObjectionsCommand(c, subArgs)
	case "delete-objection":
		return cli.DeleteObjectionCommand(c, subArgs)

	// Call commands
	case "log-call":
		return cli.LogCallCommand(c, subArgs)
	case "list-calls":
		return cli.ListCallsCommand(c, subArgs)
	}

	fmt.Printf("Unknown crm command: %s\n\n", sub)
	printUsage()
	os.Exit(1)
	return nil
}

func runFlow(ctx context.Context, c *coach.Coach, args []string) error {
	if len(args) == 0 {
		return cli.FlowListCommand(ctx, c, nil)
	}

	sub, subArgs := args[0], args[1:]
	switch sub {
	case "list":
		return cli.FlowListCommand(ctx, c, subArgs)
	case "show":
		return cli.FlowShowCommand(ctx, c, subArgs)
	case "render":
		return cli.FlowRenderCommand(ctx, c, subArgs)
	case "competitors":
		return cli.FlowCompetitorsCommand(ctx, c, subArgs)
	case "graph":
		return cli.FlowGraphCommand(ctx, c, subArgs)
	}

	fmt.Printf("Unknown flow command: %s\n\n", sub)
	printUsage()
	os.Exit(1)
	return nil
}

func runSettings(args []string) error {
	sub := "show"
	var subArgs []string
	if len(args) > 0 {
		sub, subArgs = args[0], args[1:]
	}

	// link opens its own store against the new backend
	if sub == "link" {
		return cli.SettingsLinkCommand(subArgs)
	}

	store, cfg, err := cli.OpenSettings()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	switch sub {
	case "show":
		return cli.SettingsShowCommand(store, subArgs)
	case "set":
		return cli.SettingsSetCommand(store, subArgs)
	case "status":
		return cli.SettingsStatusCommand(store, cfg, subArgs)
	case "sync":
		return cli.SettingsSyncCommand(store, subArgs)
	}

	fmt.Printf("Unknown settings command: %s\n\n", sub)
	printUsage()
	os.Exit(1)
	return nil
}

func runSync(ctx context.Context, dbPath string, args []string) error {
	if len(args) == 0 {
		fmt.Println("Error: sync requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	sub, subArgs := args[0], args[1:]
	if sub == "init" {
		return cli.SyncInitCommand(ctx, subArgs)
	}

	database := openDatabase(dbPath)
	defer func() { _ = database.Close() }()

	switch sub {
	case "contacts":
		return cli.SyncContactsCommand(ctx, database, subArgs)
	case "status":
		return cli.SyncStatusCommand(database, subArgs)
	}

	fmt.Printf("Unknown sync command: %s\n\n", sub)
	printUsage()
	os.Exit(1)
	return nil
}

func runViz(ctx context.Context, c *coach.Coach, args []string) error {
	if len(args) == 0 {
		return cli.VizDashboardCommand(c.DB, nil)
	}

	sub, subArgs := args[0], args[1:]
	switch sub {
	case "dashboard":
		return cli.VizDashboardCommand(c.DB, subArgs)
	case "accounts":
		return cli.VizAccountsCommand(c.DB, subArgs)
	case "flow":
		return cli.FlowGraphCommand(ctx, c, subArgs)
	}

	fmt.Printf("Unknown viz command: %s\n\n", sub)
	printUsage()
	os.Exit(1)
	return nil
}

// openCoach wires the database, rep settings, and generator. Settings and
// the generator are optional: a missing piece is logged and left nil.
func openCoach(ctx context.Context, dbPath string) (*coach.Coach, func()) {
	database := openDatabase(dbPath)

	store, _, err := cli.OpenSettings()
	if err != nil {
		log.Warn("rep settings unavailable, using defaults", "err", err)
		store = nil
	}

	model := ""
	if store != nil {
		model = store.GetOr(settings.KeyModel, "")
	}
	var gen llm.Generator
	if g, err := llm.FromEnv(ctx, model); err == nil {
		gen = g
	} else if !errors.Is(err, llm.ErrNoAPIKey) {
		log.Warn("pitch generation unavailable", "err", err)
	}

	c, err := coach.New(database, os.Getenv("CALLCOACH_DOCS"), store, gen)
	if err != nil {
		log.Fatalf("Failed to load call flows: %v", err)
	}

	return c, func() {
		if store != nil {
			_ = store.Close()
		}
		_ = database.Close()
	}
}

func openDatabase(path string) *sql.DB {
	database, err := db.OpenDatabase(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return database
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "callcoach", "callcoach.db")
}

// watchDir returns location when it names a local directory.
func watchDir(location string) string {
	if location == "" || strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return ""
	}
	return location
}

func configureLogging() {
	log.SetReportTimestamp(true)
	if lvl := os.Getenv("CALLCOACH_LOG_LEVEL"); lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			log.Warn("unknown log level, using info", "level", lvl)
			return
		}
		log.SetLevel(level)
	}
}

func printUsage() {
	fmt.Printf(`callcoach v%s - Sales call assistant

USAGE:
  callcoach [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/callcoach/callcoach.db)
  --init                 Initialize database and exit

COMMANDS:
  call                   Live call assistant (TUI)
  flow                   Inspect and render call flows
  pitch                  Draft a custom pitch with the LLM
  crm                    Contacts, companies, scripts, objections, and calls
  settings               Rep settings
  sync                   Google Contacts import
  viz                    Dashboard and graphs
  web                    Start the web UI
  mcp                    Start MCP server for Claude Desktop

CALL:
  callcoach call [flags]
    --contact <id>            Contact to call
    --flow <id>               Flow ID (or --product/--approach)
    --notes <text>            Notes for plain output
    --plain                   Print the whole flow instead of opening the TUI

FLOW COMMANDS:
  callcoach flow list                     List loaded call flows
  callcoach flow show [--flow|--product|--approach]
  callcoach flow render [flags] <section> Render a section with variables filled
    --contact <id>            Contact for {{contact.*}} variables
    --notes <text>            Notes, e.g. "ehr: Epic, 400 pages a day"
    --competitor <name>       Narrow competitor_objection to one competitor
  callcoach flow competitors --match <system>
  callcoach flow graph --output <file>

  Sections: opening, transition_to_discovery, discovery, transition_to_pitch,
            objections, closing, competitor_objection

PITCH:
  callcoach pitch --contact <id> --notes <text> [--focus <text>]
    Requires GEMINI_API_KEY

CRM COMMANDS:
  callcoach crm add-contact      --name --first --last --title --email --phone --company --org --notes
  callcoach crm list-contacts    --query --company --limit
  callcoach crm update-contact [flags] <id>
  callcoach crm delete-contact <id>
  callcoach crm add-note --text <text> <contact-id>
  callcoach crm list-notes <contact-id>

  callcoach crm add-company      --name --domain --industry --ehr --dms --volume --notes
  callcoach crm list-companies   --query --limit
  callcoach crm update-company [flags] <id>
  callcoach crm delete-company <id>

  callcoach crm add-script       --name --product --approach --section [--version "Label: text"]... | --file <path>
  callcoach crm list-scripts     --product --approach --section --active --limit
  callcoach crm activate-script <id>
  callcoach crm deactivate-script <id>
  callcoach crm delete-script <id>

  callcoach crm add-objection    --objection --response [--alt <text>]... --category --product --approach --competitor
  callcoach crm list-objections  --query --product --limit
  callcoach crm delete-objection <id>

  callcoach crm log-call [flags] <contact-id>
    --outcome <outcome>       connected, voicemail, no_answer, meeting_set, not_interested, follow_up
    --product, --approach, --notes, --duration <4m30s>, --at <RFC3339>
  callcoach crm list-calls       --contact <id> --limit

SETTINGS:
  callcoach settings show
  callcoach settings set <key> [value]   Empty value clears the key
  callcoach settings link [--host]       Sync settings through Charm
  callcoach settings status
  callcoach settings sync

SYNC:
  callcoach sync init                    Authorize Google Contacts
  callcoach sync contacts [--initial]    Import contacts
  callcoach sync status

VIZ:
  callcoach viz dashboard                Call activity dashboard
  callcoach viz accounts --output <file> Account graph (DOT)
  callcoach viz flow --output <file>     Call-flow graph (DOT)

WEB:
  callcoach web [--addr :8080] [--watch <dir>]

ENVIRONMENT:
  GEMINI_API_KEY, CALLCOACH_MODEL        Pitch generation
  CALLCOACH_DOCS                         Document directory or URL (default: built in)
  CALLCOACH_LOG_LEVEL                    debug, info, warn, error
  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET Google Contacts import

EXAMPLES:
  # Start a call with a contact
  callcoach call --contact 3f1c...

  # Render the opening for an HIM call with notes
  callcoach flow render --approach HIM --notes "dms: OnBase" opening

  # Add a custom opening
  callcoach crm add-script --name "Warm intro" --product Dexit --approach HIM \
    --section opening --version "Warm: Hi {{contact.first_name}}, quick one."

`, version)
}
