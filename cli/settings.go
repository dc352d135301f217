// ABOUTME: Rep settings CLI commands
// ABOUTME: Shows and edits rep settings and links the store to charm sync
package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/callcoach/settings"
)

// OpenSettings opens the store selected by the saved backend config.
func OpenSettings() (*settings.Store, *settings.Config, error) {
	cfg, err := settings.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings config: %w", err)
	}
	kv, err := settings.Open(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return settings.NewStore(kv), cfg, nil
}

// SettingsShowCommand prints every known setting and its effective value.
func SettingsShowCommand(store *settings.Store, args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ExitOnError)
	_ = fs.Parse(args)

	all, err := store.All()
	if err != nil {
		return err
	}

	rep := store.LoadRep()
	fmt.Println("Rep")
	fmt.Println("───")
	fmt.Printf("Name:       %s\n", rep.Name)
	fmt.Printf("First name: %s\n", rep.FirstName)
	fmt.Printf("Company:    %s\n\n", rep.Company)

	fmt.Println("Stored settings")
	fmt.Println("───────────────")
	if len(all) == 0 {
		fmt.Println("(none, defaults in use)")
	}
	for _, k := range settings.SortedKeys(all) {
		fmt.Printf("%-18s %s\n", k, all[k])
	}

	fmt.Printf("\nKnown keys: %v\n", settings.KnownKeys())
	return nil
}

// SettingsSetCommand stores key=value; an empty value clears the key.
func SettingsSetCommand(store *settings.Store, args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: settings set <key> [value]")
	}
	key := fs.Arg(0)
	value := ""
	if fs.NArg() > 1 {
		value = fs.Arg(1)
	}

	known := false
	for _, k := range settings.KnownKeys() {
		if k == key {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown setting %q (known: %v)", key, settings.KnownKeys())
	}

	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	if value == "" {
		fmt.Printf("✓ Cleared %s\n", key)
	} else {
		fmt.Printf("✓ %s = %s\n", key, value)
	}
	return nil
}

// SettingsLinkCommand switches the store to the charm backend and syncs.
// Charm authenticates with this machine's SSH key.
func SettingsLinkCommand(args []string) error {
	fs := flag.NewFlagSet("settings link", flag.ExitOnError)
	host := fs.String("host", "", "Charm server (default "+settings.DefaultCharmHost+")")
	_ = fs.Parse(args)

	cfg, err := settings.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Backend = settings.BackendCharm
	if *host != "" {
		cfg.Host = *host
	}

	fmt.Printf("Linking to Charm Cloud (%s)...\n\n", cfg.Host)
	kv, err := settings.OpenCharm(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	if err := kv.Sync(); err != nil {
		return fmt.Errorf("link failed: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if id, err := settings.CharmID(); err != nil {
		fmt.Println("✓ Device linked (ID unavailable)")
	} else {
		fmt.Printf("✓ Linked to account: %s\n", id)
	}
	fmt.Printf("✓ Auto-sync: %v\n", cfg.AutoSync)
	return nil
}

// SettingsStatusCommand shows the backend configuration.
func SettingsStatusCommand(store *settings.Store, cfg *settings.Config, args []string) error {
	fs := flag.NewFlagSet("settings status", flag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Println("Settings Backend")
	fmt.Println("────────────────")
	fmt.Printf("Backend:   %s\n", cfg.Backend)
	if cfg.Backend == settings.BackendCharm {
		fmt.Printf("Server:    %s\n", cfg.Host)
		fmt.Printf("Auto-sync: %v\n", cfg.AutoSync)
		if id, err := settings.CharmID(); err == nil {
			fmt.Printf("ID:        %s\n", id)
		} else {
			fmt.Println("Status:    not connected")
		}
	} else {
		fmt.Printf("Path:      %s\n", cfg.Path)
	}

	if all, err := store.All(); err == nil {
		fmt.Printf("Keys:      %d\n", len(all))
	}
	return nil
}

// SettingsSyncCommand pulls and pushes the charm KV now.
func SettingsSyncCommand(store *settings.Store, args []string) error {
	fs := flag.NewFlagSet("settings sync", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := store.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Println("✓ Settings synced")
	return nil
}
