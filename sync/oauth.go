// ABOUTME: OAuth configuration and token management for Google Contacts import
// ABOUTME: Handles the OAuth flow, token storage at XDG paths, and auto-refresh
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// CallbackPath is where the local OAuth server receives the code.
	CallbackPath = "/oauth/callback"
	callbackAddr = "localhost:8080"

	contactsScope = "https://www.googleapis.com/auth/contacts.readonly"
)

// NewOAuthConfig creates the OAuth2 config from GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET. Users bring their own Cloud Console app.
func NewOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  "http://" + callbackAddr + CallbackPath,
		Scopes:       []string{contactsScope},
		Endpoint:     google.Endpoint,
	}
}

// CallbackAddr is the listen address for the OAuth callback server.
func CallbackAddr() string {
	return callbackAddr
}

// TokenPath returns XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "callcoach", "google-credentials.json")
}

// SaveToken saves OAuth token to XDG data directory.
func SaveToken(token *oauth2.Token) error {
	return saveTokenFile(TokenPath(), token)
}

func saveTokenFile(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}

// LoadToken loads OAuth token from XDG data directory.
func LoadToken() (*oauth2.Token, error) {
	return loadTokenFile(TokenPath())
}

func loadTokenFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}

// GetConfig returns the OAuth config, failing when credentials are unset.
func GetConfig() (*oauth2.Config, error) {
	config := NewOAuthConfig()
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")
	}
	return config, nil
}
