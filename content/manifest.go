// ABOUTME: YAML manifest naming the call-flow and competitor documents to load
// ABOUTME: Falls back to the compiled-in manifest when a store has none
package content

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ManifestPath is where a document root keeps its manifest.
const ManifestPath = "manifest.yaml"

// Manifest lists the documents the loader fetches.
type Manifest struct {
	Flows       []string `yaml:"flows"`
	Competitors string   `yaml:"competitors"`
}

// ParseManifest decodes a manifest. A manifest with no flows is an error.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Flows) == 0 {
		return Manifest{}, errors.New("manifest lists no call-flow documents")
	}
	return m, nil
}

// DefaultManifest returns the manifest compiled into the binary.
func DefaultManifest() Manifest {
	data, err := defaultDocs.ReadFile("defaults/" + ManifestPath)
	if err != nil {
		panic(fmt.Sprintf("embedded manifest missing: %v", err))
	}
	m, err := ParseManifest(data)
	if err != nil {
		panic(err)
	}
	return m
}

// LoadManifest reads the store's manifest, or the default one when the store
// has none.
func LoadManifest(ctx context.Context, store Store) (Manifest, error) {
	text, err := store.Fetch(ctx, ManifestPath)
	if errors.Is(err, ErrDocumentNotFound) {
		return DefaultManifest(), nil
	}
	if err != nil {
		return Manifest{}, err
	}
	return ParseManifest([]byte(text))
}
