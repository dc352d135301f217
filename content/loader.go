// ABOUTME: Aggregate loader that fetches documents and script rows in parallel
// ABOUTME: Parses and merges them into a Library, dropping documents that fail to load
package content

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/callcoach/callflow"
)

// maxFetchConcurrency bounds parallel document fetches.
const maxFetchConcurrency = 8

// ScriptSource supplies the stored script rows merged into each load.
type ScriptSource interface {
	ScriptRows(ctx context.Context) ([]callflow.ScriptRow, error)
}

// ScriptSourceFunc adapts a function to ScriptSource.
type ScriptSourceFunc func(ctx context.Context) ([]callflow.ScriptRow, error)

func (f ScriptSourceFunc) ScriptRows(ctx context.Context) ([]callflow.ScriptRow, error) {
	return f(ctx)
}

// Library is one fully merged load of call-flow content.
type Library struct {
	Flows       []callflow.CallFlow            `json:"flows"`
	Competitors *callflow.CompetitorObjections `json:"competitors"`
	Rows        []callflow.ScriptRow           `json:"-"`
	Missing     []string                       `json:"missing,omitempty"`
	LoadedAt    time.Time                      `json:"loadedAt"`
}

// Flow returns the flow with the given ID, or nil.
func (l *Library) Flow(id string) *callflow.CallFlow {
	for i := range l.Flows {
		if l.Flows[i].ID == id {
			return &l.Flows[i]
		}
	}
	return nil
}

// FindFlow selects a flow by product and approach.
func (l *Library) FindFlow(product, approach string) *callflow.CallFlow {
	return callflow.FindFlow(l.Flows, product, approach)
}

// Loader fetches every document named by the manifest plus the script rows,
// then runs the parse and merge pipeline.
type Loader struct {
	Store    Store
	Scripts  ScriptSource
	Manifest *Manifest
	Logger   *log.Logger
}

func (l *Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// Load fetches and merges all content. A document that fails to load is
// logged and left out; a script source failure leaves markdown-only flows.
// Only cancellation is returned as an error.
func (l *Loader) Load(ctx context.Context) (*Library, error) {
	manifest := l.Manifest
	if manifest == nil {
		m, err := LoadManifest(ctx, l.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		manifest = &m
	}

	parsed := make([]*callflow.CallFlow, len(manifest.Flows))
	var competitorDoc string
	var rows []callflow.ScriptRow

	var mu sync.Mutex
	var missing []string
	markMissing := func(p string, err error) {
		l.logger().Warn("content: document fetch failed", "path", p, "err", err)
		mu.Lock()
		missing = append(missing, p)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFetchConcurrency)

	for i, p := range manifest.Flows {
		g.Go(func() error {
			text, err := l.Store.Fetch(gctx, p)
			if err != nil {
				markMissing(p, err)
				return nil
			}
			flow := callflow.ParseCallFlow(text, p)
			parsed[i] = &flow
			return nil
		})
	}

	if manifest.Competitors != "" {
		g.Go(func() error {
			text, err := l.Store.Fetch(gctx, manifest.Competitors)
			if err != nil {
				markMissing(manifest.Competitors, err)
				return nil
			}
			competitorDoc = text
			return nil
		})
	}

	if l.Scripts != nil {
		g.Go(func() error {
			r, err := l.Scripts.ScriptRows(gctx)
			if err != nil {
				l.logger().Warn("content: script rows unavailable, using markdown only", "err", err)
				return nil
			}
			rows = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	flows := make([]callflow.CallFlow, 0, len(parsed))
	for _, f := range parsed {
		if f != nil {
			flows = append(flows, *f)
		}
	}

	flows = callflow.MergeScriptsIntoCallFlows(flows, rows)
	flows = callflow.MergeCompetitorObjectionsIntoFlows(flows, competitorDoc, rows)

	lib := &Library{
		Flows:    flows,
		Rows:     rows,
		Missing:  missing,
		LoadedAt: time.Now(),
	}
	if len(flows) > 0 {
		lib.Competitors = flows[0].Sections.CompetitorObjections
	} else {
		doc := callflow.ParseCompetitorObjections(competitorDoc)
		callflow.MergeCompetitorRows(&doc, rows)
		lib.Competitors = &doc
	}

	l.logger().Debug("content: loaded", "flows", len(flows), "rows", len(rows), "missing", len(missing))
	return lib, nil
}

// Cache holds the latest Library and reloads it on demand.
type Cache struct {
	loader *Loader

	mu  sync.RWMutex
	lib *Library
}

func NewCache(loader *Loader) *Cache {
	return &Cache{loader: loader}
}

// Get returns the cached library, loading it on first use.
func (c *Cache) Get(ctx context.Context) (*Library, error) {
	c.mu.RLock()
	lib := c.lib
	c.mu.RUnlock()
	if lib != nil {
		return lib, nil
	}
	return c.Reload(ctx)
}

// Reload runs a fresh load and replaces the cached library.
func (c *Cache) Reload(ctx context.Context) (*Library, error) {
	lib, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.lib = lib
	c.mu.Unlock()
	return lib, nil
}

// Invalidate drops the cached library so the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.lib = nil
	c.mu.Unlock()
}
