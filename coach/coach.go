// ABOUTME: Call-coaching service shared by the CLI, MCP, web, and TUI surfaces
// ABOUTME: Joins the merged library, the CRM database, rep settings, and the generator
package coach

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harperreed/callcoach/callflow"
	"github.com/harperreed/callcoach/content"
	"github.com/harperreed/callcoach/db"
	"github.com/harperreed/callcoach/llm"
	"github.com/harperreed/callcoach/models"
	"github.com/harperreed/callcoach/settings"
)

// Coach answers call-time questions. Settings and Generator may be nil.
type Coach struct {
	DB        *sql.DB
	Library   *content.Cache
	Settings  *settings.Store
	Generator llm.Generator
}

// NewLoader builds a content loader whose script rows come from database.
func NewLoader(database *sql.DB, store content.Store) *content.Loader {
	return &content.Loader{
		Store: store,
		Scripts: content.ScriptSourceFunc(func(ctx context.Context) ([]callflow.ScriptRow, error) {
			return db.ScriptRows(ctx, database)
		}),
	}
}

// New wires a coach over database and the document store at location
// (empty for the embedded defaults).
func New(database *sql.DB, location string, store *settings.Store, gen llm.Generator) (*Coach, error) {
	docs, err := content.OpenStore(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	return &Coach{
		DB:        database,
		Library:   content.NewCache(NewLoader(database, docs)),
		Settings:  store,
		Generator: gen,
	}, nil
}

// Flows returns the merged library.
func (c *Coach) Flows(ctx context.Context) (*content.Library, error) {
	return c.Library.Get(ctx)
}

// Invalidate drops the cached library; call after script or objection edits.
func (c *Coach) Invalidate() {
	c.Library.Invalidate()
}

// SelectFlow resolves a flow by ID, or by product and approach.
func (c *Coach) SelectFlow(ctx context.Context, flowID, product, approach string) (*callflow.CallFlow, error) {
	lib, err := c.Library.Get(ctx)
	if err != nil {
		return nil, err
	}
	if flowID != "" {
		if f := lib.Flow(flowID); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("flow not found: %s", flowID)
	}
	if product == "" {
		product = c.setting(settings.KeyProduct, callflow.ProductDexit)
	}
	if approach == "" {
		approach = c.setting(settings.KeyApproach, "")
	}
	f := lib.FindFlow(product, approach)
	if f == nil {
		return nil, fmt.Errorf("no call flow for %s %s", product, approach)
	}
	return f, nil
}

func (c *Coach) setting(key, fallback string) string {
	if c.Settings == nil {
		return fallback
	}
	return c.Settings.GetOr(key, fallback)
}

// Rep returns the rep identity from settings, or the defaults.
func (c *Coach) Rep() callflow.RepContext {
	if c.Settings == nil {
		return callflow.RepContext{
			Name:      callflow.DefaultRepName,
			FirstName: callflow.DefaultRepFirstName,
			Company:   callflow.DefaultRepCompany,
		}
	}
	return c.Settings.LoadRep()
}

// TemplateContext builds the substitution context for one render. Company
// fields seed the script context. Notes override them layer by layer: the
// contact's notes field, then stored notes oldest to newest, then the live
// notes, so the newest mention of a fact wins. contactID may be nil.
func (c *Coach) TemplateContext(contactID *uuid.UUID, product, notes string) (callflow.TemplateContext, error) {
	tc := callflow.TemplateContext{
		Rep:     c.Rep(),
		Product: callflow.ProductContext{Name: product},
	}

	var layers []string
	if contactID != nil {
		contact, err := db.GetContact(c.DB, *contactID)
		if err != nil {
			return tc, fmt.Errorf("failed to get contact: %w", err)
		}
		if contact == nil {
			return tc, fmt.Errorf("contact not found: %s", contactID)
		}

		var company *models.Company
		if contact.CompanyID != nil {
			company, err = db.GetCompany(c.DB, *contact.CompanyID)
			if err != nil {
				return tc, fmt.Errorf("failed to get company: %w", err)
			}
		}
		tc.Contact = contact.TemplateContact(company)
		if company != nil {
			tc.Script = company.ScriptContext()
		}

		history, err := db.ListNotes(c.DB, *contactID)
		if err != nil {
			return tc, fmt.Errorf("failed to get notes: %w", err)
		}
		layers = append(layers, contact.Notes)
		for _, n := range history {
			layers = append(layers, n.Content)
		}
	}
	layers = append(layers, notes)

	for _, layer := range layers {
		found := callflow.ParseNotesContext(layer)
		if found.EHR != "" {
			tc.Script.EHR = found.EHR
		}
		if found.DMS != "" {
			tc.Script.DMS = found.DMS
		}
		if found.Volume != "" {
			tc.Script.Volume = found.Volume
		}
	}
	return tc, nil
}

// RecordUsage counts a render of database-origin content. Markdown items
// are ignored.
func (c *Coach) RecordUsage(origin callflow.Origin) {
	if !origin.FromDatabase() {
		return
	}
	id, err := uuid.Parse(origin.ScriptID)
	if err != nil {
		return
	}
	if err := db.IncrementScriptUsage(c.DB, id); err != nil {
		log.Warn("coach: usage update failed", "script", origin.ScriptID, "err", err)
	}
	if err := db.IncrementObjectionUsage(c.DB, id); err != nil {
		log.Warn("coach: usage update failed", "objection", origin.ScriptID, "err", err)
	}
}

// MatchCompetitor finds competitors for a system name such as a DMS value.
func (c *Coach) MatchCompetitor(ctx context.Context, value string) ([]callflow.Competitor, error) {
	lib, err := c.Library.Get(ctx)
	if err != nil {
		return nil, err
	}
	if lib.Competitors == nil {
		return []callflow.Competitor{}, nil
	}
	return callflow.MatchCompetitors(lib.Competitors.Competitors, value), nil
}

// ObjectionAnswer is one candidate response to something the prospect said.
type ObjectionAnswer struct {
	Objection    string          `json:"objection"`
	Response     string          `json:"response"`
	Alternatives []string        `json:"alternatives,omitempty"`
	Competitor   string          `json:"competitor,omitempty"`
	Score        int             `json:"score,omitempty"`
	Origin       callflow.Origin `json:"origin"`
}

// FindObjectionResponse ranks the flow's objections against text, then adds
// sub-objections from any competitor named in it.
func (c *Coach) FindObjectionResponse(ctx context.Context, flow *callflow.CallFlow, text string, tc callflow.TemplateContext) []ObjectionAnswer {
	answers := []ObjectionAnswer{}
	for _, m := range callflow.MatchObjections(flow.Sections.Objections, text) {
		answers = append(answers, ObjectionAnswer{
			Objection:    m.Objection.Objection,
			Response:     callflow.ReplaceScriptVariables(m.Objection.Response, tc),
			Alternatives: replaceAll(m.Objection.Alternatives, tc),
			Score:        m.Score,
			Origin:       m.Objection.Origin,
		})
	}

	if doc := flow.Sections.CompetitorObjections; doc != nil {
		for _, comp := range callflow.MatchCompetitors(doc.Competitors, text) {
			for _, sub := range callflow.MatchSubObjections(comp, text) {
				answers = append(answers, ObjectionAnswer{
					Objection:    sub.Objection,
					Response:     callflow.ReplaceScriptVariables(sub.Response, tc),
					Alternatives: replaceAll(sub.Alternatives, tc),
					Competitor:   comp.Name,
					Origin:       sub.Origin,
				})
			}
		}
	}
	return answers
}

// GeneratePitch writes a custom pitch for a contact. Competitors are picked
// from the context's DMS and EHR values.
func (c *Coach) GeneratePitch(ctx context.Context, flow *callflow.CallFlow, tc callflow.TemplateContext, notes, focus string) (string, llm.Usage, error) {
	if c.Generator == nil {
		return "", llm.Usage{}, llm.ErrNoAPIKey
	}
	in := llm.PitchInput{Flow: flow, Template: tc, Notes: notes, Focus: focus}
	if doc := flow.Sections.CompetitorObjections; doc != nil {
		for _, system := range []string{tc.Script.DMS, tc.Script.EHR} {
			if matches := callflow.MatchCompetitors(doc.Competitors, system); len(matches) > 0 {
				in.Competitor = &matches[0]
				break
			}
		}
	}
	return llm.GeneratePitch(ctx, c.Generator, in)
}

// LogCall records a call against a contact, filling the company from the
// contact record.
func (c *Coach) LogCall(call *models.CallLog) error {
	if call.CompanyID == nil {
		contact, err := db.GetContact(c.DB, call.ContactID)
		if err != nil {
			return fmt.Errorf("failed to get contact: %w", err)
		}
		if contact == nil {
			return fmt.Errorf("contact not found: %s", call.ContactID)
		}
		call.CompanyID = contact.CompanyID
	}
	return db.CreateCallLog(c.DB, call)
}

func replaceAll(texts []string, tc callflow.TemplateContext) []string {
	if len(texts) == 0 {
		return nil
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = callflow.ReplaceScriptVariables(t, tc)
	}
	return out
}
