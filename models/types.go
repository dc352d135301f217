// ABOUTME: Data models for call-coaching entities
// ABOUTME: Defines Contact, Company, Script, Objection, CallLog, and Note
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/callcoach/callflow"
)

type Contact struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	FirstName       string     `json:"first_name,omitempty"`
	LastName        string     `json:"last_name,omitempty"`
	Title           string     `json:"title,omitempty"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	Organization    string     `json:"organization,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TemplateContact builds the substitution context for c. The company name
// fills in the organization when the contact has none.
func (c *Contact) TemplateContact(company *Company) callflow.ContactContext {
	ctx := callflow.ContactContext{
		Name:         c.Name,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Title:        c.Title,
		Organization: c.Organization,
	}
	if ctx.Organization == "" && company != nil {
		ctx.Organization = company.Name
	}
	return ctx
}

// DisplayName prefers Name, falling back to first and last name.
func (c *Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	EHR       string    `json:"ehr,omitempty"`
	DMS       string    `json:"dms,omitempty"`
	Volume    string    `json:"volume,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScriptContext returns the company's known systems as script context.
func (c *Company) ScriptContext() callflow.ScriptContext {
	return callflow.ScriptContext{EHR: c.EHR, DMS: c.DMS, Volume: c.Volume}
}

// Script is an authored content block merged into a call-flow section.
type Script struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Product      string    `json:"product"`
	Approach     string    `json:"approach,omitempty"`
	TriggerType  string    `json:"trigger_type,omitempty"`
	Competitor   string    `json:"competitor,omitempty"`
	CompetitorID string    `json:"competitor_id,omitempty"`
	SectionType  string    `json:"section_type"`
	Content      string    `json:"content"`
	IsActive     bool      `json:"is_active"`
	UsageCount   int       `json:"usage_count"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Row converts the script to the merge engine's row shape.
func (s *Script) Row() callflow.ScriptRow {
	return callflow.ScriptRow{
		ID:           s.ID.String(),
		Name:         s.Name,
		Product:      s.Product,
		Approach:     s.Approach,
		TriggerType:  s.TriggerType,
		Competitor:   s.Competitor,
		CompetitorID: s.CompetitorID,
		SectionType:  s.SectionType,
		Content:      s.Content,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UsageCount:   s.UsageCount,
		Version:      s.Version,
	}
}

// Objection is a standalone objection and response kept in the library.
type Objection struct {
	ID           uuid.UUID `json:"id"`
	Objection    string    `json:"objection"`
	Response     string    `json:"response"`
	Alternatives []string  `json:"alternatives,omitempty"`
	Category     string    `json:"category,omitempty"`
	Product      string    `json:"product,omitempty"`
	Approach     string    `json:"approach,omitempty"`
	Competitor   string    `json:"competitor,omitempty"`
	IsActive     bool      `json:"is_active"`
	UsageCount   int       `json:"usage_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Row renders the objection as script content so it merges like any other
// objection row. Objections naming a competitor become competitor rows.
func (o *Objection) Row() callflow.ScriptRow {
	section := callflow.SectionObjections
	if o.Competitor != "" {
		section = callflow.SectionCompetitorObjection
	}
	return callflow.ScriptRow{
		ID:          o.ID.String(),
		Name:        o.Objection,
		Product:     o.Product,
		Approach:    o.Approach,
		Competitor:  o.Competitor,
		SectionType: section,
		Content:     callflow.FormatObjection(o.Objection, o.Response, o.Alternatives),
		IsActive:    o.IsActive,
		CreatedAt:   o.CreatedAt,
		UsageCount:  o.UsageCount,
	}
}

// Call outcome constants.
const (
	OutcomeConnected   = "connected"
	OutcomeVoicemail   = "voicemail"
	OutcomeNoAnswer    = "no_answer"
	OutcomeMeetingSet  = "meeting_set"
	OutcomeNotInterest = "not_interested"
	OutcomeFollowUp    = "follow_up"
)

// ValidOutcome reports whether s is a known call outcome.
func ValidOutcome(s string) bool {
	switch s {
	case OutcomeConnected, OutcomeVoicemail, OutcomeNoAnswer, OutcomeMeetingSet, OutcomeNotInterest, OutcomeFollowUp:
		return true
	}
	return false
}

type CallLog struct {
	ID              uuid.UUID  `json:"id"`
	ContactID       uuid.UUID  `json:"contact_id"`
	CompanyID       *uuid.UUID `json:"company_id,omitempty"`
	Product         string     `json:"product,omitempty"`
	Approach        string     `json:"approach,omitempty"`
	Outcome         string     `json:"outcome"`
	Notes           string     `json:"notes,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	CalledAt        time.Time  `json:"called_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Note is free text attached to a contact; it feeds notes-context parsing.
type Note struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)
