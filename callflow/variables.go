// ABOUTME: {{namespace.field}} template substitution for script text
// ABOUTME: Resolves contact, rep, product, and notes-derived values with visible placeholders
package callflow

import (
	"regexp"
	"strings"
)

// Rep defaults used when settings hold no rep information.
const (
	DefaultRepName      = "Sarah Johnson"
	DefaultRepFirstName = "Sarah"
	DefaultRepCompany   = "Dexit Solutions"
)

var templateToken = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// ContactContext is the contact the rep is talking to. Every field is
// optional.
type ContactContext struct {
	Name         string `json:"name,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// RepContext is the sales rep, loaded from settings.
type RepContext struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	Company   string `json:"company,omitempty"`
}

type ProductContext struct {
	Name string `json:"name,omitempty"`
}

// ScriptContext holds facts pulled from call notes.
type ScriptContext struct {
	EHR    string `json:"ehr,omitempty"`
	DMS    string `json:"dms,omitempty"`
	Volume string `json:"volume,omitempty"`
}

// TemplateContext is built per render and never cached.
type TemplateContext struct {
	Contact ContactContext `json:"contact"`
	Rep     RepContext     `json:"rep"`
	Product ProductContext `json:"product"`
	Script  ScriptContext  `json:"scriptContext"`
}

// ReplaceScriptVariables substitutes every {{key}} token in one pass.
// Known keys resolve to their value or a bracketed placeholder naming the
// missing field; unknown tokens become [inner text].
func ReplaceScriptVariables(template string, ctx TemplateContext) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	values := variableTable(ctx)
	return templateToken.ReplaceAllStringFunc(template, func(token string) string {
		inner := strings.TrimSpace(templateToken.FindStringSubmatch(token)[1])
		if v, ok := values[inner]; ok {
			return v
		}
		return "[" + inner + "]"
	})
}

// Variables lists the keys ReplaceScriptVariables recognises, for help text.
func Variables() []string {
	return []string{
		"contact.first_name", "contact.last_name", "contact.name", "contact.title", "contact.organization",
		"rep.name", "rep.first_name", "rep.company",
		"product.name",
		"context.ehr", "context.dms", "context.volume",
	}
}

func variableTable(ctx TemplateContext) map[string]string {
	c := ctx.Contact
	derivedFirst, derivedLast := splitName(c.Name)

	first := orDefault(firstNonEmpty(c.FirstName, derivedFirst), "[First Name]")
	last := orDefault(firstNonEmpty(c.LastName, derivedLast), "[Last Name]")
	full := strings.TrimSpace(c.Name)
	if full == "" {
		full = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	full = orDefault(full, "[Contact Name]")
	title := orDefault(c.Title, "[Title]")
	org := orDefault(c.Organization, "[Organization]")

	repName := orDefault(ctx.Rep.Name, DefaultRepName)
	repFirst := ctx.Rep.FirstName
	if repFirst == "" && ctx.Rep.Name != "" {
		repFirst, _ = splitName(ctx.Rep.Name)
	}
	repFirst = orDefault(repFirst, DefaultRepFirstName)
	repCompany := orDefault(ctx.Rep.Company, DefaultRepCompany)

	ehr := orDefault(ctx.Script.EHR, "[EHR]")
	dms := orDefault(ctx.Script.DMS, "[DMS]")
	volume := orDefault(ctx.Script.Volume, "[Volume]")

	return map[string]string{
		"contact.first_name":   first,
		"contact.last_name":    last,
		"contact.name":         full,
		"contact.full_name":    full,
		"contact.title":        title,
		"contact.organization": org,
		"contact.company":      org,
		"rep.name":             repName,
		"rep.first_name":       repFirst,
		"rep.company":          repCompany,
		"product.name":         orDefault(ctx.Product.Name, "[Product Name]"),
		"context.ehr":          ehr,
		"context.dms":          dms,
		"context.volume":       volume,
	}
}

// splitName splits on the first space.
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	first, rest, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(rest)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
