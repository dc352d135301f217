// ABOUTME: Tests for template variable substitution
// ABOUTME: Covers placeholders, derived names, rep defaults, and unknown tokens
package callflow

import "testing"

func TestReplaceScriptVariables(t *testing.T) {
	full := TemplateContext{
		Contact: ContactContext{FirstName: "Dana", LastName: "Reyes", Title: "HIM Director", Organization: "Mercy General"},
		Rep:     RepContext{Name: "Alex Kim", Company: "Acme Health"},
		Product: ProductContext{Name: "Dexit"},
		Script:  ScriptContext{EHR: "Epic", DMS: "none", Volume: "500 docs/day"},
	}

	tests := []struct {
		name     string
		template string
		ctx      TemplateContext
		want     string
	}{
		{"missing first name", "Hi {{contact.first_name}}", TemplateContext{}, "Hi [First Name]"},
		{"unknown token", "{{unknown.token}}", TemplateContext{}, "[unknown.token]"},
		{"no tokens", "Plain text", full, "Plain text"},
		{
			"full context",
			"Hi {{contact.first_name}} {{contact.last_name}}, {{rep.first_name}} from {{rep.company}} about {{product.name}} at {{contact.organization}}",
			full,
			"Hi Dana Reyes, Alex from Acme Health about Dexit at Mercy General",
		},
		{"repeated token", "{{contact.first_name}}? {{contact.first_name}}!", full, "Dana? Dana!"},
		{"context values", "{{context.ehr}} / {{context.dms}} / {{context.volume}}", full, "Epic / none / 500 docs/day"},
		{"missing context", "{{context.ehr}} {{context.volume}}", TemplateContext{}, "[EHR] [Volume]"},
		{"rep defaults", "{{rep.name}} {{rep.first_name}} {{rep.company}}", TemplateContext{}, "Sarah Johnson Sarah Dexit Solutions"},
		{"spaces inside braces", "{{ contact.title }}", full, "HIM Director"},
		{"missing title and org", "{{contact.title}} at {{contact.organization}}", TemplateContext{}, "[Title] at [Organization]"},
		{"empty token", "a {{}} b", full, "a [] b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceScriptVariables(tt.template, tt.ctx); got != tt.want {
				t.Errorf("ReplaceScriptVariables(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestReplaceScriptVariablesDerivesFromName(t *testing.T) {
	ctx := TemplateContext{Contact: ContactContext{Name: "Maria de la Cruz"}}

	got := ReplaceScriptVariables("{{contact.first_name}}|{{contact.last_name}}|{{contact.name}}", ctx)
	if got != "Maria|de la Cruz|Maria de la Cruz" {
		t.Errorf("Unexpected derived names: %q", got)
	}

	ctx.Contact.FirstName = "Mari"
	got = ReplaceScriptVariables("{{contact.first_name}}", ctx)
	if got != "Mari" {
		t.Errorf("Explicit first name should win, got %q", got)
	}
}

func TestReplaceScriptVariablesIsIdempotent(t *testing.T) {
	ctx := TemplateContext{Contact: ContactContext{Name: "Dana"}}
	templates := []string{
		"Hi {{contact.first_name}} {{contact.last_name}}, I'm {{rep.first_name}}.",
		"{{mystery}} and [brackets] stay",
		"no tokens at all",
	}
	for _, tmpl := range templates {
		once := ReplaceScriptVariables(tmpl, ctx)
		if twice := ReplaceScriptVariables(once, ctx); twice != once {
			t.Errorf("Not idempotent: %q then %q", once, twice)
		}
	}
}
