// ABOUTME: Prompt composition for custom pitches and objection response drafts
// ABOUTME: Outputs may contain {{tokens}}, which are substituted after generation
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/callcoach/callflow"
)

const pitchSystem = `You are a sales coach writing short cold-call talk tracks for a healthcare software rep.
Write in plain spoken English, first person, no markdown headings, under 120 words.
You may use these placeholders and they will be filled in later: ` +
	`{{contact.first_name}}, {{contact.organization}}, {{rep.first_name}}, {{rep.company}}, ` +
	`{{product.name}}, {{context.ehr}}, {{context.dms}}, {{context.volume}}.`

// PitchInput is everything known about the call a pitch is written for.
type PitchInput struct {
	Flow       *callflow.CallFlow
	Template   callflow.TemplateContext
	Competitor *callflow.Competitor
	Notes      string
	Focus      string
}

// BuildPitchPrompt assembles the user prompt for a custom pitch.
func BuildPitchPrompt(in PitchInput) string {
	var b strings.Builder
	if in.Flow != nil {
		fmt.Fprintf(&b, "Product: %s\nAudience: %s\n", in.Flow.Product, in.Flow.Approach)
		if len(in.Flow.Sections.TransitionToPitch) > 0 {
			b.WriteString("\nExisting pitch angles:\n")
			for _, t := range in.Flow.Sections.TransitionToPitch {
				fmt.Fprintf(&b, "- %s: %s\n", t.Trigger, t.Pitch)
			}
		}
	}

	c := in.Template.Contact
	if c.Name != "" || c.Title != "" || c.Organization != "" {
		fmt.Fprintf(&b, "\nProspect: %s, %s at %s\n", orUnknown(c.Name), orUnknown(c.Title), orUnknown(c.Organization))
	}

	s := in.Template.Script
	if s.EHR != "" || s.DMS != "" || s.Volume != "" {
		fmt.Fprintf(&b, "Systems: EHR=%s DMS=%s Volume=%s\n", orUnknown(s.EHR), orUnknown(s.DMS), orUnknown(s.Volume))
	}

	if in.Competitor != nil {
		fmt.Fprintf(&b, "\nThey use competitor %s.\n", in.Competitor.Name)
		if in.Competitor.InitialResponse != "" {
			fmt.Fprintf(&b, "Our positioning: %s\n", in.Competitor.InitialResponse)
		}
		if in.Competitor.BottomLine != "" {
			fmt.Fprintf(&b, "Bottom line: %s\n", in.Competitor.BottomLine)
		}
	}

	if notes := strings.TrimSpace(in.Notes); notes != "" {
		fmt.Fprintf(&b, "\nCall notes:\n%s\n", notes)
	}
	if in.Focus != "" {
		fmt.Fprintf(&b, "\nFocus the pitch on: %s\n", in.Focus)
	}
	b.WriteString("\nWrite the pitch.")
	return b.String()
}

// BuildObjectionPrompt asks for a response to an objection, grounded on
// the closest existing responses.
func BuildObjectionPrompt(objection string, flow *callflow.CallFlow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The prospect said: %q\n", objection)
	if flow != nil {
		fmt.Fprintf(&b, "Product: %s\nAudience: %s\n", flow.Product, flow.Approach)
		matches := callflow.MatchObjections(flow.Sections.Objections, objection)
		if len(matches) > 3 {
			matches = matches[:3]
		}
		if len(matches) > 0 {
			b.WriteString("\nResponses that have worked for similar objections:\n")
			for _, m := range matches {
				fmt.Fprintf(&b, "- %q -> %s\n", m.Objection.Objection, m.Objection.Response)
			}
		}
	}
	b.WriteString("\nWrite one response the rep can say, then one alternative on a line starting with \"Alternative:\".")
	return b.String()
}

// GeneratePitch writes a custom pitch and fills in its placeholders.
func GeneratePitch(ctx context.Context, g Generator, in PitchInput) (string, Usage, error) {
	resp, err := g.Generate(ctx, Request{
		System:      pitchSystem,
		Prompt:      BuildPitchPrompt(in),
		Temperature: 0.7,
		MaxTokens:   400,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to generate pitch: %w", err)
	}
	return callflow.ReplaceScriptVariables(resp.Text, in.Template), resp.Usage, nil
}

// DraftObjectionResponse returns a response and any alternatives for an
// objection, parsed from the model output.
func DraftObjectionResponse(ctx context.Context, g Generator, objection string, flow *callflow.CallFlow, tc callflow.TemplateContext) (callflow.ScriptObjection, Usage, error) {
	resp, err := g.Generate(ctx, Request{
		System:      pitchSystem,
		Prompt:      BuildObjectionPrompt(objection, flow),
		Temperature: 0.5,
		MaxTokens:   300,
	})
	if err != nil {
		return callflow.ScriptObjection{}, Usage{}, fmt.Errorf("failed to draft objection response: %w", err)
	}

	text := callflow.ReplaceScriptVariables(resp.Text, tc)
	parsed := callflow.ParseScriptObjection(markAlternatives(text))
	parsed.Objection = objection
	return parsed, resp.Usage, nil
}

// markAlternatives rewrites plain "Alternative:" lines from model output
// into the bold marker the script parser reads.
func markAlternatives(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= len("alternative:") && strings.EqualFold(trimmed[:len("alternative:")], "alternative:") {
			lines[i] = "**Alternative:** " + strings.TrimSpace(trimmed[len("alternative:"):])
		}
	}
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
