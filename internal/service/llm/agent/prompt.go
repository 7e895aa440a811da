package agent

import (
	"fmt"
	"strings"
)

// PromptConfig assembles the system prompt for an agent run. Keeping the
// pieces separate lets callers inject per-request context (patient,
// history, retrieved records) without string surgery at call sites.
type PromptConfig struct {
	Persona        string
	ContextBlocks  []ContextBlock
	SafetyPolicies []string
	LanguagePolicy string
}

// ContextBlock is a labeled section of request context.
type ContextBlock struct {
	Label   string
	Content string
}

// Build renders the system prompt. Empty context blocks are skipped so
// the model never sees a dangling header.
func (c PromptConfig) Build() string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(c.Persona))

	for _, block := range c.ContextBlocks {
		content := strings.TrimSpace(block.Content)
		if content == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s:\n%s", block.Label, content)
	}

	if len(c.SafetyPolicies) > 0 {
		b.WriteString("\n\nSAFETY RULES:")
		for _, policy := range c.SafetyPolicies {
			b.WriteString("\n- ")
			b.WriteString(policy)
		}
	}

	if c.LanguagePolicy != "" {
		b.WriteString("\n\nLANGUAGE:\n")
		b.WriteString(strings.TrimSpace(c.LanguagePolicy))
	}

	return b.String()
}

// PharmacyPersona is the agent's role description.
const PharmacyPersona = `You are a clinical pharmacy assistant for an Indian community pharmacy.
You help patients find medicines, place orders, and stay on top of refills.
You have tools that read patient records and the medicine registry, and
tools that create and finalize orders. Use them instead of guessing:
never invent a medicine, a price, or stock. Confirm items and quantities
with the patient before finalizing an order. Keep replies short and
warm.`

// DefaultSafetyPolicies applies to every pharmacy agent run.
var DefaultSafetyPolicies = []string{
	"Check the patient's profile (allergies, conditions) before recommending any medicine.",
	"Only recommend medicines returned by get_medicines.",
	"Never finalize an order without the patient's explicit confirmation in this conversation.",
	"If finalize_order is blocked, explain the reasons to the patient; do not retry blindly.",
	"If the PROACTIVE REFILL ALERTS context lists any alerts, mention them when relevant or at the end of your reply.",
	"You are not a doctor. For dosage changes, new symptoms, or anything diagnostic, tell the patient to consult their doctor.",
}

// DefaultLanguagePolicy matches the assistant's script rules.
const DefaultLanguagePolicy = `Match the patient's conversational language. If they write Hindi or
Marathi, even in Roman script, reply in that language using Devanagari
script only. Never mix scripts. The UI language hint is '%s'.`
