package agent

import (
	"strings"
	"testing"
)

func TestPromptConfig_Build(t *testing.T) {
	cfg := PromptConfig{
		Persona: "You are a test assistant.",
		ContextBlocks: []ContextBlock{
			{Label: "PATIENT PROFILE", Content: `{"name":"A"}`},
			{Label: "EMPTY SECTION", Content: "   "},
		},
		SafetyPolicies: []string{"rule one", "rule two"},
		LanguagePolicy: "Reply in English.",
	}

	prompt := cfg.Build()

	if !strings.HasPrefix(prompt, "You are a test assistant.") {
		t.Errorf("persona not first: %q", prompt[:40])
	}
	if !strings.Contains(prompt, "PATIENT PROFILE:\n{\"name\":\"A\"}") {
		t.Error("context block missing or mislabeled")
	}
	if strings.Contains(prompt, "EMPTY SECTION") {
		t.Error("empty context block should be skipped")
	}
	if !strings.Contains(prompt, "SAFETY RULES:") ||
		!strings.Contains(prompt, "- rule two") {
		t.Error("safety policies missing")
	}
	if !strings.Contains(prompt, "LANGUAGE:\nReply in English.") {
		t.Error("language policy missing")
	}
}

func TestPromptConfig_Build_MinimalPersonaOnly(t *testing.T) {
	prompt := PromptConfig{Persona: "Just a persona."}.Build()
	if prompt != "Just a persona." {
		t.Errorf("unexpected prompt: %q", prompt)
	}
}
