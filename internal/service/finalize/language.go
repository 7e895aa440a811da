package finalize

import "strings"

// Romanized markers that strongly suggest Hindi or Marathi typed in
// Latin script. Short, common words only; anything ambiguous stays out.
var (
	romanHindiMarkers = []string{
		"mera", "meri", "mujhe", "aapka", "aapki", "kya", "hai", "nahi",
		"dard", "dawai", "kaise", "chahiye", "karna", "raha", "rahi",
	}
	romanMarathiMarkers = []string{
		"mala", "tumhi", "aahe", "kasa", "kashi", "pahije", "aushadh",
		"dukhat", "hota", "hoti", "majha", "majhi",
	}
)

// ContainsDevanagari reports whether s contains any Devanagari codepoint.
func ContainsDevanagari(s string) bool {
	for _, r := range s {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}

// DetectLanguage guesses the reply language for a message. The UI hint
// wins unless the message itself clearly disagrees: Devanagari script or
// romanized Hindi/Marathi markers override an "en" hint. Used only to
// pick fallback text and the voice language; the model does its own
// detection for the actual reply.
func DetectLanguage(message, uiHint string) string {
	if uiHint == "hi" || uiHint == "mr" {
		return uiHint
	}

	if ContainsDevanagari(message) {
		return "hi"
	}

	lower := " " + strings.ToLower(message) + " "
	marathiHits := countMarkers(lower, romanMarathiMarkers)
	hindiHits := countMarkers(lower, romanHindiMarkers)

	if marathiHits > hindiHits && marathiHits >= 2 {
		return "mr"
	}
	if hindiHits >= 2 {
		return "hi"
	}

	if uiHint != "" {
		return uiHint
	}
	return "en"
}

func countMarkers(paddedLower string, markers []string) int {
	hits := 0
	for _, marker := range markers {
		if strings.Contains(paddedLower, " "+marker+" ") {
			hits++
		}
	}
	return hits
}
