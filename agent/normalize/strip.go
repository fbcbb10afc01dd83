package normalize

import (
	"strings"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

// Boilerplate a model tends to put in front of an answer. Longer prefixes sharing a
// stem come first.
var boilerplatePrefixes = []string{
	"I apologize for the inconvenience. Let me calculate that for you. ",
	"I apologize for the inconvenience. Let me calculate that for you.",
	"I apologize for the inconvenience. ",
	"I apologize for the inconvenience.",
	"I am very sorry, ",
	"I am sorry, ",
	"Apologies \u2014 ",
	"Sorry, ",
	"\n",
}

// RemoveMarkers deletes every internal marker and label, wherever it occurs.
func RemoveMarkers(text string) string {
	for containsMarker(text) {
		for _, marker := range contractx.InternalMarkers {
			text = strings.ReplaceAll(text, marker, "")
		}
	}
	return text
}

// Strip removes internal markers, leading boilerplate and surrounding whitespace.
// Strip(Strip(s)) == Strip(s) for every s.
func Strip(text string) string {
	text = RemoveMarkers(text)
	for {
		text = strings.TrimSpace(text)
		trimmed, ok := trimBoilerplate(text)
		if !ok {
			return text
		}
		text = trimmed
	}
}

func trimBoilerplate(text string) (string, bool) {
	// The not-found sentinel opens with "I am sorry, " and must survive verbatim.
	if strings.HasPrefix(text, contractx.ProductNotFound) {
		return text, false
	}
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(text, prefix) {
			return text[len(prefix):], true
		}
	}
	return text, false
}

func containsMarker(text string) bool {
	for _, marker := range contractx.InternalMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
