package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const (
	answerOutletFound       = "Yes! Which outlet are you referring to?"
	answerNoOutletsFallback = "No, we don't have outlets at that location."
)

var (
	numericLiteralPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	yesNoOutletPattern    = regexp.MustCompile(`^(is|are|do you)\s+(there\s+)?an?\s+(outlet|location)`)
	locationPattern       = regexp.MustCompile(`\bin\s+([^?]+)`)
	negativeOutletMarkers = []string{"no matching", "no outlets", "error"}
)

// Normalizer turns a raw capability result into the user-facing answer. It is
// stateless and safe for concurrent use.
type Normalizer struct{}

var _ contractx.Normalizer = (*Normalizer)(nil)

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(req contractx.NormalizeRequest) contractx.NormalizedAnswer {
	answer := contractx.NormalizedAnswer{Capability: req.Capability}

	switch {
	case req.Capability.IsNone():
		answer.Text = RemoveMarkers(req.Draft)
	case !req.HasToolOutput || strings.TrimSpace(req.ToolOutput) == "":
		answer.Text = Strip(req.Draft)
	default:
		answer.Text = n.format(req, Strip(req.ToolOutput))
	}
	// User text echoed into the answer may itself carry a marker.
	answer.Text = RemoveMarkers(answer.Text)
	return answer
}

func (n *Normalizer) format(req contractx.NormalizeRequest, stripped string) string {
	switch req.Capability {
	case contractx.CapabilityCalculator:
		return formatCalculation(stripped, req.PriorUserMessage)
	case contractx.CapabilityOutlet:
		if IsYesNoOutletQuestion(req.UserMessage) {
			return answerOutletExistence(stripped, req.UserMessage)
		}
		if outlets := ParseOutletListing(stripped); len(outlets) > 0 {
			return FormatOutletListing(outlets)
		}
		return stripped
	default:
		return stripped
	}
}

func formatCalculation(stripped, priorUserMessage string) string {
	if strings.Contains(stripped, contractx.CalculatorRefusal) {
		return stripped
	}
	number := numericLiteralPattern.FindString(stripped)
	if number == "" {
		return stripped
	}
	question := strings.TrimSpace(priorUserMessage)
	if question == "" {
		return number
	}
	return fmt.Sprintf("%s is %s", question, number)
}

func IsYesNoOutletQuestion(message string) bool {
	return yesNoOutletPattern.MatchString(strings.ToLower(message))
}

func answerOutletExistence(stripped, userMessage string) string {
	if HasOutlets(stripped) {
		return answerOutletFound
	}
	if location := ExtractLocation(userMessage); location != "" {
		return fmt.Sprintf("No, we currently don't have outlets in %s.", location)
	}
	return answerNoOutletsFallback
}

// HasOutlets reports whether an outlet query result describes at least one outlet.
func HasOutlets(result string) bool {
	lower := strings.ToLower(result)
	if !strings.Contains(lower, "outlet") || utf8.RuneCountInString(result) <= 20 {
		return false
	}
	for _, negative := range negativeOutletMarkers {
		if strings.Contains(lower, negative) {
			return false
		}
	}
	return true
}

// ExtractLocation returns the lower-cased phrase after "in", up to a question mark.
func ExtractLocation(message string) string {
	match := locationPattern.FindStringSubmatch(strings.ToLower(message))
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
