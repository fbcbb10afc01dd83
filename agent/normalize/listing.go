package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

const maxListedOutlets = 5

// OutletSummary is one outlet block found in a listing result.
type OutletSummary struct {
	Block string
	Line  string
}

type listingParser func(text string) []string

// Tried in order; the first parser that yields a block wins.
var listingParsers = []listingParser{
	splitAfter("Outlet Name:"),
	splitAfter("Name:"),
	splitFrom("ZUS Coffee"),
	splitNumbered,
}

var numberedItemPattern = regexp.MustCompile(`\n\s*\d+\.\s+`)

// ParseOutletListing splits a free-text outlet query result into outlet blocks.
// It returns nil when no parser recognises the text.
func ParseOutletListing(text string) []OutletSummary {
	for _, parse := range listingParsers {
		blocks := parse(text)
		if len(blocks) == 0 {
			continue
		}
		out := make([]OutletSummary, 0, len(blocks))
		for _, block := range blocks {
			out = append(out, OutletSummary{Block: block, Line: displayLine(block)})
		}
		return out
	}
	return nil
}

// FormatOutletListing renders up to five outlets, one per line, with a footer when
// some were left out.
func FormatOutletListing(outlets []OutletSummary) string {
	shown := outlets
	if len(shown) > maxListedOutlets {
		shown = shown[:maxListedOutlets]
	}
	lines := make([]string, 0, len(shown))
	for _, outlet := range shown {
		if outlet.Line != "" {
			lines = append(lines, outlet.Line)
		}
	}
	formatted := strings.Join(lines, "\n")
	if len(outlets) > maxListedOutlets {
		formatted += fmt.Sprintf("\n\n(Showing first %d results of %d.)", maxListedOutlets, len(outlets))
	}
	return formatted
}

// splitAfter treats each occurrence of marker as the start of a block; the marker
// itself is dropped.
func splitAfter(marker string) listingParser {
	return func(text string) []string {
		if !strings.Contains(text, marker) {
			return nil
		}
		parts := strings.Split(text, marker)
		return nonEmpty(parts[1:])
	}
}

// splitFrom treats each occurrence of marker as the start of a block and keeps it.
func splitFrom(marker string) listingParser {
	return func(text string) []string {
		if !strings.Contains(text, marker) {
			return nil
		}
		parts := strings.Split(text, marker)
		blocks := make([]string, 0, len(parts)-1)
		for _, part := range parts[1:] {
			blocks = append(blocks, marker+part)
		}
		return nonEmpty(blocks)
	}
}

func splitNumbered(text string) []string {
	parts := numberedItemPattern.Split(text, -1)
	if len(parts) < 2 {
		return nil
	}
	return nonEmpty(parts[1:])
}

func nonEmpty(parts []string) []string {
	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// displayLine keeps the first two non-empty lines of a block on one line.
func displayLine(block string) string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
			if len(lines) == 2 {
				break
			}
		}
	}
	return strings.Join(lines, " ")
}
