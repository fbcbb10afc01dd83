package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/system.txt
	systemRaw string

	//go:embed template/product_summary.txt
	productSummaryRaw string

	//go:embed template/text2sql.txt
	text2SQLRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System         string
	ProductSummary string
	Text2SQL       string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System:         strings.TrimSpace(systemRaw),
		ProductSummary: strings.TrimSpace(productSummaryRaw),
		Text2SQL:       strings.TrimSpace(text2SQLRaw),
	}
}
