package tool

import (
	"context"
	"fmt"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const ToolQueryProducts = "query_products_kb"

type QueryInput struct {
	Query string `json:"query"`
}

type ProductLookup struct {
	answerer contractx.ProductAnswerer
}

var _ CapabilityTool = (*ProductLookup)(nil)

// NewProductLookup accepts a nil answerer; the tool then reports the knowledge base as unavailable.
func NewProductLookup(answerer contractx.ProductAnswerer) *ProductLookup {
	return &ProductLookup{answerer: answerer}
}

func (p *ProductLookup) Capability() contractx.Capability {
	return contractx.CapabilityProduct
}

func (p *ProductLookup) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolQueryProducts,
		Desc: "A tool for retrieving information about ZUS products (drinkware, tumblers, cups) from the knowledge base.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "Natural language product question", Required: true},
		}),
	}, nil
}

func (p *ProductLookup) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...einotool.Option) (string, error) {
	var in QueryInput
	decodeArgs(argumentsInJSON, &in, func(raw string) { in.Query = raw })
	return fmt.Sprintf("%s\n%s %s", contractx.MarkerProductRetrieved, contractx.LabelProductInformation, p.lookup(ctx, in.Query)), nil
}

func (p *ProductLookup) lookup(ctx context.Context, query string) string {
	if p.answerer == nil {
		return "Product knowledge base not available."
	}
	answer, err := p.answerer.Answer(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("product lookup failed")
		return fmt.Sprintf("Error retrieving product information: %v", err)
	}
	return answer.Summary
}
