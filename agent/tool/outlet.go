package tool

import (
	"context"
	"fmt"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const ToolQueryOutlets = "query_outlets_db"

type OutletLookup struct {
	querier contractx.OutletQuerier
}

var _ CapabilityTool = (*OutletLookup)(nil)

func NewOutletLookup(querier contractx.OutletQuerier) *OutletLookup {
	return &OutletLookup{querier: querier}
}

func (o *OutletLookup) Capability() contractx.Capability {
	return contractx.CapabilityOutlet
}

func (o *OutletLookup) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolQueryOutlets,
		Desc: "A tool for querying the ZUS outlets database (names, locations, opening hours, services) using natural language.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {Type: schema.String, Desc: "Natural language outlet question", Required: true},
		}),
	}, nil
}

func (o *OutletLookup) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...einotool.Option) (string, error) {
	var in QueryInput
	decodeArgs(argumentsInJSON, &in, func(raw string) { in.Query = raw })
	return fmt.Sprintf("%s\n%s %s", contractx.MarkerOutletExecuted, contractx.LabelOutletQueryResult, o.lookup(ctx, in.Query)), nil
}

func (o *OutletLookup) lookup(ctx context.Context, query string) string {
	if o.querier == nil {
		return "Outlet database not available."
	}
	answer, err := o.querier.Query(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("outlet lookup failed")
		return fmt.Sprintf("Error querying outlets: %v", err)
	}
	return answer.Result
}
