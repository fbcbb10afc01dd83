package tool

import (
	"context"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const ToolCalculate = "calculate"

type CalculateInput struct {
	Expression string `json:"expression"`
}

// Calculator evaluates arithmetic with EvaluateExpression. It never returns an error;
// rejected expressions become a refusal sentence.
type Calculator struct{}

var _ CapabilityTool = (*Calculator)(nil)

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Capability() contractx.Capability {
	return contractx.CapabilityCalculator
}

func (c *Calculator) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: ToolCalculate,
		Desc: "Performs a simple mathematical calculation using an expression string (e.g., '10 * 5'). Supports + - * / ** ( ) and abs, round, pow.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"expression": {Type: schema.String, Desc: "Arithmetic expression to evaluate", Required: true},
		}),
	}, nil
}

func (c *Calculator) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...einotool.Option) (string, error) {
	var in CalculateInput
	decodeArgs(argumentsInJSON, &in, func(raw string) { in.Expression = raw })
	return c.Calculate(in.Expression), nil
}

func (c *Calculator) Calculate(expression string) string {
	expression = strings.TrimSpace(expression)
	result, err := EvaluateExpression(expression)
	if err != nil {
		return fmt.Sprintf("The expression '%s' %s. Please provide a simple math expression.", expression, contractx.CalculatorRefusal)
	}
	return fmt.Sprintf("%s %s", contractx.LabelCalculationResult, result.String())
}
