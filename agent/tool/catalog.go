package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

// CapabilityTool is an eino invokable tool that knows which capability it serves.
type CapabilityTool interface {
	einotool.InvokableTool
	Capability() contractx.Capability
}

type Executor func(ctx context.Context, tool string, argumentsInJSON string) (string, error)

type Catalog struct {
	tools []CapabilityTool
	names map[string]CapabilityTool
}

// NewCatalog registers the three assistant tools. Nil collaborators yield tools that
// answer with a "not available" message.
func NewCatalog(products contractx.ProductAnswerer, outlets contractx.OutletQuerier) (*Catalog, error) {
	return NewCatalogWith(NewCalculator(), NewProductLookup(products), NewOutletLookup(outlets))
}

func NewCatalogWith(tools ...CapabilityTool) (*Catalog, error) {
	c := &Catalog{names: make(map[string]CapabilityTool, len(tools))}
	for _, t := range tools {
		info, err := t.Info(context.Background())
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		if _, exists := c.names[info.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate tool %q", contractx.ErrValidation, info.Name)
		}
		c.names[info.Name] = t
		c.tools = append(c.tools, t)
	}
	return c, nil
}

func (c *Catalog) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(c.tools))
	for _, t := range c.tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (c *Catalog) Lookup(name string) (CapabilityTool, bool) {
	t, ok := c.names[name]
	return t, ok
}

// CapabilityOf resolves a tool name to its capability, falling back to ClassifyToolName
// for names the catalog does not know.
func (c *Catalog) CapabilityOf(name string) contractx.Capability {
	if t, ok := c.names[name]; ok {
		return t.Capability()
	}
	return ClassifyToolName(name)
}

func (c *Catalog) Executor() Executor {
	return func(ctx context.Context, name string, argumentsInJSON string) (string, error) {
		t, ok := c.names[name]
		if !ok {
			return DefaultExecutor()(ctx, name, argumentsInJSON)
		}
		return t.InvokableRun(ctx, argumentsInJSON)
	}
}

func DefaultExecutor() Executor {
	return func(_ context.Context, name string, _ string) (string, error) {
		return fmt.Sprintf("tool=%s is unavailable", name), nil
	}
}

// ClassifyToolName maps a tool name by case-insensitive substring.
func ClassifyToolName(name string) contractx.Capability {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "calculate"):
		return contractx.CapabilityCalculator
	case strings.Contains(lower, "product"):
		return contractx.CapabilityProduct
	case strings.Contains(lower, "outlet"):
		return contractx.CapabilityOutlet
	default:
		return contractx.CapabilityNone
	}
}

// decodeArgs unmarshals tool arguments. Models sometimes send a bare string instead of
// a JSON object; that raw text is handed to fallback.
func decodeArgs(argumentsInJSON string, dst any, fallback func(raw string)) {
	raw := strings.TrimSpace(argumentsInJSON)
	if raw == "" {
		fallback("")
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err == nil && strings.HasPrefix(raw, "{") {
		return
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		fallback(s)
		return
	}
	fallback(raw)
}
