package contract

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one immutable entry of a conversation. ToolName is only set for RoleTool.
type Message struct {
	Role     Role   `json:"role"`
	Content  string `json:"content"`
	ToolName string `json:"tool_name,omitempty"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

func ToolMessage(toolName, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolName: toolName}
}

// Capability identifies which routable skill produced an answer. The string
// value doubles as the public tool_used label.
type Capability string

const (
	CapabilityNone       Capability = ""
	CapabilityCalculator Capability = "Calculator"
	CapabilityProduct    Capability = "Product RAG"
	CapabilityOutlet     Capability = "Outlet Text2SQL"
)

// ToolUsedErrorHandler is reported when the chat pipeline itself failed.
const ToolUsedErrorHandler = "Error Handler"

func (c Capability) IsNone() bool {
	return c == CapabilityNone
}

// ToolInvocation is one tool-role entry of a planner trace.
type ToolInvocation struct {
	Name       string     `json:"name"`
	Capability Capability `json:"capability"`
	Output     string     `json:"output"`
}

type PlannerResult struct {
	Draft       string           `json:"draft"`
	Messages    []Message        `json:"messages"`
	Invocations []ToolInvocation `json:"invocations,omitempty"`
}

type NormalizeRequest struct {
	Capability       Capability
	ToolOutput       string
	HasToolOutput    bool
	UserMessage      string
	PriorUserMessage string
	Draft            string
}

type NormalizedAnswer struct {
	Text       string     `json:"text"`
	Capability Capability `json:"capability"`
}

type Passage struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type ProductAnswer struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}

type OutletAnswer struct {
	Result string   `json:"result"`
	Steps  []string `json:"steps"`
}

// ResultSet is a SQL result with every value already rendered as text. Truncated is
// set when rows past the store's row cap were dropped.
type ResultSet struct {
	Columns   []string
	Rows      [][]string
	Truncated bool
}
