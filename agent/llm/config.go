package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	openaix "github.com/tanpawarit/zus-chat-assistant/pkg/openai"
)

// Role selects which model overrides apply.
type Role string

const (
	RolePlanner Role = "planner"
	RoleSummary Role = "summary"
	RoleSQL     Role = "sql"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-mini"`
	EmbeddingModel     string        `envconfig:"EMBEDDING_MODEL" split_words:"true" default:"text-embedding-3-small"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"20s"`

	PlannerModel       string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	SummaryModel       string  `envconfig:"SUMMARY_MODEL" split_words:"true"`
	SQLModel           string  `envconfig:"SQL_MODEL" split_words:"true"`
	PlannerTemperature float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	SummaryTemperature float32 `envconfig:"SUMMARY_TEMPERATURE" split_words:"true" default:"-1"`
	SQLTemperature     float32 `envconfig:"SQL_TEMPERATURE" split_words:"true" default:"-1"`
}

// Validate reports ErrUnavailable when no model can be built. Callers degrade
// instead of failing startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is not configured", contractx.ErrUnavailable)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: llm model is not configured", contractx.ErrUnavailable)
	}
	return nil
}

func (c Config) ChatModelFor(role Role) openaix.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RolePlanner:
		if v := strings.TrimSpace(c.PlannerModel); v != "" {
			modelName = v
		}
		if c.PlannerTemperature >= 0 {
			temp = c.PlannerTemperature
		}
	case RoleSummary:
		if v := strings.TrimSpace(c.SummaryModel); v != "" {
			modelName = v
		}
		if c.SummaryTemperature >= 0 {
			temp = c.SummaryTemperature
		}
	case RoleSQL:
		if v := strings.TrimSpace(c.SQLModel); v != "" {
			modelName = v
		}
		if c.SQLTemperature >= 0 {
			temp = c.SQLTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openaix.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
	}
}

// ClientConfig is the shared endpoint used for embeddings.
func (c Config) ClientConfig() openaix.Config {
	return openaix.Config{
		BaseURL: strings.TrimSpace(c.BaseURL),
		APIKey:  strings.TrimSpace(c.APIKey),
		Timeout: c.Timeout,
	}
}
