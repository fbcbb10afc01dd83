package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

func baseConfig() Config {
	return Config{
		APIKey:             " key ",
		Model:              "gpt-4o-mini",
		MaxCompletionToken: 500,
		Temperature:        0,
		PlannerTemperature: -1,
		SummaryTemperature: -1,
		SQLTemperature:     -1,
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.APIKey = "  "
	if err := cfg.Validate(); !errors.Is(err, contractx.ErrUnavailable) {
		t.Fatalf("Validate() error = %v, want ErrUnavailable", err)
	}
	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestChatModelForUsesDefaults(t *testing.T) {
	t.Parallel()

	got := baseConfig().ChatModelFor(RolePlanner)
	if got.Model != "gpt-4o-mini" {
		t.Fatalf("Model = %q", got.Model)
	}
	if got.APIKey != "key" {
		t.Fatalf("APIKey = %q, want trimmed", got.APIKey)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 500 {
		t.Fatalf("MaxCompletionToken = %v", got.MaxCompletionToken)
	}
	if got.Temperature != 0 {
		t.Fatalf("Temperature = %v", got.Temperature)
	}
}

func TestChatModelForAppliesRoleOverrides(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.SQLModel = "gpt-4o"
	cfg.SQLTemperature = 0.2
	cfg.SummaryModel = "gpt-4.1-mini"

	sql := cfg.ChatModelFor(RoleSQL)
	if sql.Model != "gpt-4o" || sql.Temperature != 0.2 {
		t.Fatalf("sql config = %+v", sql)
	}
	summary := cfg.ChatModelFor(RoleSummary)
	if summary.Model != "gpt-4.1-mini" || summary.Temperature != 0 {
		t.Fatalf("summary config = %+v", summary)
	}
	planner := cfg.ChatModelFor(RolePlanner)
	if planner.Model != "gpt-4o-mini" {
		t.Fatalf("planner model = %q", planner.Model)
	}
}
