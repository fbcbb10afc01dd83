package outlet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const NoMatchingOutlets = "No matching outlets found."

// SQLRunner executes one read-only statement against the outlets store.
type SQLRunner interface {
	QueryRows(ctx context.Context, query string) (contractx.ResultSet, error)
	Schema() string
}

// Service answers outlet questions by generating SQL, checking it is read-only and
// running it.
type Service struct {
	runner compose.Runnable[map[string]any, string]
	db     SQLRunner
}

var _ contractx.OutletQuerier = (*Service)(nil)

func NewService(ctx context.Context, chatModel einomodel.BaseChatModel, db SQLRunner, text2SQLPrompt string) (*Service, error) {
	if chatModel == nil || db == nil {
		return nil, fmt.Errorf("%w: outlet database requires a chat model and a SQL runner", contractx.ErrUnavailable)
	}
	if strings.TrimSpace(text2SQLPrompt) == "" {
		return nil, fmt.Errorf("%w: text2sql prompt", contractx.ErrPromptMissing)
	}

	runner, err := compileText2SQLGraph(ctx, chatModel, text2SQLPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &Service{runner: runner, db: db}, nil
}

func (s *Service) Query(ctx context.Context, question string) (contractx.OutletAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return contractx.OutletAnswer{}, fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	generated, err := s.runner.Invoke(ctx, map[string]any{
		"schema":   s.db.Schema(),
		"question": question,
	})
	if err != nil {
		return contractx.OutletAnswer{}, fmt.Errorf("%w: text2sql: %v", contractx.ErrModelInvoke, err)
	}

	statement, err := EnsureReadOnly(generated)
	if err != nil {
		return contractx.OutletAnswer{}, err
	}

	result, err := s.db.QueryRows(ctx, statement)
	if err != nil {
		return contractx.OutletAnswer{}, fmt.Errorf("execute outlet query: %w", err)
	}

	log.Debug().Str("sql", statement).Int("rows", len(result.Rows)).Bool("truncated", result.Truncated).Msg("outlet query executed")
	steps := []string{
		fmt.Sprintf("Generated SQL: %s", statement),
		fmt.Sprintf("Rows returned: %d", len(result.Rows)),
	}
	if result.Truncated {
		steps = append(steps, fmt.Sprintf("Results truncated to the first %d rows", len(result.Rows)))
	}
	return contractx.OutletAnswer{Result: RenderResult(result), Steps: steps}, nil
}

// RenderResult turns rows into text the response normalizer can list. The name column
// is labelled "Outlet Name" so each row starts a new outlet block. A single aggregate
// cell (a count, total or EXISTS flag) is reported as found or not found.
func RenderResult(result contractx.ResultSet) string {
	if len(result.Rows) == 0 {
		return NoMatchingOutlets
	}
	if value, ok := aggregateCell(result); ok {
		if isEmptyAggregate(value) {
			return NoMatchingOutlets
		}
		return fmt.Sprintf("Matching outlets found.\n%s: %s", columnLabel(result.Columns[0]), value)
	}

	var b strings.Builder
	if result.Truncated {
		fmt.Fprintf(&b, "Query returned the first %d row(s); more rows matched.", len(result.Rows))
	} else {
		fmt.Fprintf(&b, "Query returned %d row(s).", len(result.Rows))
	}
	for _, row := range result.Rows {
		b.WriteString("\n")
		for i, value := range row {
			if i >= len(result.Columns) {
				break
			}
			fmt.Fprintf(&b, "%s: %s\n", columnLabel(result.Columns[i]), value)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// aggregateCell returns the value of a one-row, one-column result holding a number
// or a boolean.
func aggregateCell(result contractx.ResultSet) (string, bool) {
	if len(result.Rows) != 1 || len(result.Columns) != 1 || len(result.Rows[0]) != 1 {
		return "", false
	}
	value := strings.TrimSpace(result.Rows[0][0])
	switch strings.ToLower(value) {
	case "true", "t", "false", "f":
		return value, true
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value, true
	}
	return "", false
}

func isEmptyAggregate(value string) bool {
	switch strings.ToLower(value) {
	case "false", "f":
		return true
	case "true", "t":
		return false
	}
	n, err := strconv.ParseFloat(value, 64)
	return err == nil && n == 0
}

func columnLabel(column string) string {
	switch strings.ToLower(column) {
	case "name":
		return "Outlet Name"
	case "location", "address":
		return "Location"
	}
	words := strings.Fields(strings.ReplaceAll(column, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
