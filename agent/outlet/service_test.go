package outlet

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	"github.com/tanpawarit/zus-chat-assistant/agent/normalize"
)

const testPrompt = "Schema:\n{schema}\nQuestion: {question}\nSQL:"

type fakeChatModel struct {
	content string
	err     error
	inputs  [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

type fakeSQLRunner struct {
	result  contractx.ResultSet
	err     error
	queries []string
}

func (f *fakeSQLRunner) QueryRows(_ context.Context, query string) (contractx.ResultSet, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func (f *fakeSQLRunner) Schema() string {
	return "outlets(id, name, address, hours, services)"
}

func TestServiceQuery(t *testing.T) {
	t.Parallel()

	model := &fakeChatModel{content: "```sql\nSELECT name, address FROM outlets WHERE address ILIKE '%petaling jaya%';\n```"}
	db := &fakeSQLRunner{result: contractx.ResultSet{
		Columns: []string{"name", "address"},
		Rows: [][]string{
			{"ZUS Coffee SS2", "Jalan SS 2/67, Petaling Jaya"},
			{"ZUS Coffee Damansara Uptown", "Jalan SS 21/39, Petaling Jaya"},
		},
	}}
	svc, err := NewService(context.Background(), model, db, testPrompt)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	out, err := svc.Query(context.Background(), "Which outlets are in Petaling Jaya?")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(db.queries) != 1 || db.queries[0] != "SELECT name, address FROM outlets WHERE address ILIKE '%petaling jaya%'" {
		t.Fatalf("unexpected executed queries: %v", db.queries)
	}
	want := "Query returned 2 row(s).\n" +
		"Outlet Name: ZUS Coffee SS2\nLocation: Jalan SS 2/67, Petaling Jaya\n\n" +
		"Outlet Name: ZUS Coffee Damansara Uptown\nLocation: Jalan SS 21/39, Petaling Jaya"
	if out.Result != want {
		t.Fatalf("unexpected result:\n%s", out.Result)
	}
	if len(out.Steps) != 2 || !strings.HasPrefix(out.Steps[0], "Generated SQL: SELECT") || out.Steps[1] != "Rows returned: 2" {
		t.Fatalf("unexpected steps: %v", out.Steps)
	}

	prompt := model.inputs[0][0].Content
	if !strings.Contains(prompt, "outlets(id, name, address, hours, services)") || !strings.Contains(prompt, "Question: Which outlets are in Petaling Jaya?") {
		t.Fatalf("prompt not rendered: %q", prompt)
	}
}

func TestServiceQueryRejectsWrites(t *testing.T) {
	t.Parallel()

	db := &fakeSQLRunner{}
	svc, err := NewService(context.Background(), &fakeChatModel{content: "DROP TABLE outlets"}, db, testPrompt)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if _, err := svc.Query(context.Background(), "delete everything"); !errors.Is(err, contractx.ErrUnsafeQuery) {
		t.Fatalf("expected ErrUnsafeQuery, got %v", err)
	}
	if len(db.queries) != 0 {
		t.Fatal("unsafe statement must not reach the database")
	}
}

func TestServiceQueryNoRows(t *testing.T) {
	t.Parallel()

	svc, err := NewService(context.Background(), &fakeChatModel{content: "SELECT name FROM outlets WHERE address ILIKE '%ipoh%'"}, &fakeSQLRunner{}, testPrompt)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	out, err := svc.Query(context.Background(), "outlets in Ipoh")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if out.Result != NoMatchingOutlets {
		t.Fatalf("unexpected result: %q", out.Result)
	}
}

func TestRenderResultZeroCount(t *testing.T) {
	t.Parallel()

	got := RenderResult(contractx.ResultSet{Columns: []string{"outlet_count"}, Rows: [][]string{{"0"}}})
	if got != NoMatchingOutlets {
		t.Fatalf("unexpected result: %q", got)
	}
	got = RenderResult(contractx.ResultSet{Columns: []string{"outlet_count"}, Rows: [][]string{{"4"}}})
	if got != "Matching outlets found.\nOutlet Count: 4" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRenderResultEmptyAggregates(t *testing.T) {
	t.Parallel()

	for _, result := range []contractx.ResultSet{
		{Columns: []string{"exists"}, Rows: [][]string{{"false"}}},
		{Columns: []string{"exists"}, Rows: [][]string{{"f"}}},
		{Columns: []string{"total"}, Rows: [][]string{{"0"}}},
		{Columns: []string{"avg"}, Rows: [][]string{{"0.0"}}},
	} {
		if got := RenderResult(result); got != NoMatchingOutlets {
			t.Fatalf("RenderResult(%v) = %q, want %q", result, got, NoMatchingOutlets)
		}
	}

	got := RenderResult(contractx.ResultSet{Columns: []string{"exists"}, Rows: [][]string{{"true"}}})
	if got != "Matching outlets found.\nExists: true" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRenderedAggregateAnswersExistenceQuestion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		result contractx.ResultSet
		want   string
	}{
		{result: contractx.ResultSet{Columns: []string{"exists"}, Rows: [][]string{{"false"}}}, want: "No, we currently don't have outlets in ipoh."},
		{result: contractx.ResultSet{Columns: []string{"total"}, Rows: [][]string{{"0"}}}, want: "No, we currently don't have outlets in ipoh."},
		{result: contractx.ResultSet{Columns: []string{"exists"}, Rows: [][]string{{"true"}}}, want: "Yes! Which outlet are you referring to?"},
		{result: contractx.ResultSet{Columns: []string{"total"}, Rows: [][]string{{"3"}}}, want: "Yes! Which outlet are you referring to?"},
	}
	for _, tc := range cases {
		got := normalize.New().Normalize(contractx.NormalizeRequest{
			Capability:    contractx.CapabilityOutlet,
			ToolOutput:    contractx.LabelOutletQueryResult + " " + RenderResult(tc.result),
			HasToolOutput: true,
			UserMessage:   "Is there an outlet in Ipoh?",
		})
		if got.Text != tc.want {
			t.Fatalf("result %v: got %q, want %q", tc.result, got.Text, tc.want)
		}
	}
}

func TestServiceQueryReportsTruncation(t *testing.T) {
	t.Parallel()

	db := &fakeSQLRunner{result: contractx.ResultSet{
		Columns:   []string{"name"},
		Rows:      [][]string{{"ZUS Coffee SS2"}, {"ZUS Coffee Bangsar"}},
		Truncated: true,
	}}
	svc, err := NewService(context.Background(), &fakeChatModel{content: "SELECT name FROM outlets"}, db, testPrompt)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	out, err := svc.Query(context.Background(), "list every outlet")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(out.Steps) != 3 || out.Steps[2] != "Results truncated to the first 2 rows" {
		t.Fatalf("unexpected steps: %v", out.Steps)
	}
	if !strings.HasPrefix(out.Result, "Query returned the first 2 row(s); more rows matched.\nOutlet Name: ZUS Coffee SS2") {
		t.Fatalf("unexpected result: %q", out.Result)
	}
}

func TestServiceQueryExecutionError(t *testing.T) {
	t.Parallel()

	db := &fakeSQLRunner{err: errors.New("relation \"outlet\" does not exist")}
	svc, err := NewService(context.Background(), &fakeChatModel{content: "SELECT * FROM outlet"}, db, testPrompt)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if _, err := svc.Query(context.Background(), "list"); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected execution error, got %v", err)
	}
}
