package outlet

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

func TestExtractSQL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"SELECT name FROM outlets":                          "SELECT name FROM outlets",
		"```sql\nSELECT name FROM outlets;\n```":            "SELECT name FROM outlets;",
		"Here you go:\n```\nSELECT 1\n```\nanything else":   "SELECT 1",
		"SQL: SELECT COUNT(*) AS outlet_count FROM outlets": "SELECT COUNT(*) AS outlet_count FROM outlets",
	}
	for in, want := range cases {
		if got := ExtractSQL(in); got != want {
			t.Fatalf("ExtractSQL(%q)=%q want %q", in, got, want)
		}
	}
}

func TestEnsureReadOnlyAccepts(t *testing.T) {
	t.Parallel()

	for _, stmt := range []string{
		"SELECT name, address FROM outlets WHERE address ILIKE '%petaling jaya%' LIMIT 50;",
		"with pj as (select * from outlets) select name from pj",
		"SELECT name FROM outlets WHERE address ILIKE '%Setia Alam%'",
	} {
		got, err := EnsureReadOnly(stmt)
		if err != nil {
			t.Fatalf("EnsureReadOnly(%q) error = %v", stmt, err)
		}
		if got[len(got)-1] == ';' {
			t.Fatalf("trailing semicolon kept: %q", got)
		}
	}
}

func TestEnsureReadOnlyRejects(t *testing.T) {
	t.Parallel()

	for _, stmt := range []string{
		"",
		"DELETE FROM outlets",
		"SELECT 1; DROP TABLE outlets",
		"UPDATE outlets SET name = 'x'",
		"WITH x AS (DELETE FROM outlets RETURNING *) SELECT * FROM x",
		"EXPLAIN SELECT 1",
	} {
		if _, err := EnsureReadOnly(stmt); !errors.Is(err, contractx.ErrUnsafeQuery) {
			t.Fatalf("EnsureReadOnly(%q) expected ErrUnsafeQuery, got %v", stmt, err)
		}
	}
}
