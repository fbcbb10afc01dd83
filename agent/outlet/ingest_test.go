package outlet

import (
	"context"
	"errors"
	"strings"
	"testing"

	outletdbx "github.com/tanpawarit/zus-chat-assistant/pkg/outletdb"
)

type fakeReplacer struct {
	rows []outletdbx.Outlet
	err  error
}

func (f *fakeReplacer) Replace(_ context.Context, rows []outletdbx.Outlet) error {
	f.rows = rows
	return f.err
}

func TestLoadRecordsSkipsUnnamed(t *testing.T) {
	t.Parallel()

	input := `[
		{"name": "ZUS Coffee SS2", "location": "Jalan SS 2/67, Petaling Jaya", "hours": "8am-10pm", "services": ["Dine-in", "Delivery"]},
		{"name": "", "location": "nowhere"},
		{"name": "ZUS Coffee Ipoh", "location": "Ipoh, Perak"}
	]`
	records, err := LoadRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
}

func TestRecordRowDefaults(t *testing.T) {
	t.Parallel()

	row := Record{Name: " ZUS Coffee Ipoh ", Location: "Ipoh, Perak"}.Row()
	if row.Name != "ZUS Coffee Ipoh" {
		t.Fatalf("Name = %q", row.Name)
	}
	if row.Hours != "Not Listed" {
		t.Fatalf("Hours = %q, want Not Listed", row.Hours)
	}
	if row.Services != "Dine-in, Takeaway" {
		t.Fatalf("Services = %q", row.Services)
	}

	row = Record{Name: "SS2", Services: []string{"Dine-in", " ", "Delivery"}}.Row()
	if row.Services != "Dine-in, Delivery" {
		t.Fatalf("Services = %q", row.Services)
	}
}

func TestIngestReplacesRows(t *testing.T) {
	t.Parallel()

	db := &fakeReplacer{}
	n, err := Ingest(context.Background(), db, []Record{{Name: "A"}, {Name: "B"}})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if n != 2 || len(db.rows) != 2 || db.rows[1].Name != "B" {
		t.Fatalf("n=%d rows=%+v", n, db.rows)
	}

	failing := &fakeReplacer{err: errors.New("permission denied")}
	if _, err := Ingest(context.Background(), failing, []Record{{Name: "A"}}); err == nil {
		t.Fatalf("Ingest() error = nil, want error")
	}
}
