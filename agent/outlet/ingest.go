package outlet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	outletdbx "github.com/tanpawarit/zus-chat-assistant/pkg/outletdb"
)

const defaultHours = "Not Listed"

var defaultServices = []string{"Dine-in", "Takeaway"}

// Record is one outlet as scraped into the seed file.
type Record struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Hours    string   `json:"hours"`
	Services []string `json:"services"`
}

func LoadRecords(r io.Reader) ([]Record, error) {
	var raw []Record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode outlets: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, rec := range raw {
		if strings.TrimSpace(rec.Name) == "" {
			log.Warn().Int("index", i).Msg("skipping outlet without name")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r Record) Row() outletdbx.Outlet {
	hours := strings.TrimSpace(r.Hours)
	if hours == "" {
		hours = defaultHours
	}
	services := make([]string, 0, len(r.Services))
	for _, s := range r.Services {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	if len(services) == 0 {
		services = defaultServices
	}
	return outletdbx.Outlet{
		Name:     strings.TrimSpace(r.Name),
		Location: strings.TrimSpace(r.Location),
		Hours:    hours,
		Services: strings.Join(services, ", "),
	}
}

type replacer interface {
	Replace(ctx context.Context, outlets []outletdbx.Outlet) error
}

// Ingest recreates the outlets table from records and returns the row count.
func Ingest(ctx context.Context, db replacer, records []Record) (int, error) {
	rows := make([]outletdbx.Outlet, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	if err := db.Replace(ctx, rows); err != nil {
		return 0, fmt.Errorf("load outlets: %w", err)
	}

	log.Info().Int("count", len(rows)).Msg("outlet database loaded")
	return len(rows), nil
}
