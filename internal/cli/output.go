package cli

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chouse/pkg/record"
)

// writeJSON writes v as JSON followed by a newline. Records keep their
// key order.
func writeJSON(w io.Writer, v any, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// field returns rec[key] as display text, or "-".
func field(rec *record.Map, key string) string {
	v, ok := rec.Get(key)
	if !ok || v.IsNull() {
		return "-"
	}
	if n, ok := v.AsNumber(); ok {
		return n.String()
	}
	if s := v.Str(); s != "" {
		return s
	}
	return "-"
}

// companyTable renders one row per company. Empty records (hits that
// could no longer be resolved) are shown as such.
func companyTable(results []*record.Map) string {
	rows := make([][]string, 0, len(results))
	for _, rec := range results {
		if rec.IsEmpty() {
			rows = append(rows, []string{"-", "(not found)", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			field(rec, "company_number"),
			field(rec, "company_name"),
			field(rec, "company_status"),
			field(rec, "type"),
			field(rec, "date_of_creation"),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Number", "Name", "Status", "Type", "Incorporated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col != 2 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			if rows[row][2] == "active" {
				return styleActive
			}
			return styleDissolved
		})

	return t.Render()
}
