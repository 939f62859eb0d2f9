package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// table is a rendered listing: headers and rows for table/csv, value for json/yaml.
// When lines is set, table format prints it verbatim instead of aligned columns.
type table struct {
	headers []string
	rows    [][]string
	lines   []string
	value   interface{}
}

// render writes t in the given format. An empty table prints empty in table format.
func render(w io.Writer, format string, t table, empty string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t.value); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t.value); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case "csv":
		writer := csv.NewWriter(w)
		if err := writer.Write(t.headers); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		if err := writer.WriteAll(t.rows); err != nil {
			return fmt.Errorf("failed to write CSV rows: %w", err)
		}
		return nil
	default:
		if len(t.rows) == 0 {
			_, err := fmt.Fprintln(w, empty)
			return err
		}
		if t.lines != nil {
			_, err := fmt.Fprintln(w, strings.Join(t.lines, "\n"))
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(t.headers, "\t")))
		for _, row := range t.rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	}
}
