package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// printList writes v as indented JSON, or headers and rows as a table.
func printList(w io.Writer, format string, headers []string, rows [][]string, v any) error {
	if format == outputJSON {
		return printJSON(w, v)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// printRecord writes a single API record, as JSON or as a two-column table.
func printRecord(w io.Writer, format string, fields [][]string, v any) error {
	if format == outputJSON {
		return printJSON(w, v)
	}
	return printList(w, format, []string{"FIELD", "VALUE"}, fields, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
