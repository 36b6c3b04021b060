// Package render writes task listings for people (table) and for programs
// (JSON, YAML).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"todo-cli/internal/duedate"
	"todo-cli/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

type TimeFormat string

const (
	TimeFormat24h TimeFormat = "24h"
	TimeFormat12h TimeFormat = "12h"
)

// ParseFormat accepts the names of the supported output formats.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// Renderer writes task views. TimeFormat only affects the table; structured
// formats always carry canonical due values.
type Renderer struct {
	Format     Format
	TimeFormat TimeFormat
}

func (r Renderer) Render(w io.Writer, tasks []models.TaskView) error {
	switch r.Format {
	case FormatJSON:
		return renderJSON(w, tasks)
	case FormatYAML:
		return renderYAML(w, tasks)
	case FormatTable, "":
		return r.renderTable(w, tasks)
	default:
		return fmt.Errorf("unknown output format %q", r.Format)
	}
}

func renderJSON(w io.Writer, tasks []models.TaskView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func renderYAML(w io.Writer, tasks []models.TaskView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return err
	}
	return enc.Close()
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (r Renderer) renderTable(w io.Writer, tasks []models.TaskView) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Task", "Done", "Due Date").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, task := range tasks {
		done := ""
		if task.Completed {
			done = "✓"
		}
		t.Row(strconv.Itoa(task.Idx), task.Description, done, r.formatDue(task.Due))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// formatDue applies the time preference to a canonical due value.
func (r Renderer) formatDue(due *string) string {
	if due == nil {
		return ""
	}
	if r.TimeFormat != TimeFormat12h {
		return *due
	}

	t, hasTime, ok := duedate.Parse(*due)
	if !ok || !hasTime {
		return *due
	}
	return t.Format("2006-01-02 03:04 PM")
}
