// Package render prints search views to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/meghashyamc/searchform/variants"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

const separator = "---"

func Formats() []string {
	return []string{FormatText, FormatTable, FormatJSON}
}

// View writes view in the given format.
func View(w io.Writer, format string, view *variants.View) error {
	switch format {
	case FormatText, "":
		return Text(w, view)
	case FormatTable:
		return Table(w, view)
	case FormatJSON:
		return JSON(w, view)
	default:
		return fmt.Errorf("unknown output format %q, expected one of %s", format, strings.Join(Formats(), ", "))
	}
}

// JSON writes the raw response, pretty-printed.
func JSON(w io.Writer, view *variants.View) error {
	_, err := fmt.Fprintln(w, view.Raw)
	return err
}

// Text writes every section as labeled fields, grids included.
func Text(w io.Writer, view *variants.View) error {
	return write(w, view, textSection)
}

// Table writes grid sections with tablewriter and everything else as text.
func Table(w io.Writer, view *variants.View) error {
	return write(w, view, tableSection)
}

// Error writes the message for a failed submission.
func Error(w io.Writer, err error) error {
	_, writeErr := fmt.Fprintf(w, "Error: %s\n", err)
	return writeErr
}

type sectionWriter func(w io.Writer, section variants.Section) error

func write(w io.Writer, view *variants.View, writeSection sectionWriter) error {
	var b strings.Builder
	if view.Notice != "" {
		fmt.Fprintln(&b, view.Notice)
	}
	if view.Warning != "" {
		fmt.Fprintf(&b, "Warning: %s\n", view.Warning)
	}
	for _, field := range view.Summary {
		fmt.Fprintf(&b, "%s: %s\n", field.Label, field.Value)
	}
	fmt.Fprintln(&b, separator)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if view.Empty != "" {
		_, err := fmt.Fprintln(w, view.Empty)
		return err
	}

	for _, section := range view.Sections {
		if err := writeSection(w, section); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
	}
	return nil
}

func textSection(w io.Writer, section variants.Section) error {
	var b strings.Builder
	if section.Title != "" && !hasField(section, "Table Name") {
		fmt.Fprintf(&b, "[%s]\n", section.Title)
	}
	for _, field := range section.Fields {
		fmt.Fprintf(&b, "%s: %s\n", field.Label, field.Value)
	}
	if section.Record != "" {
		fmt.Fprintln(&b, section.Record)
	}
	if section.Table != nil {
		for i, row := range section.Table.Rows {
			fmt.Fprintf(&b, "#%d\n", i+1)
			for j, column := range section.Table.Columns {
				fmt.Fprintf(&b, "  %s: %s\n", column, row[j])
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func tableSection(w io.Writer, section variants.Section) error {
	if section.Table == nil {
		return textSection(w, section)
	}
	if section.Title != "" {
		if _, err := fmt.Fprintf(w, "[%s]\n", section.Title); err != nil {
			return err
		}
	}
	if len(section.Table.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header(section.Table.Columns)
	if err := table.Bulk(section.Table.Rows); err != nil {
		return fmt.Errorf("could not add table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("could not render table: %w", err)
	}
	return nil
}

func hasField(section variants.Section, label string) bool {
	return lo.ContainsBy(section.Fields, func(field variants.Field) bool { return field.Label == label })
}
