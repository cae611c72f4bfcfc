package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/caselens/caselens/internal/validate"
)

// Markdown writes a display plan as markdown. It implements the minimum
// presentation surface the plan requires: titled sections, bulleted
// lists, tables, nested panels, and explicit placeholders.
type Markdown struct {
	w io.Writer
}

// NewMarkdown creates a markdown renderer targeting w.
func NewMarkdown(w io.Writer) *Markdown {
	return &Markdown{w: w}
}

// Render walks the validated value's plan and writes it out.
func (m *Markdown) Render(v *validate.Value) error {
	for node := range Plan(v) {
		if err := m.writeNode(node, 2); err != nil {
			return err
		}
	}
	return nil
}

func (m *Markdown) writeNode(n Node, level int) error {
	heading := strings.Repeat("#", min(level, 6))
	if _, err := fmt.Fprintf(m.w, "%s %s\n\n", heading, n.Title); err != nil {
		return err
	}

	switch n.Kind {
	case KindText:
		_, err := fmt.Fprintf(m.w, "%s\n\n", n.Text)
		return err

	case KindList:
		for _, item := range n.Items {
			if _, err := fmt.Fprintf(m.w, "- %s\n", item); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintln(m.w)
		return err

	case KindTable:
		return m.writeTable(n)

	case KindPanel:
		for _, child := range n.Children {
			if err := m.writeNode(child, level+1); err != nil {
				return err
			}
		}
		return nil

	case KindEmpty:
		_, err := fmt.Fprintf(m.w, "_(no data)_\n\n")
		return err

	case KindAbsent:
		_, err := fmt.Fprintf(m.w, "_(not returned)_\n\n")
		return err
	}
	return nil
}

func (m *Markdown) writeTable(n Node) error {
	if len(n.Columns) == 0 {
		_, err := fmt.Fprintf(m.w, "_(no data)_\n\n")
		return err
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(n.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(n.Columns)) + "\n")
	for _, row := range n.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = escapeCell(cell)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(m.w, b.String())
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
