package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorMuted   = lipgloss.Color("#888888")
	colorDanger  = lipgloss.Color("#FF5F87")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	noteStyle    = lipgloss.NewStyle().Italic(true).Foreground(colorMuted)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	negStyle     = lipgloss.NewStyle().Foreground(colorDanger)
)

// ConsoleFormatter renders a report as aligned text tables for a terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	tables, err := r.tables()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, titleStyle.Render(strings.ToUpper(r.Title)))
	fmt.Fprintln(&buf, strings.Repeat("=", lipgloss.Width(r.Title)))
	if r.Employment != nil {
		writeEmployment(&buf, r.Employment)
	} else if r.Scheme != "" {
		fmt.Fprintf(&buf, "%s %s\n", labelStyle.Render("Scheme:"), r.Scheme)
	}
	fmt.Fprintln(&buf)

	for _, t := range tables {
		if len(tables) > 1 {
			fmt.Fprintln(&buf, sectionStyle.Render(t.Name))
		}
		writeConsoleTable(&buf, t)
		for _, note := range t.Notes {
			fmt.Fprintln(&buf, noteStyle.Render(note))
		}
		fmt.Fprintln(&buf)
	}

	if len(r.Assumptions) > 0 {
		fmt.Fprintln(&buf, sectionStyle.Render("Assumptions"))
		for _, a := range r.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

func writeEmployment(buf *bytes.Buffer, emp *domain.Employment) {
	line := func(label, value string) {
		fmt.Fprintf(buf, "%-12s %s\n", labelStyle.Render(label+":"), value)
	}
	point := emp.Point
	if point == "" {
		point = "starting point"
	}
	line("Grade", fmt.Sprintf("%s (%s)", emp.Grade, point))
	line("Scheme", string(emp.Scheme))
	line("Employed", fmt.Sprintf("%s to %s", dateutil.Format(emp.StartDate), dateutil.Format(emp.UntilDate)))
	if !emp.NextAnniversaryDate.IsZero() {
		line("Anniversary", dateutil.Format(emp.NextAnniversaryDate))
	}
}

// writeConsoleTable left-aligns text cells and right-aligns numbers.
func writeConsoleTable(buf *bytes.Buffer, t table) {
	cells := make([][]string, len(t.Rows))
	widths := make([]int, len(t.Headings))
	for i, h := range t.Headings {
		widths[i] = lipgloss.Width(h)
	}
	for i, row := range t.Rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			s := cellString(v)
			if p, ok := v.(pounds); ok {
				s = FormatPounds(int64(p))
			}
			cells[i][j] = s
			widths[j] = max(widths[j], lipgloss.Width(s))
		}
	}

	pad := func(s string, width int, right bool) string {
		gap := strings.Repeat(" ", width-lipgloss.Width(s))
		if right {
			return gap + s
		}
		return s + gap
	}

	header := make([]string, len(t.Headings))
	for i, h := range t.Headings {
		header[i] = pad(h, widths[i], i > 0)
	}
	fmt.Fprintln(buf, headerStyle.Render(strings.Join(header, "  ")))

	for i, row := range t.Rows {
		out := make([]string, len(row))
		for j, v := range row {
			_, isText := v.(string)
			s := pad(cells[i][j], widths[j], !isText)
			if p, ok := v.(pounds); ok && p < 0 {
				s = negStyle.Render(s)
			}
			out[j] = s
		}
		line := strings.Join(out, "  ")
		if label, ok := row[0].(string); ok && label == "Total" {
			line = totalStyle.Render(line)
		}
		fmt.Fprintln(buf, line)
	}
}
