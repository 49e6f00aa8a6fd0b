package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52525b"))
	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa")).Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d8")).Padding(0, 1)
)

// RenderTable draws rows under a header with rounded borders.
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return t.Render()
}

// WriterPrinter prints the same output as the UI to a plain writer, for
// one-shot commands that don't start the terminal UI. Colors are dropped
// when the writer is not a terminal.
type WriterPrinter struct {
	w io.Writer
}

// NewWriterPrinter creates a printer writing to w.
func NewWriterPrinter(w io.Writer) *WriterPrinter {
	return &WriterPrinter{w: w}
}

func (p *WriterPrinter) PrintTitle(text string)  { fmt.Fprintln(p.w, titleStyle.Render(text)) }
func (p *WriterPrinter) PrintLine(text string)   { fmt.Fprintln(p.w, text) }
func (p *WriterPrinter) PrintHint(text string)   { fmt.Fprintln(p.w, secondaryStyle.Render(text)) }
func (p *WriterPrinter) PrintUrgent(text string) { fmt.Fprintln(p.w, urgentOutputStyle.Render(text)) }

func (p *WriterPrinter) PrintTable(headers []string, rows [][]string) {
	fmt.Fprintln(p.w, RenderTable(headers, rows))
}
