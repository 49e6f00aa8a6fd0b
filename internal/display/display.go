// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type keeps a status bar and an input prompt at the bottom of
// the terminal. All application output is printed above the rendered
// area via Program.Println / Printf, so concurrent writes never garble
// the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// Palette: warm stone greys with sage and amber accents.
	colStone    = lipgloss.Color("#a8a29e")
	colStoneDim = lipgloss.Color("#78716c")
	colSage     = lipgloss.Color("#86efac")
	colAmber    = lipgloss.Color("#fcd34d")
	colRose     = lipgloss.Color("#fda4af")

	barBg         = lipgloss.NewStyle().Background(lipgloss.Color("#292524")).Foreground(colStone)
	barValueStyle = lipgloss.NewStyle().Foreground(colAmber)
	barDirtyStyle = lipgloss.NewStyle().Foreground(colRose)
	labelStyle    = lipgloss.NewStyle().Foreground(colStone)
	sepStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#57534e"))
	promptStyle   = lipgloss.NewStyle().Foreground(colSage)

	// BannerStyle colours the startup banner.
	BannerStyle = lipgloss.NewStyle().Foreground(colSage)

	titleStyle         = lipgloss.NewStyle().Foreground(colAmber).Bold(true)
	primaryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e7e5e4"))
	secondaryStyle     = lipgloss.NewStyle().Foreground(colStoneDim)
	urgentOutputStyle  = lipgloss.NewStyle().Foreground(colRose).Bold(true)
	userInputEchoStyle = lipgloss.NewStyle().Foreground(colStone)
)

const prompt = "pantry> "

// ── Status ───────────────────────────────────────────────────────

// Status is what the bar at the bottom shows.
type Status struct {
	Currency   string // display currency code, empty when none
	Products   int
	PriceSets  int
	Recipes    int
	OpenSet    string
	OpenRecipe string
	Dirty      bool // unsaved changes
	LastSaved  time.Time
	SaveFailed bool
}

// StatusFunc is polled once per second for the status bar.
type StatusFunc func() Status

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call the print helpers and read from [UI.InputChan] at any time after
// [UI.WaitReady] returns.
type UI struct {
	program atomic.Pointer[tea.Program]
	opts    []tea.ProgramOption
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	status  StatusFunc
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start. status may be nil; opts
// are passed to the Bubble Tea program.
func NewUI(status StatusFunc, opts ...tea.ProgramOption) *UI {
	return &UI{
		status:  status,
		opts:    opts,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. Before the
// program starts, and after it ends, it falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if p := u.program.Load(); p != nil && !u.done.Load() {
		p.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintTitle prints a section header.
func (u *UI) PrintTitle(text string) {
	u.Println(titleStyle.Render("  " + text))
}

// PrintLine prints regular output.
func (u *UI) PrintLine(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error or alert.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintTable prints a bordered table.
func (u *UI) PrintTable(headers []string, rows [][]string) {
	u.Println(indent(RenderTable(headers, rows), "  "))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("pantry") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running, or until
// Run has returned without ever getting there.
func (u *UI) WaitReady() {
	select {
	case <-u.readyCh:
	case <-u.quitCh:
	}
}

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if p := u.program.Load(); p != nil {
		p.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	// A plain-text prompt keeps the textinput width math correct; styled
	// prompts add invisible ANSI bytes.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(colSage)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		statusFn: u.status,
		input:    ti,
		inputCh:  u.inputCh,
		readyCh:  u.readyCh,
		echoFn: func(v string) {
			u.PrintUserInput(v)
		},
	}
	m.refresh()

	p := tea.NewProgram(m, u.opts...)
	u.program.Store(p)
	_, err := p.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	statusFn StatusFunc
	status   Status
	input    textinput.Model
	inputCh  chan<- string
	readyCh  chan struct{}
	echoFn   func(string) // prints user input into scrollback
	width    int
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Update never blocks on Println.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.titleStr()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refresh() {
	if m.statusFn != nil {
		m.status = m.statusFn()
	}
}

func (m model) titleStr() string {
	switch {
	case m.status.OpenRecipe != "":
		return "PantryCost: " + m.status.OpenRecipe
	case m.status.OpenSet != "":
		return "PantryCost: " + m.status.OpenSet
	default:
		return "PantryCost"
	}
}

func (m model) View() string {
	var b strings.Builder
	if m.statusFn != nil {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}
	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	content := " " + strings.Join(statusParts(m.status, time.Now()), sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// statusParts renders the bar's segments in display order.
func statusParts(s Status, now time.Time) []string {
	currency := s.Currency
	if currency == "" {
		currency = "none"
	}
	parts := []string{
		labelStyle.Render("currency: ") + barValueStyle.Render(currency),
		labelStyle.Render(fmt.Sprintf("%d products, %d sets, %d recipes", s.Products, s.PriceSets, s.Recipes)),
	}
	switch {
	case s.OpenRecipe != "":
		parts = append(parts, labelStyle.Render("recipe: ")+barValueStyle.Render(s.OpenRecipe))
	case s.OpenSet != "":
		parts = append(parts, labelStyle.Render("set: ")+barValueStyle.Render(s.OpenSet))
	}

	switch {
	case s.SaveFailed:
		parts = append(parts, barDirtyStyle.Render("save failed"))
	case s.Dirty:
		parts = append(parts, barDirtyStyle.Render("unsaved"))
	case !s.LastSaved.IsZero():
		parts = append(parts, labelStyle.Render("saved "+fmtAgo(now.Sub(s.LastSaved))))
	}
	return parts
}

// ── Helpers ──────────────────────────────────────────────────────

func fmtAgo(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	switch {
	case m == 0 && s < 5:
		return "just now"
	case m == 0:
		return fmt.Sprintf("%ds ago", s)
	case m < 60:
		return fmt.Sprintf("%dm ago", m)
	default:
		return fmt.Sprintf("%dh ago", m/60)
	}
}

func indent(s, pad string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
