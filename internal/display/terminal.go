package display

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/example/mpvmenu/internal/logging"
	"github.com/example/mpvmenu/internal/menu"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Terminal presents menus as a full-screen list on the controlling terminal.
type Terminal struct {
	options []tea.ProgramOption
}

// NewTerminal returns a terminal presenter. Extra program options are passed
// through to bubbletea.
func NewTerminal(opts ...tea.ProgramOption) *Terminal {
	return &Terminal{options: opts}
}

// Show runs the menu until the user chooses an entry or closes the menu.
func (t *Terminal) Show(ctx context.Context, m *menu.Menu) (*menu.Entry, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, t.options...)
	final, err := tea.NewProgram(newTerminalModel(m.Entries), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return nil, nil
		}
		return nil, fmt.Errorf("run terminal menu: %w", err)
	}
	model, ok := final.(*terminalModel)
	if !ok {
		return nil, fmt.Errorf("unexpected terminal model %T", final)
	}
	return model.chosen, nil
}

type level struct {
	title   string
	entries []*menu.Entry
	cursor  int
	filter  string
}

// visible returns the entries shown under the current filter. Filtering hides
// separators and keeps the menu's order.
func (l *level) visible() []*menu.Entry {
	query := strings.TrimSpace(l.filter)
	if query == "" {
		return l.entries
	}
	candidates := make([]*menu.Entry, 0, len(l.entries))
	labels := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		if e.IsSeparator() {
			continue
		}
		candidates = append(candidates, e)
		labels = append(labels, e.Label)
	}
	matches := make(map[int]struct{})
	for _, rank := range fuzzy.RankFindNormalizedFold(query, labels) {
		matches[rank.OriginalIndex] = struct{}{}
	}
	out := make([]*menu.Entry, 0, len(matches))
	for i, e := range candidates {
		if _, ok := matches[i]; ok {
			out = append(out, e)
		}
	}
	return out
}

func navigable(e *menu.Entry) bool {
	if e.IsSeparator() {
		return false
	}
	return !e.IsSubmenu() || len(e.Children) > 0
}

// settle moves the cursor onto the nearest navigable entry at or after its
// position, wrapping to the top.
func (l *level) settle() {
	items := l.visible()
	if len(items) == 0 {
		l.cursor = 0
		return
	}
	if l.cursor >= len(items) || l.cursor < 0 {
		l.cursor = 0
	}
	for i := 0; i < len(items); i++ {
		idx := (l.cursor + i) % len(items)
		if navigable(items[idx]) {
			l.cursor = idx
			return
		}
	}
}

func (l *level) move(delta int) {
	items := l.visible()
	n := len(items)
	if n == 0 {
		return
	}
	idx := l.cursor
	for i := 0; i < n; i++ {
		idx = ((idx+delta)%n + n) % n
		if navigable(items[idx]) {
			l.cursor = idx
			return
		}
	}
}

func (l *level) current() *menu.Entry {
	items := l.visible()
	if l.cursor < 0 || l.cursor >= len(items) {
		return nil
	}
	if e := items[l.cursor]; navigable(e) {
		return e
	}
	return nil
}

type terminalModel struct {
	keys   keyMap
	stack  []*level
	chosen *menu.Entry
	width  int
	height int
}

func newTerminalModel(entries []*menu.Entry) *terminalModel {
	root := &level{title: "mpv", entries: entries}
	root.settle()
	return &terminalModel{keys: defaultKeyMap(), stack: []*level{root}}
}

func (m *terminalModel) Init() tea.Cmd {
	return nil
}

func (m *terminalModel) top() *level {
	return m.stack[len(m.stack)-1]
}

func (m *terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *terminalModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	lvl := m.top()
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		return tea.Quit
	case key.Matches(msg, m.keys.Escape):
		if lvl.filter != "" {
			lvl.filter = ""
			lvl.settle()
			return nil
		}
		if !m.pop() {
			return tea.Quit
		}
	case key.Matches(msg, m.keys.Up):
		lvl.move(-1)
	case key.Matches(msg, m.keys.Down):
		lvl.move(1)
	case key.Matches(msg, m.keys.Select):
		e := lvl.current()
		switch {
		case e == nil:
		case e.IsSubmenu():
			m.push(e)
		default:
			m.chosen = e
			logging.Debugf("terminal menu chose %q", e.Label)
			return tea.Quit
		}
	case key.Matches(msg, m.keys.Open):
		if e := lvl.current(); e != nil && e.IsSubmenu() {
			m.push(e)
		}
	case key.Matches(msg, m.keys.Back):
		m.pop()
	case key.Matches(msg, m.keys.Erase):
		if lvl.filter == "" {
			m.pop()
			return nil
		}
		runes := []rune(lvl.filter)
		lvl.filter = string(runes[:len(runes)-1])
		lvl.settle()
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		if msg.Type == tea.KeySpace {
			lvl.filter += " "
		} else {
			lvl.filter += string(msg.Runes)
		}
		lvl.cursor = 0
		lvl.settle()
	}
	return nil
}

func (m *terminalModel) push(e *menu.Entry) {
	next := &level{title: e.Label, entries: e.Children}
	next.settle()
	m.stack = append(m.stack, next)
}

func (m *terminalModel) pop() bool {
	if len(m.stack) == 1 {
		return false
	}
	m.stack = m.stack[:len(m.stack)-1]
	return true
}

func (m *terminalModel) View() string {
	var b strings.Builder

	titles := make([]string, len(m.stack))
	for i, lvl := range m.stack {
		titles[i] = lvl.title
	}
	b.WriteString(titleStyle.Render(strings.Join(titles, " › ")))
	b.WriteString("\n")

	lvl := m.top()
	if lvl.filter != "" {
		b.WriteString(filterStyle.Render("filter: " + lvl.filter))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	items := lvl.visible()
	if len(items) == 0 {
		b.WriteString(disabledStyle.Render("  (no matches)"))
		b.WriteString("\n")
	}
	for i, e := range items {
		b.WriteString(renderEntry(e, i == lvl.cursor && navigable(e)))
		b.WriteString("\n")
	}

	help := make([]string, 0, len(m.keys.help()))
	for _, binding := range m.keys.help() {
		h := binding.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(strings.Join(help, " · ")))
	return b.String()
}

func renderEntry(e *menu.Entry, selected bool) string {
	if e.IsSeparator() {
		return disabledStyle.Render("  ────────")
	}

	label := e.Label
	switch {
	case e.Checkable && e.Checked:
		label = "[x] " + label
	case e.Checkable:
		label = "[ ] " + label
	}
	if e.IsSubmenu() {
		label += " ▸"
	}

	switch {
	case !navigable(e):
		return disabledStyle.Render("  " + label)
	case selected:
		return selectedStyle.Render("› " + label)
	default:
		return itemStyle.Render("  " + label)
	}
}
