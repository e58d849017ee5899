package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/shared/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const eventLogSize = 8

type interactiveModel struct {
	table  *registry.Table
	input  textinput.Model
	events []string
	errMsg string
}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "new <value> | retain <handle> | set <handle> <value> | release <handle> | quit"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	m := &interactiveModel{
		table: registry.NewTable(),
		input: ti,
	}
	m.table.Subscribe(m)
	return m
}

// OnHandleEvent implements registry.Observer, feeding the event log.
func (m *interactiveModel) OnHandleEvent(e registry.Event) {
	var line string
	switch e.Type {
	case registry.EventCreated:
		line = fmt.Sprintf("created   handle %d (%v)", e.Handle, e.Value)
	case registry.EventRetained:
		line = fmt.Sprintf("retained  handle %d, count %d", e.Handle, e.Count)
	case registry.EventReleased:
		line = fmt.Sprintf("released  handle %d, count %d", e.Handle, e.Count)
	case registry.EventDestroyed:
		line = fmt.Sprintf("destroyed handle %d (%v)", e.Handle, e.Value)
	case registry.EventUpdated:
		line = fmt.Sprintf("updated   handle %d (%v)", e.Handle, e.Value)
	}

	m.events = append(m.events, line)
	if len(m.events) > eventLogSize {
		m.events = m.events[len(m.events)-eventLogSize:]
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.table.Close()
			return m, tea.Quit

		case "enter":
			if quit := m.execute(strings.TrimSpace(m.input.Value())); quit {
				m.table.Close()
				return m, tea.Quit
			}
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// execute runs one command line. Returns true when the session ends.
func (m *interactiveModel) execute(line string) bool {
	m.errMsg = ""
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "q", "exit":
		return true

	case "new":
		if len(args) == 0 {
			m.errMsg = "usage: new <value>"
			return false
		}
		m.table.Create(strings.Join(args, " "))

	case "retain", "clone":
		h, ok := m.parseHandle(args)
		if !ok {
			return false
		}
		if !m.table.Retain(h) {
			m.errMsg = fmt.Sprintf("no live entry for handle %d", h)
		}

	case "set":
		if len(args) < 2 {
			m.errMsg = "usage: set <handle> <value>"
			return false
		}
		h, ok := m.parseHandle(args[:1])
		if !ok {
			return false
		}
		if !m.table.Set(h, strings.Join(args[1:], " ")) {
			m.errMsg = fmt.Sprintf("no live entry for handle %d", h)
		}

	case "release", "drop":
		h, ok := m.parseHandle(args)
		if !ok {
			return false
		}
		if !m.table.Release(h) {
			m.errMsg = fmt.Sprintf("no live entry for handle %d", h)
		}

	default:
		m.errMsg = fmt.Sprintf("unknown command %q", cmd)
	}
	return false
}

func (m *interactiveModel) parseHandle(args []string) (registry.Handle, bool) {
	if len(args) != 1 {
		m.errMsg = "expected exactly one handle argument"
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || n == 0 {
		m.errMsg = fmt.Sprintf("invalid handle %q", args[0])
		return 0, false
	}
	return registry.Handle(n), true
}

type entryLine struct {
	handle registry.Handle
	count  int
	value  any
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("shared registry"))
	b.WriteString("\n\n")

	var entries []entryLine
	m.table.Each(func(h registry.Handle, count int, value any) bool {
		entries = append(entries, entryLine{handle: h, count: count, value: value})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].handle < entries[j].handle })

	if len(entries) == 0 {
		b.WriteString(helpStyle.Render("no live entries"))
		b.WriteString("\n")
	}
	for _, e := range entries {
		b.WriteString(handleStyle.Render(fmt.Sprintf("handle %-4d", e.handle)))
		b.WriteString(countStyle.Render(fmt.Sprintf(" count %-3d ", e.count)))
		b.WriteString(fmt.Sprintf("%v", e.value))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, line := range m.events {
		b.WriteString(eventStyle.Render(line))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("new <value> • retain <handle> • set <handle> <value> • release <handle> • quit"))

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
