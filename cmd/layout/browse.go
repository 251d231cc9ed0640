package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/wippyai/ffi-layout/ctype"
	"github.com/wippyai/ffi-layout/descriptor"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseModel struct {
	desc    *descriptor.Descriptor
	names   []string
	table   table.Model
	filter  textinput.Model
	pack    ctype.Packing
	showing bool
}

func newBrowseModel(d *descriptor.Descriptor) *browseModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Size", Width: 6},
		{Title: "Align", Width: 6},
		{Title: "Kind", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	s := table.DefaultStyles()
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(s)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	ti.Width = 30

	m := &browseModel{
		desc:   d,
		names:  d.Names(),
		table:  t,
		filter: ti,
	}
	m.refresh()
	return m
}

// refresh rebuilds the rows for the current filter.
func (m *browseModel) refresh() {
	q := strings.ToLower(m.filter.Value())
	var rows []table.Row
	for _, name := range m.names {
		if q != "" && !strings.Contains(strings.ToLower(name), q) {
			continue
		}
		td := m.desc.Describe(name)
		kind := ""
		if info, err := m.desc.Layout(name); err == nil {
			kind = info.Kind.String()
		}
		rows = append(rows, table.Row{
			td.Name,
			strconv.Itoa(td.Size),
			strconv.Itoa(td.Alignment),
			kind,
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.filter.Focused() {
			switch key.String() {
			case "enter", "esc":
				m.filter.Blur()
				m.table.Focus()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refresh()
			return m, cmd
		}

		switch key.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.showing = false
			m.table.Blur()
			return m, m.filter.Focus()
		case "enter":
			m.showing = !m.showing
			return m, nil
		case "esc":
			m.showing = false
			return m, nil
		case "p":
			m.pack = nextPacking(m.pack)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// nextPacking cycles natural, 1, 2, 4, 8, 16.
func nextPacking(p ctype.Packing) ctype.Packing {
	if p == ctype.Natural {
		return ctype.Directives[0]
	}
	for i, d := range ctype.Directives {
		if d == p && i+1 < len(ctype.Directives) {
			return ctype.Directives[i+1]
		}
	}
	return ctype.Natural
}

func (m *browseModel) selected() string {
	row := m.table.SelectedRow()
	if row == nil {
		return ""
	}
	return row[0]
}

func (m *browseModel) detail() string {
	name := m.selected()
	if name == "" {
		return ""
	}
	info, err := m.desc.LayoutUnder(name, m.pack)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	var b strings.Builder
	writeDescribe(&b, name, m.desc.Target(), m.pack, info)
	return strings.TrimRight(b.String(), "\n")
}

func (m *browseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("C Layout"))
	b.WriteString(" ")
	b.WriteString(m.desc.Target().Name)
	b.WriteString(" ")
	b.WriteString(m.pack.String())
	b.WriteString("\n\n")

	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.showing {
		b.WriteString(detailStyle.Render(m.detail()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • enter fields • / filter • p packing • q quit"))
	return b.String()
}

func browseAction(c *cli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse requires a terminal; use 'layout list' instead")
	}
	d, err := descriptorFor(c)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newBrowseModel(d), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
