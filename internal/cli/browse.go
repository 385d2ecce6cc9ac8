package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/keygrid/pkg/dag"
	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/pipeline"
)

// List styles
var (
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listLabelStyle    = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// browseCommand creates the browse command, an interactive point browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags resolveFlags
		cf    cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "browse [layout]",
		Short: "Interactively browse the resolved points of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(args[0])
			if err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), args[0], opts, cf)
		},
	}

	flags.register(cmd)
	cf.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, title string, opts pipeline.Options, cf cacheFlags) error {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	spinner := newSpinnerWithContext(ctx, "Resolving layout...")
	restore := installHooks(c.Logger, spinner)
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	restore()
	if err != nil {
		return err
	}

	m := NewBrowseModel(title, result.Document.Points, result.Graph)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// BrowseModel - Interactive point browser
// =============================================================================

// BrowseModel is the bubbletea model of the point browser. It lists the
// resolved points and shows, for the point under the cursor, the points it
// references and the points that reference it.
type BrowseModel struct {
	Title  string
	Points []kgio.Point
	Graph  *dag.DAG

	Cursor       int
	Offset       int
	Height       int
	MirroredOnly bool
	Filter       string
	Filtering    bool

	visible []int
}

// NewBrowseModel creates a browser over points. g may be nil.
func NewBrowseModel(title string, points []kgio.Point, g *dag.DAG) BrowseModel {
	m := BrowseModel{
		Title:  title,
		Points: points,
		Graph:  g,
		Height: 15,
	}
	m.refilter()
	return m
}

// Visible returns the names of the points that pass the current filters.
func (m BrowseModel) Visible() []string {
	names := make([]string, len(m.visible))
	for i, idx := range m.visible {
		names[i] = m.Points[idx].Name
	}
	return names
}

// Current returns the point under the cursor.
func (m BrowseModel) Current() (kgio.Point, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.visible) {
		return kgio.Point{}, false
	}
	return m.Points[m.visible[m.Cursor]], true
}

func (m *BrowseModel) refilter() {
	m.visible = nil
	for i, p := range m.Points {
		if m.MirroredOnly && !p.Mirrored {
			continue
		}
		if m.Filter != "" && !strings.Contains(p.Name, m.Filter) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	m.Cursor = min(m.Cursor, max(len(m.visible)-1, 0))
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(m.Offset, 0)
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.visible)-1, 0)
		case "m":
			m.MirroredOnly = !m.MirroredOnly
			m.refilter()
		case "/":
			m.Filtering = true
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		m.scroll()
	}
	return m, nil
}

func (m BrowseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.Filtering = false
	case tea.KeyEsc:
		m.Filtering = false
		m.Filter = ""
		m.refilter()
	case tea.KeyBackspace:
		if m.Filter != "" {
			r := []rune(m.Filter)
			m.Filter = string(r[:len(r)-1])
			m.refilter()
		}
	case tea.KeyRunes:
		m.Filter += string(msg.Runes)
		m.refilter()
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	if m.Filtering {
		b.WriteString(listDimStyle.Render("filter: ") + m.Filter + "█")
	} else {
		b.WriteString(listDimStyle.Render("↑/↓ navigate  / filter  m mirrored only  q quit"))
	}
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		p := m.Points[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mirrored := ""
		if p.Mirrored {
			mirrored = iconMirrored
		}
		rows = append(rows, []string{cursor, p.Name, formatNumber(p.X), formatNumber(p.Y), formatNumber(p.R), mirrored})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Point", "X", "Y", "R", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if col >= 2 && col <= 4 {
				base = base.Align(lipgloss.Right)
			}
			idx := m.Offset + row
			if idx == m.Cursor {
				return base.Inherit(listSelectedStyle)
			}
			if idx < len(m.visible) && m.Points[m.visible[idx]].Mirrored {
				return base.Inherit(styleMirrored)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))
	b.WriteString("\n\n")
	b.WriteString(m.details())

	return b.String()
}

// details describes the references of the point under the cursor.
func (m BrowseModel) details() string {
	p, ok := m.Current()
	if !ok || m.Graph == nil {
		return ""
	}
	line := func(label string, names []string) string {
		value := "—"
		if len(names) > 0 {
			value = strings.Join(names, ", ")
		}
		return listLabelStyle.Render(label) + " " + StyleValue.Render(value) + "\n"
	}

	var b strings.Builder
	if n, ok := m.Graph.Node(p.Name); ok {
		b.WriteString(line("kind", []string{n.Kind.String()}))
		b.WriteString(line("depth", []string{fmt.Sprint(n.Row)}))
	}
	b.WriteString(line("refs", m.Graph.Parents(p.Name)))
	b.WriteString(line("used by", m.Graph.Children(p.Name)))
	return b.String()
}
