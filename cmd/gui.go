package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pack-mod-manager/loadorder"
	"pack-mod-manager/logger"
	"pack-mod-manager/store"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Launch the interactive interface to manage mods",
	Long:  `Launch an interactive TUI to browse, toggle and reorder the load order.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runGUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

// row is one display line: a mod in load-order position, or a movie.
type row struct {
	id      string
	name    string
	enabled bool
	movie   bool
}

// Model represents the state of the TUI
type Model struct {
	s         *session
	rows      []row
	cursor    int
	dirty     bool
	enriching bool
	spinner   spinner.Model
	message   string
	width     int
	height    int
}

// Message types
type enrichedMsg struct {
	result store.Result
}

type clearMessageMsg struct{}

// Initialize the model
func (m Model) Init() tea.Cmd {
	if m.s.dispatch == nil {
		return nil
	}
	cmd := m.awaitEnrichment()
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

// awaitEnrichment kicks off a metadata fetch for every store-tagged mod
// and delivers the result as a message.
func (m Model) awaitEnrichment() tea.Cmd {
	ids := storeIDs(m.s)
	if len(ids) == 0 {
		return nil
	}
	handle := m.s.dispatch.Request(ids)
	return func() tea.Msg {
		return enrichedMsg{result: <-handle}
	}
}

func storeIDs(s *session) []string {
	var ids []string
	for _, modd := range s.registry.Mods {
		if modd.Store.IsSteam() {
			ids = append(ids, modd.Store.ID)
		}
	}
	return ids
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case enrichedMsg:
		m.enriching = false
		if msg.result.Err != nil {
			logger.Log.Warnw("Enrichment failed", zap.Error(msg.result.Err))
			break
		}
		store.Merge(m.s.registry, msg.result.Items)
		m.rows = buildRows(m.s)
		m.message = fmt.Sprintf("Fetched metadata for %d mods", len(msg.result.Items))
		return m, clearMessageAfter(3 * time.Second)
	case spinner.TickMsg:
		if m.enriching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case " ":
		m.toggleCurrent()
	case "K", "shift+up":
		m.moveCurrent(loadorder.Up)
	case "J", "shift+down":
		m.moveCurrent(loadorder.Down)
	case "s":
		m.s.refresh()
		m.rows = buildRows(m.s)
		m.dirty = false
		m.message = "Saved"
		return m, clearMessageAfter(3 * time.Second)
	}
	return m, nil
}

func (m *Model) toggleCurrent() {
	if len(m.rows) == 0 {
		return
	}
	current := m.rows[m.cursor]
	modd, ok := m.s.registry.Mods[current.id]
	if !ok {
		return
	}
	dataPath := m.s.game.DataPath(m.s.cfg.GamePath)
	if !modd.CanBeToggled(m.s.game, dataPath) {
		m.message = "This mod cannot be toggled on this title"
		return
	}
	modd.Enabled = !modd.Enabled
	m.rows[m.cursor].enabled = modd.Enabled
	m.dirty = true
}

func (m *Model) moveCurrent(direction loadorder.Direction) {
	if len(m.rows) == 0 || m.rows[m.cursor].movie {
		return
	}
	id := m.rows[m.cursor].id
	m.s.order.MoveInDirection(id, direction)
	m.rows = buildRows(m.s)
	for i, r := range m.rows {
		if r.id == id {
			m.cursor = i
			break
		}
	}
	m.dirty = true
}

// View renders the UI
func (m Model) View() string {
	if len(m.rows) == 0 {
		return "No enabled mods. Run scan first.\n"
	}

	var output string
	output += renderHeader(m.s.game.DisplayName, m.dirty)
	output += "\n"

	for i, r := range m.rows {
		output += m.renderRow(i, r)
		output += "\n"
	}

	output += "\n" + renderFooter()
	if m.enriching {
		output += "\n" + m.spinner.View() + " Fetching metadata..."
	}
	if m.message != "" {
		output += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.message)
	}
	return output
}

func renderHeader(title string, dirty bool) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	if dirty {
		title += " *"
	}
	return headerStyle.Render(fmt.Sprintf("%-50s %-10s", title, "Load order"))
}

func renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	return footerStyle.Render("↑/k: up  ↓/j: down  space: toggle  J/K: reorder  s: save  q: quit")
}

func (m Model) renderRow(index int, r row) string {
	rowStyle := lipgloss.NewStyle().Padding(0, 1)
	if index == m.cursor {
		rowStyle = rowStyle.
			Background(lipgloss.Color("8")).
			Bold(true)
	}

	marker := "[ ]"
	markerColor := "9"
	if r.enabled {
		marker = "[x]"
		markerColor = "10"
	}
	markerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(markerColor))

	kind := ""
	if r.movie {
		kind = " (movie)"
	}

	line := fmt.Sprintf("%s %s%s", markerStyle.Render(marker), truncate(r.name, 60), kind)
	return rowStyle.Render(line)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}

// buildRows lists the resolved mods in order, then the movies.
func buildRows(s *session) []row {
	dataPath := s.game.DataPath(s.cfg.GamePath)

	var rows []row
	appendRow := func(id string, movie bool) {
		modd, ok := s.registry.Mods[id]
		if !ok {
			return
		}
		name := modd.Name
		if name == "" {
			name = id
		}
		rows = append(rows, row{
			id:      id,
			name:    name,
			enabled: modd.EnabledFor(s.game, dataPath),
			movie:   movie,
		})
	}

	for _, id := range s.order.Mods {
		appendRow(id, false)
	}
	for _, id := range s.order.Movies {
		appendRow(id, true)
	}
	return rows
}

func runGUI(cmd *cobra.Command) {
	s := bootstrap(cmd)
	s.order.Update(s.registry, s.game, s.game.DataPath(s.cfg.GamePath), s.cfg.ExtractedDir())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	m := Model{
		s:         s,
		rows:      buildRows(s),
		spinner:   sp,
		enriching: s.dispatch != nil && len(storeIDs(s)) > 0,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Log.Fatalw("Failed to run GUI", zap.Error(err))
	}
}
