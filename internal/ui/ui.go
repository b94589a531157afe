package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/si-23/py-import-cycles/internal/graph"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

// Update carries the result of one analysis run into the TUI.
type Update struct {
	Cycles      []graph.Cycle
	ModuleCount int
	FileCount   int
}

type updateMsg Update

type model struct {
	cycleList   list.Model
	cycles      []graph.Cycle
	moduleCount int
	fileCount   int
	lastUpdate  time.Time
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.cycleList.SetSize(msg.Width-h, height)
	case updateMsg:
		m.cycles = msg.Cycles
		m.moduleCount = msg.ModuleCount
		m.fileCount = msg.FileCount
		m.lastUpdate = time.Now()

		items := make([]list.Item, 0, len(m.cycles))
		for _, c := range m.cycles {
			items = append(items, item{
				title: fmt.Sprintf("Cycle (%d modules)", len(c)),
				desc:  c.String(),
			})
		}
		m.cycleList.SetItems(items)
	}

	var cmd tea.Cmd
	m.cycleList, cmd = m.cycleList.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d modules",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.moduleCount))

	var summary string
	if len(m.cycles) == 0 {
		summary = successStyle.Render("No import cycles")
	} else {
		summary = cycleStyle.Render(fmt.Sprintf("%d cycles", len(m.cycles)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Import Cycle Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.cycleList.View())
}

func initialModel() model {
	cycleList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	cycleList.Title = "Import Cycles"
	cycleList.SetShowStatusBar(false)
	cycleList.SetFilteringEnabled(true)

	return model{
		cycleList:  cycleList,
		lastUpdate: time.Now(),
	}
}

// Program wraps the running TUI so the analysis loop can push updates.
type Program struct {
	inner *tea.Program
}

func NewProgram() *Program {
	return &Program{inner: tea.NewProgram(initialModel(), tea.WithAltScreen())}
}

func (p *Program) Send(update Update) {
	p.inner.Send(updateMsg(update))
}

func (p *Program) Run() error {
	_, err := p.inner.Run()
	return err
}

func (p *Program) Quit() {
	p.inner.Quit()
}
