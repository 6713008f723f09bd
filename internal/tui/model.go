package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"syncphotos/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseSyncing
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	ScanDoneMsg struct {
		Total int
	}
	SyncProgressMsg struct {
		Current int
		Total   int
		File    string
	}
	SyncDoneMsg struct {
		Counters domain.Counters
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Config for the TUI
type Config struct {
	SourceDir string
	TargetDir string
	DryRun    bool
	Purge     bool
}

// Model is the progress view of a sync run.
type Model struct {
	config      Config
	Phase       Phase
	Counters    domain.Counters
	spinner     spinner.Model
	progress    progress.Model
	current     int
	total       int
	currentFile string
	Err         error
	Quitting    bool
	width       int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		}

	case ScanDoneMsg:
		m.total = msg.Total
		m.Phase = PhaseSyncing
		return m, nil

	case SyncProgressMsg:
		m.current = msg.Current
		m.total = msg.Total
		m.currentFile = msg.File
		return m, nil

	case SyncDoneMsg:
		m.Phase = PhaseDone
		m.Counters = msg.Counters
		return m, tea.Quit

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseSyncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseSyncing {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(m.percent()))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.current) / float64(m.total)
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning photos...", m.spinner.View()))
	case PhaseSyncing:
		b.WriteString(m.renderSyncing())
	case PhaseDone:
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("📷 sync-photos")
	subtitle := subtitleStyle.Render("Sorting photos by camera and date")

	dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	lines := []string{
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.TargetDir))),
	}
	if m.config.DryRun {
		lines = append(lines, warningStyle.Render("🔍 Dry run, nothing will be written"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSyncing() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Copying Photos"))
	b.WriteString("\n\n")

	percent := m.percent()
	b.WriteString(fmt.Sprintf("  %s Copying...\n\n", m.spinner.View()))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	percentStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.current, m.total)),
		percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n",
			iconArrow,
			fileNameStyle.Render(m.currentFile),
		))
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder
	c := m.Counters

	b.WriteString(sectionStyle.Render("Sync Complete"))
	b.WriteString("\n\n")

	icon := successStyle.Render(iconSuccess)
	msg := successStyle.Render("Sync finished")
	if c.Failed > 0 {
		icon = warningStyle.Render(iconWarning)
		msg = warningStyle.Render(fmt.Sprintf("Sync finished with %d failures", c.Failed))
	}
	b.WriteString(fmt.Sprintf("  %s %s\n\n", icon, msg))

	copied := c.Copied
	label := "Copied:"
	if m.config.DryRun {
		copied = c.WouldCopy
		label = "Would copy:"
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render(label), statValueStyle.Render(fmt.Sprintf("%d files (%s)", copied, humanize.Bytes(uint64(c.Bytes))))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Up to date:"), dimTextStyle.Render(fmt.Sprintf("%s %d", iconSkipped, c.UpToDate))))
	if c.Failed > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Failed:"), errorStyle.Render(fmt.Sprintf("%s %d", iconError, c.Failed))))
	}
	if c.MissingMetadata > 0 {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("No exif date:"), warningStyle.Render(fmt.Sprintf("%s %d", iconWarning, c.MissingMetadata))))
	}
	if m.config.Purge && !m.config.DryRun {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Purged:"), statValueStyle.Render(fmt.Sprintf("%d", c.Purged))))
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Elapsed:"), dimTextStyle.Render(c.Elapsed.Round(time.Millisecond).String())))

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning, PhaseSyncing:
		help = "Press q to abort"
	default:
		help = ""
	}
	return helpStyle.Render(help)
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
