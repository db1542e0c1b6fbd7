// Package tui provides the Bubble Tea study interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/pacer"
	"github.com/verte-zerg/tuivoc/internal/studylist"
)

// DefaultReleaseAfter is how long a held space key may go without a repeat
// before the hold counts as released.
const DefaultReleaseAfter = 700 * time.Millisecond

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// Recorder stores the date a category was studied.
type Recorder interface {
	RecordStudy(ctx context.Context, categoryID int64, at time.Time) error
}

// Options configures a study screen.
type Options struct {
	Pacer        pacer.Config
	ReleaseAfter time.Duration
	ImagesDir    string
	Status       model.VocabStatus
	Opt          model.StudyOpt
	Category     model.Category
}

type timerMsg struct {
	timer pacer.Timer
}

type releaseMsg struct {
	id uint64
}

// Model implements the Bubble Tea study UI.
type Model struct {
	opts     Options
	list     studylist.List
	pacer    *pacer.Pacer
	recorder Recorder

	keys     keyMap
	help     help.Model
	progress progress.Model

	width  int
	height int

	keyHeld   bool
	mouseHeld bool
	releaseID uint64

	prompt   bool
	recorded bool

	after func(d time.Duration, msg tea.Msg) tea.Cmd
	now   func() time.Time
}

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	counterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A90E2")).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	imageStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
	holdingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle     = lipgloss.NewStyle().Padding(1, 4).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	promptStyle   = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A"))
	promptTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	promptMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
)

// NewModel constructs a study TUI model.
func NewModel(list studylist.List, recorder Recorder, opts Options) *Model {
	if opts.ReleaseAfter <= 0 {
		opts.ReleaseAfter = DefaultReleaseAfter
	}
	return &Model{
		opts:     opts,
		list:     list,
		pacer:    pacer.New(list.Len(), opts.Pacer),
		recorder: recorder,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		after:    tickAfter,
		now:      time.Now,
	}
}

func tickAfter(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = clamp(msg.Width/2, 10, 60)
		return m, nil
	case timerMsg:
		cmd := m.schedule(m.pacer.Fire(msg.timer))
		m.checkDone()
		return m, cmd
	case releaseMsg:
		if msg.id == m.releaseID && m.keyHeld {
			m.keyHeld = false
			m.syncRelease()
		}
		return m, nil
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.prompt {
		switch {
		case key.Matches(msg, m.keys.Finish):
			m.recordStudy()
			return m.quit()
		case key.Matches(msg, m.keys.Dismiss):
			m.recordStudy()
			m.prompt = false
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Hold):
		return m, m.handleHoldKey()
	case key.Matches(msg, m.keys.Pause):
		m.pause()
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		m.pacer.Reset()
		m.keyHeld = false
		m.mouseHeld = false
		m.releaseID++
		m.prompt = false
		m.recorded = false
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}
	return m, nil
}

// handleHoldKey treats a run of key repeats as one continuous press.
func (m *Model) handleHoldKey() tea.Cmd {
	m.releaseID++
	release := m.after(m.opts.ReleaseAfter, releaseMsg{id: m.releaseID})
	if m.keyHeld {
		return release
	}
	m.keyHeld = true
	return tea.Batch(m.press(), release)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.prompt {
			return nil
		}
		m.mouseHeld = true
		return m.press()
	case tea.MouseActionRelease:
		if !m.mouseHeld {
			return nil
		}
		m.mouseHeld = false
		m.syncRelease()
	}
	return nil
}

func (m *Model) press() tea.Cmd {
	return m.schedule(m.pacer.PressStart())
}

// syncRelease ends the pacer hold once neither input source is down.
func (m *Model) syncRelease() {
	if m.keyHeld || m.mouseHeld {
		return
	}
	m.pacer.PressEnd()
}

func (m *Model) pause() {
	m.pacer.Stop()
	m.keyHeld = false
	m.mouseHeld = false
	m.releaseID++
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.pause()
	return m, tea.Quit
}

func (m *Model) schedule(timers []pacer.Timer) tea.Cmd {
	if len(timers) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(timers))
	for _, t := range timers {
		cmds = append(cmds, m.after(t.After, timerMsg{timer: t}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) checkDone() {
	if !m.pacer.State().Done || m.recorded || m.prompt {
		return
	}
	m.keyHeld = false
	m.mouseHeld = false
	m.prompt = true
}

func (m *Model) recordStudy() {
	if m.recorded {
		return
	}
	m.recorded = true
	if m.recorder == nil || m.list.Placeholder() || m.opts.Category.ID == 0 {
		return
	}
	if err := m.recorder.RecordStudy(context.Background(), m.opts.Category.ID, m.now()); err != nil {
		logErrf("failed to record study date: %v\n", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.pacer.State()
	sections := []string{m.renderHeader(), ""}
	if st.Mode == pacer.Waiting {
		sections = append(sections, counterStyle.Render(strconv.Itoa(st.Counter)))
	} else {
		sections = append(sections, m.renderItem(st)...)
	}
	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, sections...))

	body := card
	if m.prompt {
		body = lipgloss.JoinVertical(lipgloss.Center, card, "", m.renderPrompt())
	}
	footer := lipgloss.JoinVertical(lipgloss.Center,
		m.progress.ViewAs(m.fraction(st)),
		m.renderStatus(st),
		m.help.View(m.keys),
	)
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := m.height - footerHeight
	if bodyHeight < 1 {
		return body + "\n" + footer
	}
	top := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	bottom := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return top + "\n" + bottom
}

func (m *Model) renderHeader() string {
	name := m.opts.Category.Name
	if name == "" {
		name = "Study"
	}
	return headerStyle.Render(fmt.Sprintf("%s · [%s] stage", name, m.opts.Status.Label())) + "\n" +
		indexStyle.Render(fmt.Sprintf("Studying %s", m.opts.Opt.Noun()))
}

func (m *Model) renderItem(st pacer.State) []string {
	item := m.list.At(st.Cursor)
	out := []string{indexStyle.Render(m.indexLabel(st))}
	if path := findImage(m.opts.ImagesDir, item.ImageKey); path != "" {
		out = append(out, imageStyle.Render(path))
	}
	width := m.width - 12
	for _, line := range wrapText(item.Text, width) {
		out = append(out, itemStyle.Render(line))
	}
	return out
}

func (m *Model) indexLabel(st pacer.State) string {
	if m.list.Placeholder() {
		return "0 / 0"
	}
	pos := st.Cursor + 1
	if pos > m.list.Len() {
		pos = m.list.Len()
	}
	return fmt.Sprintf("%d / %d", pos, m.list.Len())
}

func (m *Model) renderStatus(st pacer.State) string {
	switch {
	case st.Done:
		return footerStyle.Render("Session complete")
	case st.Held:
		return holdingStyle.Render(fmt.Sprintf("● holding · %dms per tick", st.Interval.Milliseconds()))
	default:
		return footerStyle.Render("Hold to advance")
	}
}

func (m *Model) renderPrompt() string {
	lines := []string{
		promptTitle.Render("Study complete."),
		promptMessage.Render("Congratulations!"),
		"",
		footerStyle.Render("enter: finish · esc: keep reviewing"),
	}
	return promptStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) fraction(st pacer.State) float64 {
	if st.Done {
		return 1
	}
	if st.Mode == pacer.Waiting {
		return 0
	}
	return float64(st.Cursor) / float64(m.pacer.Len())
}

func findImage(dir, imageKey string) string {
	if dir == "" || imageKey == "" {
		return ""
	}
	for _, ext := range imageExts {
		path := filepath.Join(dir, imageKey+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
