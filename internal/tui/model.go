// Package tui provides the Bubble Tea editor with the typing cat overlay.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/overlay"
	"github.com/verte-zerg/typingcat/internal/sched"
	"github.com/verte-zerg/typingcat/internal/speed"
	"github.com/verte-zerg/typingcat/internal/store"
)

// Rows between the editor and the status line that the cat can move in.
const stripMargin = 2

const saveTimeout = 2 * time.Second

var (
	catStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	readoutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	sparkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	heartStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	sweatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA3FF"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Options configures a Model.
type Options struct {
	Settings model.Settings
	// Store persists display toggles. Nil disables persistence.
	Store  *store.Store
	Clock  sched.Clock
	Timers sched.Scheduler
	Log    zerolog.Logger
}

// Model implements the editor host UI.
type Model struct {
	session *overlay.Session
	store   *store.Store
	log     zerolog.Logger

	editor textarea.Model
	help   help.Model
	keys   keyMap
	snap   overlay.Snapshot

	// Display toggles made without a store; they survive config reloads.
	unsaved model.DisplayPrefs

	width  int
	height int
}

// NewModel builds the UI and its overlay session. The session starts in Init.
func NewModel(opts Options) *Model {
	m := &Model{
		store: opts.Store,
		log:   opts.Log,
		help:  help.New(),
		keys:  defaultKeyMap(),
	}
	m.session = overlay.NewSession(opts.Settings, opts.Clock, opts.Timers,
		overlay.WithLogger(opts.Log),
		overlay.WithOnChange(func(snap overlay.Snapshot) { m.snap = snap }),
	)
	m.snap = m.session.Snapshot()

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = ""
	ta.Placeholder = "Start typing..."
	ta.Focus()
	m.editor = ta
	return m
}

// Session returns the overlay session driven by this model.
func (m *Model) Session() *overlay.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if err := m.session.Start(); err != nil {
		m.log.Error().Err(err).Msg("Failed to start overlay session")
	}
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case callbackMsg:
		msg.fn()
		return m, nil
	case ReloadMsg:
		if err := m.session.Apply(m.unsaved.Apply(msg.Settings)); err != nil {
			m.log.Warn().Err(err).Msg("Failed to apply reloaded settings")
		}
		return m, nil
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			m.catRect().contains(msg.X, msg.Y) {
			m.session.OnClick()
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.session.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Metric):
			m.updateSettings(func(s *model.Settings) { s.Metric = s.Metric.Next() })
			return m, nil
		case key.Matches(msg, m.keys.Speed):
			m.updateSettings(func(s *model.Settings) { s.ShowSpeed = !s.ShowSpeed })
			return m, nil
		case key.Matches(msg, m.keys.Mirror):
			m.updateSettings(func(s *model.Settings) { s.Mirror = !s.Mirror })
			return m, nil
		case key.Matches(msg, m.keys.Clickable):
			m.updateSettings(func(s *model.Settings) { s.Clickable = !s.Clickable })
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
			return m, nil
		}
		m.recordKeys(msg)
		before := m.editor.Value()
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() != before {
			m.session.OnEdit()
		}
		return m, cmd
	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
}

// recordKeys reports keydowns to the speed estimator. Pasted text is an edit
// but not typing.
func (m *Model) recordKeys(msg tea.KeyMsg) {
	mods := speed.Modifiers{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste {
			return
		}
		for _, r := range msg.Runes {
			m.session.OnKey(string(r), mods)
		}
	case tea.KeySpace:
		m.session.OnKey(" ", mods)
	default:
		name := msg.String()
		mods.Ctrl = strings.HasPrefix(name, "ctrl+")
		m.session.OnKey(name, mods)
	}
}

func (m *Model) updateSettings(mutate func(*model.Settings)) {
	next := m.session.Settings()
	mutate(&next)
	if err := m.session.Apply(next); err != nil {
		m.log.Warn().Err(err).Msg("Failed to apply settings")
		return
	}
	m.layout()
	if m.store == nil {
		m.unsaved = model.PrefsFrom(m.session.Settings())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.store.SavePrefs(ctx, model.PrefsFrom(m.session.Settings())); err != nil {
		m.log.Error().Err(err).Msg("Failed to save display settings")
	}
}

func (m *Model) statusLine() string {
	s := m.session.Settings()
	state := fmt.Sprintf("%s · speed %s · mirror %s · click %s",
		s.Metric.Label(), onOff(s.ShowSpeed), onOff(s.Mirror), onOff(s.Clickable))
	return footerStyle.Render(state) + "  " + m.help.View(m.keys)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m *Model) stripHeight() int {
	return len(renderCat(m.snap).lines) + stripMargin
}

func (m *Model) editorHeight() int {
	h := m.height - m.stripHeight() - lipgloss.Height(m.statusLine())
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	m.editor.SetWidth(m.width)
	m.editor.SetHeight(m.editorHeight())
}

// catRect is the cat's position on screen.
func (m *Model) catRect() rect {
	_, r := placeBlock(renderCat(m.snap), m.width, m.stripHeight(), m.snap.Left, m.snap.Bottom)
	r.y += m.editorHeight()
	return r
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return m.editor.View()
	}
	strip, _ := placeBlock(renderCat(m.snap), m.width, m.stripHeight(), m.snap.Left, m.snap.Bottom)
	return m.editor.View() + "\n" + strings.Join(strip, "\n") + "\n" + m.statusLine()
}
