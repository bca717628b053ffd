// Package tui is the interactive terminal view of a directory session.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/hrs/internal/config"
	"github.com/steveyegge/hrs/internal/directory"
)

type focus int

const (
	focusProviders focus = iota
	focusRecords
)

// Model is the bubbletea model. The session holds the domain state; the
// model only adds view state (focus, cursors, expanded and disabled panels).
type Model struct {
	ctx       context.Context
	session   *directory.Session
	fetcher   directory.Fetcher
	providers []config.Provider

	selected int
	focus    focus
	cursor   int

	expanded map[string]bool
	// requested holds ids whose "load more" control has been used. The
	// control stays disabled until the directory is fetched again.
	requested map[string]bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int
}

// New creates the model. The provider whose id is initial is preselected;
// an empty or unknown id selects the first catalog entry.
func New(ctx context.Context, session *directory.Session, fetcher directory.Fetcher, providers []config.Provider, initial string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		session:   session,
		fetcher:   fetcher,
		providers: providers,
		expanded:  make(map[string]bool),
		requested: make(map[string]bool),
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
	}
	for i, p := range providers {
		if p.ID == initial {
			m.selected = i
		}
	}
	if len(providers) > 0 {
		session.SelectProvider(providers[m.selected].ID)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.session.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case provisionedMsg:
		m.session.ApplyToken(msg.token)
		return m, directoryCmd(m.ctx, m.fetcher, msg.token)

	case directoryLoadedMsg:
		m.session.ApplyDirectory(msg.records)
		m.cursor = 0
		m.expanded = make(map[string]bool)
		m.requested = make(map[string]bool)
		return m, nil

	case detailMsg:
		m.session.ApplyDetail(msg.id, msg.fields)
		return m, nil

	case failedMsg:
		m.session.Fail(msg.op, msg.err)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	snap := m.session.Snapshot()
	if snap.DialogOpen {
		if key.Matches(msg, m.keys.Ack) {
			m.session.Acknowledge()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusProviders && len(snap.Records) > 0 {
			m.focus = focusRecords
		} else {
			m.focus = focusProviders
		}
		return m, nil
	}

	if m.focus == focusRecords {
		return m.handleRecordKey(msg, snap)
	}
	return m.handleProviderKey(msg)
}

func (m Model) handleProviderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.providers) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selected = (m.selected - 1 + len(m.providers)) % len(m.providers)
		m.session.SelectProvider(m.providers[m.selected].ID)
	case key.Matches(msg, m.keys.Down):
		m.selected = (m.selected + 1) % len(m.providers)
		m.session.SelectProvider(m.providers[m.selected].ID)
	case key.Matches(msg, m.keys.Submit):
		id := m.providers[m.selected].ID
		spinning := m.session.Snapshot().Loading
		m.session.BeginSubmit(id)
		if spinning {
			// One tick chain is already running.
			return m, provisionCmd(m.ctx, m.fetcher, id)
		}
		return m, tea.Batch(m.spinner.Tick, provisionCmd(m.ctx, m.fetcher, id))
	}
	return m, nil
}

func (m Model) handleRecordKey(msg tea.KeyMsg, snap directory.Snapshot) (tea.Model, tea.Cmd) {
	if len(snap.Records) == 0 {
		m.focus = focusProviders
		return m, nil
	}
	if m.cursor >= len(snap.Records) {
		m.cursor = len(snap.Records) - 1
	}
	id := snap.Records[m.cursor].ID()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(snap.Records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.expanded[id] = !m.expanded[id]
	case key.Matches(msg, m.keys.Load):
		if m.requested[id] {
			return m, nil
		}
		m.requested[id] = true
		m.expanded[id] = true
		return m, enrichCmd(m.ctx, m.fetcher, m.session.Token(), id)
	}
	return m, nil
}
