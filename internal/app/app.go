package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/radnus321/learning-by-teaching/internal/agents"
	"github.com/radnus321/learning-by-teaching/internal/catalog"
	"github.com/radnus321/learning-by-teaching/internal/pool"
	"github.com/radnus321/learning-by-teaching/internal/router"
	"github.com/radnus321/learning-by-teaching/internal/screen"
	"github.com/radnus321/learning-by-teaching/internal/screens/chat"
	"github.com/radnus321/learning-by-teaching/internal/screens/welcome"
	"github.com/radnus321/learning-by-teaching/internal/store"
	"github.com/radnus321/learning-by-teaching/internal/tutor"
	"github.com/radnus321/learning-by-teaching/internal/ui/layout"
)

// Options carries the wired dependencies for the TUI.
type Options struct {
	Store    *store.Store
	Gateway  *agents.Gateway
	Seeder   welcome.Seeder
	Catalog  *catalog.Catalog
	Sessions *tutor.Manager

	// UserID identifies the local learner; email and name are optional.
	UserID string
	Email  string
	Name   string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	orch := tutor.New(opts.Store, opts.Gateway)

	chatFactory := func(topic catalog.Topic, p *pool.Pool) screen.Screen {
		sess := opts.Sessions.Start(opts.UserID, opts.Email, opts.Name, topic.Name, p)
		return chat.New(orch, sess, topic)
	}

	welcomeScreen := welcome.New(opts.Catalog.List(), opts.Seeder, chatFactory)
	return AppModel{
		router: router.New(welcomeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	topic := ""
	done, total := 0, 0
	if pp, ok := active.(screen.ProgressProvider); ok {
		topic, done, total = pp.Progress()
	}

	header := layout.RenderHeader(title, topic, done, total, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kh, ok := active.(screen.KeyHintProvider); ok {
		if hints := kh.KeyHints(); hints != nil {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
