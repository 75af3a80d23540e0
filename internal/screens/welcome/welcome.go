package welcome

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/radnus321/learning-by-teaching/internal/catalog"
	"github.com/radnus321/learning-by-teaching/internal/pool"
	"github.com/radnus321/learning-by-teaching/internal/router"
	"github.com/radnus321/learning-by-teaching/internal/screen"
	"github.com/radnus321/learning-by-teaching/internal/ui/components"
	"github.com/radnus321/learning-by-teaching/internal/ui/theme"
)

// seedDoneMsg is sent when the question pool for the chosen topic is ready.
type seedDoneMsg struct {
	Topic catalog.Topic
	Pool  *pool.Pool
	Err   error
}

// Seeder builds a question pool for a topic.
type Seeder interface {
	SeedTopic(ctx context.Context, topic catalog.Topic) (*pool.Pool, error)
}

// ChatFactory builds the chat screen once a topic's pool is seeded.
type ChatFactory func(topic catalog.Topic, p *pool.Pool) screen.Screen

// WelcomeScreen shows the banner and a topic picker. Selecting a topic
// seeds its question pool and transitions to the chat screen.
type WelcomeScreen struct {
	topics      []catalog.Topic
	menu        components.Menu
	seeder      Seeder
	chatFactory ChatFactory
	seeding     bool
	errMsg      string
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen over the catalog's topics.
func New(topics []catalog.Topic, seeder Seeder, chatFactory ChatFactory) *WelcomeScreen {
	w := &WelcomeScreen{
		topics:      topics,
		seeder:      seeder,
		chatFactory: chatFactory,
	}

	items := make([]components.MenuItem, 0, len(topics))
	for _, t := range topics {
		topic := t
		items = append(items, components.MenuItem{
			Label:       topic.Name,
			Description: topic.Description,
			Action: func() tea.Cmd {
				return w.startSeeding(topic)
			},
		})
	}
	w.menu = components.NewMenu(items)
	return w
}

func (w *WelcomeScreen) Title() string {
	return "Pick a topic"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return nil
}

func (w *WelcomeScreen) startSeeding(topic catalog.Topic) tea.Cmd {
	w.seeding = true
	w.errMsg = ""
	return func() tea.Msg {
		p, err := w.seeder.SeedTopic(context.Background(), topic)
		return seedDoneMsg{Topic: topic, Pool: p, Err: err}
	}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case seedDoneMsg:
		w.seeding = false
		if msg.Err != nil {
			w.errMsg = fmt.Sprintf("could not prepare questions: %v", msg.Err)
			return w, nil
		}
		next := w.chatFactory(msg.Topic, msg.Pool)
		return w, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case tea.KeyMsg:
		if w.seeding {
			return w, nil
		}
		var cmd tea.Cmd
		w.menu, cmd = w.menu.Update(msg)
		return w, cmd
	}

	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")
	sections = append(sections, theme.Subtitle.Render("Teach it back. If you can explain it, you know it."))
	sections = append(sections, "")

	switch {
	case w.seeding:
		sections = append(sections, theme.Hint.Render("preparing questions..."))
	case w.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
		sections = append(sections, "")
		sections = append(sections, w.menu.View())
	default:
		sections = append(sections, w.menu.View())
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
