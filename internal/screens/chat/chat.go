// Package chat is the conversation screen: the user types explanations,
// the simulated student replies, and evaluator feedback with scores shows
// up after each exchange.
package chat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/radnus321/learning-by-teaching/internal/agents"
	"github.com/radnus321/learning-by-teaching/internal/catalog"
	"github.com/radnus321/learning-by-teaching/internal/screen"
	"github.com/radnus321/learning-by-teaching/internal/store"
	"github.com/radnus321/learning-by-teaching/internal/tutor"
	"github.com/radnus321/learning-by-teaching/internal/ui/components"
	"github.com/radnus321/learning-by-teaching/internal/ui/layout"
)

const thinkingInterval = 250 * time.Millisecond

const (
	placeholderExplain  = "Explain it in your own words..."
	placeholderFollowUp = "Answer the student's follow-up..."
)

// Tutor drives one turn of the teaching pipeline and reports the session's
// score history. *tutor.Orchestrator implements it.
type Tutor interface {
	RunTurn(ctx context.Context, sess *tutor.Session, explanation string) (*tutor.TurnResult, error)
	ScoreHistory(ctx context.Context, sess *tutor.Session) ([]store.ScorerRecord, error)
}

type entryRole int

const (
	roleTeacher entryRole = iota
	roleStudent
	roleFeedback
)

type transcriptEntry struct {
	role entryRole
	text string
}

// sessionSummary aggregates every scored turn of the session for the
// end-of-topic wrap-up.
type sessionSummary struct {
	turns         int
	overall       float64
	clarity       float64
	completeness  float64
	understanding float64
	engagement    float64
}

// ChatScreen implements screen.Screen for the tutoring conversation.
type ChatScreen struct {
	orch  Tutor
	sess  *tutor.Session
	topic catalog.Topic

	input      components.TextInput
	transcript []transcriptEntry
	lastScores *agents.ScorerResult
	thinking   bool
	tickCount  int
	errMsg     string
	done       bool
	summary    *sessionSummary
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.ProgressProvider = (*ChatScreen)(nil)

// New creates the chat screen for an active session.
func New(orch Tutor, sess *tutor.Session, topic catalog.Topic) *ChatScreen {
	c := &ChatScreen{
		orch:  orch,
		sess:  sess,
		topic: topic,
		input: components.NewTextInput(placeholderExplain, 0),
	}

	if q, ok := sess.Pool.Current(); ok {
		c.transcript = append(c.transcript, transcriptEntry{
			role: roleStudent,
			text: fmt.Sprintf("Hi! I'm your student today. Teach me about %s. First up: %s", topic.Name, q.Question),
		})
	} else {
		c.transcript = append(c.transcript, transcriptEntry{
			role: roleStudent,
			text: "Hi! I couldn't come up with questions for this topic, but teach me anything and I'll follow along.",
		})
	}

	return c
}

func (c *ChatScreen) Title() string {
	return "Teaching session"
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

// Progress reports pool position for the header.
func (c *ChatScreen) Progress() (string, int, int) {
	return c.topic.Name, c.sess.Pool.Position(), c.sess.Pool.Len()
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.thinking || c.done {
		return []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		return c.handleTurnDone(msg)

	case thinkingTickMsg:
		if !c.thinking {
			return c, nil
		}
		c.tickCount++
		return c, c.thinkingTick()

	case tea.KeyMsg:
		if c.thinking || c.done {
			return c, nil
		}
		if msg.String() == "enter" {
			return c, c.submit()
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	if !c.thinking && !c.done {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *ChatScreen) submit() tea.Cmd {
	explanation := strings.TrimSpace(c.input.Value())
	if explanation == "" {
		return nil
	}
	c.input.Reset()
	c.errMsg = ""
	c.lastScores = nil
	c.transcript = append(c.transcript, transcriptEntry{role: roleTeacher, text: explanation})
	c.thinking = true

	return tea.Batch(
		c.thinkingTick(),
		func() tea.Msg {
			res, err := c.orch.RunTurn(context.Background(), c.sess, explanation)
			return turnDoneMsg{Result: res, Err: err}
		},
	)
}

func (c *ChatScreen) thinkingTick() tea.Cmd {
	return tea.Tick(thinkingInterval, func(t time.Time) tea.Msg {
		return thinkingTickMsg(t)
	})
}

func (c *ChatScreen) handleTurnDone(msg turnDoneMsg) (screen.Screen, tea.Cmd) {
	c.thinking = false

	if msg.Err != nil {
		// The cause goes to stderr for debugging; the transcript only
		// tells the user the explanation was saved.
		fmt.Fprintf(os.Stderr, "turn failed: %v\n", msg.Err)
		c.errMsg = "Something went wrong mid-turn. Your explanation was saved, please try again."
		return c, nil
	}

	res := msg.Result
	c.transcript = append(c.transcript, transcriptEntry{role: roleStudent, text: res.Reply})
	if res.Evaluation != nil && res.Evaluation.Feedback != "" {
		c.transcript = append(c.transcript, transcriptEntry{
			role: roleFeedback,
			text: fmt.Sprintf("[%s] %s", res.Evaluation.Rating, res.Evaluation.Feedback),
		})
	}
	c.lastScores = res.Scores

	if res.Advanced {
		c.input.SetPlaceholder(placeholderExplain)
	} else {
		c.input.SetPlaceholder(placeholderFollowUp)
	}

	if res.TopicComplete {
		c.done = true
		history, err := c.orch.ScoreHistory(context.Background(), c.sess)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load score history: %v\n", err)
		} else {
			c.summary = summarize(history)
		}
	}

	return c, nil
}

// summarize averages the scored turns, or returns nil when there are none.
func summarize(history []store.ScorerRecord) *sessionSummary {
	if len(history) == 0 {
		return nil
	}
	s := &sessionSummary{turns: len(history)}
	for _, rec := range history {
		s.overall += rec.OverallScore
		s.clarity += rec.TeacherClarity
		s.completeness += rec.TeacherCompleteness
		s.understanding += rec.StudentUnderstanding
		s.engagement += rec.StudentEngagement
	}
	n := float64(s.turns)
	s.overall /= n
	s.clarity /= n
	s.completeness /= n
	s.understanding /= n
	s.engagement /= n
	return s
}
