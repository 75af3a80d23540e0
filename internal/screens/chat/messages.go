package chat

import (
	"time"

	"github.com/radnus321/learning-by-teaching/internal/tutor"
)

// turnDoneMsg is sent when the agent pipeline finishes a turn.
type turnDoneMsg struct {
	Result *tutor.TurnResult
	Err    error
}

// thinkingTickMsg animates the "student is thinking" indicator.
type thinkingTickMsg time.Time
