package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a []string as a JSON text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// User is created lazily on a user's first message.
type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string
	Name      string
	CreatedAt time.Time
}

// Interaction is the unit of work for one teacher turn. Its id correlates
// every artifact produced from that message.
type Interaction struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	CreatedAt time.Time
}

// TeacherRecord holds the teacher's explanation, one per interaction,
// immutable once written.
type TeacherRecord struct {
	InteractionID string `gorm:"primaryKey"`
	Text          string
	CreatedAt     time.Time
}

// StudentRecord holds the student agent's reply for one interaction.
// FollowUp is nil when the student fully understood.
type StudentRecord struct {
	InteractionID string `gorm:"primaryKey"`
	FollowUp      *string
	Rating        string
	Reflection    string
	MissingPoints StringList `gorm:"type:text"`
	CreatedAt     time.Time
}

// EvaluatorRecord holds the evaluator agent's assessment for one interaction.
type EvaluatorRecord struct {
	InteractionID    string `gorm:"primaryKey"`
	Rating           string
	MissingPoints    StringList `gorm:"type:text"`
	IncorrectPoints  StringList `gorm:"type:text"`
	Feedback         string
	ReferencedPoints StringList `gorm:"type:text"`
	CreatedAt        time.Time
}

// ScorerRecord holds the scorer agent's quantitative metrics for one
// interaction. All score fields are in [0,1], enforced before persistence.
type ScorerRecord struct {
	InteractionID        string `gorm:"primaryKey"`
	OverallScore         float64
	TeacherClarity       float64
	TeacherCompleteness  float64
	StudentUnderstanding float64
	StudentEngagement    float64
	Comments             StringList `gorm:"type:text"`
	CreatedAt            time.Time
}

// LLMCall is one row of the generative-call audit log.
type LLMCall struct {
	ID           uint `gorm:"primaryKey;autoIncrement"`
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	Request      string
	Response     string
	CreatedAt    time.Time `gorm:"index"`
}
