package tutor

import "fmt"

// TurnStage names where in the turn pipeline an error occurred. Artifacts
// persisted before the failing stage are kept, so the stage tells you
// exactly how much of the turn made it to disk.
type TurnStage string

const (
	StagePersistTeacher   TurnStage = "persist-teacher"
	StageStudent          TurnStage = "student"
	StagePersistStudent   TurnStage = "persist-student"
	StageEvaluate         TurnStage = "evaluate"
	StagePersistEvaluator TurnStage = "persist-evaluator"
	StageScore            TurnStage = "score"
	StagePersistScorer    TurnStage = "persist-scorer"
)

// TurnError wraps a failure at a specific stage of a turn.
type TurnError struct {
	Stage TurnStage
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn failed at %s: %v", e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

func stageErr(stage TurnStage, err error) *TurnError {
	return &TurnError{Stage: stage, Err: err}
}
