package session

import "time"

// Mode identifies which engine produced a session's events.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeFullTest Mode = "full_test"
	ModeExam     Mode = "exam"
)

// EventKind distinguishes graded answers from skips and reveals.
type EventKind string

const (
	EventAnswer EventKind = "answer"
	EventSkip   EventKind = "skip"
	EventReveal EventKind = "reveal"
)

// AnswerEvent is one recorded interaction with a question. For skips the
// submitted option is empty; for reveals it carries the answer that was
// shown. AttemptIndex is 1-based for graded answers and zero otherwise.
type AnswerEvent struct {
	Kind            EventKind
	SessionID       string
	Module          string
	Question        int // 1-based question number within the module
	AttemptIndex    int
	SubmittedOption string
	Correct         bool
	Timestamp       time.Time
}

// SummaryEvent is emitted exactly once when a session terminates. Report
// holds the mode-specific report value.
type SummaryEvent struct {
	SessionID string
	Mode      Mode
	Modules   []string
	StartedAt time.Time
	EndedAt   time.Time
	Report    any
}
