package recorder

import "github.com/alelucca/simple-quiz-web-app/internal/domain/session"

// Memory collects events in memory. Useful in tests and for callers that
// only need the event stream for the lifetime of a session.
type Memory struct {
	Answers   []session.AnswerEvent
	Summaries []session.SummaryEvent
}

func (m *Memory) RecordAnswer(ev session.AnswerEvent) {
	m.Answers = append(m.Answers, ev)
}

func (m *Memory) RecordSummary(ev session.SummaryEvent) {
	m.Summaries = append(m.Summaries, ev)
}
