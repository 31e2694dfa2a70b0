package fulltest

import (
	"time"

	"github.com/google/uuid"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
)

// Session presents one whole module for batch answering and grades it
// atomically on a single submission. Answers stay provisional and
// unlogged until SubmitAll; after that the session is terminal.
type Session struct {
	id        string
	module    *quiz.Module
	answers   map[int]string // question number -> chosen option
	submitted bool
	startedAt time.Time
	recorder  session.Recorder
	report    *Report
	now       func() time.Time
}

// New builds a full-test session over exactly one module. The question
// order is the module's stored order; nothing is shuffled, since the
// learner reviews all questions at once.
func New(modules []*quiz.Module, rec session.Recorder) (*Session, error) {
	if len(modules) == 0 {
		return nil, session.ErrEmptySelection
	}
	if len(modules) > 1 {
		return nil, session.ErrMultiModule
	}
	m := modules[0]
	if m == nil || len(m.Questions) == 0 {
		return nil, session.ErrEmptySelection
	}
	if rec == nil {
		rec = session.Nop{}
	}

	s := &Session{
		id:       uuid.NewString(),
		module:   m,
		answers:  make(map[int]string),
		recorder: rec,
		now:      time.Now,
	}
	s.startedAt = s.now()
	return s, nil
}

// ID identifies the session in recorder events.
func (s *Session) ID() string { return s.id }

// Questions returns the module's questions in their original order.
func (s *Session) Questions() []quiz.Question {
	qs := make([]quiz.Question, len(s.module.Questions))
	copy(qs, s.module.Questions)
	return qs
}

// SetAnswer stores or overwrites the provisional answer for a question.
// It may be called any number of times per question before submission;
// nothing is recorded until SubmitAll.
func (s *Session) SetAnswer(number int, option string) error {
	if s.submitted {
		return session.ErrAlreadySubmitted
	}
	q, ok := s.module.Question(number)
	if !ok {
		return session.ErrUnknownQuestion
	}
	if !q.HasOption(option) {
		return session.ErrInvalidOption
	}
	s.answers[number] = option
	return nil
}

// Answer returns the stored answer for a question, if any.
func (s *Session) Answer(number int) (string, bool) {
	opt, ok := s.answers[number]
	return opt, ok
}

// AnsweredCount reports how many questions have a stored answer.
func (s *Session) AnsweredCount() int { return len(s.answers) }

// Complete reports whether every question has a stored answer.
func (s *Session) Complete() bool {
	return len(s.answers) == len(s.module.Questions)
}

// SubmitAll grades the whole module at once. Every question must have a
// stored answer, so no question can be graded as unanswered. One attempt
// per question is recorded, each at attempt index 1. The session is
// terminal afterwards.
func (s *Session) SubmitAll() (*Report, error) {
	if s.submitted {
		return nil, session.ErrAlreadySubmitted
	}
	if !s.Complete() {
		return nil, session.ErrIncompleteSubmission
	}
	s.submitted = true

	gradedAt := s.now()
	results := make([]QuestionResult, 0, len(s.module.Questions))
	correct := 0
	for _, q := range s.module.Questions {
		opt := s.answers[q.Number]
		ok := q.IsCorrect(opt)
		if ok {
			correct++
		}
		s.recorder.RecordAnswer(session.AnswerEvent{
			Kind:            session.EventAnswer,
			SessionID:       s.id,
			Module:          s.module.Name,
			Question:        q.Number,
			AttemptIndex:    1,
			SubmittedOption: opt,
			Correct:         ok,
			Timestamp:       gradedAt,
		})
		results = append(results, QuestionResult{
			Number:    q.Number,
			Text:      q.Text,
			Submitted: opt,
			Answer:    q.Answer,
			Correct:   ok,
		})
	}

	total := len(s.module.Questions)
	s.report = &Report{
		SessionID: s.id,
		Module:    s.module.Name,
		Total:     total,
		Correct:   correct,
		Wrong:     total - correct,
		Score:     float64(correct) / float64(total) * 100,
		Questions: results,
	}
	s.recorder.RecordSummary(session.SummaryEvent{
		SessionID: s.id,
		Mode:      session.ModeFullTest,
		Modules:   []string{s.module.Name},
		StartedAt: s.startedAt,
		EndedAt:   gradedAt,
		Report:    s.report,
	})
	return s.report, nil
}

// Report returns the graded result. It is only available after SubmitAll
// and returns the same value on every call.
func (s *Session) Report() (*Report, error) {
	if s.report == nil {
		return nil, session.ErrInvalidState
	}
	return s.report, nil
}

// Report is the atomically graded result of a full-test session.
type Report struct {
	SessionID string
	Module    string
	Total     int
	Correct   int
	Wrong     int
	Score     float64 // percentage of correct answers
	Questions []QuestionResult
}

// QuestionResult is the per-question detail of a full-test report.
type QuestionResult struct {
	Number    int
	Text      string
	Submitted string
	Answer    string
	Correct   bool
}
