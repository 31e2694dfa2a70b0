package practice

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
)

type status int

const (
	statusOpen status = iota
	statusCorrect
	statusSkipped
	statusRevealed
)

// PoolQuestion pairs a drawn question with the module it came from.
type PoolQuestion struct {
	Module string
	quiz.Question
}

type questionState struct {
	attempts int
	status   status
}

// Session drives a one-question-at-a-time practice run over a single
// shuffled pool drawn from the selected modules. Each question appears
// exactly once; a wrongly answered question stays current until it is
// answered correctly.
type Session struct {
	id         string
	modules    []string
	pool       []PoolQuestion
	states     []questionState
	pos        int
	terminated bool
	startedAt  time.Time
	recorder   session.Recorder
	report     *Report
	now        func() time.Time
}

// New concatenates the questions of all selected modules into one pool
// and shuffles it.
func New(modules []*quiz.Module, rec session.Recorder) (*Session, error) {
	if rec == nil {
		rec = session.Nop{}
	}

	var pool []PoolQuestion
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
		for _, q := range m.Questions {
			pool = append(pool, PoolQuestion{Module: m.Name, Question: q})
		}
	}
	if len(pool) == 0 {
		return nil, session.ErrEmptySelection
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	s := &Session{
		id:       uuid.NewString(),
		modules:  names,
		pool:     pool,
		states:   make([]questionState, len(pool)),
		recorder: rec,
		now:      time.Now,
	}
	s.startedAt = s.now()
	return s, nil
}

// ID identifies the session in recorder events.
func (s *Session) ID() string { return s.id }

// Current returns the question at the pool position. ok is false once the
// pool is exhausted or the session was terminated early.
func (s *Session) Current() (PoolQuestion, bool) {
	if s.done() {
		return PoolQuestion{}, false
	}
	return s.pool[s.pos], true
}

// Remaining reports how many questions are still to be presented, the
// current one included.
func (s *Session) Remaining() int {
	if s.done() {
		return 0
	}
	return len(s.pool) - s.pos
}

func (s *Session) done() bool {
	return s.terminated || s.pos >= len(s.pool)
}

// Submit grades option against the current question. A correct answer
// advances the pool; a wrong one leaves the position unchanged so the
// same question can be retried. A wrong answer is a normal outcome, not
// an error; ErrInvalidOption means option is not on the question at all.
func (s *Session) Submit(option string) (bool, error) {
	if s.done() {
		return false, session.ErrInvalidState
	}
	q := s.pool[s.pos]
	if !q.HasOption(option) {
		return false, session.ErrInvalidOption
	}

	st := &s.states[s.pos]
	st.attempts++
	correct := q.IsCorrect(option)

	s.recorder.RecordAnswer(session.AnswerEvent{
		Kind:            session.EventAnswer,
		SessionID:       s.id,
		Module:          q.Module,
		Question:        q.Number,
		AttemptIndex:    st.attempts,
		SubmittedOption: option,
		Correct:         correct,
		Timestamp:       s.now(),
	})

	if correct {
		st.status = statusCorrect
		s.pos++
	}
	return correct, nil
}

// Skip marks the current question as skipped and moves on. Only valid
// before any answer has been submitted for it.
func (s *Session) Skip() error {
	return s.giveUp(statusSkipped, session.EventSkip, "")
}

// Reveal returns the correct option, marks the current question as
// revealed and moves on. Same precondition as Skip.
func (s *Session) Reveal() (string, error) {
	if s.done() {
		return "", session.ErrInvalidState
	}
	answer := s.pool[s.pos].Answer
	if err := s.giveUp(statusRevealed, session.EventReveal, answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (s *Session) giveUp(to status, kind session.EventKind, option string) error {
	if s.done() {
		return session.ErrInvalidState
	}
	st := &s.states[s.pos]
	if st.attempts > 0 {
		return session.ErrInvalidState
	}

	q := s.pool[s.pos]
	st.status = to
	s.recorder.RecordAnswer(session.AnswerEvent{
		Kind:            kind,
		SessionID:       s.id,
		Module:          q.Module,
		Question:        q.Number,
		SubmittedOption: option,
		Timestamp:       s.now(),
	})
	s.pos++
	return nil
}

// Terminate ends the session early. Questions never presented are left
// out of the report entirely, not counted as skipped.
func (s *Session) Terminate() {
	s.terminated = true
}

// Finish produces the session report and emits the summary event. It is
// idempotent: repeated calls return the same report without re-deriving
// state or re-emitting events.
func (s *Session) Finish() *Report {
	if s.report != nil {
		return s.report
	}
	s.terminated = true
	s.report = s.buildReport()
	s.recorder.RecordSummary(session.SummaryEvent{
		SessionID: s.id,
		Mode:      session.ModePractice,
		Modules:   s.modules,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Report:    s.report,
	})
	return s.report
}

func (s *Session) buildReport() *Report {
	r := &Report{
		SessionID:        s.id,
		PoolSize:         len(s.pool),
		CorrectByAttempt: make(map[int]int),
		Modules:          make(map[string]ModuleBreakdown),
	}
	for i, st := range s.states {
		if st.status == statusOpen {
			continue
		}
		q := s.pool[i]
		mb := r.Modules[q.Module]
		mb.Presented++
		r.Presented++

		switch st.status {
		case statusCorrect:
			r.CorrectByAttempt[bucket(st.attempts)]++
			if st.attempts == 1 {
				mb.CorrectFirstTry++
			} else {
				mb.CorrectRetried++
			}
		case statusSkipped:
			r.Skipped++
			mb.Skipped++
		case statusRevealed:
			r.Revealed++
			mb.Revealed++
		}
		r.Modules[q.Module] = mb
	}
	return r
}
