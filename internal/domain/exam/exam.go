package exam

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
)

// moduleRun is the per-module working state: the drawn question subset,
// the stored answers keyed by 1-based position, and the wall-clock
// deadline. The deadline is only an instant; expiry is re-evaluated on
// every call, no background clock ticks.
type moduleRun struct {
	name      string
	questions []quiz.Question
	answers   map[int]string
	limit     Limits
	startedAt time.Time
	deadline  time.Time
	cursor    int
	result    *ModuleResult
}

// Session simulates a timed exam over the selected modules, attempted one
// at a time in selection order, with free navigation and unlimited answer
// revision inside the active module until submission or timeout.
type Session struct {
	id        string
	runs      []*moduleRun
	cur       int
	startedAt time.Time
	recorder  session.Recorder
	report    *Report
	now       func() time.Time
}

// New draws each module's question subset and starts the first module's
// timer. A later module starts its timer only when it becomes active, so
// time never runs for a module that has not been reached yet.
func New(modules []*quiz.Module, cfg Config, rec session.Recorder) (*Session, error) {
	if len(modules) == 0 {
		return nil, session.ErrEmptySelection
	}
	if rec == nil {
		rec = session.Nop{}
	}

	s := &Session{
		id:       uuid.NewString(),
		recorder: rec,
		now:      time.Now,
	}
	for _, m := range modules {
		lim := cfg.limitsFor(m.Name)
		if lim.Questions < 1 || lim.Duration <= 0 {
			return nil, fmt.Errorf("invalid exam limits for module %q: %d questions, %v", m.Name, lim.Questions, lim.Duration)
		}
		if len(m.Questions) < lim.Questions {
			return nil, fmt.Errorf("module %q has %d questions, %d requested: %w",
				m.Name, len(m.Questions), lim.Questions, session.ErrInsufficientQuestions)
		}
		s.runs = append(s.runs, &moduleRun{
			name:      m.Name,
			questions: quiz.Sample(m.Questions, lim.Questions),
			answers:   make(map[int]string),
			limit:     lim,
		})
	}
	s.startedAt = s.now()
	s.activate(s.runs[0])
	return s, nil
}

func (s *Session) activate(r *moduleRun) {
	r.startedAt = s.now()
	r.deadline = r.startedAt.Add(r.limit.Duration)
}

// ID identifies the session in recorder events.
func (s *Session) ID() string { return s.id }

// ActiveModule names the module currently being worked on. ok is false
// once every module has been submitted.
func (s *Session) ActiveModule() (string, bool) {
	if s.cur >= len(s.runs) {
		return "", false
	}
	return s.runs[s.cur].name, true
}

func (s *Session) active() (*moduleRun, error) {
	if s.cur >= len(s.runs) {
		return nil, session.ErrInvalidState
	}
	return s.runs[s.cur], nil
}

// Questions returns the active module's drawn question set in exam order.
func (s *Session) Questions() ([]quiz.Question, error) {
	r, err := s.active()
	if err != nil {
		return nil, err
	}
	qs := make([]quiz.Question, len(r.questions))
	copy(qs, r.questions)
	return qs, nil
}

// Current returns the question under the navigation cursor together with
// its 1-based position in the drawn set.
func (s *Session) Current() (quiz.Question, int, error) {
	r, err := s.active()
	if err != nil {
		return quiz.Question{}, 0, err
	}
	return r.questions[r.cursor], r.cursor + 1, nil
}

// GoTo moves the navigation cursor to the 1-based position, forward or
// backward, any number of times while the module's time has not expired.
func (s *Session) GoTo(position int) error {
	r, err := s.active()
	if err != nil {
		return err
	}
	if s.expired(r) {
		return session.ErrTimeExpired
	}
	if position < 1 || position > len(r.questions) {
		return session.ErrUnknownQuestion
	}
	r.cursor = position - 1
	return nil
}

// SetAnswer stores or overwrites the answer at the given position.
// Revisions are unlimited until the module is submitted or times out.
// No attempt is recorded until SubmitModule.
func (s *Session) SetAnswer(position int, option string) error {
	r, err := s.active()
	if err != nil {
		return err
	}
	if s.expired(r) {
		return session.ErrTimeExpired
	}
	if position < 1 || position > len(r.questions) {
		return session.ErrUnknownQuestion
	}
	if !r.questions[position-1].HasOption(option) {
		return session.ErrInvalidOption
	}
	r.answers[position] = option
	return nil
}

// Answer returns the stored answer at the given position of the active
// module, if any.
func (s *Session) Answer(position int) (string, bool) {
	if s.cur >= len(s.runs) {
		return "", false
	}
	opt, ok := s.runs[s.cur].answers[position]
	return opt, ok
}

// TimeRemaining reports how long the active module has left, floored at
// zero. It is a derived read and never mutates session state.
func (s *Session) TimeRemaining() time.Duration {
	if s.cur >= len(s.runs) {
		return 0
	}
	remaining := s.runs[s.cur].deadline.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) expired(r *moduleRun) bool {
	return s.now().After(r.deadline)
}

// SubmitModule finalizes the active module with whatever answers are
// stored. An expired deadline does not discard them: submission after the
// deadline still grades the answers present at expiry. One attempt is
// recorded per drawn question; an unanswered question is recorded as
// incorrect with an empty option. The next module, if any, is activated
// and its timer started.
func (s *Session) SubmitModule() (*ModuleResult, error) {
	r, err := s.active()
	if err != nil {
		return nil, err
	}

	endedAt := s.now()
	timedOut := endedAt.After(r.deadline)

	correct := 0
	for i, q := range r.questions {
		opt, answered := r.answers[i+1]
		ok := answered && q.IsCorrect(opt)
		if ok {
			correct++
		}
		s.recorder.RecordAnswer(session.AnswerEvent{
			Kind:            session.EventAnswer,
			SessionID:       s.id,
			Module:          r.name,
			Question:        q.Number,
			AttemptIndex:    1,
			SubmittedOption: opt,
			Correct:         ok,
			Timestamp:       endedAt,
		})
	}

	spent := endedAt.Sub(r.startedAt)
	if spent > r.limit.Duration {
		spent = r.limit.Duration
	}
	total := len(r.questions)
	r.result = &ModuleResult{
		Module:    r.name,
		Total:     total,
		Answered:  len(r.answers),
		Correct:   correct,
		Score:     float64(correct) / float64(total) * 100,
		TimeSpent: spent,
		TimedOut:  timedOut,
	}

	s.cur++
	if s.cur < len(s.runs) {
		s.activate(s.runs[s.cur])
	}
	return r.result, nil
}

// Finish aggregates the per-module results once every module has been
// submitted. The overall score is the sum of correct answers over the sum
// of drawn questions across modules. Idempotent: repeated calls return
// the same report and the summary event is emitted only once.
func (s *Session) Finish() (*Report, error) {
	if s.report != nil {
		return s.report, nil
	}
	if s.cur < len(s.runs) {
		return nil, session.ErrInvalidState
	}

	rep := &Report{SessionID: s.id, Completed: true}
	names := make([]string, 0, len(s.runs))
	var spent time.Duration
	for _, r := range s.runs {
		rep.Modules = append(rep.Modules, *r.result)
		rep.TotalQuestions += r.result.Total
		rep.TotalCorrect += r.result.Correct
		if r.result.TimedOut {
			rep.TimedOut = true
		}
		spent += r.result.TimeSpent
		names = append(names, r.name)
	}
	rep.Score = float64(rep.TotalCorrect) / float64(rep.TotalQuestions) * 100
	rep.TimeSpent = spent

	s.report = rep
	s.recorder.RecordSummary(session.SummaryEvent{
		SessionID: s.id,
		Mode:      session.ModeExam,
		Modules:   names,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Report:    rep,
	})
	return rep, nil
}

// ModuleResult is the finalized outcome of one exam module.
type ModuleResult struct {
	Module    string
	Total     int
	Answered  int
	Correct   int
	Score     float64 // percentage of correct answers
	TimeSpent time.Duration
	TimedOut  bool // true when the module was finalized after its deadline
}

// Report is the overall exam outcome across all modules.
type Report struct {
	SessionID      string
	Modules        []ModuleResult
	TotalQuestions int
	TotalCorrect   int
	Score          float64 // sum of correct over sum of questions, as a percentage
	TimeSpent      time.Duration
	Completed      bool
	TimedOut       bool // true when at least one module ran out of time
}
