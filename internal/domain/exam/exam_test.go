package exam

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
	"github.com/alelucca/simple-quiz-web-app/internal/recorder"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testModule(t *testing.T, name string, n int) *quiz.Module {
	t.Helper()
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{
			Number:  i + 1,
			Text:    fmt.Sprintf("%s question %d", name, i+1),
			Options: []string{"right", "wrong"},
			Answer:  "right",
		}
	}
	m, err := quiz.NewModule(name, qs)
	if err != nil {
		t.Fatalf("building module: %v", err)
	}
	return m
}

// newTestSession rebases the session onto a fake clock so deadlines can
// be driven deterministically.
func newTestSession(t *testing.T, modules []*quiz.Module, cfg Config, rec session.Recorder, c *fakeClock) *Session {
	t.Helper()
	s, err := New(modules, cfg, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.now = c.now
	s.startedAt = c.t
	s.activate(s.runs[0])
	return s
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{}, nil); !errors.Is(err, session.ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}

	small := testModule(t, "anatomy", 3)
	cfg := Config{Default: Limits{Questions: 5, Duration: time.Minute}}
	if _, err := New([]*quiz.Module{small}, cfg, nil); !errors.Is(err, session.ErrInsufficientQuestions) {
		t.Errorf("expected ErrInsufficientQuestions, got %v", err)
	}
}

// Config {"Mod A": (2, 60s)} with default (5, 900s): selecting Mod A and
// Mod B draws 2 questions / 60s for A and 5 / 900s for B.
func TestConfig_PerModuleAndDefaultLimits(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{
		Default: Limits{Questions: 5, Duration: 900 * time.Second},
		Modules: map[string]Limits{"Mod A": {Questions: 2, Duration: 60 * time.Second}},
	}
	sess := newTestSession(t, []*quiz.Module{
		testModule(t, "Mod A", 3),
		testModule(t, "Mod B", 6),
	}, cfg, nil, clock)

	if name, _ := sess.ActiveModule(); name != "Mod A" {
		t.Fatalf("expected Mod A active, got %q", name)
	}
	questions, _ := sess.Questions()
	if len(questions) != 2 {
		t.Errorf("expected 2 questions for Mod A, got %d", len(questions))
	}
	if got := sess.TimeRemaining(); got != 60*time.Second {
		t.Errorf("expected 60s remaining for Mod A, got %v", got)
	}

	if _, err := sess.SubmitModule(); err != nil {
		t.Fatal(err)
	}

	if name, _ := sess.ActiveModule(); name != "Mod B" {
		t.Fatalf("expected Mod B active, got %q", name)
	}
	questions, _ = sess.Questions()
	if len(questions) != 5 {
		t.Errorf("expected 5 questions for Mod B, got %d", len(questions))
	}
	if got := sess.TimeRemaining(); got != 900*time.Second {
		t.Errorf("expected 900s remaining for Mod B, got %v", got)
	}
}

func TestTimeRemaining_MonotoneAndFlooredAtZero(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 2, Duration: time.Minute}}
	sess := newTestSession(t, []*quiz.Module{testModule(t, "anatomy", 4)}, cfg, nil, clock)

	prev := sess.TimeRemaining()
	for i := 0; i < 5; i++ {
		clock.advance(20 * time.Second)
		cur := sess.TimeRemaining()
		if cur > prev {
			t.Fatalf("TimeRemaining increased from %v to %v", prev, cur)
		}
		prev = cur
	}
	if prev != 0 {
		t.Errorf("expected 0 after the limit, got %v", prev)
	}
}

func TestNavigation(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 3, Duration: time.Minute}}
	sess := newTestSession(t, []*quiz.Module{testModule(t, "anatomy", 5)}, cfg, nil, clock)

	if err := sess.GoTo(3); err != nil {
		t.Fatal(err)
	}
	if _, pos, _ := sess.Current(); pos != 3 {
		t.Errorf("expected cursor at 3, got %d", pos)
	}
	if err := sess.GoTo(1); err != nil {
		t.Fatal(err)
	}
	if _, pos, _ := sess.Current(); pos != 1 {
		t.Errorf("expected cursor back at 1, got %d", pos)
	}
	if err := sess.GoTo(4); !errors.Is(err, session.ErrUnknownQuestion) {
		t.Errorf("expected ErrUnknownQuestion beyond the drawn set, got %v", err)
	}
}

func TestSetAnswer_RevisableUntilSubmission(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 2, Duration: time.Minute}}
	rec := &recorder.Memory{}
	sess := newTestSession(t, []*quiz.Module{testModule(t, "anatomy", 4)}, cfg, rec, clock)

	if err := sess.SetAnswer(1, "wrong"); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetAnswer(1, "right"); err != nil {
		t.Fatal(err)
	}
	if opt, ok := sess.Answer(1); !ok || opt != "right" {
		t.Errorf("expected stored answer %q, got %q ok=%v", "right", opt, ok)
	}
	if err := sess.SetAnswer(1, "nope"); !errors.Is(err, session.ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
	if len(rec.Answers) != 0 {
		t.Errorf("stored answers must not be recorded before submission, got %d events", len(rec.Answers))
	}
}

func TestDeadline_BlocksNavigationButNotSubmission(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 2, Duration: time.Minute}}
	rec := &recorder.Memory{}
	sess := newTestSession(t, []*quiz.Module{testModule(t, "anatomy", 4)}, cfg, rec, clock)

	if err := sess.SetAnswer(1, "right"); err != nil {
		t.Fatal(err)
	}

	clock.advance(2 * time.Minute)

	if err := sess.GoTo(2); !errors.Is(err, session.ErrTimeExpired) {
		t.Errorf("expected ErrTimeExpired from GoTo, got %v", err)
	}
	if err := sess.SetAnswer(2, "right"); !errors.Is(err, session.ErrTimeExpired) {
		t.Errorf("expected ErrTimeExpired from SetAnswer, got %v", err)
	}

	// submission still grades whatever was stored at expiry
	result, err := sess.SubmitModule()
	if err != nil {
		t.Fatalf("SubmitModule after the deadline must succeed, got %v", err)
	}
	if !result.TimedOut {
		t.Error("expected the module to be marked timed out")
	}
	if result.Correct != 1 || result.Answered != 1 {
		t.Errorf("expected 1 answered / 1 correct, got %d / %d", result.Answered, result.Correct)
	}
	if result.TimeSpent != time.Minute {
		t.Errorf("expected time spent capped at the limit, got %v", result.TimeSpent)
	}
	if len(rec.Answers) != 2 {
		t.Fatalf("expected one attempt per drawn question, got %d", len(rec.Answers))
	}
}

func TestTimer_StartsOnActivationNotCreation(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 2, Duration: time.Minute}}
	sess := newTestSession(t, []*quiz.Module{
		testModule(t, "first", 4),
		testModule(t, "second", 4),
	}, cfg, nil, clock)

	// dwell on the first module far beyond the second module's limit
	clock.advance(10 * time.Minute)
	if _, err := sess.SubmitModule(); err != nil {
		t.Fatal(err)
	}

	if got := sess.TimeRemaining(); got != time.Minute {
		t.Errorf("expected the second module to start with its full limit, got %v", got)
	}
	if err := sess.GoTo(1); err != nil {
		t.Errorf("second module must not be expired, got %v", err)
	}
}

func TestFinish_AggregatesAcrossModules(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 2, Duration: time.Minute}}
	rec := &recorder.Memory{}
	sess := newTestSession(t, []*quiz.Module{
		testModule(t, "first", 4),
		testModule(t, "second", 4),
	}, cfg, rec, clock)

	if _, err := sess.Finish(); !errors.Is(err, session.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState before all modules are submitted, got %v", err)
	}

	// first module: both right; second module: one right
	if err := sess.SetAnswer(1, "right"); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetAnswer(2, "right"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.SubmitModule(); err != nil {
		t.Fatal(err)
	}
	if err := sess.SetAnswer(1, "right"); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.SubmitModule(); err != nil {
		t.Fatal(err)
	}

	report, err := sess.Finish()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalQuestions != 4 || report.TotalCorrect != 3 {
		t.Errorf("expected 3/4 overall, got %d/%d", report.TotalCorrect, report.TotalQuestions)
	}
	if report.Score != 75 {
		t.Errorf("expected overall score 75, got %v", report.Score)
	}
	if report.TimedOut {
		t.Error("no module timed out")
	}
	if !report.Completed {
		t.Error("expected the exam to be completed")
	}

	again, err := sess.Finish()
	if err != nil || again != report {
		t.Errorf("expected Finish to return the identical report, got %v err=%v", again, err)
	}
	if len(rec.Summaries) != 1 {
		t.Errorf("expected exactly one summary event, got %d", len(rec.Summaries))
	}

	if _, ok := sess.ActiveModule(); ok {
		t.Error("expected no active module after the last submission")
	}
}

func TestDraw_NoRepeats(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	cfg := Config{Default: Limits{Questions: 5, Duration: time.Minute}}
	sess := newTestSession(t, []*quiz.Module{testModule(t, "anatomy", 10)}, cfg, nil, clock)

	questions, _ := sess.Questions()
	seen := make(map[int]bool)
	for _, q := range questions {
		if seen[q.Number] {
			t.Errorf("question %d drawn twice", q.Number)
		}
		seen[q.Number] = true
	}
}
