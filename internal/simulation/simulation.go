// simulation/simulation.go
package simulation

import (
	"fmt"
	"log/slog"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/exam"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/fulltest"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/practice"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
)

// Run drives one session of every mode against the given modules: a
// practice run over the pooled modules, a full test on the first module,
// and a timed exam across all of them. It is a headless walkthrough of
// the engines, useful as a smoke check of the loader, the session logic
// and the recorder wiring.
func Run(logger *slog.Logger, modules []*quiz.Module, examCfg exam.Config, rec session.Recorder) error {
	if err := runPractice(logger, modules, rec); err != nil {
		return err
	}
	if err := runFullTest(logger, modules[:1], rec); err != nil {
		return err
	}
	return runExam(logger, modules, examCfg, rec)
}

func runPractice(logger *slog.Logger, modules []*quiz.Module, rec session.Recorder) error {
	sess, err := practice.New(modules, rec)
	if err != nil {
		return fmt.Errorf("practice: %w", err)
	}

	for i := 0; ; i++ {
		q, ok := sess.Current()
		if !ok {
			break
		}
		switch i % 4 {
		case 0:
			_, err = sess.Submit(q.Answer)
		case 1:
			// wrong first, then right, to exercise the retry path
			if wrong, ok := wrongOption(q.Question); ok {
				if _, err = sess.Submit(wrong); err != nil {
					break
				}
			}
			_, err = sess.Submit(q.Answer)
		case 2:
			err = sess.Skip()
		default:
			_, err = sess.Reveal()
		}
		if err != nil {
			return fmt.Errorf("practice: question %d: %w", q.Number, err)
		}
	}

	report := sess.Finish()
	logger.Info("practice session finished",
		"session_id", sess.ID(),
		"presented", report.Presented,
		"correct", report.Correct(),
		"skipped", report.Skipped,
		"revealed", report.Revealed,
	)
	return nil
}

func runFullTest(logger *slog.Logger, modules []*quiz.Module, rec session.Recorder) error {
	sess, err := fulltest.New(modules, rec)
	if err != nil {
		return fmt.Errorf("full test: %w", err)
	}

	for i, q := range sess.Questions() {
		answer := q.Answer
		if i%3 == 2 {
			if wrong, ok := wrongOption(q); ok {
				answer = wrong
			}
		}
		if err := sess.SetAnswer(q.Number, answer); err != nil {
			return fmt.Errorf("full test: question %d: %w", q.Number, err)
		}
	}

	report, err := sess.SubmitAll()
	if err != nil {
		return fmt.Errorf("full test: %w", err)
	}
	logger.Info("full test finished",
		"session_id", sess.ID(),
		"module", report.Module,
		"correct", report.Correct,
		"total", report.Total,
		"score", report.Score,
	)
	return nil
}

func runExam(logger *slog.Logger, modules []*quiz.Module, cfg exam.Config, rec session.Recorder) error {
	sess, err := exam.New(modules, cfg, rec)
	if err != nil {
		return fmt.Errorf("exam: %w", err)
	}

	for {
		name, ok := sess.ActiveModule()
		if !ok {
			break
		}
		questions, err := sess.Questions()
		if err != nil {
			return fmt.Errorf("exam: %w", err)
		}
		for pos := 1; pos <= len(questions); pos++ {
			if pos%2 == 0 {
				continue // leave every other question unanswered
			}
			if err := sess.GoTo(pos); err != nil {
				return fmt.Errorf("exam: module %s: %w", name, err)
			}
			if err := sess.SetAnswer(pos, questions[pos-1].Answer); err != nil {
				return fmt.Errorf("exam: module %s: %w", name, err)
			}
		}

		result, err := sess.SubmitModule()
		if err != nil {
			return fmt.Errorf("exam: module %s: %w", name, err)
		}
		logger.Info("exam module finished",
			"session_id", sess.ID(),
			"module", result.Module,
			"correct", result.Correct,
			"total", result.Total,
			"timed_out", result.TimedOut,
		)
	}

	report, err := sess.Finish()
	if err != nil {
		return fmt.Errorf("exam: %w", err)
	}
	logger.Info("exam finished",
		"session_id", sess.ID(),
		"correct", report.TotalCorrect,
		"total", report.TotalQuestions,
		"score", report.Score,
	)
	return nil
}

func wrongOption(q quiz.Question) (string, bool) {
	for _, o := range q.Options {
		if !q.IsCorrect(o) {
			return o, true
		}
	}
	return "", false
}

// SeedModules builds two small in-memory demo modules, for running the
// simulation without any quiz files on disk.
func SeedModules() []*quiz.Module {
	golang := mustModule("go-basics", []quiz.Question{
		{Number: 1, Text: "What is a goroutine?", Options: []string{"A lightweight thread managed by the Go runtime", "An OS process", "A compiler phase"}, Answer: "A lightweight thread managed by the Go runtime"},
		{Number: 2, Text: "What does a channel do?", Options: []string{"Sends and receives values between goroutines", "Allocates memory", "Formats strings"}, Answer: "Sends and receives values between goroutines"},
		{Number: 3, Text: "Which keyword starts a goroutine?", Options: []string{"go", "run", "spawn"}, Answer: "go"},
		{Number: 4, Text: "What is the zero value of a pointer?", Options: []string{"nil", "0", "undefined"}, Answer: "nil"},
		{Number: 5, Text: "Which builtin grows a slice?", Options: []string{"append", "push", "add"}, Answer: "append"},
		{Number: 6, Text: "What does defer do?", Options: []string{"Runs a call when the function returns", "Skips a call", "Repeats a call"}, Answer: "Runs a call when the function returns"},
	})
	sql := mustModule("sql-basics", []quiz.Question{
		{Number: 1, Text: "Which statement reads rows?", Options: []string{"SELECT", "INSERT", "GRANT"}, Answer: "SELECT"},
		{Number: 2, Text: "Which clause filters rows?", Options: []string{"WHERE", "ORDER BY", "LIMIT"}, Answer: "WHERE"},
		{Number: 3, Text: "Which statement adds rows?", Options: []string{"INSERT", "SELECT", "DROP"}, Answer: "INSERT"},
		{Number: 4, Text: "What does a PRIMARY KEY guarantee?", Options: []string{"Uniqueness", "Ordering", "Compression"}, Answer: "Uniqueness"},
		{Number: 5, Text: "Which clause groups rows?", Options: []string{"GROUP BY", "HAVING", "JOIN"}, Answer: "GROUP BY"},
		{Number: 6, Text: "Which statement removes a table?", Options: []string{"DROP TABLE", "DELETE TABLE", "TRUNCATE ROW"}, Answer: "DROP TABLE"},
	})
	return []*quiz.Module{golang, sql}
}

func mustModule(name string, questions []quiz.Question) *quiz.Module {
	m, err := quiz.NewModule(name, questions)
	if err != nil {
		panic("simulation: bad seed module: " + err.Error())
	}
	return m
}
