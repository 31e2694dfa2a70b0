package quiz

import (
	"fmt"
	"math/rand"
	"strings"
)

// Question is a single multiple-choice question. Number is 1-based and
// unique within its module; Answer always appears verbatim among Options.
type Question struct {
	Number  int
	Text    string
	Options []string
	Answer  string
}

// HasOption reports whether opt is one of the listed options.
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if equalFold(o, opt) {
			return true
		}
	}
	return false
}

// IsCorrect reports whether opt matches the correct answer. Comparison
// ignores case and surrounding whitespace.
func (q Question) IsCorrect(opt string) bool {
	return equalFold(q.Answer, opt)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Module is a named, ordered collection of questions for one subject area.
type Module struct {
	Name      string
	Questions []Question
}

// NewModule validates the question set and builds a module. A module with
// zero questions, a duplicate question number, fewer than two options, or
// an answer missing from the options is rejected here so that no session
// can ever observe a broken invariant.
func NewModule(name string, questions []Question) (*Module, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("module %q has no questions", name)
	}

	seen := make(map[int]bool, len(questions))
	for i, q := range questions {
		if q.Number < 1 {
			return nil, fmt.Errorf("module %q: question %d: number must be 1-based, got %d", name, i+1, q.Number)
		}
		if seen[q.Number] {
			return nil, fmt.Errorf("module %q: duplicate question number %d", name, q.Number)
		}
		seen[q.Number] = true

		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("module %q: question %d: text cannot be empty", name, q.Number)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("module %q: question %d: need at least 2 options, got %d", name, q.Number, len(q.Options))
		}
		if !q.HasOption(q.Answer) {
			return nil, fmt.Errorf("module %q: question %d: answer is not among the options", name, q.Number)
		}
	}

	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Module{Name: name, Questions: qs}, nil
}

// Question returns the question with the given 1-based number.
func (m *Module) Question(number int) (Question, bool) {
	for _, q := range m.Questions {
		if q.Number == number {
			return q, true
		}
	}
	return Question{}, false
}

// Shuffle returns a new slice with the questions in random order.
func Shuffle(questions []Question) []Question {
	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// Sample draws n distinct questions at random. It shuffles a copy and
// takes the head, so the draw always terminates and never repeats a
// question. The caller must ensure n <= len(questions).
func Sample(questions []Question, n int) []Question {
	return Shuffle(questions)[:n]
}
