package quizload

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
)

var (
	ErrNotFound         = errors.New("quiz module not found")
	ErrMalformedContent = errors.New("malformed quiz content")
)

// questionFile is the on-disk JSON shape of a single question. A file is
// an array of these.
type questionFile struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Loader reads quiz modules from a directory of JSON files, one file per
// module, named <module>.json. All structural validation happens here, so
// a module that loads successfully already satisfies every question-bank
// invariant the session engines rely on.
type Loader struct {
	dir string
}

func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// Available lists the loadable module names, sorted. A missing directory
// is treated as an empty catalog, not an error.
func (l *Loader) Available() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadModule reads, normalizes and validates one module.
func (l *Loader) LoadModule(name string) (*quiz.Module, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("module %q: %w", name, ErrNotFound)
		}
		return nil, err
	}

	var raw []questionFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("module %q: %v: %w", name, err, ErrMalformedContent)
	}

	questions := make([]quiz.Question, 0, len(raw))
	for i, q := range raw {
		number := q.Number
		if number == 0 {
			number = i + 1
		}
		questions = append(questions, quiz.Question{
			Number:  number,
			Text:    strings.TrimSpace(q.Text),
			Options: trimAll(q.Options),
			Answer:  strings.TrimSpace(q.Answer),
		})
	}

	m, err := quiz.NewModule(name, questions)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedContent)
	}
	return m, nil
}

// LoadModules loads several modules at once, preserving the given order.
func (l *Loader) LoadModules(names []string) ([]*quiz.Module, error) {
	modules := make([]*quiz.Module, 0, len(names))
	for _, name := range names {
		m, err := l.LoadModule(name)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
