package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/exam"
)

type Config struct {
	QuizDir     string // directory holding one <module>.json per quiz module
	DatabaseDSN string // sqlite path or postgres:// URL for the attempt log

	Exam exam.Config
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		QuizDir:     getenvDefault("QUIZ_DIR", "quizzes"),
		DatabaseDSN: getenvDefault("DATABASE_DSN", "quiz_logs.db"),
		Exam: exam.Config{
			Default: exam.Limits{
				Questions: getenvInt("EXAM_QUESTIONS_PER_MODULE", exam.DefaultLimits.Questions),
				Duration:  getenvDuration("EXAM_TIME_LIMIT", exam.DefaultLimits.Duration),
			},
		},
	}

	if raw := os.Getenv("EXAM_MODULE_LIMITS"); raw != "" {
		cfg.Exam.Modules = mustParseModuleLimits(raw)
	}
	return cfg
}

// moduleLimitsEnv is the JSON shape of EXAM_MODULE_LIMITS, e.g.
// {"anatomy": {"questions": 10, "time_limit": "10m"}}.
type moduleLimitsEnv struct {
	Questions int    `json:"questions"`
	TimeLimit string `json:"time_limit"`
}

func mustParseModuleLimits(raw string) map[string]exam.Limits {
	var envMap map[string]moduleLimitsEnv
	if err := json.Unmarshal([]byte(raw), &envMap); err != nil {
		log.Fatalf("config: EXAM_MODULE_LIMITS is not valid JSON: %v", err)
	}

	limits := make(map[string]exam.Limits, len(envMap))
	for name, l := range envMap {
		d, err := time.ParseDuration(l.TimeLimit)
		if err != nil {
			log.Fatalf("config: EXAM_MODULE_LIMITS[%s]: %q is not a valid duration: %v", name, l.TimeLimit, err)
		}
		limits[name] = exam.Limits{Questions: l.Questions, Duration: d}
	}
	return limits
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}
