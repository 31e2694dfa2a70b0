package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/exam"
	"github.com/alelucca/simple-quiz-web-app/internal/domain/quiz"
	"github.com/alelucca/simple-quiz-web-app/internal/infrastructure/config"
	"github.com/alelucca/simple-quiz-web-app/internal/quizload"
	"github.com/alelucca/simple-quiz-web-app/internal/recorder"
	"github.com/alelucca/simple-quiz-web-app/internal/simulation"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	store, err := recorder.Open(context.Background(), cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Error("failed to open attempt log store", "dsn", cfg.DatabaseDSN, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	rec := recorder.NewAsync(store, 64)
	defer rec.Close()

	// ── Quiz content ────────────────────────────────────────────────
	loader := quizload.New(cfg.QuizDir)
	names, err := loader.Available()
	if err != nil {
		logger.Error("failed to list quiz modules", "dir", cfg.QuizDir, "error", err)
		os.Exit(1)
	}

	var modules []*quiz.Module
	examCfg := cfg.Exam
	if len(names) == 0 {
		logger.Info("no quiz files found, using built-in demo modules", "dir", cfg.QuizDir)
		modules = simulation.SeedModules()
		examCfg = exam.Config{Default: exam.Limits{Questions: 4, Duration: 2 * time.Minute}}
	} else {
		modules, err = loader.LoadModules(names)
		if err != nil {
			logger.Error("failed to load quiz modules", "error", err)
			os.Exit(1)
		}
		logger.Info("loaded quiz modules", "count", len(modules))
	}

	// ── Run ─────────────────────────────────────────────────────────
	if err := simulation.Run(logger, modules, examCfg, rec); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("simulation complete")
}
