package recorder_test

import (
	"testing"
	"time"

	"github.com/alelucca/simple-quiz-web-app/internal/domain/session"
	"github.com/alelucca/simple-quiz-web-app/internal/recorder"
)

func TestAsync_PreservesOrderAndDeliversOnce(t *testing.T) {
	mem := &recorder.Memory{}
	async := recorder.NewAsync(mem, 8)

	for i := 1; i <= 5; i++ {
		async.RecordAnswer(session.AnswerEvent{
			Kind:         session.EventAnswer,
			SessionID:    "s1",
			Module:       "anatomy",
			Question:     i,
			AttemptIndex: 1,
			Timestamp:    time.Now(),
		})
	}
	async.RecordSummary(session.SummaryEvent{SessionID: "s1", Mode: session.ModePractice})

	async.Close()

	if len(mem.Answers) != 5 {
		t.Fatalf("expected 5 answer events, got %d", len(mem.Answers))
	}
	for i, ev := range mem.Answers {
		if ev.Question != i+1 {
			t.Errorf("event %d: expected question %d, got %d", i, i+1, ev.Question)
		}
	}
	if len(mem.Summaries) != 1 {
		t.Errorf("expected 1 summary, got %d", len(mem.Summaries))
	}
}
