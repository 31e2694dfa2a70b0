package session

// Recorder receives session events for external persistence. Calls are
// synchronous and best-effort: implementations must not block the session
// on durability, and the session never retries or inspects the outcome.
// Sessions guarantee events arrive in the exact order they occurred,
// exactly once each.
type Recorder interface {
	RecordAnswer(AnswerEvent)
	RecordSummary(SummaryEvent)
}

// Nop discards every event.
type Nop struct{}

func (Nop) RecordAnswer(AnswerEvent)   {}
func (Nop) RecordSummary(SummaryEvent) {}
