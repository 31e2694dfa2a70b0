package recorder

import "github.com/alelucca/simple-quiz-web-app/internal/domain/session"

// Async decouples sessions from a slow Recorder. Events are queued and
// drained by a single worker goroutine, so they reach the wrapped
// recorder in emission order, once each.
type Async struct {
	next session.Recorder
	jobs chan func()
	done chan struct{}
}

// NewAsync wraps next with a buffered queue. Emitting blocks only when
// the buffer is full.
func NewAsync(next session.Recorder, buffer int) *Async {
	a := &Async{
		next: next,
		jobs: make(chan func(), buffer),
		done: make(chan struct{}),
	}
	go a.worker()
	return a
}

func (a *Async) worker() {
	for job := range a.jobs {
		job()
	}
	close(a.done)
}

func (a *Async) RecordAnswer(ev session.AnswerEvent) {
	a.jobs <- func() { a.next.RecordAnswer(ev) }
}

func (a *Async) RecordSummary(ev session.SummaryEvent) {
	a.jobs <- func() { a.next.RecordSummary(ev) }
}

// Close flushes queued events and stops the worker. No event may be
// emitted after Close.
func (a *Async) Close() {
	close(a.jobs)
	<-a.done
}
