package session

import "errors"

// All session errors are synchronous and recoverable by the caller.
// Unless documented otherwise, a failed operation leaves the session
// state unchanged.
var (
	// Construction-time validation failures; the session is never created.
	ErrEmptySelection        = errors.New("no questions in selection")
	ErrInsufficientQuestions = errors.New("module has fewer questions than requested")
	ErrMultiModule           = errors.New("mode accepts exactly one module")

	// The caller passed a value inconsistent with the current question set.
	ErrInvalidOption   = errors.New("option is not among the question's options")
	ErrUnknownQuestion = errors.New("no question at that position")

	// Sequencing violations.
	ErrInvalidState         = errors.New("operation not valid in the current session state")
	ErrAlreadySubmitted     = errors.New("session already submitted")
	ErrIncompleteSubmission = errors.New("not every question has a stored answer")
	ErrTimeExpired          = errors.New("module time limit expired")
)
