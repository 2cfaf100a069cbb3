package application

import "errors"

var (
	// ErrSubmissionInProgress rejects a second submit for a session whose
	// first submit has not resolved yet.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrSubmitTimeout marks a submission that exceeded the bounded
	// timeout; the cart is left untouched for retry.
	ErrSubmitTimeout = errors.New("order submission timed out")
)
