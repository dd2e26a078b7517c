package webhook

import "errors"

// Log keys attached to handler failures so log aggregation can group them.
const (
	KeySkipped        = "webhook@skipped"
	KeyRetry          = "webhook@retry"
	KeyInfrastructure = "webhook@infrastructure"
)

// SkipError signals an expected condition: the handler cannot meaningfully
// process the event and it should not be retried. The event still counts as
// handled.
type SkipError struct {
	Message string
	Context map[string]any
}

func (e *SkipError) Error() string { return e.Message }

// Key returns the log key for grouping.
func (e *SkipError) Key() string { return KeySkipped }

// Skip builds a SkipError. The optional context carries structured detail
// for logs.
func Skip(message string, context map[string]any) *SkipError {
	return &SkipError{Message: message, Context: context}
}

// RetryError signals a transient condition, typically out-of-order delivery
// where a referenced row does not exist yet. The event is retried on the
// backoff schedule.
type RetryError struct {
	Message string
	Context map[string]any
	Err     error
}

func (e *RetryError) Error() string { return e.Message }

func (e *RetryError) Unwrap() error { return e.Err }

// Key returns the log key for grouping.
func (e *RetryError) Key() string { return KeyRetry }

// Retry builds a RetryError.
func Retry(message string, context map[string]any) *RetryError {
	return &RetryError{Message: message, Context: context}
}

// InfraError signals an infrastructure failure (database down, dependency
// unreachable) rather than a problem with the event itself. Always retryable.
type InfraError struct {
	Message string
	Context map[string]any
	Err     error
}

func (e *InfraError) Error() string { return e.Message }

func (e *InfraError) Unwrap() error { return e.Err }

// Key returns the log key for grouping.
func (e *InfraError) Key() string { return KeyInfrastructure }

// Infra builds an InfraError wrapping the underlying cause.
func Infra(message string, err error, context map[string]any) *InfraError {
	return &InfraError{Message: message, Context: context, Err: err}
}

// Outcome is the retry classification of a handler error.
type Outcome int

const (
	// OutcomeRetry covers RetryError and InfraError: transient, re-run later.
	OutcomeRetry Outcome = iota
	// OutcomeSkip covers SkipError: expected, do not re-run.
	OutcomeSkip
	// OutcomeUnclassified covers everything else. Treated as retryable but
	// logged at error level since it is a bug until proven otherwise.
	OutcomeUnclassified
)

// Classify maps a handler error to its retry outcome.
func Classify(err error) Outcome {
	var skip *SkipError
	if errors.As(err, &skip) {
		return OutcomeSkip
	}
	var retry *RetryError
	if errors.As(err, &retry) {
		return OutcomeRetry
	}
	var infra *InfraError
	if errors.As(err, &infra) {
		return OutcomeRetry
	}
	return OutcomeUnclassified
}

// ErrorKey returns the log key for a classified error, or "webhook@error"
// for unclassified ones.
func ErrorKey(err error) string {
	type keyed interface{ Key() string }
	var k keyed
	if errors.As(err, &k) {
		return k.Key()
	}
	return "webhook@error"
}

// ErrorContext returns the structured context attached to a classified
// error, or nil.
func ErrorContext(err error) map[string]any {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip.Context
	}
	var retry *RetryError
	if errors.As(err, &retry) {
		return retry.Context
	}
	var infra *InfraError
	if errors.As(err, &infra) {
		return infra.Context
	}
	return nil
}
