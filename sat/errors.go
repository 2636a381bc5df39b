package sat

import "github.com/pkg/errors"

// ErrInvariantViolation marks an internal consistency check failing — a
// watch list referencing a removed clause, a trail level mismatch — the
// kind of bug a correct build should never trigger, wrapped with a stack
// trace via github.com/pkg/errors so it is diagnosable wherever it
// surfaces.
var ErrInvariantViolation = errors.New("sat: internal invariant violation")

// ErrParse is a sentinel for malformed input. internal/dimacs does not wrap
// it; the parser reports failures with its own ErrMalformed.
var ErrParse = errors.New("sat: malformed input")

// WrapInvariant wraps ErrInvariantViolation with msg and a stack trace.
func WrapInvariant(msg string) error {
	return errors.Wrap(ErrInvariantViolation, msg)
}
