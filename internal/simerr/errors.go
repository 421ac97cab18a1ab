// Package simerr defines the core's error taxonomy. Error kinds
// are not exceptions: boundary validation returns a single InvalidInput
// value built up from accumulated violations, the same "collect then
// report once" shape a reference ConfigurationValidator uses.
package simerr

import "fmt"

// Kind classifies a SimError. Local recovery (validation, clamping, RNG
// guards) never produces one of these; only conditions the caller must be
// told about do.
type Kind int

const (
	// InvalidInput means the profile/decision/option failed boundary
	// validation. Never retried.
	InvalidInput Kind = iota
	// InsufficientPriors means MarketPriors was missing a required series.
	InsufficientPriors
	// NumericFailure means a non-finite intermediate was detected and a
	// documented fallback was substituted; the run continues but the
	// caller is told via metadata.warnings.
	NumericFailure
	// NonConvergent means an estimator (typically MLMC) hit its evaluation
	// budget before meeting its target precision.
	NonConvergent
	// Cancelled means cooperative cancellation fired at a batch boundary.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InsufficientPriors:
		return "InsufficientPriors"
	case NumericFailure:
		return "NumericFailure"
	case NonConvergent:
		return "NonConvergent"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// SimError is the one error type the core's public operations return.
type SimError struct {
	Kind       Kind
	Message    string
	Violations []string       // InvalidInput: accumulated field violations
	Fields     map[string]any // NumericFailure/NonConvergent: offending field/value
}

func (e *SimError) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Kind, e.Message, e.Violations)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a plain SimError of the given kind.
func New(kind Kind, message string) *SimError {
	return &SimError{Kind: kind, Message: message}
}

// Invalid builds an InvalidInput error from an accumulated violation list.
// Returns nil if violations is empty, so callers can write:
//
//	if err := simerr.Invalid(violations); err != nil { return err }
func Invalid(violations []string) *SimError {
	if len(violations) == 0 {
		return nil
	}
	return &SimError{Kind: InvalidInput, Message: "input validation failed", Violations: violations}
}

// Numeric builds a NumericFailure error carrying the offending field/value,
// for attachment to metadata.warnings rather than aborting the run.
func Numeric(field string, value float64, fallback string) *SimError {
	return &SimError{
		Kind:    NumericFailure,
		Message: fmt.Sprintf("non-finite value substituted with %s", fallback),
		Fields:  map[string]any{"field": field, "value": value, "fallback": fallback},
	}
}

// Invariant is panicked (never returned) when an internal invariant is
// violated — a bug, not a caller-facing condition. Fatal internal
// invariant violations indicate a bug and must panic with the failing
// invariant rather than return an error.
type Invariant struct {
	Name    string
	Detail  string
}

func (i Invariant) String() string {
	return fmt.Sprintf("invariant violated: %s (%s)", i.Name, i.Detail)
}

// PanicInvariant panics with an Invariant value.
func PanicInvariant(name, detail string) {
	panic(Invariant{Name: name, Detail: detail})
}
