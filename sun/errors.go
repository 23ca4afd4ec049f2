package sun

import "fmt"

// InvalidInputError represents an input value outside the valid domain
// of the calculation: an out-of-range latitude or longitude, a non-finite
// number, or an instant that cannot be expressed as a finite Julian day.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for field '%s': %s", e.Field, e.Message)
}

// NumericDomainError represents an intermediate value that drifted outside
// the mathematical domain of the operation consuming it. For valid
// geographic and time inputs this never happens; the check exists so that
// extreme synthetic inputs fail loudly instead of propagating NaN.
type NumericDomainError struct {
	Op    string
	Value float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("numeric domain error in %s: %v is outside [-1, 1]", e.Op, e.Value)
}
