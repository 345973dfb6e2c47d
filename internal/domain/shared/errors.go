package shared

// DomainError is a business rule violation with a stable machine-readable
// code. Handlers map the code to an HTTP status and response body.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError pairs a code with its operator-facing message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared by every bounded context.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientArea    = NewDomainError("INSUFFICIENT_AREA", "Insufficient remaining area in parcel")
	ErrInsufficientFunds   = NewDomainError("INSUFFICIENT_FUNDS", "Amount exceeds the available balance")
	ErrInvariantViolation  = NewDomainError("INVARIANT_VIOLATION", "A domain invariant was violated after a write")
)

// IsRetryable reports whether an error is a transient failure that is safe to
// retry as a whole operation (storage contention, optimistic lock conflicts).
func IsRetryable(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == ErrConcurrencyConflict.Code
}
