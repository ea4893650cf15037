package shared

// DomainError is an application-facing failure with a stable code that the
// HTTP layer maps onto response status and error envelope.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel domain errors shared across packages
var (
	// ErrNotFound reports a missing local record (order lookups, mostly)
	ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
	// ErrInvalidInput reports a caller-supplied value that fails validation
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrConcurrencyConflict reports a lost optimistic-locking race on a
	// metadata write
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	// ErrLocked reports that another fulfillment attempt holds the
	// per-order lock
	ErrLocked = NewDomainError("LOCKED", "Resource is locked by another operation")
)
