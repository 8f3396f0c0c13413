package shared

// DomainError is a business rule failure with a stable code clients can
// switch on. Field names the offending input when there is one.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a specific error such as
// NewDomainError("NOT_FOUND", "Product not found") matches ErrNotFound.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// OnField returns a copy of e attributed to field
func (e *DomainError) OnField(field string) *DomainError {
	c := *e
	c.Field = field
	return &c
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewFieldError creates a domain error attributed to one input field
func NewFieldError(field, code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Field: field}
}

var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
