package apperrors

// Error is the error type used across the lab. Errors form a hierarchy:
// a base error value is declared per subsystem and derived errors are
// created from it with New. Is reports true for the error itself and any
// of its ancestors, so callers can match on the base value.
type Error interface {
	Error() string
	ErrorAll() string
	New(msg string) Error
	Msg(msg string) Error
	MsgErr(msg string, err ...error) Error
	Err(err ...error) Error
	Unwrap() []error
	Is(target error) bool
	SetExpandError(expand bool) Error
	SetStatusCode(code int) Error
	StatusCode() int
}
