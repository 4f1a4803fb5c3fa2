package srvcerror

import "net/http"

// Error is a service-layer error with a stable machine code, a message that
// is safe to show to the caller, and an optional private debug cause.
type Error struct {
	errorCode string
	msgToUser string // public
	dbgInfo   error  // private, for debugging

	httpStatus int // optional, for HTTP responses
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfo
}

func (e *Error) Unwrap() error {
	return e.dbgInfo
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfo = err
	return e
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServerError,
		"internal server error",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
