package serverutils

// Response is the envelope every HTTP handler returns.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func ErrorResponse(message, code string, details any) ErrorBody {
	return ErrorBody{
		Success: false,
		Message: message,
		Code:    code,
		Details: details,
	}
}

// HttpError carries an HTTP status through the handler chain to the
// error handler middleware.
type HttpError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *HttpError) Error() string {
	return e.Message
}

func NewHttpError(status int, code, message string) *HttpError {
	return &HttpError{Status: status, Code: code, Message: message}
}
