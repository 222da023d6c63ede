package common

import (
	"errors"
	"net/http"
)

// ErrorResponse API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CustomError carries an error code, a user-facing message and the HTTP status
// the API layer answers with.
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches any CustomError with the same code.
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError is a user-correctable input problem. Its message is shown
// to the caller as a soft warning.
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest      = "INVALID_REQUEST"      // 400
	ErrCodeValidationFailed    = "VALIDATION_FAILED"    // 400
	ErrCodeUnauthorized        = "UNAUTHORIZED"         // 401
	ErrCodeNotFound            = "NOT_FOUND"            // 404
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"    // 429
	ErrCodeInternalError       = "INTERNAL_ERROR"       // 500
	ErrCodePersistenceFailed   = "PERSISTENCE_FAILED"   // 500
	ErrCodeProviderUnavailable = "PROVIDER_UNAVAILABLE" // 502
	ErrCodeMalformedResponse   = "MALFORMED_RESPONSE"   // 502
)

// 預定義錯誤
var (
	ErrInvalidRequest = NewError(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest, nil)
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "Login required", http.StatusUnauthorized, nil)
	ErrNotFound       = NewError(ErrCodeNotFound, "Recipe not found.", http.StatusNotFound, nil)
	ErrInternalError  = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)

	// ErrDuplicateAction is returned while an identical toggle is still in flight.
	ErrDuplicateAction = NewError(ErrCodeTooManyRequests, "Please wait before performing this action again.", http.StatusTooManyRequests, nil)
	// ErrPersistence hides storage failures behind a generic message.
	ErrPersistence = NewError(ErrCodePersistenceFailed, "An error occurred while processing your request.", http.StatusInternalServerError, nil)

	ErrProviderUnavailable = NewError(ErrCodeProviderUnavailable, "Recipe provider unavailable", http.StatusBadGateway, nil)
	ErrMalformedResponse   = NewError(ErrCodeMalformedResponse, "Recipe provider returned an unexpected response", http.StatusBadGateway, nil)
)
