package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a display message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts low-level persistence errors to user-facing codes.
// Sensitive driver detail stays out of the response.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint violations

	// Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		if strings.Contains(errStrLower, "email") || strings.Contains(errStrLower, "idx_users_email") {
			return ErrorInfo{
				Code:    AuthEmailAlreadyExists,
				Message: "That email address is already registered",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "That record already exists",
		}
	}

	// Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		if strings.Contains(errStrLower, "report_id") || strings.Contains(errStrLower, "fk_reports") {
			return ErrorInfo{
				Code:    ReportNotFound,
				Message: "The referenced report does not exist",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "A referenced record does not exist",
		}
	}

	// Not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 3. Network / connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	// 4. Default internal error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Something went wrong. Please try again later",
	}
}

// ParseAndRespond parses an error and writes the JSON error response
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "report") || strings.Contains(contextLower, "claim") {
		return ReportNotFound
	}
	if strings.Contains(contextLower, "notification") {
		return NotificationNotFound
	}
	return ReportNotFound
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "report") || strings.Contains(contextLower, "claim") {
		return "Report not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "notification") {
		return "Notification not found"
	}
	return "The requested record was not found"
}
