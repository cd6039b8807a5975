package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or bad signature
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token blacklisted
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Admin gate (ADMIN_) ====================
	AdminInvalidCredentials = "ADMIN_INVALID_CREDENTIALS" // wrong shared secret
	AdminSessionInvalid     = "ADMIN_SESSION_INVALID"     // missing/expired session token

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // non-numeric id
	ValidationRequired     = "VALIDATION_REQUIRED"      // required field blank

	// ==================== Reports (REPORT_) ====================
	ReportNotFound    = "REPORT_NOT_FOUND"    // no report with that id
	ReportInvalidType = "REPORT_INVALID_TYPE" // type is not lost/found

	// ==================== Claims (CLAIM_) ====================
	ClaimInvalidState    = "CLAIM_INVALID_STATE"    // state precondition not met
	ClaimSelfClaim       = "CLAIM_SELF_CLAIM"       // finder claiming own found item
	ClaimAnswersRequired = "CLAIM_ANSWERS_REQUIRED" // verification answers absent

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // non-image content type
	UploadFailed          = "UPLOAD_FAILED"            // presign/upload failed

	// ==================== Notifications (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"
	NotificationDenied   = "NOTIFICATION_DENIED" // belongs to another user

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
