package response

// Stable machine-checkable error kinds, one per entry in the failure
// taxonomy. The HTTP status carries the class; the kind names the exact
// failure.
const (
	KindValidation         = "validation_error"
	KindDuplicateEmail     = "duplicate_email"
	KindInvalidCredentials = "invalid_credentials"
	KindInvalidToken       = "invalid_or_expired_token"
	KindForbidden          = "forbidden"
	KindNotFound           = "not_found"
	KindInternal           = "internal_error"
)
