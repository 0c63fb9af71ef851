package partnership

import "fmt"

// ErrorKind is a workflow failure class.
type ErrorKind int

const (
	// ErrorKindValidation means malformed or missing input.
	ErrorKindValidation ErrorKind = iota + 1
	// ErrorKindAuthentication means bad credentials.
	ErrorKindAuthentication
	// ErrorKindAuthorization means the caller is not admin, not approved or
	// not authenticated.
	ErrorKindAuthorization
	// ErrorKindNotFound means a missing entity.
	ErrorKindNotFound
	// ErrorKindConflict means a store uniqueness violation.
	ErrorKindConflict
)

// String converts error kind to string.
func (kind ErrorKind) String() string {
	switch kind {
	case ErrorKindValidation:
		return "validation"
	case ErrorKindAuthentication:
		return "authentication"
	case ErrorKindAuthorization:
		return "authorization"
	case ErrorKindNotFound:
		return "not found"
	case ErrorKindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a workflow failure which message is safe to show to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (err *Error) Error() string { return err.Message }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func newValidationError(format string, args ...interface{}) *Error {
	return newError(ErrorKindValidation, format, args...)
}

var (
	// ErrInvalidCredentials is returned for unknown e-mail and for wrong
	// password alike.
	ErrInvalidCredentials = newError(ErrorKindAuthentication,
		"Invalid email or password")
	// ErrAccountNotActivated is returned at login if the partner has no
	// password yet.
	ErrAccountNotActivated = newError(ErrorKindAuthorization,
		"Account is not activated. Wait for the email with the password.")
	// ErrPendingApproval is returned at login if the partner application is
	// not approved yet.
	ErrPendingApproval = newError(ErrorKindAuthorization,
		"Your application is under review. Wait for approval.")
	// ErrAuthRequired is returned if the request has no caller identity.
	ErrAuthRequired = newError(ErrorKindAuthorization, "Authentication required")
	// ErrNotAdmin is returned if the caller is not an admin.
	ErrNotAdmin = newError(ErrorKindAuthorization, "Access denied. Admin only.")
	// ErrPartnerNotApproved is returned if the caller is not an approved
	// partner.
	ErrPartnerNotApproved = newError(ErrorKindAuthorization,
		"Partner not found or not approved")
	// ErrForeignLeads is returned if a partner requests leads of another one.
	ErrForeignLeads = newError(ErrorKindAuthorization,
		"Access denied to leads of another partner")
	// ErrPartnerNotFound is returned if the partner does not exist.
	ErrPartnerNotFound = newError(ErrorKindNotFound, "Partner not found")
	// ErrLeadNotFound is returned if the lead does not exist.
	ErrLeadNotFound = newError(ErrorKindNotFound, "Lead not found")
	// ErrEmailAlreadyUsed is returned if the e-mail is already registered.
	ErrEmailAlreadyUsed = newError(ErrorKindConflict,
		"Partner with this email is already registered")
)
