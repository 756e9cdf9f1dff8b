package errors

var (
	// ErrTimeoutExceeded is returned when graceful timeout period exceeds.
	ErrTimeoutExceeded = New("Timeout exceeded")
	// GenericErrorMessage is generic error message returned to UI
	GenericErrorMessage = New("Unexpected error. Please try again later.")
	// ErrInvalidLoggerInstance is returned when logger instance is not supported.
	ErrInvalidLoggerInstance = New("Invalid logger instance")
	// ErrEmptySuite is returned when a test suite has no member test cases.
	ErrEmptySuite = New("Test suite has no test cases")
	// ErrNoNotRunStatus is returned when no status with the not_run role is configured.
	ErrNoNotRunStatus = New("No status with role not_run configured")
	// ErrImmutableField is returned when an update tries to change an immutable column.
	ErrImmutableField = New("Field cannot be modified")
	// ErrInvalidCredentials is returned when the email/password pair does not match.
	ErrInvalidCredentials = New("Invalid email or password")
	// ErrInactiveTester is returned when a deactivated tester tries to log in.
	ErrInactiveTester = New("Tester account is deactivated")
	// ErrDuplicateSuitcase is returned when a test case is already part of the suite.
	ErrDuplicateSuitcase = New("Test case already present in test suite")
	// ErrFileTooLarge is returned when the uploaded attachment exceeds the size limit.
	ErrFileTooLarge = New("Uploaded file exceeds the size limit")
	// ErrUnknownStatus is returned when a status transition references a status that does not exist.
	ErrUnknownStatus = New("Unknown status id")
	// ErrUnknownAttachment is returned when a status transition references an attachment that does not exist.
	ErrUnknownAttachment = New("Unknown attachment id")
)

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}
