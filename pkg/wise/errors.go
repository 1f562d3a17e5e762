package wise

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// InvalidCredentialError means the client could not even be constructed -
// the token does not look like an API token or the private key is unusable.
type InvalidCredentialError struct {
	ErrorMessage
}

type ProfileFetchError struct {
	ErrorMessage
}

type NoMatchingProfileError struct {
	ErrorMessage
}

type BalanceFetchError struct {
	ErrorMessage
}

type StatementFetchError struct {
	ErrorMessage
}

type ActivityFetchError struct {
	ErrorMessage
}

type CashbackDetailError struct {
	ErrorMessage
}

func NewInvalidCredentialError(message string) *InvalidCredentialError {
	return &InvalidCredentialError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewProfileFetchError(message string) *ProfileFetchError {
	return &ProfileFetchError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewNoMatchingProfileError(message string) *NoMatchingProfileError {
	return &NoMatchingProfileError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewBalanceFetchError(message string) *BalanceFetchError {
	return &BalanceFetchError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewStatementFetchError(message string) *StatementFetchError {
	return &StatementFetchError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewActivityFetchError(message string) *ActivityFetchError {
	return &ActivityFetchError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewCashbackDetailError(message string) *CashbackDetailError {
	return &CashbackDetailError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}
