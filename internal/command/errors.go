package command

// UserError is a command failure whose Message is safe to show to the user.
type UserError struct {
	Message string
	Err     error
}

// NewUserError returns a UserError showing message and wrapping err.
func NewUserError(message string, err error) *UserError {
	return &UserError{Message: message, Err: err}
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}
