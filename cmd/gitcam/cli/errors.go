package cli

// SilentError wraps an error whose message has already been shown to the
// user; main.go skips printing it again but still exits non-zero.
type SilentError struct {
	Err error
}

func (e *SilentError) Error() string {
	if e.Err == nil {
		return "silent error"
	}
	return e.Err.Error()
}

func (e *SilentError) Unwrap() error { return e.Err }

// NewSilentError wraps err so it is not printed twice.
func NewSilentError(err error) *SilentError {
	return &SilentError{Err: err}
}
