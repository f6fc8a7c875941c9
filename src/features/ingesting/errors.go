package ingesting

import "fmt"

// ValidationError reports a missing or malformed request field. It is raised
// before any side effect has been performed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// CommitError reports a failed transaction commit. The whole album creation
// has been rolled back when it is returned.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("failed to commit album: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
