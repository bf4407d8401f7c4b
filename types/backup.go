package types

import "fmt"

// BackupError distinguishes failures of the best-effort cloud backup upload.
// Ignorable failures are logged and swallowed by the rotation finalizer; all
// others abort the attempt as transient.
type BackupError struct {
	Ignorable bool
	Err       error
}

func (e *BackupError) Error() string {
	if e.Ignorable {
		return fmt.Sprintf("ignorable backup error: %v", e.Err)
	}
	return fmt.Sprintf("backup error: %v", e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}

func NewIgnorableBackupError(err error) *BackupError {
	return &BackupError{Ignorable: true, Err: err}
}

func NewFatalBackupError(err error) *BackupError {
	return &BackupError{Ignorable: false, Err: err}
}
