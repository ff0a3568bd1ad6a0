package domain

import "errors"

// ErrUploadFailed is an error thrown when a transport could not deliver a file
var ErrUploadFailed = errors.New("upload failed")

// ErrUnknownSurface is an error thrown when an upload surface does not exist
var ErrUnknownSurface = errors.New("unknown upload surface")

// ErrSessionBusy is an error thrown when a session has uploads in flight
var ErrSessionBusy = errors.New("session busy")

// ErrNoFiles is an error thrown when a request carries no file
var ErrNoFiles = errors.New("no files")

// ErrFileNotAccepted is an error thrown when a file does not match a surface accept list
var ErrFileNotAccepted = errors.New("file not accepted")

// UploadFailure is the single failure kind a transport reports to a session.
// Message is shown to the user as is.
type UploadFailure struct {
	Message string
	Err     error
}

// NewUploadFailure creates an UploadFailure
func NewUploadFailure(message string, err error) *UploadFailure {
	return &UploadFailure{Message: message, Err: err}
}

func (u *UploadFailure) Error() string {
	if u.Err != nil {
		return u.Message + ": " + u.Err.Error()
	}
	return u.Message
}

// Is makes every UploadFailure match ErrUploadFailed
func (u *UploadFailure) Is(target error) bool {
	return target == ErrUploadFailed
}

func (u *UploadFailure) Unwrap() error {
	return u.Err
}
