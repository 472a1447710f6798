package commitsync

import "errors"

var (
	// ErrUnknownProfile is returned for profile names with no built-in match.
	ErrUnknownProfile = errors.New("commitsync: unknown profile")
	// ErrMissingControl is returned when a required control is not supplied.
	ErrMissingControl = errors.New("commitsync: missing control")
	// ErrAlreadyMounted is returned by a second Mount without Unmount.
	ErrAlreadyMounted = errors.New("commitsync: already mounted")
)
