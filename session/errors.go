package session

import "errors"

var (
	// ErrInvalidInputKind rejects a selected file whose declared content
	// kind is not an image type. The prior session state stays intact.
	ErrInvalidInputKind = errors.New("selected file is not an image")

	// ErrNoFileSelected rejects a process trigger on an empty session.
	ErrNoFileSelected = errors.New("no file selected")

	// ErrUnrecognizedResultFormat reports a response that matches neither
	// the binary-image nor the structured-result shape.
	ErrUnrecognizedResultFormat = errors.New("unrecognized result format")

	// ErrNoDownloadableResult rejects an export when the session holds no
	// succeeded result with a displayable image.
	ErrNoDownloadableResult = errors.New("no downloadable result")
)
