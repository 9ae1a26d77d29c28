package roadwatch

import "fmt"

// ModelLoadError is returned when a cascade classifier definition file is
// missing or cannot be parsed. It occurs at detector construction only and
// is fatal, no frames are processed after it.
type ModelLoadError struct {
	// Class is the object class the cascade was being loaded for
	Class string
	// Path of the cascade definition file
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading %s cascade %s: %v", e.Class, e.Path, e.Err)
	}
	return fmt.Sprintf("loading %s cascade %s: cascade is empty or invalid", e.Class, e.Path)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// SourceOpenError is returned when the video source cannot be opened, either
// a missing/unreadable file or an invalid camera index. It occurs at session
// start only and is fatal.
type SourceOpenError struct {
	// Source is the identifier that failed to open, a file path or
	// camera index
	Source string
	Err    error
}

func (e *SourceOpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("opening video source %q: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("opening video source %q: source could not be opened", e.Source)
}

func (e *SourceOpenError) Unwrap() error {
	return e.Err
}

// EncodingError is returned when the output video writer cannot be opened or
// rejects a frame, such as a frame whose dimensions differ from the first
// frame recorded. It is fatal to the session.
type EncodingError struct {
	// Path of the output video file
	Path string
	// Msg describes the failure when no underlying error is available
	Msg string
	Err error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encoding output video %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("encoding output video %s: %s", e.Path, e.Msg)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
