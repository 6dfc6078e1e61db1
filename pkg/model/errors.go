package model

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrNotFound          = errors.New("audio file not found")
	ErrTooSmall          = errors.New("audio file too small")
	ErrTranscription     = errors.New("transcription failed")
	ErrCleanup           = errors.New("text cleanup failed")
)

// MissingCredentialError is fatal and raised before any network activity.
type MissingCredentialError struct {
	EnvVar string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s environment variable is required", e.EnvVar)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return "Audio file not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type TooSmallError struct {
	Path    string
	Size    int64
	MinSize int64
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf(
		"Audio file is too small - likely silent or no audio recorded (%d bytes, minimum %d)",
		e.Size,
		e.MinSize,
	)
}

func (e *TooSmallError) Is(target error) bool {
	return target == ErrTooSmall
}

// TranscriptionError is fatal: there is no fallback value for a missing transcript.
type TranscriptionError struct {
	Provider string
	Err      error
}

func (e *TranscriptionError) Error() string {
	if e.Err == nil {
		return ErrTranscription.Error()
	}
	return e.Err.Error()
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

func (e *TranscriptionError) Is(target error) bool {
	return target == ErrTranscription
}

// CleanupError never leaves the cleanup stage; it only feeds the diagnostic log.
type CleanupError struct {
	Model string
	Err   error
}

func (e *CleanupError) Error() string {
	if e.Err == nil {
		return ErrCleanup.Error()
	}
	return e.Err.Error()
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

func (e *CleanupError) Is(target error) bool {
	return target == ErrCleanup
}
