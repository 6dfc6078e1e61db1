package model

import (
	"context"
	"path/filepath"
)

// Transcriber is implemented by every speech-to-text provider.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionResult, error)
	Name() string
}

// AudioArtifact is resolved once at pipeline start and never mutated.
type AudioArtifact struct {
	Path     string
	Size     int64
	MIMEType string
}

func (a AudioArtifact) Filename() string {
	return filepath.Base(a.Path)
}

// SizeMB reports the size in mebibytes.
func (a AudioArtifact) SizeMB() float64 {
	return float64(a.Size) / 1024 / 1024
}

type TranscriptionFormat string

const (
	TranscriptionFormatText TranscriptionFormat = "text"
	TranscriptionFormatJSON TranscriptionFormat = "json"
)

type TranscriptionRequest struct {
	Payload  []byte
	Filename string
	MIMEType string
	// Model may be empty, in which case the provider uses its default speech model.
	Model          string
	Language       string
	ResponseFormat TranscriptionFormat
}

type TranscriptionResult struct {
	Text     string
	Metadata GenerationMetadata
}
