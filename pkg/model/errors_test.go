package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorKindsSuite struct {
	suite.Suite
}

func TestErrorKindsSuite(t *testing.T) {
	suite.Run(t, new(ErrorKindsSuite))
}

func (s *ErrorKindsSuite) TestMissingCredentialNamesVariable() {
	err := &MissingCredentialError{EnvVar: "MISTRAL_API_KEY"}

	s.Equal("MISTRAL_API_KEY environment variable is required", err.Error())
	s.True(errors.Is(err, ErrMissingCredential))
}

func (s *ErrorKindsSuite) TestNotFoundMatchesSentinelThroughWrapping() {
	err := fmt.Errorf("validate: %w", &NotFoundError{Path: "/tmp/missing.wav"})

	s.True(errors.Is(err, ErrNotFound))
	s.False(errors.Is(err, ErrTooSmall))

	var notFound *NotFoundError
	s.Require().True(errors.As(err, &notFound))
	s.Equal("/tmp/missing.wav", notFound.Path)
}

func (s *ErrorKindsSuite) TestTooSmallReportsSizes() {
	err := &TooSmallError{Path: "a.wav", Size: 12, MinSize: 1000}

	s.Contains(err.Error(), "too small")
	s.Contains(err.Error(), "12 bytes")
	s.True(errors.Is(err, ErrTooSmall))
}

func (s *ErrorKindsSuite) TestTranscriptionErrorWrapsCause() {
	cause := errors.New("401 unauthorized")
	err := &TranscriptionError{Provider: "Mistral", Err: cause}

	s.Equal("401 unauthorized", err.Error())
	s.True(errors.Is(err, cause))
	s.True(errors.Is(err, ErrTranscription))
	s.False(errors.Is(err, ErrCleanup))
}

func (s *ErrorKindsSuite) TestCleanupErrorWithoutCauseUsesSentinelText() {
	err := &CleanupError{Model: "gpt-5-nano"}

	s.Equal(ErrCleanup.Error(), err.Error())
	s.True(errors.Is(err, ErrCleanup))
}

func (s *ErrorKindsSuite) TestArtifactDerivedFields() {
	artifact := AudioArtifact{Path: "/recordings/memo.m4a", Size: 3 * 1024 * 1024}

	s.Equal("memo.m4a", artifact.Filename())
	s.InDelta(3.0, artifact.SizeMB(), 0.0001)
}

func (s *ErrorKindsSuite) TestSystemPromptJoinsSystemMessages() {
	req := CleanupRequest{
		Messages: []Message{
			{Role: MessageRoleSystem, Content: "first"},
			{Role: MessageRoleUser, Content: "ignored"},
			{Role: MessageRoleSystem, Content: "second"},
		},
	}

	s.Equal("first\n\nsecond", req.SystemPrompt())
}
