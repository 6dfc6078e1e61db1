package mistral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/stretchr/testify/suite"
)

type receivedUpload struct {
	authorization string
	filename      string
	contentType   string
	size          int
	model         string
	language      string
}

type TranscriberSuite struct {
	suite.Suite
	server   *httptest.Server
	received receivedUpload
	handler  http.HandlerFunc
}

func TestTranscriberSuite(t *testing.T) {
	suite.Run(t, new(TranscriberSuite))
}

func (s *TranscriberSuite) SetupTest() {
	s.received = receivedUpload{}
	s.handler = s.jsonTranscription
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))
}

func (s *TranscriberSuite) TearDownTest() {
	s.server.Close()
}

func (s *TranscriberSuite) capture(r *http.Request) bool {
	if r.URL.Path != "/v1/audio/transcriptions" || r.Method != http.MethodPost {
		return false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return false
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	s.received = receivedUpload{
		authorization: r.Header.Get("Authorization"),
		filename:      header.Filename,
		contentType:   header.Header.Get("Content-Type"),
		size:          len(data),
		model:         r.FormValue("model"),
		language:      r.FormValue("language"),
	}
	return true
}

func (s *TranscriberSuite) jsonTranscription(w http.ResponseWriter, r *http.Request) {
	if !s.capture(r) {
		http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": "voxtral-mini-2507",
		"text":  " um so like i think uh this works ",
		"usage": map[string]any{
			"prompt_audio_seconds": 3.5,
			"prompt_tokens":        12,
			"completion_tokens":    9,
			"total_tokens":         21,
		},
	})
}

func (s *TranscriberSuite) transcriber() *Transcriber {
	transcriber, err := NewTranscriber(
		model.WithAuthToken("test-key"),
		model.WithURL(s.server.URL+"/v1/"),
	)
	s.Require().NoError(err)
	return transcriber
}

func (s *TranscriberSuite) request() model.TranscriptionRequest {
	return model.TranscriptionRequest{
		Payload:        make([]byte, 5000),
		Filename:       "memo.wav",
		MIMEType:       "audio/wav",
		Language:       "en",
		ResponseFormat: model.TranscriptionFormatText,
	}
}

func (s *TranscriberSuite) TestTranscribeUploadsMultipartAndParsesJSON() {
	result, err := s.transcriber().Transcribe(context.Background(), s.request())

	s.Require().NoError(err)
	s.Equal(" um so like i think uh this works ", result.Text)
	s.Equal("Bearer test-key", s.received.authorization)
	s.Equal("memo.wav", s.received.filename)
	s.Equal("audio/wav", s.received.contentType)
	s.Equal(5000, s.received.size)
	s.Equal(defaultAudioTranscriptionModelName, s.received.model)
	s.Equal("en", s.received.language)

	s.Equal(providerName, result.Metadata[model.MetadataKeyProvider])
	s.Equal("voxtral-mini-2507", result.Metadata[model.MetadataKeyModel])
	s.Equal("21", result.Metadata[model.MetadataKeyTotalTokens])
	s.Equal("3.50", result.Metadata[model.MetadataKeyAudioSeconds])
	s.NotEmpty(result.Metadata[model.MetadataKeyLatencyMs])
}

func (s *TranscriberSuite) TestRequestModelOverridesDefault() {
	req := s.request()
	req.Model = "voxtral-small-latest"

	_, err := s.transcriber().Transcribe(context.Background(), req)

	s.Require().NoError(err)
	s.Equal("voxtral-small-latest", s.received.model)
}

func (s *TranscriberSuite) TestPlainTextBodyIsAccepted() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.capture(r)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, "  hello there\n")
	}

	result, err := s.transcriber().Transcribe(context.Background(), s.request())

	s.Require().NoError(err)
	s.Equal("  hello there", result.Text)
}

func (s *TranscriberSuite) TestMissingTextYieldsEmptyTranscript() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.capture(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"model":"voxtral-mini-latest"}`)
	}

	result, err := s.transcriber().Transcribe(context.Background(), s.request())

	s.Require().NoError(err)
	s.Equal("", result.Text)
}

func (s *TranscriberSuite) TestUnauthorizedReturnsStatusInError() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"Unauthorized"}`)
	}

	_, err := s.transcriber().Transcribe(context.Background(), s.request())

	s.Require().Error(err)
	var apiErr *apiError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)
	s.Contains(err.Error(), "401")
	s.Contains(err.Error(), "Unauthorized")
}

func (s *TranscriberSuite) TestDetailErrorPayload() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = fmt.Fprint(w, `{"detail":[{"msg":"field required"}]}`)
	}

	_, err := s.transcriber().Transcribe(context.Background(), s.request())

	s.Require().Error(err)
	s.Contains(err.Error(), "422")
	s.Contains(err.Error(), "field required")
}

func (s *TranscriberSuite) TestEmptyPayloadFailsWithoutRequest() {
	called := false
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}
	req := s.request()
	req.Payload = nil

	_, err := s.transcriber().Transcribe(context.Background(), req)

	s.Require().Error(err)
	s.False(called)
}

func (s *TranscriberSuite) TestListModels() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"object":"list","data":[{"id":"mistral-large-latest"},{"id":"voxtral-mini-latest"}]}`)
	}

	ids, err := s.transcriber().ListModels(context.Background())

	s.Require().NoError(err)
	s.Equal([]string{"mistral-large-latest", "voxtral-mini-latest"}, ids)
}

func (s *TranscriberSuite) TestMissingKeyFailsConstruction() {
	s.T().Setenv(envMistralAPIKey, "")

	_, err := NewTranscriber(model.WithURL(s.server.URL))

	s.Require().Error(err)
	s.True(errors.Is(err, model.ErrMissingCredential))
}

func (s *TranscriberSuite) TestEscapeQuotes() {
	s.Equal(`my \"memo\".wav`, escapeQuotes(`my "memo".wav`))
}
