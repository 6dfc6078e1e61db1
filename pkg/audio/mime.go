package audio

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIMEType is used when neither the extension nor the content identifies the audio.
const DefaultMIMEType = "audio/wav"

var extensionMIMETypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
}

// ResolveMIMEType maps the file extension to a MIME tag. Unknown extensions
// fall back to content sniffing, then to DefaultMIMEType.
func ResolveMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	if mimeType, ok := extensionMIMETypes[ext]; ok {
		return mimeType
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil || detected == nil {
		return DefaultMIMEType
	}

	// Strip parameters such as "; charset=utf-8".
	mimeType := strings.TrimSpace(strings.Split(detected.String(), ";")[0])
	if !strings.HasPrefix(mimeType, "audio/") {
		return DefaultMIMEType
	}
	return mimeType
}
