package audio

import (
	"context"
	"os"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

// DefaultMinSize is a rough proxy for "silent or empty recording".
const DefaultMinSize int64 = 1000

type Validator struct {
	minSize int64
}

// NewValidator returns a validator rejecting files below minSize bytes.
// A non-positive minSize selects DefaultMinSize.
func NewValidator(minSize int64) *Validator {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return &Validator{minSize: minSize}
}

func (v *Validator) MinSize() int64 {
	return v.minSize
}

func (v *Validator) Validate(ctx context.Context, path string) (model.AudioArtifact, error) {
	log := logging.NewLogger(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return model.AudioArtifact{}, &model.NotFoundError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return model.AudioArtifact{}, &model.NotFoundError{Path: path}
	}

	artifact := model.AudioArtifact{
		Path: path,
		Size: info.Size(),
	}
	log.Infof("Processing audio file: %s (%.2f MB)", path, artifact.SizeMB())

	if artifact.Size < v.minSize {
		return model.AudioArtifact{}, &model.TooSmallError{
			Path:    path,
			Size:    artifact.Size,
			MinSize: v.minSize,
		}
	}

	artifact.MIMEType = ResolveMIMEType(path)
	log.Debugf("audio_artifact path=%q size=%d mime=%q", path, artifact.Size, artifact.MIMEType)
	return artifact, nil
}

// ReadPayload reads the whole artifact into memory.
func ReadPayload(artifact model.AudioArtifact) ([]byte, error) {
	payload, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}
	return payload, nil
}
