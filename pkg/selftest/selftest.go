// Package selftest checks that the transcription provider is reachable with
// the configured credential.
package selftest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Nephrolytics-ai/voxscribe/pkg/logging"
	"github.com/Nephrolytics-ai/voxscribe/pkg/model"
	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

var speechModelMarkers = []string{"whisper", "voxtral"}

const (
	hintInvalidKey   = "This usually means your API key is invalid"
	hintConnectivity = "This usually means a network connectivity issue"
)

type Report struct {
	Provider     string
	ModelCount   int
	SpeechModels []string
}

// Run lists the provider's models and writes a human readable report to out.
// On failure it writes the error and, when one applies, a hint.
func Run(ctx context.Context, lister model.ModelLister, out io.Writer) (Report, error) {
	log := logging.NewLogger(ctx)
	report := Report{Provider: lister.Name()}

	fmt.Fprintf(out, "Testing %s API connection...\n", report.Provider)
	ids, err := lister.ListModels(ctx)
	if err != nil {
		log.Debugf("model listing failed: %v", err)
		fmt.Fprintf(out, "API test failed: %v\n", err)
		if hint := Hint(err); hint != "" {
			fmt.Fprintln(out, hint)
		}
		return report, utils.WrapIfNotNil(err)
	}

	report.ModelCount = len(ids)
	report.SpeechModels = SpeechModels(ids)

	fmt.Fprintln(out, "API connection successful")
	fmt.Fprintf(out, "Found %d available models\n", report.ModelCount)
	if len(report.SpeechModels) == 0 {
		fmt.Fprintln(out, "No Whisper/speech models found")
	} else {
		fmt.Fprintln(out, "Available speech models:")
		for _, id := range report.SpeechModels {
			fmt.Fprintf(out, "   - %s\n", id)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "API test completed successfully!")
	return report, nil
}

// SpeechModels keeps the ids that name a speech-to-text model, in order.
func SpeechModels(ids []string) []string {
	out := make([]string, 0)
	for _, id := range ids {
		for _, marker := range speechModelMarkers {
			if strings.Contains(id, marker) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case utils.ContainsErrorSubstring(err, "401"):
		return hintInvalidKey
	case utils.ContainsAnyErrorSubstring(err, "network", "no such host", "ENOTFOUND", "connection refused"):
		return hintConnectivity
	}
	return ""
}
