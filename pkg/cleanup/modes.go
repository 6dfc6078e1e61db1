package cleanup

import (
	"fmt"
	"strings"
)

type Mode string

const (
	ModeFillerRemoval    Mode = "filler-removal"
	ModeGeneralAssistant Mode = "general-assistant"
)

const (
	fillerRemovalInstruction = "You are a text cleanup assistant. Remove filler words (um, uh, like, you know, etc.), " +
		"fix grammar, improve readability, and format the text nicely while preserving the original meaning and tone. " +
		"Keep the text concise but natural. Do not add content that wasn't in the original text. " +
		"Respond with only the cleaned text."
	generalAssistantInstruction = "You are a helpful assistant who gives brief, information dense answers."
)

// Template is one entry of the closed mode table.
type Template struct {
	Model             string
	SystemInstruction string
	Temperature       float64
	UserContent       func(raw string) string
}

var defaultTemplates = map[Mode]Template{
	ModeFillerRemoval: {
		Model:             "gpt-5-nano",
		SystemInstruction: fillerRemovalInstruction,
		Temperature:       0.3,
		UserContent: func(raw string) string {
			return "Please clean up and format this transcribed text:\n\n" + raw
		},
	},
	ModeGeneralAssistant: {
		Model:             "gpt-5-mini",
		SystemInstruction: generalAssistantInstruction,
		Temperature:       1,
		UserContent: func(raw string) string {
			return raw
		},
	},
}

// ModeFromFlag maps the --alt-mode switch to a mode.
func ModeFromFlag(alt bool) Mode {
	if alt {
		return ModeGeneralAssistant
	}
	return ModeFillerRemoval
}

func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(value)))
	if mode == "" {
		return ModeFillerRemoval, nil
	}
	if _, ok := defaultTemplates[mode]; !ok {
		return "", fmt.Errorf("unknown cleanup mode %q", value)
	}
	return mode, nil
}

// DefaultTemplate returns the built-in template for mode.
func DefaultTemplate(mode Mode) (Template, bool) {
	template, ok := defaultTemplates[mode]
	return template, ok
}

// Modes lists the supported modes in a stable order.
func Modes() []Mode {
	return []Mode{ModeFillerRemoval, ModeGeneralAssistant}
}
