package speech

import (
	"fmt"
	"slices"
	"strings"

	"podcaster/internal/services"
)

// DefaultVoice is used when a request names no primary voice.
const DefaultVoice = "alloy"

var supportedVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// Voices returns the supported voice identifiers.
func Voices() []string {
	return slices.Clone(supportedVoices)
}

// NormalizeVoice lowercases and trims a voice identifier.
func NormalizeVoice(voice string) string {
	return strings.ToLower(strings.TrimSpace(voice))
}

// ValidateVoice rejects identifiers outside the supported set.
func ValidateVoice(voice string) error {
	if slices.Contains(supportedVoices, NormalizeVoice(voice)) {
		return nil
	}
	return services.Wrap(services.ErrValidation, "speech", "validate voice",
		fmt.Sprintf("unsupported voice %q (supported: %s)", voice, strings.Join(supportedVoices, ", ")), nil)
}
