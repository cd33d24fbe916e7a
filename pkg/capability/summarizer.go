package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/conveyorhq/conveyor/pkg/models"
)

const summarizerMaxLen = 280

// Summarizer is a local stand-in for the hosted summarizer agent. It builds
// the same prompt the hosted agent receives and returns a condensed text over
// the upstream result.
type Summarizer struct{}

func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

func (s *Summarizer) Name() string {
	return "summarizer"
}

func (s *Summarizer) Invoke(_ context.Context, userPrompt string, input models.AgentOutput) (models.AgentOutput, error) {
	prompt, err := BuildSummarizerPrompt(userPrompt, input)
	if err != nil {
		return models.AgentOutput{}, models.NewCapabilityError(s.Name(), err)
	}

	summary := truncateRunes(strings.Join(strings.Fields(prompt), " "), summarizerMaxLen)

	return models.AgentOutput{
		Text: summary,
		Data: map[string]any{},
	}, nil
}

// truncateRunes clamps s to at most max runes, never splitting a multi-byte
// character.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)

	return string(runes[:max])
}

// BuildSummarizerPrompt assembles the prompt handed to the summarizer model:
// the upstream text, the upstream structured data, then the node's task.
func BuildSummarizerPrompt(userPrompt string, input models.AgentOutput) (string, error) {
	structured, err := json.MarshalIndent(input.Data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode structured input: %w", err)
	}

	return fmt.Sprintf(
		"===== INPUT =====\nText Content:\n%s\n\nStructured Data:\n%s\n\n===== TASK =====\n%s",
		input.Text, structured, userPrompt,
	), nil
}
