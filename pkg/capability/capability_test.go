package capability_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/conveyorhq/conveyor/pkg/capability"
	"github.com/conveyorhq/conveyor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeather_Invoke(t *testing.T) {
	t.Parallel()

	weather := capability.NewWeather()

	output, err := weather.Invoke(t.Context(), "What is the weather in Berlin?", models.AgentOutput{})
	require.NoError(t, err)

	assert.Equal(t, "Berlin", output.Data["location"])
	assert.Contains(t, output.Text, "location: Berlin ### temperature: ")

	temperature, ok := output.Data["temperature"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, temperature, 62)
	assert.LessOrEqual(t, temperature, 82)
}

func TestWeather_Deterministic(t *testing.T) {
	t.Parallel()

	weather := capability.NewWeather()

	first, err := weather.Invoke(t.Context(), "weather in Tokyo", models.AgentOutput{})
	require.NoError(t, err)

	second, err := weather.Invoke(t.Context(), "forecast in Tokyo", models.AgentOutput{})
	require.NoError(t, err)

	assert.Equal(t, first.Data["temperature"], second.Data["temperature"])
}

func TestWeather_LocationFallsBackToLastWord(t *testing.T) {
	t.Parallel()

	weather := capability.NewWeather()

	output, err := weather.Invoke(t.Context(), "weather forecast Paris.", models.AgentOutput{})
	require.NoError(t, err)

	assert.Equal(t, "Paris", output.Data["location"])
}

func TestWeather_EmptyPrompt(t *testing.T) {
	t.Parallel()

	weather := capability.NewWeather()

	_, err := weather.Invoke(t.Context(), "", models.AgentOutput{})
	require.Error(t, err)
	assert.True(t, models.IsCapabilityError(err))
}

func TestBuildSummarizerPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := capability.BuildSummarizerPrompt("Summarize this reading", models.AgentOutput{
		Text: "location: Berlin ### temperature: 75",
		Data: map[string]any{"temperature": 75},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "===== INPUT =====")
	assert.Contains(t, prompt, "Text Content:\nlocation: Berlin ### temperature: 75")
	assert.Contains(t, prompt, `"temperature": 75`)
	assert.Contains(t, prompt, "===== TASK =====\nSummarize this reading")
}

func TestSummarizer_CollapsesAndTruncates(t *testing.T) {
	t.Parallel()

	summarizer := capability.NewSummarizer()

	output, err := summarizer.Invoke(t.Context(), "Summarize", models.AgentOutput{
		Text: "line one\n\n  line   two\t" + strings.Repeat("filler ", 100),
		Data: map[string]any{},
	})
	require.NoError(t, err)

	assert.NotContains(t, output.Text, "\n")
	assert.NotContains(t, output.Text, "  ")
	assert.LessOrEqual(t, utf8.RuneCountInString(output.Text), 280)
}

func TestSummarizer_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	summarizer := capability.NewSummarizer()

	output, err := summarizer.Invoke(t.Context(), "Zusammenfassen", models.AgentOutput{
		Text: strings.Repeat("Käse über alles ", 50),
		Data: map[string]any{},
	})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(output.Text))
	assert.Equal(t, 280, utf8.RuneCountInString(output.Text))
}
