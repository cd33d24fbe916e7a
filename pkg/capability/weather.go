package capability

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/conveyorhq/conveyor/pkg/models"
)

// Weather is a local stand-in for the hosted weather agent. It extracts a
// location from the prompt and produces the same output contract the hosted
// agent does: a "location: X ### temperature: N" text plus structured data.
type Weather struct{}

func NewWeather() *Weather {
	return &Weather{}
}

func (w *Weather) Name() string {
	return "weather"
}

func (w *Weather) Invoke(_ context.Context, userPrompt string, input models.AgentOutput) (models.AgentOutput, error) {
	location := extractLocation(userPrompt + input.Text)
	if location == "" {
		return models.AgentOutput{}, models.NewCapabilityError(w.Name(), errors.New("no location in prompt"))
	}

	temperature := temperatureFor(location)

	return models.AgentOutput{
		Text: fmt.Sprintf("location: %s ### temperature: %d", location, temperature),
		Data: map[string]any{
			"location":    location,
			"temperature": temperature,
		},
	}, nil
}

// extractLocation takes the text after an "in" marker, or the last word of
// the prompt when no marker is present.
func extractLocation(prompt string) string {
	fields := strings.Fields(prompt)
	if len(fields) == 0 {
		return ""
	}

	for i := len(fields) - 2; i >= 0; i-- {
		if strings.EqualFold(fields[i], "in") {
			return strings.Trim(strings.Join(fields[i+1:], " "), ".,!?")
		}
	}

	return strings.Trim(fields[len(fields)-1], ".,!?")
}

// temperatureFor derives a stable fake temperature in the 62..82 range so
// repeated runs are deterministic.
func temperatureFor(location string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(location)))

	return 72 + int(h.Sum32()%21) - 10
}
