package agent

import (
	"context"

	"github.com/i474232898/weather-agent/internal/common"
)

// ModelType names a class of text generation model a plugin can serve.
type ModelType string

const ModelTextSmall ModelType = "TEXT_SMALL"

// GenerateTextParams is the input of a text generation model.
type GenerateTextParams struct {
	Prompt        string
	StopSequences []string
}

// ModelHandler generates text for a prompt.
type ModelHandler func(ctx context.Context, params GenerateTextParams) (string, error)

// TextSmall is a canned model: it only explains what the agent can do.
func TextSmall(_ context.Context, params GenerateTextParams) (string, error) {
	if common.HasAnyFold(params.Prompt, "weather") {
		return "I can help you get weather information for any location. Just ask about the weather in a specific city.", nil
	}
	return "I am a weather agent that can provide weather information through Fetch.ai integration.", nil
}
