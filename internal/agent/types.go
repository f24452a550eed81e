package agent

import "context"

// Message is an inbound conversational message.
type Message struct {
	Text string `json:"text"`
}

// State is the conversation state a host hands to providers. The weather
// provider does not read it.
type State map[string]any

// Parameter describes one named action parameter.
type Parameter struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Action is a structured entry point selected by the host's decision logic.
type Action interface {
	Name() string
	Description() string
	Parameters() map[string]Parameter
}

// Provider augments a conversational response with contextual data.
type Provider interface {
	Name() string
	Description() string
	Get(ctx context.Context, msg Message, state State) ProviderResult
}

// ProviderResult is what a Provider contributes to a response.
type ProviderResult struct {
	Text   string         `json:"text"`
	Values map[string]any `json:"values"`
	Data   map[string]any `json:"data"`
}

func emptyProviderResult(text string) ProviderResult {
	return ProviderResult{
		Text:   text,
		Values: map[string]any{},
		Data:   map[string]any{},
	}
}
