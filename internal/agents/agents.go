// Package agents exposes the three OpenAI-backed personas the planner drives:
// a destination researcher, a hotel/restaurant finder, and an itinerary
// writer. Each is a thin prompt wrapper over chat completions.
package agents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"

	"github.com/Domenick1991/travelplanner/internal/retry"
)

type Agent struct {
	name         string
	model        openai.ChatModel
	instructions string
	client       openai.Client
}

func New(client openai.Client, model, name, instructions string) *Agent {
	return &Agent{
		name:         name,
		model:        openai.ChatModel(model),
		instructions: instructions,
		client:       client,
	}
}

func (a *Agent) Name() string {
	return a.name
}

// Invoke sends prompt to the model and returns the completion text. A 429
// from the provider is wrapped with retry.ErrRateLimited so the caller backs
// off exponentially.
func (a *Agent) Invoke(ctx context.Context, prompt string) (string, error) {
	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.instructions),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%s: %w", a.name, retry.ErrRateLimited)
		}
		return "", fmt.Errorf("%s: %w", a.name, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: completion has no choices", a.name)
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s: completion is empty", a.name)
	}
	return content, nil
}

func NewResearcher(client openai.Client, model string) *Agent {
	return New(client, model, "research",
		"You are a travel researcher. Given a destination and trip preferences, "+
			"list the best attractions and activities as concise markdown bullet points. "+
			"Ground every suggestion in well-known, real places.")
}

func NewLodgingFinder(client openai.Client, model string) *Agent {
	return New(client, model, "lodging",
		"You are a hotel and restaurant scout. Given a destination, budget and hotel "+
			"rating preference, list the best hotels and restaurants near popular "+
			"attractions as concise markdown bullet points, one option per line.")
}

func NewItineraryPlanner(client openai.Client, model string) *Agent {
	return New(client, model, "itinerary",
		"You are an itinerary writer. Combine the supplied research, flight options "+
			"and lodging suggestions into a warm, day-by-day travel itinerary in prose. "+
			"Do not invent flights or hotels that are not in the supplied data.")
}
