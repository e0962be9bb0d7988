// Package openai provides an LLM-backed entity recognizer.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	gopenai "github.com/sashabaranov/go-openai"

	"crm-voice-ingress-service/internal/service/ner"
)

const systemPrompt = `You are a named-entity recognizer for veterinary-sales voice memos.
Extract every person and organization mentioned, in order of first appearance.
Respond with JSON only: {"entities":[{"text":"...","label":"PER"}]} where label is PER or ORG.`

// Recognizer implements ner.Recognizer using an OpenAI chat model in JSON mode.
type Recognizer struct {
	client *gopenai.Client
	model  string
}

// New creates a new OpenAI-backed recognizer.
func New(apiKey, model string) *Recognizer {
	return &Recognizer{
		client: gopenai.NewClient(apiKey),
		model:  model,
	}
}

// Recognize asks the model for the transcript's entities.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	resp, err := r.client.CreateChatCompletion(ctx, gopenai.ChatCompletionRequest{
		Model: r.model,
		ResponseFormat: &gopenai.ChatCompletionResponseFormat{
			Type: gopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []gopenai.ChatCompletionMessage{
			{Role: gopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: gopenai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ner completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("ner completion: empty response")
	}

	var payload struct {
		Entities []ner.Entity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("ner response parse: %w", err)
	}
	return payload.Entities, nil
}

// Provider returns the provider name.
func (r *Recognizer) Provider() string {
	return "openai"
}
