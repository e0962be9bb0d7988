// Package whisper provides an OpenAI Whisper transcription adapter.
package whisper

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Adapter implements stt.Transcriber using the OpenAI audio transcription API.
type Adapter struct {
	client *openai.Client
}

// New creates a new Whisper adapter from an API key.
func New(apiKey string) *Adapter {
	return &Adapter{client: openai.NewClient(apiKey)}
}

// Transcribe sends the whole clip to the transcription endpoint.
func (a *Adapter) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string {
	return "whisper"
}

// Close is a no-op; the OpenAI client holds no connection state.
func (a *Adapter) Close() error {
	return nil
}
