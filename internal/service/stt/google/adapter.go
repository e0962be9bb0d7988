// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// Adapter implements stt.Transcriber using Google Cloud Speech-to-Text.
type Adapter struct {
	client       *speech.Client
	languageCode string
	sampleRateHz int32
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, languageCode string, sampleRateHz int32) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:       c,
		languageCode: languageCode,
		sampleRateHz: sampleRateHz,
	}, nil
}

// Transcribe runs a synchronous recognition request over the whole clip.
func (a *Adapter) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encodingFor(filename),
			SampleRateHertz: a.sampleRateHz,
			LanguageCode:    a.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(r.Alternatives[0].Transcript)
	}
	return sb.String(), nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string {
	return "google"
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

// encodingFor maps a file extension to a recognition encoding.
// Non-WAV formats carry their own headers; the service infers those.
func encodingFor(filename string) speechpb.RecognitionConfig_AudioEncoding {
	if strings.EqualFold(filepath.Ext(filename), ".wav") {
		return speechpb.RecognitionConfig_LINEAR16
	}
	return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
}
