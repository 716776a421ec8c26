// Package speech wraps the provider's text-to-speech and transcription
// endpoints. Both directions are best-effort: a provider failure is logged
// and resolved to an empty result so it can never block a text turn.
package speech

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// Synthesizer turns assistant replies into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) []byte
}

// Transcriber turns learner audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) string
}

// Options select the fixed model identifiers used for both call shapes.
type Options struct {
	TTSModel string
	Voice    string
	Format   string
	STTModel string
}

type Client struct {
	client *openai.Client
	opts   Options
}

func NewClient(apiKey, baseURL string, opts Options) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// Synthesize renders text to audio bytes. Empty input makes no call and
// yields nil; so does any provider failure.
func (c *Client) Synthesize(ctx context.Context, text string) []byte {
	if text == "" {
		return nil
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.opts.TTSModel),
		Voice:          openai.SpeechVoice(c.opts.Voice),
		Input:          text,
		ResponseFormat: openai.SpeechResponseFormat(c.opts.Format),
	})
	if err != nil {
		slog.Warn("Speech synthesis failed", "error", err)
		return nil
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		slog.Warn("Could not read synthesized audio", "error", err)
		return nil
	}
	return audio
}

// Transcribe posts audio as multipart form data and extracts the text field
// of the response. Empty input returns immediately; any failure or a
// response without a text field yields an empty string.
func (c *Client) Transcribe(ctx context.Context, audio []byte) string {
	if len(audio) == 0 {
		return ""
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.opts.STTModel,
		FilePath: "audio.mp3",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		slog.Warn("Transcription failed", "error", err)
		return ""
	}
	return resp.Text
}
