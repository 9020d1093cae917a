// Package captioner generates alt-text suggestions for images through the
// Anthropic API.
package captioner

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MaxSuggestions caps how many candidate captions a call returns.
const MaxSuggestions = 3

// DefaultTimeout bounds a single captioning call. There is no retry; on
// timeout the caller gets a TransportError.
const DefaultTimeout = 30 * time.Second

// ErrNotConfigured is returned when no API credentials are available.
var ErrNotConfigured = errors.New("captioning service is not configured")

// ErrMalformedResponse is returned when the service replies with something
// that cannot be parsed as a caption list.
var ErrMalformedResponse = errors.New("malformed captioning response")

// TransportError wraps a failure to reach the captioning service, including
// timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("captioning service unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

const systemPrompt = `You write alt text for website images. Given an image, return ONLY a JSON array of up to 3 candidate alt-text strings, ordered best first.

Rules:
- Each candidate is one concise sentence describing the image content
- Do not start with "Image of" or "Picture of"
- No markdown fencing or explanation, just the JSON array`

// Client wraps the Anthropic API for alt-text generation.
type Client struct {
	api     *anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

// NewClient creates a captioning client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:     &client,
		model:   anthropic.Model(model),
		timeout: DefaultTimeout,
	}
}

// Suggest returns up to MaxSuggestions candidate captions for the image,
// best first. The call is single-attempt and bounded by the client timeout.
// A nil client reports ErrNotConfigured.
func (c *Client) Suggest(ctx context.Context, imageData []byte, mimeType string) ([]string, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	if len(imageData) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	encoded := base64.StdEncoding.EncodeToString(imageData)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mimeType, encoded),
				anthropic.NewTextBlock("Write alt text for this image."),
			),
		},
	})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("%w: no text content", ErrMalformedResponse)
	}

	return parseSuggestions(text)
}

// parseSuggestions decodes the model's JSON array reply, tolerating markdown
// fencing, and truncates to MaxSuggestions.
func parseSuggestions(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var suggestions []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}
	return suggestions, nil
}
