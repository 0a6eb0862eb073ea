package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	noTextMarker = "NO_TEXT_FOUND"
	maxRetries   = 3
	initialDelay = 1 * time.Second
)

// VisionConfig points the vision engine at an OpenAI-compatible endpoint.
type VisionConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Vision performs OCR with a multimodal chat model (OpenRouter by default).
type Vision struct {
	cfg    VisionConfig
	client *openai.Client
}

func NewVision(cfg VisionConfig) *Vision {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Vision{cfg: cfg, client: openai.NewClientWithConfig(clientCfg)}
}

func (v *Vision) Name() string { return "vision" }

// Probe validates the configuration and that the endpoint accepts the key.
func (v *Vision) Probe(ctx context.Context) error {
	if v.cfg.APIKey == "" {
		return fmt.Errorf("%w: API key is required for the vision engine", ErrEngineUnavailable)
	}
	if v.cfg.Model == "" {
		return fmt.Errorf("%w: VISION_MODEL is required for the vision engine", ErrEngineUnavailable)
	}
	if _, err := v.client.ListModels(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return nil
}

func (v *Vision) Recognize(ctx context.Context, png []byte, langs string) (string, error) {
	if v.cfg.APIKey == "" {
		return "", fmt.Errorf("API key is required")
	}
	if v.cfg.Model == "" {
		return "", fmt.Errorf("model is required")
	}

	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	request := openai.ChatCompletionRequest{
		Model:       v.cfg.Model,
		Temperature: 0.1,
		MaxTokens:   2000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt(langs)},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailHigh},
					},
				},
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(initialDelay) * (1.5 * float64(attempt)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := v.client.CreateChatCompletion(ctx, request)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in API response")
			continue
		}

		text := cleanExtractedText(resp.Choices[0].Message.Content)
		if strings.TrimSpace(text) == noTextMarker {
			return "", nil
		}
		return text, nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func visionPrompt(langs string) string {
	var b strings.Builder
	b.WriteString("Perform OCR on this image. Return ONLY the raw extracted text with:\n" +
		"- No formatting\n" +
		"- No XML/HTML tags\n" +
		"- No markdown\n" +
		"- No explanations\n" +
		"- Preserve line breaks accurately from the visual layout.\n")
	if langs != "" {
		fmt.Fprintf(&b, "The text is expected to be in these languages (tesseract codes): %s.\n", langs)
	}
	b.WriteString("If no text found, return '" + noTextMarker + "'")
	return b.String()
}

// cleanExtractedText strips a trailing </image> artifact some models emit.
func cleanExtractedText(text string) string {
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "</image>"))
}
