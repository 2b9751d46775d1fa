package summarizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiBackend generates summaries through the Gemini API
type GeminiBackend struct {
	apiKey string
	model  string
	logger *zap.Logger
}

// NewGeminiBackend creates a new GeminiBackend instance
func NewGeminiBackend(apiKey, model string, logger *zap.Logger) *GeminiBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiBackend{apiKey: apiKey, model: model, logger: logger}
}

// Summarize sends one generation request embedding the transcript in the
// fixed instructional template.
func (b *GeminiBackend) Summarize(ctx context.Context, transcript string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  b.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	b.logger.Debug("requesting summary", zap.String("model", b.model))

	result, err := client.Models.GenerateContent(ctx, b.model,
		genai.Text(buildPrompt(transcript)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](summaryTemperature),
			MaxOutputTokens: summaryMaxTokens,
		})
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
