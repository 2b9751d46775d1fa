package summarizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Sampling parameters for summary generation. These are part of the
// summarizer's contract, not configuration: every summary in the log is
// produced under identical conditions.
const (
	summaryTemperature = 0.7
	summaryMaxTokens   = 1500
)

const summaryPromptTemplate = `Please provide a comprehensive summary of this transcript in clear, detailed bullet points. Each bullet point should be 2-3 lines long and capture the complete context and key learnings. Format as follows:

Key Learnings and Insights:
• [Each bullet should provide complete context and key takeaway in 2-3 lines]
• [Focus on actionable insights, important concepts, and practical applications]
• [Include specific examples or case studies mentioned]

Main Discussion Points:
• [Capture major topics with their context and significance in 2-3 lines]
• [Include any important statistics, research findings, or evidence presented]
• [Note any methodologies, techniques, or approaches discussed]

Action Items and Applications:
• [List practical applications and implementation steps in 2-3 lines]
• [Include any recommended practices or suggested approaches]
• [Note any tools, resources, or references mentioned]

Remember to:
- Make each bullet point self-contained and comprehensive
- Include specific details while maintaining clarity
- Preserve all key information and learnings
- Use clear, professional language

Transcript:
%s`

// buildPrompt embeds the transcript verbatim in the instructional template
func buildPrompt(transcript string) string {
	return fmt.Sprintf(summaryPromptTemplate, transcript)
}

// Backend generates a summary for a transcript via a remote text-generation
// service.
type Backend interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Service wraps a Backend with the degrade-to-error-text policy: a
// summarization failure must never prevent the transcript itself from being
// recorded, so failures are captured and returned as readable text.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// NewService creates a new summarizer Service instance
func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger}
}

// Summarize returns the generated summary, or a human-readable string
// describing the failure. It never returns an error.
func (s *Service) Summarize(ctx context.Context, transcript string) string {
	s.logger.Info("generating summary", zap.Int("transcript_len", len(transcript)))

	summary, err := s.backend.Summarize(ctx, transcript)
	if err != nil {
		s.logger.Warn("summary generation failed, recording error text", zap.Error(err))
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	return summary
}
