package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var ErrAIUnavailable = errors.New("AI drafting is not configured")

// OfferBrief is what the drafting model is told about an offer.
type OfferBrief struct {
	Title        string
	Organization string
	Contact      string
	Lines        []string
}

// IntroductionDrafter writes the opening paragraph of an offer.
type IntroductionDrafter interface {
	DraftIntroduction(ctx context.Context, brief OfferBrief) (string, error)
}

type AIService struct {
	client *openai.Client
	model  string
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// DraftIntroduction asks the model for a short, client-facing introduction.
func (s *AIService) DraftIntroduction(ctx context.Context, brief OfferBrief) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrAIUnavailable
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You write concise, friendly introductions for commercial offers. Plain text, at most 120 words, no prices.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: introductionPrompt(brief),
				},
			},
			Temperature: 0.4,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func introductionPrompt(brief OfferBrief) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Offer title: %s\n", brief.Title)
	fmt.Fprintf(&b, "Client organization: %s\n", brief.Organization)
	if brief.Contact != "" {
		fmt.Fprintf(&b, "Addressed to: %s\n", brief.Contact)
	}
	b.WriteString("Included items:\n")
	for _, line := range brief.Lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\nWrite the introduction paragraph that opens this offer.")
	return b.String()
}
