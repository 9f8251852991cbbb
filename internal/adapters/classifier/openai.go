package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
	"github.com/phishdrill/phishdrill/internal/utils"
)

// OpenAIClassifier scores an email's phishing probability with an OpenAI model.
type OpenAIClassifier struct {
	client        *openai.Client
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// classifierResponse represents the structured response from the LLM
type classifierResponse struct {
	ProbPhish float64  `json:"prob_phish"`
	Reasons   []string `json:"reasons"`
	TopTokens []string `json:"top_tokens"`
}

// NewOpenAIClassifier creates a new OpenAI-backed classifier
func NewOpenAIClassifier(
	apiKey string,
	modelName string,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClassifier {
	return &OpenAIClassifier{
		client:        openai.NewClient(apiKey),
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are a phishing detection system. Analyze the following email.
Respond with a JSON object containing:
- prob_phish: number between 0 and 1 (probability the email is a phishing attempt)
- reasons: array of short strings (why)
- top_tokens: array of the most suspicious words or phrases

Email:
From: %s
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// Classify scores one email
func (c *OpenAIClassifier) Classify(ctx context.Context, subject, body, sender string) (*core.ClassifierVerdict, error) {
	processedBody := c.textProcessor.ProcessText(body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, sender, subject, processedBody)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := resp.Choices[0].Message.Content

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		// Try to extract JSON from the text response
		jsonStart := -1
		jsonEnd := -1
		for i := 0; i < len(responseText); i++ {
			if responseText[i] == '{' {
				jsonStart = i
				break
			}
		}
		for i := len(responseText) - 1; i >= 0; i-- {
			if responseText[i] == '}' {
				jsonEnd = i + 1
				break
			}
		}
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	c.logger.Debug("Classified email",
		zap.Float64("prob_phish", parsed.ProbPhish),
		zap.String("model", c.modelName))

	return &core.ClassifierVerdict{
		ProbPhish: parsed.ProbPhish,
		Reasons:   parsed.Reasons,
		TopTokens: parsed.TopTokens,
	}, nil
}
