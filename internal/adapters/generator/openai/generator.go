package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// Generator is an implementation of the CandidateGenerator interface using OpenAI
type Generator struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// generatedEmail represents one training email in the LLM's JSON response
type generatedEmail struct {
	Subject     string `json:"subject"`
	SenderName  string `json:"sender_name"`
	SenderEmail string `json:"sender_email"`
	BodyMarkup  string `json:"body_markup"`
	IsPhish     bool   `json:"is_phish"`
	Explanation string `json:"explanation"`
}

// NewGenerator creates a new OpenAI candidate generator
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	client := openai.NewClient(apiKey)

	return &Generator{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
		promptFormat: `You write training material for a phishing-awareness exercise.
Generate %d short synthetic emails. Roughly half should be phishing attempts of
varying subtlety and half should be ordinary legitimate emails. Never use real
people or real unsubscribed domains for the phishing samples.

Respond with a JSON array where each element contains:
- subject: string
- sender_name: string (display name)
- sender_email: string (a syntactically valid address)
- body_markup: string (short HTML body, may contain links)
- is_phish: boolean (ground truth)
- explanation: string (one or two sentences a trainee would read afterwards)

Respond only with the JSON array and nothing else.`,
	}
}

// Generate produces count synthetic training emails
func (g *Generator) Generate(ctx context.Context, count int) ([]core.CandidateItem, error) {
	if count < core.MinBatchSize || count > core.MaxBatchSize {
		return nil, fmt.Errorf("count %d out of range [%d, %d]", count, core.MinBatchSize, core.MaxBatchSize)
	}

	prompt := fmt.Sprintf(g.promptFormat, count)

	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You generate phishing-awareness training emails. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &core.GenerationError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &core.GenerationError{Provider: "openai", Err: fmt.Errorf("empty response")}
	}

	items, err := parseBatch(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &core.GenerationError{Provider: "openai", Err: err}
	}

	g.logger.Debug("Generated candidate batch",
		zap.Int("requested", count),
		zap.Int("received", len(items)),
		zap.String("model", g.modelName))
	return items, nil
}

// parseBatch parses the LLM's JSON array, tolerating prose around it
func parseBatch(responseText string) ([]core.CandidateItem, error) {
	var raw []generatedEmail
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		// Try to extract the JSON array from the text response
		jsonStart := -1
		jsonEnd := -1
		for i := 0; i < len(responseText); i++ {
			if responseText[i] == '[' {
				jsonStart = i
				break
			}
		}
		for i := len(responseText) - 1; i >= 0; i-- {
			if responseText[i] == ']' {
				jsonEnd = i + 1
				break
			}
		}
		if jsonStart < 0 || jsonEnd <= jsonStart {
			return nil, fmt.Errorf("failed to extract JSON array from response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse response as JSON: %w", err)
		}
	}

	items := make([]core.CandidateItem, len(raw))
	for i, e := range raw {
		items[i] = core.CandidateItem{
			Subject:     e.Subject,
			SenderName:  e.SenderName,
			SenderEmail: e.SenderEmail,
			BodyMarkup:  e.BodyMarkup,
			IsPhish:     e.IsPhish,
			Explanation: e.Explanation,
		}
	}
	return items, nil
}
