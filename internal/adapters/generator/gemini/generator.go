package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/phishdrill/phishdrill/internal/core"
)

// Generator is an implementation of the CandidateGenerator interface using Google Gemini
type Generator struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
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

// NewGenerator creates a new Gemini candidate generator
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*Generator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Generator{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
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
	}, nil
}

// Close closes the Gemini client
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate produces count synthetic training emails
func (g *Generator) Generate(ctx context.Context, count int) ([]core.CandidateItem, error) {
	if count < core.MinBatchSize || count > core.MaxBatchSize {
		return nil, fmt.Errorf("count %d out of range [%d, %d]", count, core.MinBatchSize, core.MaxBatchSize)
	}

	prompt := fmt.Sprintf(g.promptFormat, count)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &core.GenerationError{Provider: "gemini", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &core.GenerationError{Provider: "gemini", Err: fmt.Errorf("empty response")}
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText += string(txt)
		}
	}

	items, err := parseBatch(responseText)
	if err != nil {
		return nil, &core.GenerationError{Provider: "gemini", Err: err}
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
