package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/core"
)

// Generator is an implementation of the CandidateGenerator interface using Amazon Bedrock
type Generator struct {
	client       *bedrockruntime.Client
	modelID      string
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

// NewGenerator creates a new Bedrock candidate generator
func NewGenerator(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		client:      client,
		modelID:     modelID,
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

// isAnthropicModel checks if the model is an Anthropic Claude model
func (g *Generator) isAnthropicModel() bool {
	return strings.Contains(g.modelID, "anthropic")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (g *Generator) isAmazonTitanModel() bool {
	return strings.Contains(g.modelID, "amazon.titan")
}

// Generate produces count synthetic training emails
func (g *Generator) Generate(ctx context.Context, count int) ([]core.CandidateItem, error) {
	if count < core.MinBatchSize || count > core.MaxBatchSize {
		return nil, fmt.Errorf("count %d out of range [%d, %d]", count, core.MinBatchSize, core.MaxBatchSize)
	}

	prompt := fmt.Sprintf(g.promptFormat, count)

	// Build the request for the model family
	var payload []byte
	var err error

	if g.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": g.maxTokens,
			"temperature":          g.temperature,
			"top_p":                g.topP,
		})
	} else if g.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": g.maxTokens,
				"temperature":   g.temperature,
				"topP":          g.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  g.maxTokens,
			"temperature": g.temperature,
			"top_p":       g.topP,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &g.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, &core.GenerationError{Provider: "bedrock", Err: err}
	}

	responseText, err := g.extractText(resp.Body)
	if err != nil {
		return nil, &core.GenerationError{Provider: "bedrock", Err: err}
	}

	items, err := parseBatch(responseText)
	if err != nil {
		return nil, &core.GenerationError{Provider: "bedrock", Err: err}
	}

	g.logger.Debug("Generated candidate batch",
		zap.Int("requested", count),
		zap.Int("received", len(items)),
		zap.String("model", g.modelID))
	return items, nil
}

// extractText pulls the completion text out of the model-family response shape
func (g *Generator) extractText(body []byte) (string, error) {
	if g.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if g.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(body), nil
	}
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
