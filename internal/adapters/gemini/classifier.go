package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

// Classifier is an implementation of the AddressClassifier interface using Google Gemini
type Classifier struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
	logger       *zap.Logger
	promptFormat string
}

// classifierResponse represents the structured response from the model
type classifierResponse struct {
	Generated   bool    `json:"generated"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// NewClassifier creates a new Gemini classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*Classifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Classifier{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
		promptFormat: `You judge whether an email address looks machine-generated.
Respond with a JSON object containing:
- generated: boolean (true if the address looks machine-generated, false if it looks like a real person chose it)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (brief explanation of your judgement)

Email address: %s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Close closes the Gemini client
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ClassifyAddress asks the model whether an address looks machine-generated
func (c *Classifier) ClassifyAddress(ctx context.Context, address string) (*core.ClassifierVerdict, error) {
	prompt := fmt.Sprintf(c.promptFormat, address)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		// Tolerate prose wrapped around the object
		jsonStart := strings.Index(responseText, "{")
		jsonEnd := strings.LastIndex(responseText, "}")
		if jsonStart < 0 || jsonEnd < jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	return &core.ClassifierVerdict{
		Generated:   parsed.Generated,
		Confidence:  parsed.Confidence,
		Explanation: parsed.Explanation,
		Model:       c.modelName,
	}, nil
}
