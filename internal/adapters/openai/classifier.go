package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

// Classifier is an implementation of the AddressClassifier interface using OpenAI
type Classifier struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// classifierResponse represents the structured response from the model
type classifierResponse struct {
	Generated   bool    `json:"generated"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// NewClassifier creates a new OpenAI classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Classifier {
	client := openai.NewClient(apiKey)

	return &Classifier{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
		promptFormat: `You judge whether an email address looks machine-generated.
Respond with a JSON object containing:
- generated: boolean (true if the address looks machine-generated, false if it looks like a real person chose it)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (brief explanation of your judgement)

Email address: %s

Respond only with the JSON object and nothing else.`,
	}
}

// ClassifyAddress asks the model whether an address looks machine-generated
func (c *Classifier) ClassifyAddress(ctx context.Context, address string) (*core.ClassifierVerdict, error) {
	prompt := fmt.Sprintf(c.promptFormat, address)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You judge email addresses. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: "json",
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := resp.Choices[0].Message.Content

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
