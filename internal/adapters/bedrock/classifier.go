package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

// Classifier is an implementation of the AddressClassifier interface using Amazon Bedrock
type Classifier struct {
	client       *bedrockruntime.Client
	modelID      string
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

// NewClassifier creates a new Bedrock classifier
func NewClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Classifier {
	return &Classifier{
		client:       client,
		modelID:      modelID,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		logger:       logger,
		promptFormat: addressPromptFormat,
	}
}

const addressPromptFormat = `You judge whether an email address looks machine-generated.
Respond with a JSON object containing:
- generated: boolean (true if the address looks machine-generated, false if it looks like a real person chose it)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- explanation: string (brief explanation of your judgement)

Email address: %s

Respond only with the JSON object and nothing else.`

// ClassifyAddress asks the model whether an address looks machine-generated
func (c *Classifier) ClassifyAddress(ctx context.Context, address string) (*core.ClassifierVerdict, error) {
	prompt := fmt.Sprintf(c.promptFormat, address)

	// Create the request based on the model
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	// Parse the response based on the model
	var responseText string

	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		responseText = claudeResp.Completion
	} else if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return nil, fmt.Errorf("empty response from Titan model")
		}
		responseText = titanResp.Results[0].OutputText
	} else {
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generic response: %w", err)
		}

		if genericResp.Output != "" {
			responseText = genericResp.Output
		} else if genericResp.Text != "" {
			responseText = genericResp.Text
		} else if genericResp.Response != "" {
			responseText = genericResp.Response
		} else {
			responseText = string(resp.Body)
		}
	}

	parsed, err := parseClassifierResponse(responseText)
	if err != nil {
		return nil, err
	}

	return &core.ClassifierVerdict{
		Generated:   parsed.Generated,
		Confidence:  parsed.Confidence,
		Explanation: parsed.Explanation,
		Model:       c.modelID,
	}, nil
}

// parseClassifierResponse parses the model's JSON reply, tolerating prose
// wrapped around the object.
func parseClassifierResponse(responseText string) (*classifierResponse, error) {
	var parsed classifierResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err == nil {
		return &parsed, nil
	}

	jsonStart := strings.Index(responseText, "{")
	jsonEnd := strings.LastIndex(responseText, "}")
	if jsonStart < 0 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("failed to extract JSON from model response")
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return &parsed, nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *Classifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *Classifier) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
