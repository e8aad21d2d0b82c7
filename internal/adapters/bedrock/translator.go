package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-mail-search/internal/adapters/prompt"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// ModelInvoker is the subset of the Bedrock runtime client used by Translator
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Translator is an implementation of the core.Translator interface using Amazon Bedrock
type Translator struct {
	client      ModelInvoker
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewTranslator creates a new Bedrock translator
func NewTranslator(
	client ModelInvoker,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Translator {
	return &Translator{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Name identifies the backend
func (t *Translator) Name() string {
	return "bedrock"
}

// Translate translates text from sourceLang to targetLang
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	payload, err := t.buildPayload(prompt.Translation(text, sourceLang, targetLang))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := t.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(t.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	out, err := t.parseResponse(resp.Body)
	if err != nil {
		return "", err
	}

	t.logger.Debug("Bedrock translation received", zap.String("model", t.modelID))

	return prompt.CleanResponse(out), nil
}

func (t *Translator) buildPayload(userPrompt string) ([]byte, error) {
	switch {
	case t.isAnthropicMessagesModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"system":            prompt.SystemMessage,
			"max_tokens":        t.maxTokens,
			"temperature":       t.temperature,
			"top_p":             t.topP,
			"messages": []map[string]interface{}{
				{"role": "user", "content": userPrompt},
			},
		})
	case t.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               "\n\nHuman: " + prompt.SystemMessage + "\n" + userPrompt + "\n\nAssistant:",
			"max_tokens_to_sample": t.maxTokens,
			"temperature":          t.temperature,
			"top_p":                t.topP,
		})
	case t.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": userPrompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": t.maxTokens,
				"temperature":   t.temperature,
				"topP":          t.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      userPrompt,
			"max_tokens":  t.maxTokens,
			"temperature": t.temperature,
			"top_p":       t.topP,
		})
	}
}

func (t *Translator) parseResponse(body []byte) (string, error) {
	switch {
	case t.isAnthropicMessagesModel():
		var messagesResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &messagesResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var sb strings.Builder
		for _, block := range messagesResp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", errors.New("empty response from Claude model")
		}
		return sb.String(), nil
	case t.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case t.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
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
		}
		return "", errors.New("empty response from Bedrock model")
	}
}

// isAnthropicMessagesModel checks if the model only accepts the messages API
func (t *Translator) isAnthropicMessagesModel() bool {
	return t.isAnthropicModel() && !strings.HasPrefix(t.modelID, "anthropic.claude-v") &&
		!strings.HasPrefix(t.modelID, "anthropic.claude-instant")
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (t *Translator) isAnthropicModel() bool {
	return strings.HasPrefix(t.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (t *Translator) isAmazonTitanModel() bool {
	return strings.HasPrefix(t.modelID, "amazon.titan")
}
