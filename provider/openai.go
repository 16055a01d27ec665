package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/lexiconlabs/lingo"
)

const openAIName = "openai"

// OpenAIProvider translates and detects languages using OpenAI's API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional, used by tests)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return openAIName }

// Translate implements Provider using a chat completion with a JSON response.
func (p *OpenAIProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*lingo.Translation, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildTranslatePrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider:  openAIName,
			Message:   "chat completion failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &lingo.ProviderError{
			Provider:  openAIName,
			Message:   "empty response",
			Retryable: true,
		}
	}

	return p.parseTranslation(resp.Choices[0].Message.Content, sourceLang)
}

func (p *OpenAIProvider) buildTranslatePrompt(sourceLang, targetLang string) string {
	targetName := lingo.LanguageName(targetLang)

	var source string
	if sourceLang == lingo.AutoDetect {
		source = "Detect the source language yourself."
	} else {
		source = fmt.Sprintf("The source language is %s.", lingo.LanguageName(sourceLang))
	}

	return fmt.Sprintf(`You are an expert native translator. Translate the user's text into idiomatic %s. %s
Avoid literal translations; the result must read naturally to a native speaker.
Do not translate URLs, email addresses, or placeholders like {{name}} or %%s.

Return a valid JSON object:
{"translation": "<translated text>", "detected_language": "<ISO 639-1 code of the source>"}
Do not wrap the JSON in Markdown code blocks.`, targetName, source)
}

func (p *OpenAIProvider) parseTranslation(content, sourceLang string) (*lingo.Translation, error) {
	var parsed struct {
		Translation      string `json:"translation"`
		DetectedLanguage string `json:"detected_language"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil || parsed.Translation == "" {
		return nil, &lingo.ProviderError{
			Provider: openAIName,
			Message:  "invalid response format",
			Cause:    err,
		}
	}

	tr := &lingo.Translation{TranslatedText: parsed.Translation}
	if sourceLang == lingo.AutoDetect && parsed.DetectedLanguage != "" {
		tr.DetectedLang = lingo.NormalizeLanguageCode(parsed.DetectedLanguage)
		// The model gives no calibrated probability; report presence only.
		tr.Confidence = 1.0
	}

	return tr, nil
}

// DetectLanguage implements lingo.Detector.
func (p *OpenAIProvider) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	const prompt = `Identify the language of the user's text.
Return a valid JSON object: {"language": "<ISO 639-1 code>", "confidence": <0.0-1.0>}
Do not wrap the JSON in Markdown code blocks.`

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", 0, &lingo.DetectionError{Message: "chat completion failed", Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", 0, &lingo.DetectionError{Message: "empty response"}
	}

	var parsed struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil || parsed.Language == "" {
		return "", 0, &lingo.DetectionError{Message: "invalid response format", Cause: err}
	}

	return lingo.NormalizeLanguageCode(parsed.Language), parsed.Confidence, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Provider and Detector
var (
	_ Provider       = (*OpenAIProvider)(nil)
	_ lingo.Detector = (*OpenAIProvider)(nil)
)
