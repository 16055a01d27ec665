package provider

import (
	"context"
	"fmt"
)

// MockProvider is a configurable translation provider for testing.
type MockProvider struct {
	ProviderName string            // Name reported to the orchestrator (default: "mock")
	Translations map[string]string // Map of source text to translation
	Err          error             // When set, every Translate call fails with it
	DetectedLang string            // Reported when the source language is "auto"
	Confidence   float64
	CallCount    int // Number of times Translate was called
}

// NewMockProvider creates a mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ProviderName: "mock",
		Translations: map[string]string{
			"Hello":       "Hola",
			"World":       "Mundo",
			"Hello World": "Hola Mundo",
			"Good night":  "Buenas noches",
		},
	}
}

// Name implements Provider.
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Translate returns canned translations, or bracketed text for unknown input.
func (m *MockProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Translation, error) {
	m.CallCount++

	if m.Err != nil {
		return nil, m.Err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	translated, ok := m.Translations[text]
	if !ok {
		translated = fmt.Sprintf("[%s]", text)
	}

	tr := &Translation{TranslatedText: translated}
	if sourceLang == "auto" && m.DetectedLang != "" {
		tr.DetectedLang = m.DetectedLang
		tr.Confidence = m.Confidence
	}

	return tr, nil
}

// DetectLanguage implements lingo.Detector using the configured DetectedLang.
func (m *MockProvider) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	if m.Err != nil {
		return "", 0, m.Err
	}
	if m.DetectedLang == "" {
		return "en", 1.0, nil
	}
	return m.DetectedLang, m.Confidence, nil
}

// Reset zeroes the call counter.
func (m *MockProvider) Reset() {
	m.CallCount = 0
}

// MockSynthesizer is a speech synthesizer test double.
type MockSynthesizer struct {
	Audio     []byte
	Err       error
	CallCount int
	LastText  string
	LastLang  string
	LastSlow  bool
}

// Name implements lingo.Synthesizer.
func (m *MockSynthesizer) Name() string { return "mock-tts" }

// Synthesize records the call and returns the canned audio.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text, lang string, slow bool) ([]byte, error) {
	m.CallCount++
	m.LastText = text
	m.LastLang = lang
	m.LastSlow = slow

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Audio, nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
