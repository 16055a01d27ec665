package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lexiconlabs/lingo"
)

const (
	googleTTSName     = "gtts"
	defaultTTSURL     = "https://translate.google.com/translate_tts"
	slowSpeechSpeed   = "0.24"
	normalSpeechSpeed = "1"
)

// GoogleTTS synthesizes speech via the public translate_tts endpoint, which
// returns MP3 audio for short texts.
type GoogleTTS struct {
	client  *http.Client
	baseURL string
}

// GoogleTTSConfig holds configuration for the TTS fetcher.
type GoogleTTSConfig struct {
	BaseURL string        // Endpoint override, used by tests
	Timeout time.Duration // HTTP client timeout (default: 10s)
}

// NewGoogleTTS creates a new Google TTS synthesizer.
func NewGoogleTTS(cfg GoogleTTSConfig) *GoogleTTS {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTTSURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleTTS{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Name implements lingo.Synthesizer.
func (g *GoogleTTS) Name() string { return googleTTSName }

// Synthesize implements lingo.Synthesizer, returning MP3 bytes.
func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string, slow bool) ([]byte, error) {
	speed := normalSpeechSpeed
	if slow {
		speed = slowSpeechSpeed
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("ttsspeed", speed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &lingo.TTSError{Provider: googleTTSName, Message: "building request", Cause: err}
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &lingo.TTSError{Provider: googleTTSName, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &lingo.TTSError{
			Provider: googleTTSName,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &lingo.TTSError{Provider: googleTTSName, Message: "reading audio", Cause: err}
	}

	if len(audio) == 0 {
		return nil, &lingo.TTSError{Provider: googleTTSName, Message: "empty audio response"}
	}

	return audio, nil
}

// Verify GoogleTTS implements Synthesizer
var _ lingo.Synthesizer = (*GoogleTTS)(nil)
