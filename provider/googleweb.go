package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/lexiconlabs/lingo"
)

const (
	googleWebName    = "google"
	defaultGoogleURL = "https://translate.google.com/m"

	// The mobile endpoint rejects non-browser user agents.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// GoogleWebProvider translates via the public translate.google.com mobile
// endpoint and extracts the result from the returned HTML. It accepts "auto"
// as the source language but the endpoint does not report what it detected.
type GoogleWebProvider struct {
	client  *http.Client
	baseURL string
}

// GoogleWebConfig holds configuration for the Google web provider.
type GoogleWebConfig struct {
	BaseURL string        // Endpoint override, used by tests (default: the public endpoint)
	Timeout time.Duration // HTTP client timeout (default: 10s)
}

// NewGoogleWebProvider creates a new Google web provider.
func NewGoogleWebProvider(cfg GoogleWebConfig) *GoogleWebProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGoogleURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GoogleWebProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Name implements Provider.
func (p *GoogleWebProvider) Name() string { return googleWebName }

// Translate implements Provider.
func (p *GoogleWebProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*lingo.Translation, error) {
	params := url.Values{}
	params.Set("sl", sourceLang)
	params.Set("tl", targetLang)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider: googleWebName,
			Message:  "building request",
			Cause:    err,
		}
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider:  googleWebName,
			Message:   "request failed",
			Cause:     err,
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &lingo.ProviderError{
			Provider:  googleWebName,
			Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	// The endpoint does not always answer in UTF-8.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider: googleWebName,
			Message:  "decoding response",
			Cause:    err,
		}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &lingo.ProviderError{
			Provider: googleWebName,
			Message:  "parsing response HTML",
			Cause:    err,
		}
	}

	translated := strings.TrimSpace(doc.Find("div.result-container").Text())
	if translated == "" {
		return nil, &lingo.ProviderError{
			Provider: googleWebName,
			Message:  "no translation in response",
		}
	}

	return &lingo.Translation{TranslatedText: translated}, nil
}

// Verify GoogleWebProvider implements Provider
var _ Provider = (*GoogleWebProvider)(nil)
