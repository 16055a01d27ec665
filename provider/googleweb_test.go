package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexiconlabs/lingo"
)

func TestGoogleWebProvider_Translate(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"sl": r.URL.Query().Get("sl"),
			"tl": r.URL.Query().Get("tl"),
			"q":  r.URL.Query().Get("q"),
		}
		fmt.Fprint(w, `<html><body><div class="result-container">Hola Mundo</div></body></html>`)
	}))
	defer srv.Close()

	p := NewGoogleWebProvider(GoogleWebConfig{BaseURL: srv.URL})

	tr, err := p.Translate(context.Background(), "Hello World", "en", "es")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if tr.TranslatedText != "Hola Mundo" {
		t.Errorf("TranslatedText = %q, want %q", tr.TranslatedText, "Hola Mundo")
	}

	if gotQuery["sl"] != "en" || gotQuery["tl"] != "es" || gotQuery["q"] != "Hello World" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
}

func TestGoogleWebProvider_Translate_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="something-else">nope</div></body></html>`)
	}))
	defer srv.Close()

	p := NewGoogleWebProvider(GoogleWebConfig{BaseURL: srv.URL})

	_, err := p.Translate(context.Background(), "Hello", "en", "es")
	if err == nil {
		t.Fatal("expected error when the result container is missing")
	}

	var perr *lingo.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *lingo.ProviderError, got %T", err)
	}
	if perr.Retryable {
		t.Error("a well-formed page without a result is not retryable")
	}
}

func TestGoogleWebProvider_Translate_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGoogleWebProvider(GoogleWebConfig{BaseURL: srv.URL})

	_, err := p.Translate(context.Background(), "Hello", "en", "es")

	var perr *lingo.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *lingo.ProviderError, got %T", err)
	}
	if !perr.Retryable {
		t.Error("429 should be retryable")
	}
}

func TestGoogleWebProvider_Translate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewGoogleWebProvider(GoogleWebConfig{BaseURL: srv.URL})

	_, err := p.Translate(context.Background(), "Hello", "en", "es")

	var perr *lingo.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *lingo.ProviderError, got %T", err)
	}
	if !perr.Retryable {
		t.Error("5xx should be retryable")
	}
}

func TestGoogleWebProvider_Translate_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := NewGoogleWebProvider(GoogleWebConfig{BaseURL: srv.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Translate(ctx, "Hello", "en", "es")
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
}

func TestGoogleWebProvider_Name(t *testing.T) {
	p := NewGoogleWebProvider(GoogleWebConfig{})
	if p.Name() != "google" {
		t.Errorf("Name = %q, want %q", p.Name(), "google")
	}
}
