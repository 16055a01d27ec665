package lingo

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// stubProvider scripts per-call behavior so tests can control which attempt
// succeeds.
type stubProvider struct {
	name   string
	calls  int
	handle func(call int) (*Translation, error)
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Translation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.calls++
	return p.handle(p.calls)
}

func okProvider(name, translated string) *stubProvider {
	return &stubProvider{
		name: name,
		handle: func(int) (*Translation, error) {
			return &Translation{TranslatedText: translated}, nil
		},
	}
}

func failingProvider(name string) *stubProvider {
	return &stubProvider{
		name: name,
		handle: func(int) (*Translation, error) {
			return nil, &ProviderError{Provider: name, Message: "unavailable", Retryable: true}
		},
	}
}

// stubDetector is a provider that also reports a fixed detection.
type stubDetector struct {
	stubProvider
	lang       string
	confidence float64
	detectErr  error
}

func (d *stubDetector) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	if d.detectErr != nil {
		return "", 0, d.detectErr
	}
	return d.lang, d.confidence, nil
}

// stubCache records traffic so tests can assert whether the orchestrator
// touched it.
type stubCache struct {
	entries     map[string]string
	gets        int
	sets        int
	lastSetText string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]string)}
}

func cacheKey(text, sourceLang, targetLang string) string {
	return sourceLang + ":" + targetLang + ":" + text
}

func (c *stubCache) Get(text, sourceLang, targetLang string) (string, bool) {
	c.gets++
	val, ok := c.entries[cacheKey(text, sourceLang, targetLang)]
	return val, ok
}

func (c *stubCache) Set(text, translatedText, sourceLang, targetLang, provider string) {
	c.sets++
	c.lastSetText = text
	c.entries[cacheKey(text, sourceLang, targetLang)] = translatedText
}

type stubSynth struct {
	audio    []byte
	err      error
	calls    int
	lastText string
	lastLang string
	lastSlow bool
}

func (s *stubSynth) Name() string { return "stub-tts" }

func (s *stubSynth) Synthesize(ctx context.Context, text, lang string, slow bool) ([]byte, error) {
	s.calls++
	s.lastText = text
	s.lastLang = lang
	s.lastSlow = slow
	if s.err != nil {
		return nil, s.err
	}
	return s.audio, nil
}

func newTestService(providers []Provider, opts ...ServiceOption) *Service {
	opts = append(opts, WithLogger(testLogger()))
	s := NewService(providers, opts...)
	// Tests never need real backoff sleeps.
	s.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return s
}

func TestService_Translate_Success(t *testing.T) {
	p := okProvider("google", "Hola")
	s := newTestService([]Provider{p})

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
	})

	if !res.Success {
		t.Fatalf("expected success, got error: %v", res.Err)
	}
	if res.TranslatedText != "Hola" {
		t.Errorf("TranslatedText = %q, want %q", res.TranslatedText, "Hola")
	}
	if res.Provider != "google" {
		t.Errorf("Provider = %q, want %q", res.Provider, "google")
	}
	if res.Cached {
		t.Error("fresh translation should not be marked cached")
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
}

func TestService_Translate_ValidationShortCircuit(t *testing.T) {
	p := okProvider("google", "Hola")
	cache := newStubCache()
	s := newTestService([]Provider{p}, WithCache(cache))

	res := s.Translate(context.Background(), Request{
		Text:       "   ",
		SourceLang: "en",
		TargetLang: "es",
		UseCache:   true,
	})

	if res.Success {
		t.Fatal("blank text should fail validation")
	}

	var verr *ValidationError
	if !errors.As(res.Err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", res.Err)
	}
	if verr.Field != "text" {
		t.Errorf("Field = %q, want %q", verr.Field, "text")
	}

	// Rejection happens before any cache or provider access.
	if p.calls != 0 {
		t.Errorf("provider calls = %d, want 0", p.calls)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("cache touched: gets=%d sets=%d", cache.gets, cache.sets)
	}
}

func TestService_Translate_RejectsSameLanguagePair(t *testing.T) {
	s := newTestService([]Provider{okProvider("google", "x")})

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "en",
	})

	var verr *ValidationError
	if !errors.As(res.Err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", res.Err)
	}
	if verr.Field != "target_lang" {
		t.Errorf("Field = %q, want %q", verr.Field, "target_lang")
	}
}

func TestService_Translate_FallbackWithinAttempt(t *testing.T) {
	first := failingProvider("google")
	second := okProvider("openai", "Hola")
	s := newTestService([]Provider{first, second}, WithRetry(3, time.Millisecond))

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
	})

	if !res.Success {
		t.Fatalf("expected success via fallback, got: %v", res.Err)
	}
	if res.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", res.Provider, "openai")
	}
	// The fallback succeeded inside the first attempt; no retries happened.
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", first.calls, second.calls)
	}
}

func TestService_Translate_RetryThenSuccess(t *testing.T) {
	p := &stubProvider{
		name: "google",
		handle: func(call int) (*Translation, error) {
			if call < 3 {
				return nil, &ProviderError{Provider: "google", Message: "flaky", Retryable: true}
			}
			return &Translation{TranslatedText: "Hola"}, nil
		},
	}
	s := newTestService([]Provider{p}, WithRetry(3, time.Millisecond))

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
	})

	if !res.Success {
		t.Fatalf("expected success on third attempt, got: %v", res.Err)
	}
	if p.calls != 3 {
		t.Errorf("provider calls = %d, want 3", p.calls)
	}
}

func TestService_Translate_ExhaustedRetries(t *testing.T) {
	p := failingProvider("google")
	s := newTestService([]Provider{p}, WithRetry(3, time.Millisecond))

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
	})

	if res.Success {
		t.Fatal("expected failure after exhausting retries")
	}

	var exhausted *ExhaustedRetriesError
	if !errors.As(res.Err, &exhausted) {
		t.Fatalf("expected *ExhaustedRetriesError, got %T", res.Err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if p.calls != 3 {
		t.Errorf("provider calls = %d, want 3", p.calls)
	}
	// The caller-facing message never leaks provider internals.
	if strings.Contains(res.Err.Error(), "unavailable") {
		t.Errorf("error leaked provider detail: %v", res.Err)
	}
}

func TestService_Translate_CacheHit(t *testing.T) {
	p := okProvider("google", "fresh")
	cache := newStubCache()
	cache.entries[cacheKey("Hello", "en", "es")] = "Hola"
	s := newTestService([]Provider{p}, WithCache(cache))

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
		UseCache:   true,
	})

	if !res.Success {
		t.Fatalf("expected success, got: %v", res.Err)
	}
	if !res.Cached {
		t.Error("expected result to be marked cached")
	}
	if res.Provider != CacheProviderName {
		t.Errorf("Provider = %q, want %q", res.Provider, CacheProviderName)
	}
	if res.TranslatedText != "Hola" {
		t.Errorf("TranslatedText = %q, want cached %q", res.TranslatedText, "Hola")
	}
	if p.calls != 0 {
		t.Errorf("provider calls = %d, want 0 on cache hit", p.calls)
	}
}

func TestService_Translate_PopulatesCache(t *testing.T) {
	p := okProvider("google", "Hola")
	cache := newStubCache()
	s := newTestService([]Provider{p}, WithCache(cache))

	req := Request{Text: "Hello", SourceLang: "en", TargetLang: "es", UseCache: true}

	first := s.Translate(context.Background(), req)
	if !first.Success || first.Cached {
		t.Fatalf("first call should come from the provider: %+v", first)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second := s.Translate(context.Background(), req)
	if !second.Cached {
		t.Error("second call should be served from cache")
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
}

func TestService_Translate_CacheBypass(t *testing.T) {
	p := okProvider("google", "Hola")
	cache := newStubCache()
	cache.entries[cacheKey("Hello", "en", "es")] = "stale"
	s := newTestService([]Provider{p}, WithCache(cache))

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
		UseCache:   false,
	})

	if res.TranslatedText != "Hola" {
		t.Errorf("bypass should hit the provider, got %q", res.TranslatedText)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("cache touched despite bypass: gets=%d sets=%d", cache.gets, cache.sets)
	}
}

func TestService_Translate_SanitizesBeforeCache(t *testing.T) {
	p := okProvider("google", "Hola Mundo")
	cache := newStubCache()
	s := newTestService([]Provider{p}, WithCache(cache))

	s.Translate(context.Background(), Request{
		Text:       "  Hello\t\tWorld  ",
		SourceLang: "en",
		TargetLang: "es",
		UseCache:   true,
	})

	if cache.lastSetText != "Hello World" {
		t.Errorf("cached under %q, want sanitized %q", cache.lastSetText, "Hello World")
	}
}

func TestService_Translate_AutoDetectPropagation(t *testing.T) {
	p := &stubProvider{
		name: "openai",
		handle: func(int) (*Translation, error) {
			return &Translation{TranslatedText: "Hola", DetectedLang: "en", Confidence: 0.95}, nil
		},
	}
	s := newTestService([]Provider{p})

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: AutoDetect,
		TargetLang: "es",
	})

	if !res.Success {
		t.Fatalf("expected success, got: %v", res.Err)
	}
	if res.DetectedLang != "en" {
		t.Errorf("DetectedLang = %q, want %q", res.DetectedLang, "en")
	}
	if res.SourceLang != "en" {
		t.Errorf("SourceLang = %q, want resolved %q", res.SourceLang, "en")
	}
	if res.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", res.Confidence)
	}
}

func TestService_Translate_NoProviders(t *testing.T) {
	s := newTestService(nil, WithRetry(2, time.Millisecond))

	res := s.Translate(context.Background(), Request{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "es",
	})

	if res.Success {
		t.Fatal("expected failure with no providers")
	}
	var exhausted *ExhaustedRetriesError
	if !errors.As(res.Err, &exhausted) {
		t.Fatalf("expected *ExhaustedRetriesError, got %T", res.Err)
	}
}

func TestService_TranslateBatch(t *testing.T) {
	p := &stubProvider{
		name: "google",
		handle: func(call int) (*Translation, error) {
			return &Translation{TranslatedText: "t"}, nil
		},
	}
	s := newTestService([]Provider{p})

	results := s.TranslateBatch(context.Background(), []string{"One", "Two", "Three"}, "en", "es", false)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, res := range results {
		if !res.Success {
			t.Errorf("result %d failed: %v", i, res.Err)
		}
	}
	if p.calls != 3 {
		t.Errorf("provider calls = %d, want 3", p.calls)
	}
}

func TestService_TranslateBatch_MixedOutcomes(t *testing.T) {
	// Every text gets its own attempt loop; a bad input fails alone.
	p := okProvider("google", "ok")
	s := newTestService([]Provider{p})

	results := s.TranslateBatch(context.Background(), []string{"Hello", ""}, "en", "es", false)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Success {
		t.Errorf("first result failed: %v", results[0].Err)
	}
	if results[1].Success {
		t.Error("empty text should fail validation")
	}
}

func TestService_DetectLanguage(t *testing.T) {
	d := &stubDetector{
		stubProvider: stubProvider{name: "openai", handle: func(int) (*Translation, error) {
			return &Translation{TranslatedText: "x"}, nil
		}},
		lang:       "fr",
		confidence: 0.9,
	}
	s := newTestService([]Provider{d})

	res := s.DetectLanguage(context.Background(), "Bonjour")

	if !res.Success {
		t.Fatalf("expected success, got: %v", res.Err)
	}
	if res.Lang != "fr" || res.Confidence != 0.9 {
		t.Errorf("got %q/%v, want fr/0.9", res.Lang, res.Confidence)
	}
}

func TestService_DetectLanguage_NoDetector(t *testing.T) {
	s := newTestService([]Provider{okProvider("google", "x")})

	res := s.DetectLanguage(context.Background(), "Hello")

	if res.Success {
		t.Fatal("expected failure without a detection-capable provider")
	}
	var derr *DetectionError
	if !errors.As(res.Err, &derr) {
		t.Fatalf("expected *DetectionError, got %T", res.Err)
	}
}

func TestService_Synthesize(t *testing.T) {
	synth := &stubSynth{audio: []byte("mp3-bytes")}
	s := newTestService([]Provider{okProvider("google", "x")}, WithSynthesizer(synth))

	res := s.Synthesize(context.Background(), "Hola", "es", true)

	if !res.Success {
		t.Fatalf("expected success, got: %v", res.Err)
	}
	if string(res.Audio) != "mp3-bytes" {
		t.Errorf("Audio = %q", res.Audio)
	}
	if res.Provider != "stub-tts" {
		t.Errorf("Provider = %q, want %q", res.Provider, "stub-tts")
	}
	if !synth.lastSlow {
		t.Error("slow flag not forwarded")
	}
}

func TestService_Synthesize_NoSynthesizer(t *testing.T) {
	s := newTestService([]Provider{okProvider("google", "x")})

	res := s.Synthesize(context.Background(), "Hola", "es", false)

	if res.Success {
		t.Fatal("expected failure without a synthesizer")
	}
	var terr *TTSError
	if !errors.As(res.Err, &terr) {
		t.Fatalf("expected *TTSError, got %T", res.Err)
	}
}

func TestService_Synthesize_TruncatesLongText(t *testing.T) {
	synth := &stubSynth{audio: []byte("a")}
	s := newTestService([]Provider{okProvider("google", "x")}, WithSynthesizer(synth))

	long := strings.Repeat("a", MaxTextLengthTTS+500)
	res := s.Synthesize(context.Background(), long, "en", false)

	if !res.Success {
		t.Fatalf("expected success, got: %v", res.Err)
	}
	if len(synth.lastText) > MaxTextLengthTTS {
		t.Errorf("synthesized %d chars, limit is %d", len(synth.lastText), MaxTextLengthTTS)
	}
	if !strings.HasSuffix(synth.lastText, "...") {
		t.Error("truncated text should end with ellipsis")
	}
}

func TestService_Providers(t *testing.T) {
	s := newTestService([]Provider{okProvider("openai", "x"), okProvider("google", "y")})

	names := s.Providers()
	if len(names) != 2 || names[0] != "openai" || names[1] != "google" {
		t.Errorf("Providers() = %v, want [openai google]", names)
	}
}
