package lingo

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// CacheProviderName is the provider name reported for cache hits.
const CacheProviderName = "cache"

// Service sequences validation, cache lookup, provider invocation, retry,
// and fallback for translation requests. It is the sole boundary translating
// internal failures into caller-facing results: Translate never returns a Go
// error and never panics past its own frame, so it is safe to call from
// handler code without recovery plumbing.
type Service struct {
	providers     []Provider
	synth         Synthesizer
	cache         TranslationCache
	maxTextLength int
	timeout       time.Duration // Per provider call, per attempt
	maxRetries    int
	retryDelay    time.Duration // Linear backoff base: sleep = retryDelay * attempt
	batchDelay    time.Duration
	log           logrus.FieldLogger
	sleep         func(ctx context.Context, d time.Duration) error
}

// ServiceOption is a functional option for configuring the Service.
type ServiceOption func(*Service)

// WithCache sets the translation cache consulted before and populated after
// provider calls.
func WithCache(cache TranslationCache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithSynthesizer sets the text-to-speech backend.
func WithSynthesizer(synth Synthesizer) ServiceOption {
	return func(s *Service) {
		s.synth = synth
	}
}

// WithTimeout bounds each individual provider call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetry sets the total attempt count and the linear backoff base delay.
func WithRetry(maxRetries int, delay time.Duration) ServiceOption {
	return func(s *Service) {
		if maxRetries > 0 {
			s.maxRetries = maxRetries
		}
		if delay > 0 {
			s.retryDelay = delay
		}
	}
}

// WithMaxTextLength overrides the default input length limit.
func WithMaxTextLength(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxTextLength = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a Service over a provider chain in fixed priority
// order: earlier providers are tried first on every attempt.
func NewService(providers []Provider, opts ...ServiceOption) *Service {
	s := &Service{
		providers:     providers,
		maxTextLength: MaxTextLength,
		timeout:       10 * time.Second,
		maxRetries:    3,
		retryDelay:    time.Second,
		batchDelay:    100 * time.Millisecond,
		log:           logrus.StandardLogger(),
		sleep:         sleepCtx,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log.WithField("providers", s.Providers()).Info("translation service initialized")

	return s
}

// Providers returns the names of the configured providers in priority order.
// The set is fixed at construction; availability is never re-probed per call.
func (s *Service) Providers() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}

// Translate runs one request through validate -> cache -> provider chain with
// retry and linear backoff. Validation failures short-circuit before any
// cache or provider access.
func (s *Service) Translate(ctx context.Context, req Request) Result {
	res := Result{SourceLang: req.SourceLang, TargetLang: req.TargetLang}

	if err := ValidateRequest(req, s.maxTextLength); err != nil {
		s.log.WithError(err).Warn("translation request rejected")
		res.Err = err
		return res
	}

	text := SanitizeText(req.Text)

	if req.UseCache && s.cache != nil {
		if cached, ok := s.cache.Get(text, req.SourceLang, req.TargetLang); ok {
			s.log.Debug("translation served from cache")
			res.Success = true
			res.TranslatedText = cached
			res.Provider = CacheProviderName
			res.Cached = true
			return res
		}
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		tr, name, err := s.tryProviders(ctx, text, req.SourceLang, req.TargetLang)
		if err == nil {
			if req.UseCache && s.cache != nil {
				s.cache.Set(text, tr.TranslatedText, req.SourceLang, req.TargetLang, name)
			}

			res.Success = true
			res.TranslatedText = tr.TranslatedText
			res.Provider = name
			if req.SourceLang == AutoDetect && tr.DetectedLang != "" {
				res.DetectedLang = tr.DetectedLang
				res.SourceLang = tr.DetectedLang
				res.Confidence = tr.Confidence
			}

			s.log.WithFields(logrus.Fields{
				"provider": name,
				"attempt":  attempt,
			}).Info("translation successful")
			return res
		}

		s.log.WithError(err).WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": s.maxRetries,
		}).Warn("translation attempt failed")

		if attempt < s.maxRetries {
			if err := s.sleep(ctx, time.Duration(attempt)*s.retryDelay); err != nil {
				break
			}
		}
	}

	s.log.Error("all translation attempts failed")
	res.Err = &ExhaustedRetriesError{Attempts: s.maxRetries}
	return res
}

// tryProviders walks the chain once. Each provider failure falls through to
// the next provider within the same attempt; the last error is returned when
// the whole chain fails.
func (s *Service) tryProviders(ctx context.Context, text, sourceLang, targetLang string) (*Translation, string, error) {
	if len(s.providers) == 0 {
		return nil, "", &ProviderError{Provider: "none", Message: "no translation providers configured"}
	}

	var lastErr error
	for _, p := range s.providers {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		tr, err := p.Translate(callCtx, text, sourceLang, targetLang)
		cancel()

		if err != nil {
			lastErr = err
			s.log.WithError(err).WithField("provider", p.Name()).Debug("provider failed, falling through")
			continue
		}

		return tr, p.Name(), nil
	}

	return nil, "", lastErr
}

// TranslateBatch translates texts sequentially with a small delay between
// provider-bound requests to stay polite with upstream rate limits.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, useCache bool) []Result {
	results := make([]Result, 0, len(texts))

	for i, text := range texts {
		if i > 0 && s.batchDelay > 0 {
			if err := s.sleep(ctx, s.batchDelay); err != nil {
				break
			}
		}

		results = append(results, s.Translate(ctx, Request{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: targetLang,
			UseCache:   useCache,
		}))
	}

	return results
}

// DetectLanguage asks the first detection-capable provider for the language
// of the text.
func (s *Service) DetectLanguage(ctx context.Context, text string) Detection {
	if err := ValidateText(text, s.maxTextLength); err != nil {
		return Detection{Err: err}
	}

	for _, p := range s.providers {
		d, ok := p.(Detector)
		if !ok {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		lang, confidence, err := d.DetectLanguage(callCtx, SanitizeText(text))
		cancel()

		if err != nil {
			s.log.WithError(err).WithField("provider", p.Name()).Warn("language detection failed")
			continue
		}

		return Detection{Success: true, Lang: lang, Confidence: confidence}
	}

	return Detection{Err: &DetectionError{Message: "no provider could detect the language"}}
}

// Synthesize converts text to speech in the given language. Text beyond the
// TTS limit is truncated rather than rejected.
func (s *Service) Synthesize(ctx context.Context, text, lang string, slow bool) Speech {
	if s.synth == nil {
		return Speech{Err: &TTSError{Provider: "none", Message: "no speech synthesizer configured"}}
	}

	if err := ValidateText(text, s.maxTextLength); err != nil {
		return Speech{Err: err}
	}

	if len(text) > MaxTextLengthTTS {
		s.log.WithField("limit", MaxTextLengthTTS).Warn("text too long for tts, truncating")
		text = TruncateText(text, MaxTextLengthTTS)
	}

	if !IsTTSSupported(lang) {
		s.log.WithField("lang", lang).Warn("language may not be supported by tts")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	audio, err := s.synth.Synthesize(callCtx, text, lang, slow)
	if err != nil {
		s.log.WithError(err).Error("speech synthesis failed")
		return Speech{Provider: s.synth.Name(), Err: err}
	}

	return Speech{Success: true, Audio: audio, Provider: s.synth.Name()}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
