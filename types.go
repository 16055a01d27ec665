package lingo

import "context"

// Request contains the parameters for a translation request.
type Request struct {
	Text       string // Text to translate
	SourceLang string // Source language code, or "auto" to detect
	TargetLang string // Target language code
	UseCache   bool   // Whether to consult and populate the cache
}

// Result is the outcome of a translation request. Translate never returns a
// Go error; callers check Success and Err instead.
type Result struct {
	Success        bool
	TranslatedText string
	SourceLang     string
	TargetLang     string
	DetectedLang   string  // Set when SourceLang was "auto" and the provider reported it
	Confidence     float64 // Detection confidence, when available
	Provider       string  // Provider that produced the text, or "cache"
	Cached         bool
	Err            error
}

// Translation is what a provider adapter returns on success.
type Translation struct {
	TranslatedText string
	DetectedLang   string  // Optional: detected source language
	Confidence     float64 // Optional: detection confidence
}

// Detection is the outcome of a language detection request.
type Detection struct {
	Success    bool
	Lang       string
	Confidence float64
	Err        error
}

// Speech is the outcome of a text-to-speech request.
type Speech struct {
	Success  bool
	Audio    []byte // MP3 audio data
	Provider string
	Err      error
}

// Provider is the interface for translation backends.
type Provider interface {
	// Name identifies the provider in results, logs, and cache provenance.
	Name() string

	// Translate translates text from sourceLang to targetLang. Failures are
	// reported as *ProviderError so the orchestrator can decide retryability.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*Translation, error)
}

// Detector is implemented by providers that can detect a text's language.
type Detector interface {
	DetectLanguage(ctx context.Context, text string) (string, float64, error)
}

// Synthesizer is the interface for text-to-speech backends.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, lang string, slow bool) ([]byte, error)
}

// TranslationCache is the cache surface the orchestrator needs. The concrete
// stores live in the cache package; this stays structurally compatible so any
// of them can be injected.
type TranslationCache interface {
	Get(text, sourceLang, targetLang string) (string, bool)
	Set(text, translatedText, sourceLang, targetLang, provider string)
}
