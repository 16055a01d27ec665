// Command lingod serves the translation front-end over HTTP.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lexiconlabs/lingo"
	"github.com/lexiconlabs/lingo/cache"
	"github.com/lexiconlabs/lingo/config"
	"github.com/lexiconlabs/lingo/provider"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()
	log := logrus.StandardLogger()

	log.WithFields(logrus.Fields{
		"version": lingo.FullVersion(),
		"addr":    cfg.ListenAddr,
	}).Info("starting lingod")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Settings, log *logrus.Logger) error {
	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}

	svc := newService(cfg, store, log)

	s := &server{
		svc:   svc,
		store: store,
		cfg:   cfg,
		log:   log,
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newStore picks the cache backend: Redis when REDIS_URL is set, the
// in-memory LRU store otherwise.
func newStore(cfg *config.Settings, log logrus.FieldLogger) (cache.TranslationCache, error) {
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:    cfg.RedisURL,
			TTL:    cfg.CacheTTL(),
			Logger: log,
		})
		if err != nil {
			return nil, err
		}
		log.Info("using redis cache backend")
		return rc, nil
	}

	return cache.NewMemoryCache(cache.Options{
		MaxSize:  cfg.CacheMaxSize,
		TTL:      cfg.CacheTTL(),
		Disabled: !cfg.CacheEnabled,
		Logger:   log,
	}), nil
}

// newService wires the provider chain in priority order. OpenAI is preferred
// when a key is configured; the Google web endpoint is the free fallback.
func newService(cfg *config.Settings, store cache.TranslationCache, log logrus.FieldLogger) *lingo.Service {
	var providers []lingo.Provider

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		}))
	}

	providers = append(providers, provider.NewGoogleWebProvider(provider.GoogleWebConfig{
		Timeout: cfg.TranslationTimeout,
	}))

	opts := []lingo.ServiceOption{
		lingo.WithCache(store),
		lingo.WithTimeout(cfg.TranslationTimeout),
		lingo.WithRetry(cfg.MaxRetries, cfg.RetryDelay),
		lingo.WithMaxTextLength(cfg.MaxTextLength),
		lingo.WithLogger(log),
	}

	if cfg.TTSEnabled {
		opts = append(opts, lingo.WithSynthesizer(provider.NewGoogleTTS(provider.GoogleTTSConfig{
			Timeout: cfg.TranslationTimeout,
		})))
	}

	return lingo.NewService(providers, opts...)
}

type server struct {
	svc   *lingo.Service
	store cache.TranslationCache
	cfg   *config.Settings
	log   logrus.FieldLogger
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/translate", s.handleTranslate).Methods(http.MethodPost)
	api.HandleFunc("/translate/batch", s.handleTranslateBatch).Methods(http.MethodPost)
	api.HandleFunc("/detect", s.handleDetect).Methods(http.MethodPost)
	api.HandleFunc("/speech", s.handleSpeech).Methods(http.MethodPost)
	api.HandleFunc("/cache/stats", s.handleCacheStats).Methods(http.MethodGet)
	api.HandleFunc("/cache/clear", s.handleCacheClear).Methods(http.MethodPost)
	api.HandleFunc("/cache/cleanup", s.handleCacheCleanup).Methods(http.MethodPost)
	api.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return r
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	UseCache   *bool  `json:"use_cache"`
}

type translateResponse struct {
	Success        bool    `json:"success"`
	TranslatedText string  `json:"translated_text"`
	SourceLang     string  `json:"source_lang"`
	TargetLang     string  `json:"target_lang"`
	DetectedLang   string  `json:"detected_lang,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Provider       string  `json:"provider,omitempty"`
	Cached         bool    `json:"cached"`
	Error          string  `json:"error,omitempty"`
}

func toResponse(res lingo.Result) translateResponse {
	out := translateResponse{
		Success:        res.Success,
		TranslatedText: res.TranslatedText,
		SourceLang:     res.SourceLang,
		TargetLang:     res.TargetLang,
		DetectedLang:   res.DetectedLang,
		Confidence:     res.Confidence,
		Provider:       res.Provider,
		Cached:         res.Cached,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// statusFor maps a failed result to an HTTP status: bad input is the
// caller's fault, everything else is an upstream failure.
func statusFor(res lingo.Result) int {
	if res.Success {
		return http.StatusOK
	}
	var verr *lingo.ValidationError
	if errors.As(res.Err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (s *server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := s.svc.Translate(r.Context(), s.toRequest(req))
	writeJSON(w, statusFor(res), toResponse(res))
}

func (s *server) handleTranslateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texts      []string `json:"texts"`
		SourceLang string   `json:"source_lang"`
		TargetLang string   `json:"target_lang"`
		UseCache   *bool    `json:"use_cache"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts is required")
		return
	}

	base := s.toRequest(translateRequest{
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		UseCache:   req.UseCache,
	})

	results := s.svc.TranslateBatch(r.Context(), req.Texts, base.SourceLang, base.TargetLang, base.UseCache)

	out := make([]translateResponse, len(results))
	for i, res := range results {
		out[i] = toResponse(res)
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (s *server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	det := s.svc.DetectLanguage(r.Context(), req.Text)
	if !det.Success {
		status := http.StatusBadGateway
		var verr *lingo.ValidationError
		if errors.As(det.Err, &verr) {
			status = http.StatusBadRequest
		}
		writeError(w, status, det.Err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"lang":       det.Lang,
		"lang_name":  lingo.LanguageName(det.Lang),
		"confidence": det.Confidence,
	})
}

func (s *server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		Lang string `json:"lang"`
		Slow bool   `json:"slow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Lang == "" {
		req.Lang = "en"
	}

	sp := s.svc.Synthesize(r.Context(), req.Text, req.Lang, req.Slow)
	if !sp.Success {
		status := http.StatusBadGateway
		var verr *lingo.ValidationError
		if errors.As(sp.Err, &verr) {
			status = http.StatusBadRequest
		}
		writeError(w, status, sp.Err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"provider":     sp.Provider,
		"audio_base64": base64.StdEncoding.EncodeToString(sp.Audio),
	})
}

func (s *server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

func (s *server) handleCacheCleanup(w http.ResponseWriter, r *http.Request) {
	removed := s.store.CleanupExpired()
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": lingo.Languages,
		"popular":   lingo.PopularLanguages,
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   lingo.FullVersion(),
		"providers": s.svc.Providers(),
	})
}

// toRequest applies configured defaults to an incoming translate request.
func (s *server) toRequest(req translateRequest) lingo.Request {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = s.cfg.DefaultSourceLang
	}
	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = s.cfg.DefaultTargetLang
	}

	useCache := true
	if req.UseCache != nil {
		useCache = *req.UseCache
	}

	return lingo.Request{
		Text:       req.Text,
		SourceLang: lingo.NormalizeLanguageCode(sourceLang),
		TargetLang: lingo.NormalizeLanguageCode(targetLang),
		UseCache:   useCache,
	}
}

func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     sw.status,
			"duration":   time.Since(start).String(),
			"request_id": requestIDFrom(r.Context()),
		}).Info("request handled")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type ctxKey int

const requestIDKey ctxKey = 0

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
