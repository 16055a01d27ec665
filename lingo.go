// Package lingo is a translation front-end that routes requests to external
// translation and text-to-speech providers, with a local caching layer to
// avoid redundant calls.
//
// The core is an LRU cache with absolute TTL expiry keyed by a fingerprint of
// (text, source language, target language), shared across concurrent request
// paths. Around it sits a retry/fallback orchestrator that walks a fixed
// provider chain with linear backoff.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/lexiconlabs/lingo"
//	    "github.com/lexiconlabs/lingo/cache"
//	    "github.com/lexiconlabs/lingo/provider"
//	)
//
//	func main() {
//	    store := cache.NewMemoryCache(cache.Options{MaxSize: 1000, TTL: 24 * time.Hour})
//	    svc := lingo.NewService(
//	        []lingo.Provider{provider.NewGoogleWebProvider(provider.GoogleWebConfig{})},
//	        lingo.WithCache(store),
//	    )
//
//	    res := svc.Translate(context.Background(), lingo.Request{
//	        Text:       "Hello World",
//	        SourceLang: "en",
//	        TargetLang: "es",
//	        UseCache:   true,
//	    })
//	    if res.Success {
//	        fmt.Println(res.TranslatedText) // Hola Mundo
//	    }
//	}
package lingo
