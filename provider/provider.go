// Package provider implements translation, detection, and speech synthesis
// backends consumed by the lingo service.
package provider

import "github.com/lexiconlabs/lingo"

// Provider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type Provider = lingo.Provider

// Translation is an alias to the main package type.
type Translation = lingo.Translation
