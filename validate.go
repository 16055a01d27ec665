package lingo

import (
	"regexp"
	"strings"
)

// Text length bounds. TTS endpoints tolerate far less than translation.
const (
	MaxTextLength    = 5000
	MaxTextLengthTTS = 2000
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// ValidateText checks the text field of a request. maxLength <= 0 means the
// default limit.
func ValidateText(text string, maxLength int) error {
	if maxLength <= 0 {
		maxLength = MaxTextLength
	}

	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Message: "please enter text to translate"}
	}

	if len(text) > maxLength {
		return &ValidationError{Field: "text", Message: "text exceeds maximum length"}
	}

	return nil
}

// ValidateLanguagePair checks source and target language codes. The target
// can never be "auto", and source and target may not match.
func ValidateLanguagePair(sourceLang, targetLang string) error {
	if !IsSupportedLanguage(sourceLang) {
		return &ValidationError{Field: "source_lang", Message: "unsupported language: " + sourceLang}
	}

	if targetLang == AutoDetect {
		return &ValidationError{Field: "target_lang", Message: "target language cannot be auto-detect"}
	}

	if !IsSupportedLanguage(targetLang) {
		return &ValidationError{Field: "target_lang", Message: "unsupported language: " + targetLang}
	}

	if sourceLang != AutoDetect && sourceLang == targetLang {
		return &ValidationError{Field: "target_lang", Message: "source and target languages cannot be the same"}
	}

	return nil
}

// ValidateRequest checks a complete translation request.
func ValidateRequest(req Request, maxLength int) error {
	if err := ValidateText(req.Text, maxLength); err != nil {
		return err
	}
	return ValidateLanguagePair(req.SourceLang, req.TargetLang)
}

// SanitizeText strips control characters and collapses runs of whitespace.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	s := controlChars.ReplaceAllString(text, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TruncateText shortens text to maxLength, appending "..." when it cuts.
func TruncateText(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	const suffix = "..."
	if maxLength <= len(suffix) {
		return text[:maxLength]
	}
	return text[:maxLength-len(suffix)] + suffix
}
