package lingo

import "strings"

// AutoDetect is the pseudo language code for automatic source detection.
const AutoDetect = "auto"

// Languages maps ISO 639-1 codes to human-readable names.
var Languages = map[string]string{
	"af":    "Afrikaans",
	"sq":    "Albanian",
	"am":    "Amharic",
	"ar":    "Arabic",
	"hy":    "Armenian",
	"az":    "Azerbaijani",
	"eu":    "Basque",
	"be":    "Belarusian",
	"bn":    "Bengali",
	"bs":    "Bosnian",
	"bg":    "Bulgarian",
	"ca":    "Catalan",
	"ceb":   "Cebuano",
	"ny":    "Chichewa",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"co":    "Corsican",
	"hr":    "Croatian",
	"cs":    "Czech",
	"da":    "Danish",
	"nl":    "Dutch",
	"en":    "English",
	"eo":    "Esperanto",
	"et":    "Estonian",
	"tl":    "Filipino",
	"fi":    "Finnish",
	"fr":    "French",
	"fy":    "Frisian",
	"gl":    "Galician",
	"ka":    "Georgian",
	"de":    "German",
	"el":    "Greek",
	"gu":    "Gujarati",
	"ht":    "Haitian Creole",
	"ha":    "Hausa",
	"haw":   "Hawaiian",
	"iw":    "Hebrew",
	"hi":    "Hindi",
	"hmn":   "Hmong",
	"hu":    "Hungarian",
	"is":    "Icelandic",
	"ig":    "Igbo",
	"id":    "Indonesian",
	"ga":    "Irish",
	"it":    "Italian",
	"ja":    "Japanese",
	"jw":    "Javanese",
	"kn":    "Kannada",
	"kk":    "Kazakh",
	"km":    "Khmer",
	"ko":    "Korean",
	"ku":    "Kurdish (Kurmanji)",
	"ky":    "Kyrgyz",
	"lo":    "Lao",
	"la":    "Latin",
	"lv":    "Latvian",
	"lt":    "Lithuanian",
	"lb":    "Luxembourgish",
	"mk":    "Macedonian",
	"mg":    "Malagasy",
	"ms":    "Malay",
	"ml":    "Malayalam",
	"mt":    "Maltese",
	"mi":    "Maori",
	"mr":    "Marathi",
	"mn":    "Mongolian",
	"my":    "Myanmar (Burmese)",
	"ne":    "Nepali",
	"no":    "Norwegian",
	"ps":    "Pashto",
	"fa":    "Persian",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"pa":    "Punjabi",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sm":    "Samoan",
	"gd":    "Scots Gaelic",
	"sr":    "Serbian",
	"st":    "Sesotho",
	"sn":    "Shona",
	"sd":    "Sindhi",
	"si":    "Sinhala",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"so":    "Somali",
	"es":    "Spanish",
	"su":    "Sundanese",
	"sw":    "Swahili",
	"sv":    "Swedish",
	"tg":    "Tajik",
	"ta":    "Tamil",
	"te":    "Telugu",
	"th":    "Thai",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"uz":    "Uzbek",
	"vi":    "Vietnamese",
	"cy":    "Welsh",
	"xh":    "Xhosa",
	"yi":    "Yiddish",
	"yo":    "Yoruba",
	"zu":    "Zulu",
}

// PopularLanguages lists codes worth surfacing first in a picker.
var PopularLanguages = []string{
	"en", "es", "fr", "de", "zh-CN", "ja", "ko", "ar", "ru", "pt", "hi", "it",
}

// ttsSupported contains codes the speech synthesis endpoint accepts.
var ttsSupported = map[string]bool{
	"af": true, "ar": true, "bn": true, "bs": true, "ca": true, "cs": true,
	"cy": true, "da": true, "de": true, "el": true, "en": true, "eo": true,
	"es": true, "et": true, "fi": true, "fr": true, "gu": true, "hi": true,
	"hr": true, "hu": true, "id": true, "is": true, "it": true, "iw": true,
	"ja": true, "jw": true, "km": true, "kn": true, "ko": true, "la": true,
	"lv": true, "mk": true, "ml": true, "mr": true, "my": true, "ne": true,
	"nl": true, "no": true, "pl": true, "pt": true, "ro": true, "ru": true,
	"si": true, "sk": true, "sq": true, "sr": true, "su": true, "sv": true,
	"sw": true, "ta": true, "te": true, "th": true, "tl": true, "tr": true,
	"uk": true, "ur": true, "vi": true, "zh-CN": true, "zh-TW": true,
}

// rtlLanguages contains codes written right to left.
var rtlLanguages = map[string]bool{
	"ar": true,
	"iw": true,
	"fa": true,
	"ur": true,
}

// LanguageName returns the human-readable name for a language code.
// Falls back to the code itself if unknown.
func LanguageName(code string) string {
	if code == AutoDetect {
		return "Auto-detect"
	}
	if name, ok := Languages[code]; ok {
		return name
	}
	return code
}

// IsSupportedLanguage reports whether code is a known language or "auto".
func IsSupportedLanguage(code string) bool {
	if code == AutoDetect {
		return true
	}
	_, ok := Languages[code]
	return ok
}

// IsTTSSupported reports whether the speech endpoint accepts the language.
func IsTTSSupported(code string) bool {
	return ttsSupported[code]
}

// IsRTL reports whether the language is written right to left.
func IsRTL(code string) bool {
	return rtlLanguages[strings.ToLower(code)]
}

// NormalizeLanguageCode lowercases a code and maps Chinese variants to the
// canonical forms used by the language table ("zh_cn" -> "zh-CN").
func NormalizeLanguageCode(code string) string {
	if code == "" {
		return AutoDetect
	}

	code = strings.ToLower(strings.TrimSpace(code))

	switch code {
	case "zh", "zh-cn", "zh_cn", "zh-hans":
		return "zh-CN"
	case "zh-tw", "zh_tw", "zh-hant":
		return "zh-TW"
	}

	return code
}
