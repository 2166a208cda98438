package translate

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// languageCodes maps human-readable language names (as they appear in
// configuration) to ISO 639-1 codes used for detection comparison.
var languageCodes = map[string]string{
	"french":     "fr",
	"english":    "en",
	"spanish":    "es",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"russian":    "ru",
	"japanese":   "ja",
	"chinese":    "zh",
	"korean":     "ko",
	"arabic":     "ar",
	"danish":     "da",
	"ukrainian":  "uk",
}

// LanguageCode resolves a configured language name to its ISO 639-1 code.
// Unknown names fall back to "en", matching the default target language
// assumption for feeds that are mostly English.
func LanguageCode(name string) string {
	if code, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return "en"
}

// DetectLanguage returns the ISO 639-1 code of the text's detected language,
// or "" when detection is not possible (text too short or ambiguous).
func DetectLanguage(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	info := whatlanggo.Detect(s)
	return info.Lang.Iso6391()
}
