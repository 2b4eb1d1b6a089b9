// Package lang validates the audio language hint sent with transcriptions.
package lang

import (
	"fmt"
	"strings"
)

// names maps ISO 639-1 codes accepted by the transcription API to English names.
// Not exhaustive; covers the languages callers realistically speak.
var names = map[string]string{
	"af": "Afrikaans",
	"ar": "Arabic",
	"bg": "Bulgarian",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pa": "Punjabi",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sv": "Swedish",
	"tl": "Tagalog",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// Normalize lowercases a code and uses a hyphen separator.
// "pt_BR", "PT-BR" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

// Parse validates a language hint and returns the base ISO 639-1 code the
// API expects. Locales are reduced ("fr-CA" -> "fr"). Empty means
// auto-detect and returns "".
func Parse(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	base, _, _ := strings.Cut(Normalize(code), "-")
	if _, ok := names[base]; !ok {
		return "", fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'fr-CA'): %w",
			code, ErrInvalid)
	}
	return base, nil
}

// Name returns the English name for a base code, or the code itself.
func Name(code string) string {
	if name, ok := names[Normalize(code)]; ok {
		return name
	}
	return code
}
