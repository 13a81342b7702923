package usecase

import "strings"

// containsPhrase reports whether text contains phrase as a case-insensitive
// substring. Both sides are trimmed first; an empty phrase matches nothing,
// so a blank trigger can never fire on arbitrary speech.
func containsPhrase(text, phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return false
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return false
	}
	return strings.Contains(text, phrase)
}
