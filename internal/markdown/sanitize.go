package markdown

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeTitle maps a human conversation title onto a filesystem-safe
// token: only letters, digits and spaces survive, then each word is
// capitalized and the words are concatenated. "fix the *parser*!"
// becomes "FixTheParser". Titles with nothing usable fall back to
// "UntitledConversation".
func SanitizeTitle(title string) string {
	var kept strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			kept.WriteRune(r)
		}
	}

	words := strings.Fields(kept.String())
	if len(words) == 0 {
		return "UntitledConversation"
	}

	var out strings.Builder
	for _, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		out.WriteRune(unicode.ToUpper(r))
		out.WriteString(w[size:])
	}
	return out.String()
}
