package rolodex

import (
	"strings"
	"unicode"
)

// toPascalCase converts a string to PascalCase
func toPascalCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, "")
}
