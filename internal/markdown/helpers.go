package markdown

import "strings"

// Characters with markdown meaning when they appear in interpolated text
// such as titles.
const specialChars = `\` + "`" + `*_[]<>#`

// Escape backslash-escapes markdown control characters in input.
func Escape(input string) string {
	lookup := specialCharLookup()
	charsToEscape := 0

	for i := range input {
		if lookup[input[i]] {
			charsToEscape++
		}
	}
	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range input {
		c := input[i]
		if lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

func specialCharLookup() [256]bool {
	var m [256]bool
	for _, c := range []byte(specialChars) {
		m[c] = true
	}
	return m
}
