package types

import "strings"

// Link-card codes are 8 characters from A-Z0-9, rendered in two blocks:
// XXXX-XXXX.
const codeChars = 8

// NormalizeCode canonicalizes user input into the XXXX-XXXX shape:
// uppercase, strip everything that is not alphanumeric, then require exactly
// eight characters. Anything else is ErrCodeMalformed.
func NormalizeCode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) != codeChars {
		return "", ErrCodeMalformed
	}
	return clean[:4] + "-" + clean[4:], nil
}
