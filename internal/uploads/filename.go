package uploads

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SanitizeFilename returns an ASCII only version of name that is safe to store on disk.
// Path separators become word breaks, whitespace runs become a single underscore,
// and everything outside [A-Za-z0-9_.-] is dropped. Leading and trailing dots and
// underscores are trimmed, so the result may be empty.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r > 127 {
			continue
		}
		if r == '/' || r == '\\' {
			r = ' '
		}
		ascii.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var sb strings.Builder
	for _, r := range joined {
		if isSafeFilenameRune(r) {
			sb.WriteRune(r)
		}
	}

	return strings.Trim(sb.String(), "._")
}

func isSafeFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.' || r == '-':
		return true
	default:
		return false
	}
}
