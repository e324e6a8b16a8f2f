package workflow

import (
	"errors"
	"regexp"
	"strings"
)

// ErrBadPattern reports a malformed glob pattern.
var ErrBadPattern = errors.New("malformed glob pattern")

// matchGlob matches value against a case-insensitive glob pattern. `*`
// matches any run of characters (including path separators), `?` matches a
// single character, and `[seq]` matches a character class. The whole value
// must match. A malformed pattern is an error, never an implicit
// match-everything.
func matchGlob(pattern, value string) (bool, error) {
	re, err := compileGlob(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(value), nil
}

func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder

	b.WriteString(`(?i)\A`)

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				return nil, ErrBadPattern
			}

			class := pattern[i+1 : i+1+end]
			if class == "" || class == "!" || class == "^" {
				return nil, ErrBadPattern
			}

			negated := false
			if class[0] == '!' || class[0] == '^' {
				negated = true
				class = class[1:]
			}

			b.WriteByte('[')
			if negated {
				b.WriteByte('^')
			}
			writeClass(&b, class)
			b.WriteByte(']')

			i += end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`\z`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, ErrBadPattern
	}

	return re, nil
}

// writeClass escapes class members, keeping literal ranges like a-z intact.
func writeClass(b *strings.Builder, class string) {
	for i := 0; i < len(class); i++ {
		switch c := class[i]; c {
		case '\\', ']', '^':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
}
