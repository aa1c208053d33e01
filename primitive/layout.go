package primitive

import (
	"strings"
)

type layoutToken struct {
	kind byte // y m d h s, 'a' for AM/PM, 'f' for fractional seconds, 0 for literals
	n    int
	lit  string
}

// Layout translates an Excel number format for dates and times into a Go
// time layout, e.g. "m/d/yyyy h:mm" into "1/2/2006 15:04". Formats that are
// already Go layouts are returned unchanged.
func Layout(format string) string {
	if IsLayout(format) {
		return format
	}

	tokens := tokenizeFormat(format)

	twelve := false

	for _, t := range tokens {
		if t.kind == 'a' {
			twelve = true
		}
	}

	var b strings.Builder

	for i, t := range tokens {
		switch t.kind {
		case 'y':
			b.WriteString(pick(t.n, "06", "06", "2006"))
		case 'm':
			if isMinuteToken(tokens, i) {
				b.WriteString(pick(t.n, "4", "04"))
			} else {
				b.WriteString(pick(t.n, "1", "01", "Jan", "January"))
			}
		case 'd':
			b.WriteString(pick(t.n, "2", "02", "Mon", "Monday"))
		case 'h':
			if twelve {
				b.WriteString(pick(t.n, "3", "03"))
			} else {
				b.WriteString("15")
			}
		case 's':
			b.WriteString(pick(t.n, "5", "05"))
		case 'a':
			b.WriteString("PM")
		case 'f':
			b.WriteString("." + strings.Repeat("0", t.n))
		default:
			b.WriteString(t.lit)
		}
	}

	return b.String()
}

// IsLayout reports whether format looks like a Go reference-time layout
// rather than an Excel number format.
func IsLayout(format string) bool {
	for _, ref := range []string{"2006", "15:04", "03:04", "Jan", "01/02", "02/01", "01-02"} {
		if strings.Contains(format, ref) {
			return true
		}
	}

	return false
}

// pick returns the variant for a token repeated n times, the last variant for
// longer runs.
func pick(n int, variants ...string) string {
	if n > len(variants) {
		n = len(variants)
	}

	return variants[n-1]
}

func tokenizeFormat(format string) []layoutToken {
	var tokens []layoutToken

	lower := strings.ToLower(format)

	for i := 0; i < len(format); {
		c := lower[i]

		switch {
		case c == '"':
			end := strings.IndexByte(format[i+1:], '"')
			if end < 0 {
				tokens = append(tokens, layoutToken{lit: format[i+1:]})
				i = len(format)

				continue
			}

			tokens = append(tokens, layoutToken{lit: format[i+1 : i+1+end]})
			i += end + 2
		case c == '\\':
			if i+1 < len(format) {
				tokens = append(tokens, layoutToken{lit: format[i+1 : i+2]})
			}

			i += 2
		case c == '[':
			// locale and elapsed-time sections
			end := strings.IndexByte(format[i:], ']')
			if end < 0 {
				i = len(format)
			} else {
				i += end + 1
			}
		case c == '_' || c == '*':
			i += 2
		case strings.HasPrefix(lower[i:], "am/pm"):
			tokens = append(tokens, layoutToken{kind: 'a'})
			i += len("am/pm")
		case strings.HasPrefix(lower[i:], "a/p"):
			tokens = append(tokens, layoutToken{kind: 'a'})
			i += len("a/p")
		case strings.IndexByte("ymdhs", c) >= 0:
			n := 1
			for i+n < len(lower) && lower[i+n] == c {
				n++
			}

			tokens = append(tokens, layoutToken{kind: c, n: n})
			i += n
		case c == '.' && len(tokens) > 0 && tokens[len(tokens)-1].kind == 's':
			n := 0
			for i+1+n < len(format) && format[i+1+n] == '0' {
				n++
			}

			if n == 0 {
				tokens = append(tokens, layoutToken{lit: "."})
			} else {
				tokens = append(tokens, layoutToken{kind: 'f', n: n})
			}

			i += 1 + n
		default:
			tokens = append(tokens, layoutToken{lit: format[i : i+1]})
			i++
		}
	}

	return tokens
}

// isMinuteToken resolves the m ambiguity: minutes follow hours or precede
// seconds, months otherwise.
func isMinuteToken(tokens []layoutToken, at int) bool {
	for i := at - 1; i >= 0; i-- {
		if tokens[i].kind != 0 {
			if tokens[i].kind == 'h' {
				return true
			}

			break
		}
	}

	for i := at + 1; i < len(tokens); i++ {
		if tokens[i].kind != 0 {
			return tokens[i].kind == 's'
		}
	}

	return false
}
