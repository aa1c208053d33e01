package match

import (
	"strings"
	"unicode"
)

// looseSuffixes are trailing header words that only qualify the column,
// as in "Order No." or "CustomerID".
var looseSuffixes = map[string]bool{
	"id":     true,
	"ids":    true,
	"no":     true,
	"nr":     true,
	"num":    true,
	"number": true,
	"code":   true,
}

// Normalize reduces a header or property name to its case-folded words
// joined without separators, so "Order Date", "order_date" and "OrderDate"
// all become "orderdate". Any rune that is neither a letter nor a digit
// separates words.
func Normalize(s string) string {
	return strings.Join(Words(s), "")
}

// NormalizeLoose is Normalize with one trailing qualifier word dropped.
// A single word is never dropped.
func NormalizeLoose(s string) string {
	words := Words(s)
	if n := len(words); n > 1 && looseSuffixes[words[n-1]] {
		words = words[:n-1]
	}

	return strings.Join(words, "")
}

// Words splits s into case-folded words at punctuation, spaces and
// camel-case boundaries:
//   - "Unit Price ($)" -> ["unit", "price"]
//   - "customerName" -> ["customer", "name"]
//   - "XMLFeed" -> ["xml", "feed"]
func Words(s string) []string {
	var (
		words   []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			words = append(words, Fold(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()

			continue
		}

		if len(current) > 0 && wordBoundary(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return words
}

// wordBoundary reports whether a camel-case word starts at runes[i].
func wordBoundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	// "orderID" splits before 'I'
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	// "XMLFeed" splits before 'F'
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
