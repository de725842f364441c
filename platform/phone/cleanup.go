package phone

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Options selects which cleanup stages run before classification.
type Options struct {
	// NoiseTolerant enables the extra cleanup for hand-typed and OCR'd
	// input: O/o read as 0, spreadsheet quoting artifacts, typographic
	// quotes and full-width digits.
	NoiseTolerant bool
}

// quoteArtifacts are removed in noise-tolerant mode. Spreadsheet exports
// prefix cells with = or ' to force text, and copy/paste brings in
// typographic quotes.
var quoteArtifacts = strings.NewReplacer(
	"=", "",
	"'", "",
	`"`, "",
	"`", "",
	"\u00b4", "",
	"\u2018", "", "\u2019", "", "\u201a", "", "\u201b", "",
	"\u201c", "", "\u201d", "", "\u201e", "", "\u201f", "",
	"\u2039", "", "\u203a", "",
	"\u00ab", "", "\u00bb", "",
)

var letterDigits = strings.NewReplacer("O", "0", "o", "0")

// foldText maps compatibility forms (full-width digits, full-width plus)
// to ASCII and drops invisible format characters such as zero-width
// spaces and BOMs.
func foldText(s string) string {
	t := transform.Chain(
		norm.NFKC,
		runes.Remove(runes.In(unicode.Cf)),
		width.Fold,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// clean reduces raw input to an optional leading "+" followed by digits.
func clean(raw string, opts Options) string {
	s := strings.TrimSpace(raw)
	if opts.NoiseTolerant {
		s = foldText(s)
		s = letterDigits.Replace(s)
		s = quoteArtifacts.Replace(s)
		s = strings.TrimSpace(s)
	}

	var b strings.Builder
	b.Grow(len(s))
	if strings.HasPrefix(s, "+") {
		b.WriteByte('+')
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
