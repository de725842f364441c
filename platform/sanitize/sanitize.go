// Package sanitize strips markup from pasted text before it is parsed.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// lineBreakRegex matches tags that end a visual line in pasted tables
	lineBreakRegex = regexp.MustCompile(`(?i)<\s*(br|/p|/tr|/li|/div)\s*/?\s*>`)
	// cellBreakRegex matches tags that separate cells on one line
	cellBreakRegex = regexp.MustCompile(`(?i)<\s*/t[dh]\s*>`)
)

// StripHTML removes all HTML tags from a string. Line-ending tags such as
// <br> and </tr> become newlines and cell ends become tabs, so a pasted
// table keeps one row per line.
func StripHTML(s string) string {
	result := lineBreakRegex.ReplaceAllString(s, "\n")
	result = cellBreakRegex.ReplaceAllString(result, "\t")
	result = htmlTagRegex.ReplaceAllString(result, "")
	result = html.UnescapeString(result)
	result = strings.ReplaceAll(result, "\u00a0", " ")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}
