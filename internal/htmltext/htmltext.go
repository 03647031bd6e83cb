// Package htmltext turns HTML fragments and HTML-escaped feed text into plain text.
//
// Feed descriptions often arrive escaped once or twice (&lt;p&gt;, &amp;rsquo;),
// so the input is entity-decoded until it stops changing before it is tokenized.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// ToText strips markup, decodes entities and collapses whitespace.
// Only complete tags are removed; a '<' with no closing '>' after it is text.
func ToText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(escapeUnclosed(unescapeAll(raw))))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way keep what was read.
			return Collapse(b.String())
		case html.StartTagToken:
			if isRawTextTag(z) {
				skip++
			}
		case html.EndTagToken:
			if skip > 0 && isRawTextTag(z) {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// unescapeAll decodes entities until nothing changes, so markup escaped any
// number of times becomes markup.
func unescapeAll(s string) string {
	for {
		next := html.UnescapeString(s)
		if next == s {
			return s
		}
		s = next
	}
}

// escapeUnclosed escapes every '<' that has no '>' after it. The tokenizer
// would otherwise swallow the rest of the input as an unterminated tag.
func escapeUnclosed(s string) string {
	last := strings.LastIndexByte(s, '>')
	tail := s[last+1:]
	if !strings.Contains(tail, "<") {
		return s
	}
	return s[:last+1] + strings.ReplaceAll(tail, "<", "&lt;")
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// Collapse replaces every whitespace run, newlines included, with one space
// and trims the ends.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
