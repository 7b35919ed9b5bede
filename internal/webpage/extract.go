package webpage

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// contentSelector lists the tags whose text is worth keeping;
// removeSelector lists the ones stripped out before extraction.
const (
	contentSelector = "p, h1, h2, h3, h4, h5, h6, li, article, section, div, span, main, blockquote, td, th, dd, dt"
	removeSelector  = "script, style, nav, header, footer, aside, noscript"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// sentence endings recognised by Truncate, including CJK fullwidth forms
var sentenceEndings = []string{".", "!", "?", "。", "！", "？"}

// ExtractReadableText parses the HTML, drops non-content elements and joins
// the text of the content tags. When no content tag holds text it falls back
// to the body, then to the whole document. The result is whitespace-collapsed
// and capped at MaxTextLength.
func ExtractReadableText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(removeSelector).Remove()

	var parts []string
	doc.Find(contentSelector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		log.Warn().Msg("no text in content tags, falling back to body text")
		if body := strings.TrimSpace(doc.Find("body").Text()); body != "" {
			parts = append(parts, body)
		}
	}
	if len(parts) == 0 {
		log.Warn().Msg("body is empty, falling back to whole document")
		if all := strings.TrimSpace(doc.Text()); all != "" {
			parts = append(parts, all)
		}
	}

	full := strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.Join(parts, " "), " "))
	if full == "" {
		return "", ErrEmptyPage
	}

	if len(full) > MaxTextLength {
		log.Warn().Int("length", len(full)).Int("max", MaxTextLength).Msg("extracted text capped")
		full = capLength(full, MaxTextLength)
	}
	return full, nil
}

// Truncate cuts text down to maxLen bytes, preferring a sentence boundary in
// the final 30% of the window, then a word boundary, then a hard cut.
func Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	cut := runeBoundary(text, maxLen)
	truncated := text[:cut]
	threshold := int(float64(maxLen) * 0.7)

	best := -1
	for _, ending := range sentenceEndings {
		if pos := strings.LastIndex(truncated, ending); pos > threshold {
			if end := pos + len(ending); end > best {
				best = end
			}
		}
	}
	if best > 0 {
		return text[:best]
	}

	if space := strings.LastIndex(truncated, " "); space > threshold {
		return text[:space]
	}
	return truncated
}

func capLength(text string, maxLen int) string {
	cut := runeBoundary(text, maxLen)
	if space := strings.LastIndex(text[:cut], " "); space > 0 {
		cut = space
	}
	return text[:cut] + "..."
}

// runeBoundary backs idx off so it never lands inside a multi-byte rune.
func runeBoundary(text string, idx int) int {
	for idx > 0 && !utf8.RuneStart(text[idx]) {
		idx--
	}
	return idx
}
