package persona

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var brTagRegex = regexp.MustCompile(`(?i)<br\s*/?>`)

// sanitizeGuardianText renders guardian-entered rich text as plain
// text: <br> markers become real line breaks, any other markup the
// admin editor produced is stripped.
func sanitizeGuardianText(raw string) string {
	if raw == "" {
		return ""
	}
	withBreaks := brTagRegex.ReplaceAllString(raw, "\n")
	if !strings.Contains(withBreaks, "<") {
		return strings.TrimSpace(withBreaks)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(withBreaks))
	if err != nil {
		return strings.TrimSpace(withBreaks)
	}
	return strings.TrimSpace(doc.Text())
}
