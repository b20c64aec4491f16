// Package extract converts hh.ru vacancy and resume pages into normalized
// markdown documents.
//
// Every metadata field is resolved through an ordered selector cascade: the
// first selector whose text is non-empty wins, and a literal placeholder is
// substituted when nothing matches. Missing markup is never an error.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Placeholder is substituted for every metadata field that cannot be located
// in the source markup.
const Placeholder = "Не указано"

var reWhitespace = regexp.MustCompile(`\s+`)

// ExtractionError wraps a parser-level failure. Per-field misses never cause
// it: they degrade to the placeholder instead.
type ExtractionError struct {
	Doc string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s data: %v", e.Doc, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// fieldRule is one entry of the cascade table: selectors are tried in fixed
// priority order and the first non-empty match wins, otherwise fallback is
// substituted.
type fieldRule struct {
	label     string
	selectors []string
	fallback  string
}

// resolve applies a rule within the given scope, which may be the whole
// document or a single item subtree.
func resolve(scope *goquery.Selection, rule fieldRule) string {
	for _, selector := range rule.selectors {
		if text := normalizeText(scope.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return rule.fallback
}

func normalizeText(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

func parse(doc, html string) (*goquery.Document, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{Doc: doc, Err: err}
	}
	return parsed, nil
}

func writeMetadata(b *strings.Builder, title string, rules []fieldRule, scope *goquery.Selection) {
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")

	for _, rule := range rules {
		fmt.Fprintf(b, "**%s:** %s\n", rule.label, resolve(scope, rule))
	}
}

func writeSection(b *strings.Builder, heading, content string) {
	if content == "" {
		return
	}

	b.WriteString("\n## ")
	b.WriteString(heading)
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n")
}
