package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var vacancyTitle = fieldRule{
	selectors: []string{`h1[data-qa="vacancy-title"]`, `h1`},
	fallback:  Placeholder,
}

var vacancyFields = []fieldRule{
	{
		label:     "Компания",
		selectors: []string{`a[data-qa="vacancy-company-name"]`, `span[data-qa="bloko-header-2"]`},
		fallback:  Placeholder,
	},
	{
		label:     "Зарплата",
		selectors: []string{`div[data-qa="vacancy-salary"]`, `span[data-qa="vacancy-salary"]`},
		fallback:  Placeholder,
	},
	{
		label:     "Опыт работы",
		selectors: []string{`span[data-qa="vacancy-experience"]`},
		fallback:  Placeholder,
	},
	{
		label:     "Тип занятости",
		selectors: []string{`p[data-qa="vacancy-view-employment-mode"]`},
		fallback:  Placeholder,
	},
}

// ExtractVacancy renders a vacancy page as a markdown document. Metadata
// fields degrade to the placeholder when missing; the description section is
// omitted entirely when the page carries none.
func ExtractVacancy(html string) (string, error) {
	doc, err := parse("vacancy", html)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeMetadata(&b, resolve(doc.Selection, vacancyTitle), vacancyFields, doc.Selection)
	writeSection(&b, "Описание", vacancyDescription(doc))

	return strings.TrimSpace(b.String()), nil
}

// vacancyDescription collects the text of all paragraph, list and div
// children of the description container, in document order.
func vacancyDescription(doc *goquery.Document) string {
	var parts []string

	doc.Find(`div[data-qa="vacancy-description"]`).First().Find("p, div, li").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n")
}
