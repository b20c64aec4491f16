package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var resumeName = fieldRule{
	selectors: []string{`h2[data-qa="resume-personal-name"]`, `h1`},
	fallback:  Placeholder,
}

var resumeFields = []fieldRule{
	{
		label:     "Должность",
		selectors: []string{`span[data-qa="resume-block-title-position"]`},
		fallback:  Placeholder,
	},
	{
		label:     "Желаемая зарплата",
		selectors: []string{`span[data-qa="resume-block-salary"]`},
		fallback:  Placeholder,
	},
	{
		label:     "Местоположение",
		selectors: []string{`span[data-qa="resume-personal-address"]`},
		fallback:  Placeholder,
	},
}

// Sub-fields of one experience item, resolved within the item subtree.
var (
	experiencePeriod      = fieldRule{selectors: []string{`div.bloko-column_s-2`}}
	experienceDuration    = fieldRule{selectors: []string{`div.bloko-text`}}
	experienceCompany     = fieldRule{selectors: []string{`div.bloko-text_strong`}, fallback: "Компания не указана"}
	experiencePosition    = fieldRule{selectors: []string{`div[data-qa="resume-block-experience-position"]`}, fallback: "Должность не указана"}
	experienceDescription = fieldRule{selectors: []string{`div[data-qa="resume-block-experience-description"]`}}
)

// ExtractResume renders a resume page as a markdown document. The
// experience, skills and education sections are included only when the page
// carries content for them.
func ExtractResume(html string) (string, error) {
	doc, err := parse("resume", html)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeMetadata(&b, resolve(doc.Selection, resumeName), resumeFields, doc.Selection)

	writeSection(&b, "Опыт работы", resumeExperience(doc))

	if skills := resumeSkills(doc); len(skills) > 0 {
		quoted := make([]string, 0, len(skills))
		for _, skill := range skills {
			quoted = append(quoted, "`"+skill+"`")
		}
		writeSection(&b, "Ключевые навыки", strings.Join(quoted, ", "))
	}

	if education := resumeEducation(doc); len(education) > 0 {
		bullets := make([]string, 0, len(education))
		for _, entry := range education {
			bullets = append(bullets, "- "+entry)
		}
		writeSection(&b, "Образование", strings.Join(bullets, "\n"))
	}

	return strings.TrimSpace(b.String()), nil
}

// resumeExperience formats one paragraph per experience item. An item that
// yields no content at all is skipped without aborting the rest.
func resumeExperience(doc *goquery.Document) string {
	var items []string

	doc.Find(`div[data-qa="resume-block-experience"]`).First().Find("div.resume-block-item-gap").Each(func(_ int, item *goquery.Selection) {
		if entry := experienceEntry(item); entry != "" {
			items = append(items, entry)
		}
	})

	return strings.Join(items, "\n\n")
}

func experienceEntry(item *goquery.Selection) string {
	period := resolve(item, experiencePeriod)
	duration := resolve(item, experienceDuration)
	company := resolve(item, experienceCompany)
	position := resolve(item, experiencePosition)
	description := resolve(item, experienceDescription)

	if period == "" && duration == "" && description == "" {
		return ""
	}

	header := "**" + period + "**"
	if duration != "" {
		header += " (" + duration + ")"
	}

	lines := []string{header, "*" + company + "*", "**" + position + "**"}
	if description != "" {
		lines = append(lines, description)
	}

	return strings.Join(lines, "\n")
}

func resumeSkills(doc *goquery.Document) []string {
	var skills []string

	doc.Find(`div[data-qa="skills-table"]`).First().Find(`span[data-qa="bloko-tag__text"]`).Each(func(_ int, tag *goquery.Selection) {
		if text := normalizeText(tag.Text()); text != "" {
			skills = append(skills, text)
		}
	})

	return skills
}

func resumeEducation(doc *goquery.Document) []string {
	var entries []string

	doc.Find(`div[data-qa="resume-block-education"]`).First().Find("div.resume-block-item-gap").Each(func(_ int, item *goquery.Selection) {
		if text := normalizeText(item.Text()); text != "" {
			entries = append(entries, text)
		}
	})

	return entries
}
