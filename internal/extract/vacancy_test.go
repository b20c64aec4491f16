package extract

import (
	"strings"
	"testing"
)

const vacancyHTML = `<html><body>
<h1 data-qa="vacancy-title">Python Developer</h1>
<a data-qa="vacancy-company-name">Яндекс</a>
<div data-qa="vacancy-salary">от 250 000 ₽</div>
<span data-qa="vacancy-experience">3–6 лет</span>
<p data-qa="vacancy-view-employment-mode">Полная занятость</p>
<div data-qa="vacancy-description">
  <p>Мы ищем разработчика.</p>
  <ul><li>Опыт с Django</li></ul>
</div>
</body></html>`

func TestExtractVacancy(t *testing.T) {
	t.Parallel()

	got, err := ExtractVacancy(vacancyHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := strings.Join([]string{
		"# Python Developer",
		"",
		"**Компания:** Яндекс",
		"**Зарплата:** от 250 000 ₽",
		"**Опыт работы:** 3–6 лет",
		"**Тип занятости:** Полная занятость",
		"",
		"## Описание",
		"",
		"Мы ищем разработчика.",
		"Опыт с Django",
	}, "\n")

	if got != expect {
		t.Fatalf("unexpected document:\n%s\n\nexpected:\n%s", got, expect)
	}
}

func TestExtractVacancyIdempotent(t *testing.T) {
	t.Parallel()

	first, err := ExtractVacancy(vacancyHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := ExtractVacancy(vacancyHTML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatal("expected byte-identical output for identical input")
	}
}

func TestExtractVacancyFallbackSelectors(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<h1>Go Developer</h1>
<span data-qa="vacancy-salary">100 000 ₽</span>
</body></html>`

	got, err := ExtractVacancy(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "# Go Developer") {
		t.Fatalf("expected plain h1 fallback, got:\n%s", got)
	}

	if !strings.Contains(got, "**Зарплата:** 100 000 ₽") {
		t.Fatalf("expected span salary fallback, got:\n%s", got)
	}
}

func TestExtractVacancyEmptyHTML(t *testing.T) {
	t.Parallel()

	got, err := ExtractVacancy("<html><body></body></html>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := strings.Join([]string{
		"# Не указано",
		"",
		"**Компания:** Не указано",
		"**Зарплата:** Не указано",
		"**Опыт работы:** Не указано",
		"**Тип занятости:** Не указано",
	}, "\n")

	if got != expect {
		t.Fatalf("unexpected document:\n%s", got)
	}

	if strings.Contains(got, "## ") {
		t.Fatalf("expected no optional sections, got:\n%s", got)
	}
}

func TestExtractVacancyCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	html := "<html><body><h1 data-qa=\"vacancy-title\">\n\tSenior\n\t  Python   Developer\n</h1></body></html>"

	got, err := ExtractVacancy(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "# Senior Python Developer") {
		t.Fatalf("expected collapsed whitespace in title, got:\n%s", got)
	}
}
