package fetcher

import "testing"

func TestAllowedURL(t *testing.T) {
	t.Parallel()

	domains := []string{"hh.ru"}

	tests := []struct {
		name   string
		url    string
		expect bool
	}{
		{name: "vacancy link", url: "https://hh.ru/vacancy/12345", expect: true},
		{name: "subdomain", url: "https://spb.hh.ru/resume/abcdef", expect: true},
		{name: "plain http", url: "http://hh.ru/vacancy/1", expect: true},
		{name: "other domain", url: "https://example.com/vacancy/1", expect: false},
		{name: "suffix lookalike", url: "https://nothh.ru/vacancy/1", expect: false},
		{name: "wrong scheme", url: "ftp://hh.ru/vacancy/1", expect: false},
		{name: "no scheme", url: "hh.ru/vacancy/1", expect: false},
		{name: "empty", url: "", expect: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AllowedURL(tt.url, domains); got != tt.expect {
				t.Fatalf("AllowedURL(%q) = %v, expected %v", tt.url, got, tt.expect)
			}
		})
	}
}
