package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  sk-test-key \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	got, err := Load(Source{Name: "api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "sk-test-key" {
		t.Fatalf("expected trimmed secret, got %q", got)
	}
}

func TestLoadFilePrecedesValue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	got, err := Load(Source{Name: "api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	tests := []struct {
		name string
		src  Source
	}{
		{name: "nothing configured", src: Source{Name: "api key"}},
		{name: "missing file", src: Source{Name: "api key", File: filepath.Join(t.TempDir(), "nope")}},
		{name: "empty file", src: Source{Name: "api key", File: empty}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(tt.src); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
