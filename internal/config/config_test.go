package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFindsManifestUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	manifest := `
extensions = [".rs", ".rs.in"]
recursive = false
workers = 4
`
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}

	file, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file == nil {
		t.Fatal("manifest not found")
	}

	if len(file.Extensions) != 2 || file.Extensions[0] != ".rs" {
		t.Errorf("extensions = %v, want [.rs .rs.in]", file.Extensions)
	}
	if file.Recursive == nil || *file.Recursive {
		t.Errorf("recursive = %v, want false", file.Recursive)
	}
	if file.Workers != 4 {
		t.Errorf("workers = %d, want 4", file.Workers)
	}
}

func TestLoadNoManifest(t *testing.T) {
	file, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file != nil {
		t.Errorf("file = %+v, want nil", file)
	}
}

func TestLoadUnsetRecursiveStaysNil(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("workers = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	file, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.Recursive != nil {
		t.Errorf("recursive = %v, want nil (unset)", *file.Recursive)
	}
	if file.Workers != 2 {
		t.Errorf("workers = %d, want 2", file.Workers)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("worker = 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for unknown key")
	}
}
