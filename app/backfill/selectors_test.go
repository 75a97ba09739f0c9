package backfill

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSelectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yml")
	data := "selectors:\n  - \".hero img\"\n  - \".cover-photo img\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	selectors, err := LoadSelectors(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(selectors) != 2 {
		t.Fatalf("Expected 2 selectors, got %d", len(selectors))
	}
	if selectors[0] != ".hero img" {
		t.Errorf("Unexpected selector: '%s'", selectors[0])
	}
}

func TestLoadSelectorsEmptyPath(t *testing.T) {
	selectors, err := LoadSelectors("")
	if err != nil {
		t.Fatal(err)
	}
	if selectors != nil {
		t.Errorf("Expected nil for empty path, got %v", selectors)
	}
}

func TestLoadSelectorsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	if err := os.WriteFile(path, []byte("selectors: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSelectors(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadSelectorsMissingFile(t *testing.T) {
	if _, err := LoadSelectors("/nonexistent/selectors.yml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
