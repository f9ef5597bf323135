package domain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistry_BuiltinCars(t *testing.T) {
	r := NewRegistry()

	rules, ok := r.Lookup("cars")
	if !ok {
		t.Fatal("expected built-in cars domain")
	}
	if len(rules.Vocabulary) == 0 {
		t.Error("expected cars vocabulary")
	}
	if rules.SystemPrompt == "" {
		t.Error("expected cars system prompt")
	}

	// Lookup is case-insensitive
	if _, ok := r.Lookup("CARS"); !ok {
		t.Error("expected case-insensitive lookup")
	}

	if _, ok := r.Lookup("boats"); ok {
		t.Error("expected miss for unknown domain")
	}
}

func TestRegistry_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packs.yaml")
	content := `
- name: real_estate
  vocabulary: [mieszkanie, pokój, metraż]
  max_length: 800
- name: Cars
  vocabulary: [bolid]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	rules, ok := r.Lookup("real_estate")
	if !ok {
		t.Fatal("expected loaded domain")
	}
	if rules.MaxLength != 800 {
		t.Errorf("expected max_length 800, got %d", rules.MaxLength)
	}

	// A pack with a built-in name replaces it
	cars, _ := r.Lookup("cars")
	if len(cars.Vocabulary) != 1 || cars.Vocabulary[0] != "bolid" {
		t.Errorf("expected cars override, got %v", cars.Vocabulary)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "cars" || names[1] != "real_estate" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestRegistry_LoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("- vocabulary: [x]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err == nil {
		t.Error("expected error for pack without a name")
	}

	if err := r.LoadFile("no_such_file.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
