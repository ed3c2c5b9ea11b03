package brand

import (
	"errors"
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig("Acme", "", "", "")
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.Name != "ACME" {
		t.Errorf("Name = %q, want ACME", cfg.Name)
	}
	if cfg.Industry != "Business" {
		t.Errorf("Industry = %q, want Business", cfg.Industry)
	}
	// Company falls back to the brand before the description is built.
	if !strings.HasPrefix(cfg.Description, "Acme is a company") {
		t.Errorf("Description = %q, want it to open with the company name", cfg.Description)
	}
	if len(cfg.ContextNotes) != 4 {
		t.Fatalf("ContextNotes count = %d, want 4", len(cfg.ContextNotes))
	}
	if !strings.Contains(cfg.ContextNotes[2], `"acme"`) {
		t.Errorf("ContextNotes[2] = %q, want quoted lowercase brand", cfg.ContextNotes[2])
	}
}

func TestNewConfigExplicit(t *testing.T) {
	cfg, err := NewConfig("TUI", "TUI Group", "Travel", "European travel operator")
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Name != "TUI GROUP" {
		t.Errorf("Name = %q, want TUI GROUP", cfg.Name)
	}
	if cfg.Industry != "Travel" {
		t.Errorf("Industry = %q, want Travel", cfg.Industry)
	}
	if cfg.Description != "European travel operator" {
		t.Errorf("Description = %q", cfg.Description)
	}
}

func TestNewConfigNoBrand(t *testing.T) {
	for _, name := range []string{"", "   "} {
		if _, err := NewConfig(name, "", "", ""); !errors.Is(err, ErrNoBrandName) {
			t.Errorf("NewConfig(%q) err = %v, want ErrNoBrandName", name, err)
		}
	}
}
