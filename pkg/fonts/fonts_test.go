package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
)

func TestDefault(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	again, _ := Default()
	if f != again {
		t.Error("Default() should return the cached font")
	}
}

func TestNewFace(t *testing.T) {
	face, err := NewFace("", DefaultSize)
	if err != nil {
		t.Fatalf("NewFace() error = %v", err)
	}
	defer face.Close()

	small, _ := NewFace("", DefaultSize)
	large, _ := NewFace("", DefaultSize*2)
	ws := font.MeasureString(small, "popcon")
	wl := font.MeasureString(large, "popcon")
	if wl <= ws {
		t.Errorf("larger face should measure wider: %v <= %v", wl, ws)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFace(bad, DefaultSize); err == nil {
		t.Error("expected error for invalid font")
	}
}

func TestFallback(t *testing.T) {
	if adv := font.MeasureString(Fallback(), "ab"); adv.Round() != 14 {
		t.Errorf("fallback advance = %d, want 14", adv.Round())
	}
}
