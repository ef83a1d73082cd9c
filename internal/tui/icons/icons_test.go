// ABOUTME: Tests for icon selection
// ABOUTME: Verifies fallback rendering and asset class lookup

package icons

import (
	"testing"

	"github.com/markalston/grid-restore/models"
)

func TestIconFallback(t *testing.T) {
	SetNerdFonts(false)

	if got := CheckOK.String(); got != "✓" {
		t.Errorf("Expected ✓, got %q", got)
	}
	if got := Critical.String(); got != "✗" {
		t.Errorf("Expected ✗, got %q", got)
	}
}

func TestIconNerdFont(t *testing.T) {
	SetNerdFonts(true)
	defer SetNerdFonts(false)

	if got := CheckOK.String(); got != CheckOK.NerdFont {
		t.Errorf("Expected nerd font glyph, got %q", got)
	}
}

func TestForClass(t *testing.T) {
	for _, class := range models.RepairOrder {
		icon := ForClass(class)
		if icon.Fallback == "" || icon.NerdFont == "" {
			t.Errorf("Expected icon for %s", class)
		}
	}
	if got := ForClass(models.AssetClass(99)); got.Fallback != "?" {
		t.Errorf("Expected ? for unknown class, got %q", got.Fallback)
	}
}

func TestDetectNerdFontsOverride(t *testing.T) {
	t.Setenv("RESTORE_NERD_FONTS", "true")
	if !detectNerdFonts() {
		t.Error("Expected override to enable nerd fonts")
	}
	t.Setenv("RESTORE_NERD_FONTS", "0")
	if detectNerdFonts() {
		t.Error("Expected override to disable nerd fonts")
	}
}
