// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Status and asset class icons shared by reports, widgets and the wizard

package icons

import (
	"os"
	"strings"
	"sync"

	"github.com/markalston/grid-restore/models"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
	mu               sync.RWMutex
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("RESTORE_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	// Terminals that commonly ship with Nerd Fonts configured
	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"} {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		enabled := detectNerdFonts()
		mu.Lock()
		useNerdFonts = enabled
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return useNerdFonts
}

// SetNerdFonts overrides detection
func SetNerdFonts(enabled bool) {
	nerdFontDetected.Do(func() {})
	mu.Lock()
	useNerdFonts = enabled
	mu.Unlock()
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-fa-check_circle
	Warning  = Icon{"", "⚠"} // nf-fa-warning
	Critical = Icon{"", "✗"} // nf-fa-times_circle

	// Asset classes
	Tower        = Icon{"\U000f0d22", "╬"}
	Substation   = Icon{"\U000f140b", "▣"}
	Distribution = Icon{"\U000f06a5", "┬"}
	Solar        = Icon{"\U000f0a72", "☀"}
	Wind         = Icon{"\U000f15fa", "✣"}
)

var classIcons = [models.NumAssetClasses]Icon{
	models.Transmission: Tower,
	models.Substation:   Substation,
	models.Distribution: Distribution,
	models.Solar:        Solar,
	models.Wind:         Wind,
}

// ForClass returns the icon of an asset class
func ForClass(class models.AssetClass) Icon {
	if class < 0 || int(class) >= models.NumAssetClasses {
		return Icon{"?", "?"}
	}
	return classIcons[class]
}
