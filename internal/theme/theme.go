// Package theme holds the fixed palette catalog and derives the style
// state the presentation surface renders with. Applying a theme is pure
// and idempotent: the same theme always yields the same complete patch,
// so reapplying is safe.
package theme

import (
	"fmt"
	"sort"
	"sync"
)

type Kind string

const (
	KindColor    Kind = "color"
	KindGradient Kind = "gradient"
)

// Theme is an immutable named palette.
type Theme struct {
	Name       string
	Kind       Kind
	PageBg     string
	Primary    string
	TextDark   string
	TextMedium string
	TextLight  string
	Border     string
	HeaderBg   string
}

// StylePatch is the full visual state derived from one theme. Background
// and BackgroundColor are mutually exclusive so a stale fill never bleeds
// through: a gradient theme clears the solid color, a flat theme resets
// the gradient to "none".
type StylePatch struct {
	Background      string
	BackgroundColor string
	Vars            map[string]string
}

// SwatchStyle is the inline style of one picker swatch. Which fields are
// set depends only on the theme's tier, so swatches are deterministic.
type SwatchStyle struct {
	BackgroundColor string
	Background      string
	BackgroundImage string
	BorderColor     string
}

// Tier is one presentation group of the catalog.
type Tier struct {
	Name   string
	Themes []Theme
}

// Catalog returns the ordered theme table.
func Catalog() []Theme {
	return append([]Theme(nil), catalog...)
}

// Tiers returns the catalog split into its fixed presentation groups.
func Tiers() []Tier {
	tiers := make([]Tier, 0, len(tierNames))
	start := 0
	for i, name := range tierNames {
		end := start + tierSizes[i]
		tiers = append(tiers, Tier{Name: name, Themes: append([]Theme(nil), catalog[start:end]...)})
		start = end
	}
	return tiers
}

// ByName looks a theme up in the catalog.
func ByName(name string) (Theme, error) {
	for _, t := range catalog {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unknown theme %q", name)
}

// Default returns the catalog's first theme, active at startup.
func Default() Theme {
	return catalog[0]
}

// Derive maps a theme to the complete style patch for the surface.
func Derive(t Theme) StylePatch {
	p := StylePatch{
		Vars: map[string]string{
			"--primary-color":     t.Primary,
			"--text-color-dark":   t.TextDark,
			"--text-color-medium": t.TextMedium,
			"--text-color-light":  t.TextLight,
			"--border-color":      t.Border,
			"--header-bg-color":   t.HeaderBg,
		},
	}
	if t.Kind == KindGradient {
		p.Background = t.PageBg
	} else {
		p.Background = "none"
		p.BackgroundColor = t.PageBg
	}
	return p
}

// TierIndex returns which presentation tier the theme belongs to.
func TierIndex(t Theme) int {
	idx := 0
	for _, c := range catalog {
		if c.Name == t.Name {
			break
		}
		idx++
	}
	start := 0
	for tier, size := range tierSizes {
		if idx < start+size {
			return tier
		}
		start += size
	}
	return len(tierSizes) - 1
}

// Swatch derives the picker preview style for a theme in a given tier:
// tier 0 shows the accent as a solid fill, tier 1 the page background,
// tier 2 the background with an accent border, tier 3 a split
// background/accent gradient with the theme border.
func Swatch(t Theme, tier int) SwatchStyle {
	var s SwatchStyle
	switch tier {
	case 0:
		s.BackgroundColor = t.Primary
	case 1:
		s.BackgroundColor = t.PageBg
	case 2:
		if t.Kind == KindGradient {
			s.Background = t.PageBg
		} else {
			s.BackgroundColor = t.PageBg
		}
		s.BorderColor = t.Primary
	case 3:
		s.BackgroundImage = fmt.Sprintf("linear-gradient(to right, %s 50%%, %s 50%%)", t.PageBg, t.Primary)
		s.BorderColor = t.Border
	default:
		s.Background = t.PageBg
	}
	return s
}

// CSS renders the swatch as an inline style attribute value.
func (s SwatchStyle) CSS() string {
	props := map[string]string{}
	if s.BackgroundColor != "" {
		props["background-color"] = s.BackgroundColor
	}
	if s.Background != "" {
		props["background"] = s.Background
	}
	if s.BackgroundImage != "" {
		props["background-image"] = s.BackgroundImage
	}
	if s.BorderColor != "" {
		props["border-color"] = s.BorderColor
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + ":" + props[k] + ";"
	}
	return out
}

// Engine tracks the single active theme for the surface.
type Engine struct {
	mu      sync.Mutex
	current Theme
}

func NewEngine() *Engine {
	return &Engine{current: Default()}
}

// Apply activates a catalog theme by name and returns its style patch.
func (e *Engine) Apply(name string) (Theme, StylePatch, error) {
	t, err := ByName(name)
	if err != nil {
		return Theme{}, StylePatch{}, err
	}
	e.mu.Lock()
	e.current = t
	e.mu.Unlock()
	return t, Derive(t), nil
}

// Current returns the active theme and its derived patch.
func (e *Engine) Current() (Theme, StylePatch) {
	e.mu.Lock()
	t := e.current
	e.mu.Unlock()
	return t, Derive(t)
}
