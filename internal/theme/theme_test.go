package theme

import (
	"reflect"
	"strings"
	"testing"
)

func TestCatalogShape(t *testing.T) {
	if got := len(Catalog()); got != 17 {
		t.Fatalf("catalog has %d themes, want 17", got)
	}
	tiers := Tiers()
	if len(tiers) != 4 {
		t.Fatalf("got %d tiers, want 4", len(tiers))
	}
	wantSizes := []int{4, 4, 4, 5}
	for i, tier := range tiers {
		if len(tier.Themes) != wantSizes[i] {
			t.Errorf("tier %q has %d themes, want %d", tier.Name, len(tier.Themes), wantSizes[i])
		}
	}
}

func TestDeriveIsIdempotentAndExclusive(t *testing.T) {
	for _, th := range Catalog() {
		first := Derive(th)
		second := Derive(th)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("theme %q: repeated derivation differs", th.Name)
		}
		if len(first.Vars) != 6 {
			t.Errorf("theme %q: patch has %d vars, want 6", th.Name, len(first.Vars))
		}
		if th.Kind == KindGradient {
			if first.BackgroundColor != "" || first.Background == "" {
				t.Errorf("gradient theme %q must set only the gradient fill: %+v", th.Name, first)
			}
		} else {
			if first.Background != "none" || first.BackgroundColor == "" {
				t.Errorf("flat theme %q must reset the gradient and set a solid fill: %+v", th.Name, first)
			}
		}
	}
}

func TestSwatchPerTier(t *testing.T) {
	flat, err := ByName("blue")
	if err != nil {
		t.Fatal(err)
	}

	if s := Swatch(flat, 0); s.BackgroundColor != flat.Primary {
		t.Errorf("tier 0 swatch = %+v, want solid primary fill", s)
	}
	if s := Swatch(flat, 1); s.BackgroundColor != flat.PageBg {
		t.Errorf("tier 1 swatch = %+v, want page background fill", s)
	}
	if s := Swatch(flat, 2); s.BackgroundColor != flat.PageBg || s.BorderColor != flat.Primary {
		t.Errorf("tier 2 swatch = %+v, want background + accent border", s)
	}
	s := Swatch(flat, 3)
	if !strings.Contains(s.BackgroundImage, "linear-gradient") || s.BorderColor != flat.Border {
		t.Errorf("tier 3 swatch = %+v, want split gradient + theme border", s)
	}

	grad, err := ByName("graphite")
	if err != nil {
		t.Fatal(err)
	}
	if s := Swatch(grad, 2); s.Background != grad.PageBg || s.BackgroundColor != "" {
		t.Errorf("tier 2 gradient swatch = %+v, want gradient background", s)
	}
}

func TestTierIndexMatchesGrouping(t *testing.T) {
	tiers := Tiers()
	for tierIdx, tier := range tiers {
		for _, th := range tier.Themes {
			if got := TierIndex(th); got != tierIdx {
				t.Errorf("TierIndex(%q) = %d, want %d", th.Name, got, tierIdx)
			}
		}
	}
}

func TestEngineApply(t *testing.T) {
	e := NewEngine()
	cur, _ := e.Current()
	if cur.Name != "default" {
		t.Errorf("initial theme = %q, want default", cur.Name)
	}

	applied, patch, err := e.Apply("ocean")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied.Name != "ocean" || patch.BackgroundColor != applied.PageBg {
		t.Errorf("Apply returned %+v / %+v", applied, patch)
	}

	again, patchAgain, _ := e.Apply("ocean")
	if !reflect.DeepEqual(applied, again) || !reflect.DeepEqual(patch, patchAgain) {
		t.Error("reapplying the same theme changed the derived state")
	}

	if _, _, err := e.Apply("neon"); err == nil {
		t.Error("Apply of an unknown theme should fail")
	}
	cur, _ = e.Current()
	if cur.Name != "ocean" {
		t.Errorf("failed apply changed the active theme to %q", cur.Name)
	}
}
