package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"tiffinbill/internal/theme"
)

type swatchView struct {
	Name   string
	Style  template.CSS
	Active bool
}

type tierView struct {
	Name     string
	Swatches []swatchView
}

type themesView struct {
	Tiers   []tierView
	Current string
}

func (s *Server) themesViewData() themesView {
	current, _ := s.svc.Themes().Current()

	view := themesView{Current: current.Name}
	for i, tier := range theme.Tiers() {
		tv := tierView{Name: tier.Name}
		for _, t := range tier.Themes {
			tv.Swatches = append(tv.Swatches, swatchView{
				Name:   t.Name,
				Style:  template.CSS(theme.Swatch(t, i).CSS()),
				Active: t.Name == current.Name,
			})
		}
		view.Tiers = append(view.Tiers, tv)
	}
	return view
}

func (s *Server) handleApplyTheme(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	name := FormValue(r, "name")
	_, patch, err := s.svc.ApplyTheme(r.Context(), name)
	if err != nil {
		slog.WarnContext(r.Context(), "Theme apply rejected", "theme_name", name, "error", err)
		UnprocessableEntityError("Unknown theme").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerThemeChanged(patch.Background, patch.BackgroundColor, patch.Vars).
		Apply(w)
	s.renderThemes(w, r)
}

func (s *Server) handleThemesPartial(w http.ResponseWriter, r *http.Request) {
	s.renderThemes(w, r)
}

func (s *Server) renderThemes(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "theme_picker.html", s.themesViewData())
}
