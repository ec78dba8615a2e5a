package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tiffinbill/internal/core"
)

type clientsView struct {
	Names   []string
	Current string
	IsSaved bool
}

func (s *Server) clientsViewData() clientsView {
	reg := s.svc.Registry()
	names := reg.Names()
	current := reg.Current()

	saved := false
	for _, n := range names {
		if n == current {
			saved = true
			break
		}
	}
	return clientsView{Names: names, Current: current, IsSaved: saved}
}

func (s *Server) handleAddClient(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	name, err := s.svc.AddClient(r.Context(), FormValue(r, "name"))
	switch {
	case errors.Is(err, core.ErrEmptyClientName):
		UnprocessableEntityError("Client name cannot be empty").Write(w)
		return
	case errors.Is(err, core.ErrDuplicateClient):
		// Adding an existing name just selects it.
		s.svc.SetBillTo(name)
	case err != nil:
		slog.ErrorContext(r.Context(), "Add client failed", "error", err)
		InternalServerError("Could not save the client").Write(w)
		return
	}

	NewHTMXResponse().TriggerClientsChanged().TriggerSuccessNotification("Client saved").Apply(w)
	s.renderClients(w, r)
}

func (s *Server) handleSaveClient(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	_, err := s.svc.SaveCurrentClient(r.Context())
	switch {
	case errors.Is(err, core.ErrEmptyClientName):
		UnprocessableEntityError("Type a client name first").Write(w)
		return
	case errors.Is(err, core.ErrDuplicateClient):
		// Already saved; nothing to do.
	case err != nil:
		slog.ErrorContext(r.Context(), "Save client failed", "error", err)
		InternalServerError("Could not save the client").Write(w)
		return
	}

	NewHTMXResponse().TriggerClientsChanged().TriggerSuccessNotification("Client saved").Apply(w)
	s.renderClients(w, r)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	name := FormValue(r, "name")
	confirmed := FormValue(r, "confirm") == "true"
	ctx := WithConfirmation(r.Context(), confirmed)

	removed, err := s.svc.DeleteClient(ctx, name)
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete client failed", "error", err, "client_name", name)
		InternalServerError("Could not delete the client").Write(w)
		return
	}

	resp := NewHTMXResponse().TriggerClientsChanged()
	if removed {
		resp.TriggerSuccessNotification("Client deleted")
	}
	resp.Apply(w)
	s.renderClients(w, r)
}

func (s *Server) handleSelectClient(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	s.svc.SetBillTo(FormValue(r, "name"))

	NewHTMXResponse().TriggerClientsChanged().Apply(w)
	s.renderClients(w, r)
}

func (s *Server) handleClientsPartial(w http.ResponseWriter, r *http.Request) {
	s.renderClients(w, r)
}

func (s *Server) renderClients(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "client_manager.html", s.clientsViewData())
}
