package http

import (
	"net/http"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/core"
)

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.Account
	if err := decodeJSON(r, &a); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateAccount(r.Context(), a)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "account", created.ID, amqp.OpCreated)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.AccountPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdateAccount(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "account", id, amqp.OpUpdated)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "account", id, amqp.OpDeleted)
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}
