package http

import (
	"net/http"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/core"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := decodeJSON(r, &b); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateBudget(r.Context(), b)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "budget", created.ID, amqp.OpCreated)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	respondJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	b, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.BudgetPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdateBudget(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "budget", id, amqp.OpUpdated)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteBudget(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "budget", id, amqp.OpDeleted)
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}
