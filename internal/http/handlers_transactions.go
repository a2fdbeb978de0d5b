package http

import (
	"net/http"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.txnService.Create(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// handleListTransactions returns transactions ordered by date. Without an
// end_date the range extends to the last day of the current month.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := queryEndDate(r, "end_date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	txns, err := s.engine.TransactionsInRange(r.Context(), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	t, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.txnService.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.txnService.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleCreatePlannedTransaction(w http.ResponseWriter, r *http.Request) {
	var pt core.PlannedTransaction
	if err := decodeJSON(r, &pt); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreatePlannedTransaction(r.Context(), pt)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "planned_transaction", created.ID, amqp.OpCreated)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListPlannedTransactions(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		respondError(w, r, err)
		return
	}
	end, err := queryEndDate(r, "end_date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	planned, err := s.store.ListPlannedTransactions(r.Context(), core.TransactionFilter{Start: start, End: end})
	if err != nil {
		respondError(w, r, err)
		return
	}
	if planned == nil {
		planned = []core.PlannedTransaction{}
	}
	respondJSON(w, http.StatusOK, planned)
}

func (s *Server) handleGetPlannedTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	pt, err := s.store.GetPlannedTransaction(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pt)
}

func (s *Server) handleUpdatePlannedTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.PlannedTransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdatePlannedTransaction(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "planned_transaction", id, amqp.OpUpdated)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePlannedTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeletePlannedTransaction(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "planned_transaction", id, amqp.OpDeleted)
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}
