package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/core"
	"wealthtracker/internal/ledger"
)

type totalBalanceResponse struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// handleTotalBalance sums every signed transaction amount up to end_date.
// Without the parameter the sum covers all transactions.
func (s *Server) handleTotalBalance(w http.ResponseWriter, r *http.Request) {
	end, err := queryEndDate(r, "end_date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	total, err := s.engine.TotalBalance(r.Context(), end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totalBalanceResponse{TotalBalance: total})
}

func (s *Server) handleTotalBalancePerAccount(w http.ResponseWriter, r *http.Request) {
	end, err := queryEndDate(r, "end_date")
	if err != nil {
		respondError(w, r, err)
		return
	}

	balances, err := s.engine.TotalBalancePerAccount(r.Context(), end)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if balances == nil {
		balances = []ledger.AccountBalance{}
	}
	respondJSON(w, http.StatusOK, balances)
}

type runningBalanceEntry struct {
	Transaction    core.Transaction `json:"transaction"`
	RunningBalance decimal.Decimal  `json:"running_balance"`
}

// handleRunningBalance returns each transaction in range paired with the
// cumulative balance of its account after that transaction.
func (s *Server) handleRunningBalance(w http.ResponseWriter, r *http.Request) {
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
	kinds, err := s.engine.CategoryKinds(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	running, err := ledger.RunningBalance(txns, kinds)
	if err != nil {
		respondError(w, r, err)
		return
	}

	entries := make([]runningBalanceEntry, len(txns))
	for i, t := range txns {
		entries[i] = runningBalanceEntry{Transaction: t, RunningBalance: running[i]}
	}
	respondJSON(w, http.StatusOK, entries)
}
