package http

import (
	"net/http"

	"wealthtracker/internal/core"
)

// Currencies and account types are the reference tables every account hangs
// off. Their list endpoints are served from a short-lived cache that every
// write invalidates.

const (
	currencyCacheKey    = "currencies"
	accountTypeCacheKey = "account_types"
)

func (s *Server) handleCreateCurrency(w http.ResponseWriter, r *http.Request) {
	var c core.Currency
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateCurrency(r.Context(), c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.currencyCache.Clear()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.currencyCache.Get(currencyCacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	currencies, err := s.store.ListCurrencies(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if currencies == nil {
		currencies = []core.Currency{}
	}
	s.currencyCache.Set(currencyCacheKey, currencies)
	respondJSON(w, http.StatusOK, currencies)
}

func (s *Server) handleGetCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c, err := s.store.GetCurrency(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.CurrencyPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdateCurrency(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.currencyCache.Clear()
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCurrency(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteCurrency(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.currencyCache.Clear()
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleCreateAccountType(w http.ResponseWriter, r *http.Request) {
	var at core.AccountType
	if err := decodeJSON(r, &at); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateAccountType(r.Context(), at)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.accountTypeCache.Clear()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListAccountTypes(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.accountTypeCache.Get(accountTypeCacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	types, err := s.store.ListAccountTypes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if types == nil {
		types = []core.AccountType{}
	}
	s.accountTypeCache.Set(accountTypeCacheKey, types)
	respondJSON(w, http.StatusOK, types)
}

func (s *Server) handleGetAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	at, err := s.store.GetAccountType(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, at)
}

func (s *Server) handleUpdateAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.AccountTypePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdateAccountType(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.accountTypeCache.Clear()
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccountType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteAccountType(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.accountTypeCache.Clear()
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}
