package http

import (
	"net/http"

	"wealthtracker/internal/amqp"
	"wealthtracker/internal/core"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateCategory(r.Context(), c)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "category", created.ID, amqp.OpCreated)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	c, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdateCategory(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "category", id, amqp.OpUpdated)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "category", id, amqp.OpDeleted)
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleCreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var sc core.SubCategory
	if err := decodeJSON(r, &sc); err != nil {
		respondError(w, r, err)
		return
	}
	created, err := s.store.CreateSubCategory(r.Context(), sc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "subcategory", created.ID, amqp.OpCreated)
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSubCategories(w http.ResponseWriter, r *http.Request) {
	subcats, err := s.store.ListSubCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if subcats == nil {
		subcats = []core.SubCategory{}
	}
	respondJSON(w, http.StatusOK, subcats)
}

func (s *Server) handleGetSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	sc, err := s.store.GetSubCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sc)
}

func (s *Server) handleUpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var patch core.SubCategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	updated, err := s.store.UpdateSubCategory(r.Context(), id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "subcategory", id, amqp.OpUpdated)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.store.DeleteSubCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.notifier.EntityChanged(r.Context(), "subcategory", id, amqp.OpDeleted)
	respondJSON(w, http.StatusOK, okResponse{OK: true})
}
